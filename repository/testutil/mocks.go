package testutil

import (
	"context"
	"sync"

	"draftui/repository"
)

// MockClient implements repository.Client for testing
type MockClient struct {
	// Configurable responses
	CreateContentFunc   func(ctx context.Context, params repository.CreateContentParams) (*repository.Response, error)
	SaveVersionFunc     func(ctx context.Context, params repository.SaveVersionParams) (*repository.Response, error)
	LoadContentsFunc    func(ctx context.Context, ids []int) ([]repository.Content, error)
	LoadContentFunc     func(ctx context.Context, id int) (*repository.Content, error)
	LoadVersionFunc     func(ctx context.Context, contentID, versionNo int) (*repository.Version, error)
	LoadContentTypeFunc func(ctx context.Context, identifier string) (*repository.ContentType, error)
	LoadLocationFunc    func(ctx context.Context, id int) (*repository.Location, error)
	SearchFunc          func(ctx context.Context, query string, limit int) ([]repository.Content, error)
	PingFunc            func(ctx context.Context) error

	mu    sync.Mutex
	calls []string
}

// NewMockClient creates a mock client serving the given contents. Creation
// and saving echo the request back as a successful response.
func NewMockClient(contents ...repository.Content) *MockClient {
	mock := &MockClient{}
	mock.CreateContentFunc = func(ctx context.Context, params repository.CreateContentParams) (*repository.Response, error) {
		return CreatedContentResponse(90, 1)
	}
	mock.SaveVersionFunc = func(ctx context.Context, params repository.SaveVersionParams) (*repository.Response, error) {
		versionNo := params.VersionNo
		if versionNo == 0 {
			versionNo = 2
		}
		return VersionResponse(params.ContentID, versionNo)
	}
	mock.LoadContentsFunc = func(ctx context.Context, ids []int) ([]repository.Content, error) {
		var out []repository.Content
		for _, id := range ids {
			for _, c := range contents {
				if c.ID == id {
					out = append(out, c)
				}
			}
		}
		return out, nil
	}
	mock.LoadContentFunc = func(ctx context.Context, id int) (*repository.Content, error) {
		for _, c := range contents {
			if c.ID == id {
				c := c
				return &c, nil
			}
		}
		return nil, repository.ErrNotFound
	}
	mock.LoadVersionFunc = func(ctx context.Context, contentID, versionNo int) (*repository.Version, error) {
		return &repository.Version{ContentID: contentID, VersionNo: versionNo, Status: repository.VersionStatusDraft}, nil
	}
	mock.LoadContentTypeFunc = func(ctx context.Context, identifier string) (*repository.ContentType, error) {
		ct := ArticleType()
		return &ct, nil
	}
	mock.LoadLocationFunc = func(ctx context.Context, id int) (*repository.Location, error) {
		return &repository.Location{ID: id, ParentID: 1, PathString: "/1/2/"}, nil
	}
	mock.SearchFunc = func(ctx context.Context, query string, limit int) ([]repository.Content, error) {
		return contents, nil
	}
	mock.PingFunc = func(ctx context.Context) error {
		return nil
	}
	return mock
}

func (m *MockClient) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

// Calls returns the names of the methods called so far, in order.
func (m *MockClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockClient) CreateContent(ctx context.Context, params repository.CreateContentParams) (*repository.Response, error) {
	m.record("CreateContent")
	return m.CreateContentFunc(ctx, params)
}

func (m *MockClient) SaveVersion(ctx context.Context, params repository.SaveVersionParams) (*repository.Response, error) {
	m.record("SaveVersion")
	return m.SaveVersionFunc(ctx, params)
}

func (m *MockClient) LoadContents(ctx context.Context, ids []int) ([]repository.Content, error) {
	m.record("LoadContents")
	return m.LoadContentsFunc(ctx, ids)
}

func (m *MockClient) LoadContent(ctx context.Context, id int) (*repository.Content, error) {
	m.record("LoadContent")
	return m.LoadContentFunc(ctx, id)
}

func (m *MockClient) LoadVersion(ctx context.Context, contentID, versionNo int) (*repository.Version, error) {
	m.record("LoadVersion")
	return m.LoadVersionFunc(ctx, contentID, versionNo)
}

func (m *MockClient) LoadContentType(ctx context.Context, identifier string) (*repository.ContentType, error) {
	m.record("LoadContentType")
	return m.LoadContentTypeFunc(ctx, identifier)
}

func (m *MockClient) LoadLocation(ctx context.Context, id int) (*repository.Location, error) {
	m.record("LoadLocation")
	return m.LoadLocationFunc(ctx, id)
}

func (m *MockClient) Search(ctx context.Context, query string, limit int) ([]repository.Content, error) {
	m.record("Search")
	return m.SearchFunc(ctx, query, limit)
}

func (m *MockClient) Ping(ctx context.Context) error {
	m.record("Ping")
	return m.PingFunc(ctx)
}
