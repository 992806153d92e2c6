package repository

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested item does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidDocument is returned when a response document cannot be parsed.
	ErrInvalidDocument = errors.New("invalid response document")
)

// APIError is a non-2xx answer of the repository.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("repository returned status %d", e.Status)
	}
	return fmt.Sprintf("repository returned status %d: %s", e.Status, e.Message)
}

// Client is the remote content repository. Every method is a blocking call
// and is run off the UI loop.
type Client interface {
	// CreateContent creates a content and its first draft. The response
	// document holds the created Content with its CurrentVersion.
	CreateContent(ctx context.Context, params CreateContentParams) (*Response, error)
	// SaveVersion stores fields on a draft of a known content, creating the
	// draft from the current version when params.VersionNo is 0. The
	// response document holds the stored Version.
	SaveVersion(ctx context.Context, params SaveVersionParams) (*Response, error)
	// LoadContents fetches a batch of contents by id, in the requested order.
	// Ids that do not exist are skipped.
	LoadContents(ctx context.Context, ids []int) ([]Content, error)
	LoadContent(ctx context.Context, id int) (*Content, error)
	LoadVersion(ctx context.Context, contentID, versionNo int) (*Version, error)
	LoadContentType(ctx context.Context, identifier string) (*ContentType, error)
	LoadLocation(ctx context.Context, id int) (*Location, error)
	// Search returns contents whose name matches query; an empty query lists
	// contents.
	Search(ctx context.Context, query string, limit int) ([]Content, error)
	Ping(ctx context.Context) error
}
