package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestContentDocumentRoundTrip(t *testing.T) {
	content := Content{ID: 57, Name: "Home", ContentTypeIdentifier: "folder", MainLanguageCode: "eng-GB", CurrentVersionNo: 2, Published: true}
	version := Version{
		ContentID:     57,
		VersionNo:     3,
		Status:        VersionStatusDraft,
		LanguageCodes: []string{"eng-GB"},
		Fields: []Field{
			{ID: 1, FieldDefinitionIdentifier: "title", FieldTypeIdentifier: "ezstring", LanguageCode: "eng-GB", Value: json.RawMessage(`"Home"`)},
		},
	}

	doc, err := ContentDocument(content, &version)
	require.NoError(t, err)

	parsed, err := ParseContent(doc)
	require.NoError(t, err)
	assert.Equal(t, 57, parsed.ID)
	assert.Equal(t, "folder", parsed.ContentTypeIdentifier)
	assert.True(t, parsed.Published)

	versionDoc, err := CurrentVersionDocument(doc)
	require.NoError(t, err)
	v, err := ParseVersion(versionDoc)
	require.NoError(t, err)
	assert.Equal(t, 57, v.ContentID)
	assert.Equal(t, 3, v.VersionNo)
	assert.Equal(t, []string{"eng-GB"}, v.LanguageCodes)

	field, ok := v.Field("title")
	require.True(t, ok)
	assert.JSONEq(t, `"Home"`, string(field.Value))
}

func TestParseErrors(t *testing.T) {
	_, err := ParseContent([]byte(`{}`))
	assert.ErrorIs(t, err, ErrInvalidDocument)

	_, err = ParseVersion([]byte(`{"Content": {}}`))
	assert.ErrorIs(t, err, ErrInvalidDocument)

	_, err = CurrentVersionDocument([]byte(`{"Content": {"_id": 1}}`))
	assert.ErrorIs(t, err, ErrInvalidDocument)

	_, err = ParseSearchResult([]byte(`{}`))
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestParseVersionWithoutFieldValue(t *testing.T) {
	v, err := ParseVersion([]byte(`{"Version": {"VersionInfo": {"versionNo": 1}, "Fields": {"field": [{"fieldDefinitionIdentifier": "body"}]}}}`))
	require.NoError(t, err)
	require.Len(t, v.Fields, 1)
	assert.Nil(t, v.Fields[0].Value)
}

func TestHrefID(t *testing.T) {
	tests := []struct {
		href string
		want int
	}{
		{"/api/ezp/v2/content/objects/42", 42},
		{"/api/ezp/v2/content/objects/42/versions/3", 42},
		{"/api/ezp/v2/content/objects/", 0},
		{"", 0},
		{"/api/ezp/v2/content/objects/abc", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, hrefID(tt.href), tt.href)
	}
}

func TestSearchResultDocument(t *testing.T) {
	doc, err := SearchResultDocument([]Content{{ID: 42, Name: "A"}, {ID: 77, Name: "B"}})
	require.NoError(t, err)

	contents, err := ParseSearchResult(doc)
	require.NoError(t, err)
	require.Len(t, contents, 2)
	assert.Equal(t, "A", contents[0].Name)
	assert.Equal(t, 77, contents[1].ID)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *RESTClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewRESTClient(server.URL, "admin", "publish")
	require.NoError(t, err)
	return client
}

func TestNewRESTClientRejectsBadURL(t *testing.T) {
	_, err := NewRESTClient("ftp://cms", "", "")
	assert.Error(t, err)
}

func TestRESTLoadContentsKeepsRequestedOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/ezp/v2/views", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "admin", user)
		assert.Equal(t, "publish", pass)

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "77,42,9", gjson.GetBytes(body, "ViewInput.ContentQuery.Criteria.ContentIdCriterion").String())

		// the server answers in its own order and without the missing id
		doc, _ := SearchResultDocument([]Content{{ID: 42, Name: "A"}, {ID: 77, Name: "B"}})
		w.Write(doc)
	})

	contents, err := client.LoadContents(context.Background(), []int{77, 42, 9})
	require.NoError(t, err)
	require.Len(t, contents, 2)
	assert.Equal(t, 77, contents[0].ID)
	assert.Equal(t, 42, contents[1].ID)
}

func TestRESTLoadContentsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	contents, err := client.LoadContents(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, contents)
}

func TestRESTSaveVersionCreatesDraft(t *testing.T) {
	var calls []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Header.Get("X-HTTP-Method-Override")+" "+r.URL.Path)
		switch r.Header.Get("X-HTTP-Method-Override") {
		case "COPY":
			doc, _ := VersionDocument(Version{ContentID: 57, VersionNo: 4, Status: VersionStatusDraft})
			w.WriteHeader(http.StatusCreated)
			w.Write(doc)
		case "PATCH":
			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, "eng-GB", gjson.GetBytes(body, "VersionUpdate.fields.field.0.languageCode").String())
			doc, _ := VersionDocument(Version{ContentID: 57, VersionNo: 4, Status: VersionStatusDraft})
			w.Write(doc)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	resp, err := client.SaveVersion(context.Background(), SaveVersionParams{
		ContentID:    57,
		LanguageCode: "eng-GB",
		Fields:       []FieldInput{{FieldDefinitionIdentifier: "title", Value: "Home"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"COPY /api/ezp/v2/content/objects/57/currentversion",
		"PATCH /api/ezp/v2/content/objects/57/versions/4",
	}, calls)

	v, err := ParseVersion(resp.Document)
	require.NoError(t, err)
	assert.Equal(t, 4, v.VersionNo)
}

func TestRESTSaveVersionExistingDraft(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "PATCH", r.Header.Get("X-HTTP-Method-Override"))
		assert.Equal(t, "/api/ezp/v2/content/objects/57/versions/2", r.URL.Path)
		doc, _ := VersionDocument(Version{ContentID: 57, VersionNo: 2})
		w.Write(doc)
	})

	_, err := client.SaveVersion(context.Background(), SaveVersionParams{ContentID: 57, VersionNo: 2, LanguageCode: "eng-GB"})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRESTCreateContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ezp/v2/content/objects", r.URL.Path)
		assert.Equal(t, "application/vnd.ez.api.ContentCreate+json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "/api/ezp/v2/content/types/16", gjson.GetBytes(body, "ContentCreate.ContentType._href").String())
		assert.Equal(t, "/api/ezp/v2/content/locations/1/2/", gjson.GetBytes(body, "ContentCreate.LocationCreate.ParentLocation._href").String())

		doc, _ := ContentDocument(Content{ID: 90, Name: "New"}, &Version{ContentID: 90, VersionNo: 1})
		w.WriteHeader(http.StatusCreated)
		w.Write(doc)
	})

	resp, err := client.CreateContent(context.Background(), CreateContentParams{
		LanguageCode:   "eng-GB",
		ContentType:    &ContentType{ID: 16, Identifier: "article"},
		ParentLocation: &Location{ID: 2, PathString: "/1/2/"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Status)

	c, err := ParseContent(resp.Document)
	require.NoError(t, err)
	assert.Equal(t, 90, c.ID)
}

func TestRESTCreateContentRequiresMetadata(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.CreateContent(context.Background(), CreateContentParams{LanguageCode: "eng-GB"})
	assert.Error(t, err)
}

func TestRESTErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{"not found", http.StatusNotFound, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrNotFound)
		}},
		{"unauthorized", http.StatusUnauthorized, func(t *testing.T, err error) {
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
			assert.Equal(t, "bad credentials", apiErr.Message)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"ErrorMessage": {"errorDescription": "bad credentials"}}`))
			})
			_, err := client.LoadContent(context.Background(), 1)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestRESTLoadContentType(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/ezp/v2/content/types":
			assert.Equal(t, "article", r.URL.Query().Get("identifier"))
			w.Write([]byte(`{"ContentTypeInfoList": {"ContentType": [{"id": 16, "identifier": "article", "names": {"value": [{"_languageCode": "eng-GB", "#text": "Article"}]}}]}}`))
		case "/api/ezp/v2/content/types/16/fieldDefinitions":
			w.Write([]byte(`{"FieldDefinitions": {"FieldDefinition": [
				{"identifier": "title", "fieldType": "ezstring", "isRequired": true, "position": 1, "names": {"value": [{"_languageCode": "eng-GB", "#text": "Title"}]}},
				{"identifier": "related", "fieldType": "ezobjectrelationlist", "position": 2}
			]}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ct, err := client.LoadContentType(context.Background(), "article")
	require.NoError(t, err)
	assert.Equal(t, 16, ct.ID)
	assert.Equal(t, "Article", ct.Names["eng-GB"])
	require.Len(t, ct.FieldDefinitions, 2)
	assert.True(t, ct.FieldDefinitions[0].IsRequired)
	assert.Equal(t, "Title", ct.FieldDefinitions[0].Name("eng-GB"))
	assert.Equal(t, "ezobjectrelationlist", ct.FieldDefinitions[1].FieldTypeIdentifier)
	assert.Equal(t, "related", ct.FieldDefinitions[1].Name("eng-GB"))
}

func TestRESTLoadLocation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Location": {"id": 2, "pathString": "/1/2/", "ParentLocation": {"_href": "/api/ezp/v2/content/locations/1"}, "Content": {"_href": "/api/ezp/v2/content/objects/57"}}}`))
	})

	loc, err := client.LoadLocation(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, Location{ID: 2, ParentID: 1, ContentID: 57, PathString: "/1/2/"}, *loc)
}
