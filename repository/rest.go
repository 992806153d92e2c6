package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"draftui/config"
)

const (
	mediaPrefix = "application/vnd.ez.api."
	// DefaultTimeout bounds every REST call.
	DefaultTimeout = 30 * time.Second
)

// RESTClient talks to a content repository REST API.
type RESTClient struct {
	baseURL  string
	username string
	password string
	http     *http.Client
}

// NewRESTClient creates a client for the API rooted at baseURL.
func NewRESTClient(baseURL, username, password string) (*RESTClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid repository URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid repository URL %q: scheme must be http or https", baseURL)
	}

	return &RESTClient{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		username: username,
		password: password,
		http:     &http.Client{Timeout: DefaultTimeout},
	}, nil
}

type request struct {
	method   string
	path     string
	body     any
	bodyType string
	accept   string
	override string
}

func (c *RESTClient) do(ctx context.Context, r request) (*Response, error) {
	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if r.accept != "" {
		req.Header.Set("Accept", mediaPrefix+r.accept+"+json")
	}
	if r.bodyType != "" {
		req.Header.Set("Content-Type", mediaPrefix+r.bodyType+"+json")
	}
	if r.override != "" {
		req.Header.Set("X-HTTP-Method-Override", r.override)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	if config.DebugLog != nil {
		config.DebugLog.Debug().Str("component", "RESTClient").Str("method", r.method).
			Str("path", r.path).Str("override", r.override).Msg("request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach repository: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s %s: %w", r.method, r.path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: gjson.GetBytes(data, "ErrorMessage.errorDescription").String(),
		}
	}

	return &Response{Status: resp.StatusCode, Document: data}, nil
}

// CreateContent posts a ContentCreate struct.
func (c *RESTClient) CreateContent(ctx context.Context, params CreateContentParams) (*Response, error) {
	if params.ContentType == nil || params.ParentLocation == nil {
		return nil, fmt.Errorf("content type and parent location are required")
	}

	fields := make([]FieldInput, 0, len(params.Fields))
	for _, f := range params.Fields {
		if f.LanguageCode == "" {
			f.LanguageCode = params.LanguageCode
		}
		fields = append(fields, f)
	}

	body := map[string]any{
		"ContentCreate": map[string]any{
			"ContentType":      map[string]string{"_href": fmt.Sprintf("%s/content/types/%d", apiRoot, params.ContentType.ID)},
			"mainLanguageCode": params.LanguageCode,
			"LocationCreate": map[string]any{
				"ParentLocation": map[string]string{"_href": fmt.Sprintf("%s/content/locations%s", apiRoot, params.ParentLocation.PathString)},
				"sortField":      "PATH",
				"sortOrder":      "ASC",
			},
			"alwaysAvailable": true,
			"fields":          map[string]any{"field": fields},
		},
	}

	return c.do(ctx, request{
		method:   http.MethodPost,
		path:     apiRoot + "/content/objects",
		body:     body,
		bodyType: "ContentCreate",
		accept:   "Content",
	})
}

// SaveVersion updates the fields of a draft, creating the draft from the
// current version first when needed.
func (c *RESTClient) SaveVersion(ctx context.Context, params SaveVersionParams) (*Response, error) {
	versionNo := params.VersionNo
	if versionNo == 0 {
		resp, err := c.do(ctx, request{
			method:   http.MethodPost,
			path:     fmt.Sprintf("%s/content/objects/%d/currentversion", apiRoot, params.ContentID),
			override: "COPY",
			accept:   "Version",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create draft: %w", err)
		}
		draft, err := ParseVersion(resp.Document)
		if err != nil {
			return nil, err
		}
		versionNo = draft.VersionNo
	}

	fields := make([]FieldInput, 0, len(params.Fields))
	for _, f := range params.Fields {
		if f.LanguageCode == "" {
			f.LanguageCode = params.LanguageCode
		}
		fields = append(fields, f)
	}

	return c.do(ctx, request{
		method:   http.MethodPost,
		path:     VersionHref(params.ContentID, versionNo),
		override: "PATCH",
		body: map[string]any{
			"VersionUpdate": map[string]any{
				"initialLanguageCode": params.LanguageCode,
				"fields":              map[string]any{"field": fields},
			},
		},
		bodyType: "VersionUpdate",
		accept:   "Version",
	})
}

// LoadContents runs a content id query and returns the hits in the
// requested order.
func (c *RESTClient) LoadContents(ctx context.Context, ids []int) ([]Content, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = strconv.Itoa(id)
	}

	found, err := c.query(ctx, "relations", map[string]any{
		"ContentIdCriterion": strings.Join(idStrings, ","),
	}, len(ids))
	if err != nil {
		return nil, err
	}

	byID := make(map[int]Content, len(found))
	for _, content := range found {
		byID[content.ID] = content
	}
	out := make([]Content, 0, len(ids))
	for _, id := range ids {
		if content, ok := byID[id]; ok {
			out = append(out, content)
		}
	}
	return out, nil
}

// Search runs a full text query, or lists the content tree when query is
// empty.
func (c *RESTClient) Search(ctx context.Context, query string, limit int) ([]Content, error) {
	criteria := map[string]any{"SubtreeCriterion": "/1/"}
	if query != "" {
		criteria = map[string]any{"FullTextCriterion": query}
	}
	return c.query(ctx, "discovery", criteria, limit)
}

func (c *RESTClient) query(ctx context.Context, identifier string, criteria map[string]any, limit int) ([]Content, error) {
	resp, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   apiRoot + "/views",
		body: map[string]any{
			"ViewInput": map[string]any{
				"identifier": identifier,
				"public":     false,
				"ContentQuery": map[string]any{
					"Criteria": criteria,
					"limit":    limit,
					"offset":   0,
				},
			},
		},
		bodyType: "ViewInput",
		accept:   "View",
	})
	if err != nil {
		return nil, err
	}
	return ParseSearchResult(resp.Document)
}

func (c *RESTClient) LoadContent(ctx context.Context, id int) (*Content, error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, path: ContentHref(id), accept: "ContentInfo"})
	if err != nil {
		return nil, err
	}
	return ParseContent(resp.Document)
}

func (c *RESTClient) LoadVersion(ctx context.Context, contentID, versionNo int) (*Version, error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, path: VersionHref(contentID, versionNo), accept: "Version"})
	if err != nil {
		return nil, err
	}
	return ParseVersion(resp.Document)
}

func (c *RESTClient) LoadContentType(ctx context.Context, identifier string) (*ContentType, error) {
	resp, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   apiRoot + "/content/types?identifier=" + url.QueryEscape(identifier),
		accept: "ContentTypeInfoList",
	})
	if err != nil {
		return nil, err
	}
	info := gjson.GetBytes(resp.Document, "ContentTypeInfoList.ContentType.0")
	if !info.Exists() {
		return nil, fmt.Errorf("content type %q: %w", identifier, ErrNotFound)
	}
	ct := &ContentType{
		ID:         int(info.Get("id").Int()),
		Identifier: info.Get("identifier").String(),
		Names:      parseNames(info.Get("names.value")),
	}

	resp, err = c.do(ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("%s/content/types/%d/fieldDefinitions", apiRoot, ct.ID),
		accept: "FieldDefinitionList",
	})
	if err != nil {
		return nil, err
	}
	gjson.GetBytes(resp.Document, "FieldDefinitions.FieldDefinition").ForEach(func(_, d gjson.Result) bool {
		ct.FieldDefinitions = append(ct.FieldDefinitions, FieldDefinition{
			Identifier:          d.Get("identifier").String(),
			FieldTypeIdentifier: d.Get("fieldType").String(),
			IsRequired:          d.Get("isRequired").Bool(),
			Position:            int(d.Get("position").Int()),
			Names:               parseNames(d.Get("names.value")),
		})
		return true
	})
	return ct, nil
}

func parseNames(values gjson.Result) map[string]string {
	names := make(map[string]string)
	values.ForEach(func(_, v gjson.Result) bool {
		names[v.Get("_languageCode").String()] = v.Get("#text").String()
		return true
	})
	return names
}

func (c *RESTClient) LoadLocation(ctx context.Context, id int) (*Location, error) {
	resp, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("%s/content/locations?id=%d", apiRoot, id),
		accept: "Location",
	})
	if err != nil {
		return nil, err
	}
	r := gjson.GetBytes(resp.Document, "Location")
	if !r.Exists() {
		return nil, fmt.Errorf("%w: missing Location", ErrInvalidDocument)
	}
	return &Location{
		ID:         int(r.Get("id").Int()),
		PathString: r.Get("pathString").String(),
		ParentID:   locationHrefID(r.Get("ParentLocation._href").String()),
		ContentID:  hrefID(r.Get("Content._href").String()),
	}, nil
}

func locationHrefID(href string) int {
	parts := strings.Split(strings.TrimSuffix(href, "/"), "/")
	if len(parts) == 0 {
		return 0
	}
	id, _ := strconv.Atoi(parts[len(parts)-1])
	return id
}

// Ping checks the API root answers.
func (c *RESTClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, request{method: http.MethodGet, path: apiRoot + "/", accept: "Root"})
	return err
}
