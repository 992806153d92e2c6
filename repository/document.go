package repository

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const apiRoot = "/api/ezp/v2"

// ContentHref returns the REST href of a content.
func ContentHref(id int) string {
	return fmt.Sprintf("%s/content/objects/%d", apiRoot, id)
}

// VersionHref returns the REST href of a version.
func VersionHref(contentID, versionNo int) string {
	return fmt.Sprintf("%s/versions/%d", ContentHref(contentID), versionNo)
}

type idRef struct {
	ID         int    `json:"_id,omitempty"`
	Href       string `json:"_href,omitempty"`
	Identifier string `json:"_identifier,omitempty"`
}

type fieldList struct {
	Field []Field `json:"field"`
}

type versionInfoDoc struct {
	VersionNo        int    `json:"versionNo"`
	Status           string `json:"status"`
	LanguageCodes    string `json:"languageCodes"`
	ModificationDate string `json:"modificationDate,omitempty"`
	Content          idRef  `json:"Content"`
}

type versionDoc struct {
	Href        string         `json:"_href"`
	VersionInfo versionInfoDoc `json:"VersionInfo"`
	Fields      fieldList      `json:"Fields"`
}

type contentDoc struct {
	ID               int    `json:"_id"`
	Href             string `json:"_href"`
	RemoteID         string `json:"_remoteId,omitempty"`
	Name             string `json:"Name"`
	ContentType      idRef  `json:"ContentType"`
	MainLanguageCode string `json:"mainLanguageCode,omitempty"`
	MainLocation     idRef  `json:"MainLocation"`
	CurrentVersionNo int    `json:"currentVersionNo"`
	Published        bool   `json:"published"`
	LastModified     string `json:"lastModificationDate,omitempty"`
	CurrentVersion   *struct {
		Version versionDoc `json:"Version"`
	} `json:"CurrentVersion,omitempty"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func toVersionDoc(v Version) versionDoc {
	fields := v.Fields
	if fields == nil {
		fields = []Field{}
	}
	return versionDoc{
		Href: VersionHref(v.ContentID, v.VersionNo),
		VersionInfo: versionInfoDoc{
			VersionNo:        v.VersionNo,
			Status:           v.Status,
			LanguageCodes:    strings.Join(v.LanguageCodes, ","),
			ModificationDate: formatTime(v.Modified),
			Content:          idRef{Href: ContentHref(v.ContentID)},
		},
		Fields: fieldList{Field: fields},
	}
}

func toContentDoc(c Content) contentDoc {
	return contentDoc{
		ID:               c.ID,
		Href:             ContentHref(c.ID),
		RemoteID:         c.RemoteID,
		Name:             c.Name,
		ContentType:      idRef{Identifier: c.ContentTypeIdentifier},
		MainLanguageCode: c.MainLanguageCode,
		MainLocation:     idRef{ID: c.MainLocationID},
		CurrentVersionNo: c.CurrentVersionNo,
		Published:        c.Published,
		LastModified:     formatTime(c.Modified),
	}
}

// ContentDocument renders a content, and its current version when given, as
// a repository document.
func ContentDocument(c Content, current *Version) ([]byte, error) {
	doc := toContentDoc(c)
	if current != nil {
		doc.CurrentVersion = &struct {
			Version versionDoc `json:"Version"`
		}{Version: toVersionDoc(*current)}
	}
	return json.Marshal(map[string]contentDoc{"Content": doc})
}

// VersionDocument renders a version as a repository document.
func VersionDocument(v Version) ([]byte, error) {
	return json.Marshal(map[string]versionDoc{"Version": toVersionDoc(v)})
}

// ParseContent reads the Content of a content document.
func ParseContent(doc []byte) (*Content, error) {
	r := gjson.GetBytes(doc, "Content")
	if !r.Exists() {
		return nil, fmt.Errorf("%w: missing Content", ErrInvalidDocument)
	}
	return contentFromResult(r), nil
}

func contentFromResult(r gjson.Result) *Content {
	c := &Content{
		ID:                    int(r.Get("_id").Int()),
		RemoteID:              r.Get("_remoteId").String(),
		Name:                  r.Get("Name").String(),
		ContentTypeIdentifier: r.Get("ContentType._identifier").String(),
		MainLanguageCode:      r.Get("mainLanguageCode").String(),
		MainLocationID:        int(r.Get("MainLocation._id").Int()),
		CurrentVersionNo:      int(r.Get("currentVersionNo").Int()),
		Published:             r.Get("published").Bool(),
	}
	if c.ID == 0 {
		c.ID = hrefID(r.Get("_href").String())
	}
	if t, err := time.Parse(time.RFC3339, r.Get("lastModificationDate").String()); err == nil {
		c.Modified = t
	}
	return c
}

// ParseVersion reads a version document: {"Version": {...}}.
func ParseVersion(doc []byte) (*Version, error) {
	v := &Version{}
	if err := v.Parse(doc); err != nil {
		return nil, err
	}
	return v, nil
}

// Parse replaces v with the version held by a {"Version": {...}} document.
func (v *Version) Parse(doc []byte) error {
	r := gjson.GetBytes(doc, "Version")
	if !r.Exists() {
		return fmt.Errorf("%w: missing Version", ErrInvalidDocument)
	}
	info := r.Get("VersionInfo")

	parsed := Version{
		Href:      r.Get("_href").String(),
		ContentID: hrefID(info.Get("Content._href").String()),
		VersionNo: int(info.Get("versionNo").Int()),
		Status:    info.Get("status").String(),
	}
	if langs := info.Get("languageCodes").String(); langs != "" {
		parsed.LanguageCodes = strings.Split(langs, ",")
	}
	if t, err := time.Parse(time.RFC3339, info.Get("modificationDate").String()); err == nil {
		parsed.Modified = t
	}
	r.Get("Fields.field").ForEach(func(_, f gjson.Result) bool {
		field := Field{
			ID:                        int(f.Get("id").Int()),
			FieldDefinitionIdentifier: f.Get("fieldDefinitionIdentifier").String(),
			FieldTypeIdentifier:       f.Get("fieldTypeIdentifier").String(),
			LanguageCode:              f.Get("languageCode").String(),
		}
		if raw := f.Get("fieldValue").Raw; raw != "" {
			field.Value = json.RawMessage(raw)
		}
		parsed.Fields = append(parsed.Fields, field)
		return true
	})

	*v = parsed
	return nil
}

// CurrentVersionDocument extracts the current version of a content document
// as a {"Version": {...}} document.
func CurrentVersionDocument(doc []byte) ([]byte, error) {
	r := gjson.GetBytes(doc, "Content.CurrentVersion")
	if !r.Exists() {
		return nil, fmt.Errorf("%w: missing Content.CurrentVersion", ErrInvalidDocument)
	}
	return []byte(r.Raw), nil
}

// ParseSearchResult reads the contents of a view (search) document.
func ParseSearchResult(doc []byte) ([]Content, error) {
	r := gjson.GetBytes(doc, "View.Result")
	if !r.Exists() {
		return nil, fmt.Errorf("%w: missing View.Result", ErrInvalidDocument)
	}
	var out []Content
	r.Get("searchHits.searchHit").ForEach(func(_, hit gjson.Result) bool {
		if c := hit.Get("value.Content"); c.Exists() {
			out = append(out, *contentFromResult(c))
		}
		return true
	})
	return out, nil
}

// SearchResultDocument renders contents as a view (search) document.
func SearchResultDocument(contents []Content) ([]byte, error) {
	type hit struct {
		Value struct {
			Content contentDoc `json:"Content"`
		} `json:"value"`
	}
	hits := make([]hit, 0, len(contents))
	for _, c := range contents {
		var h hit
		h.Value.Content = toContentDoc(c)
		hits = append(hits, h)
	}
	doc := map[string]any{
		"View": map[string]any{
			"Result": map[string]any{
				"count":      len(contents),
				"searchHits": map[string]any{"searchHit": hits},
			},
		},
	}
	return json.Marshal(doc)
}

func hrefID(href string) int {
	if href == "" {
		return 0
	}
	parts := strings.Split(strings.TrimSuffix(href, "/"), "/")
	// .../objects/42 or .../objects/42/versions/3
	for i := len(parts) - 1; i > 0; i-- {
		if parts[i-1] == "objects" {
			id, err := strconv.Atoi(parts[i])
			if err != nil {
				return 0
			}
			return id
		}
	}
	return 0
}
