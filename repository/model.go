// Package repository models the content repository the editor talks to:
// contents, versions, content types and locations, and the Client boundary
// used for every remote call.
package repository

import (
	"encoding/json"
	"time"
)

// Content is a content item. A content that has never been stored has
// ID 0.
type Content struct {
	ID                    int       `json:"id"`
	RemoteID              string    `json:"remoteId,omitempty"`
	Name                  string    `json:"name"`
	ContentTypeIdentifier string    `json:"contentTypeIdentifier"`
	MainLanguageCode      string    `json:"mainLanguageCode,omitempty"`
	MainLocationID        int       `json:"mainLocationId,omitempty"`
	CurrentVersionNo      int       `json:"currentVersionNo,omitempty"`
	Published             bool      `json:"published"`
	Modified              time.Time `json:"modified,omitempty"`
}

// IsNew reports whether the content has not been created in the repository
// yet.
func (c *Content) IsNew() bool {
	return c == nil || c.ID == 0
}

// ContentID returns the numeric content id.
func (c Content) ContentID() int {
	return c.ID
}

// Field is a field of a version as stored in the repository. Value holds the
// raw JSON value so each field type can decode its own shape.
type Field struct {
	ID                        int             `json:"id,omitempty"`
	FieldDefinitionIdentifier string          `json:"fieldDefinitionIdentifier"`
	FieldTypeIdentifier       string          `json:"fieldTypeIdentifier,omitempty"`
	LanguageCode              string          `json:"languageCode,omitempty"`
	Value                     json.RawMessage `json:"fieldValue"`
}

// FieldInput is an outgoing field value submitted on save.
type FieldInput struct {
	FieldDefinitionIdentifier string `json:"fieldDefinitionIdentifier"`
	LanguageCode              string `json:"languageCode,omitempty"`
	Value                     any    `json:"fieldValue"`
}

// Version is one version of a content.
type Version struct {
	Href          string    `json:"href,omitempty"`
	ContentID     int       `json:"contentId"`
	VersionNo     int       `json:"versionNo"`
	Status        string    `json:"status"`
	LanguageCodes []string  `json:"languageCodes,omitempty"`
	Fields        []Field   `json:"fields"`
	Modified      time.Time `json:"modified,omitempty"`
}

// Version statuses.
const (
	VersionStatusDraft     = "DRAFT"
	VersionStatusPublished = "PUBLISHED"
	VersionStatusArchived  = "ARCHIVED"
)

// IsNew reports whether the version has not been created yet.
func (v *Version) IsNew() bool {
	return v == nil || v.VersionNo == 0
}

// Field returns the field with the given definition identifier.
func (v *Version) Field(identifier string) (Field, bool) {
	if v == nil {
		return Field{}, false
	}
	for _, f := range v.Fields {
		if f.FieldDefinitionIdentifier == identifier {
			return f, true
		}
	}
	return Field{}, false
}

// FieldDefinition describes one field of a content type.
type FieldDefinition struct {
	Identifier          string            `json:"identifier"`
	FieldTypeIdentifier string            `json:"fieldType"`
	Names               map[string]string `json:"names,omitempty"`
	IsRequired          bool              `json:"isRequired"`
	Position            int               `json:"position"`
}

// Name returns the definition name in languageCode, falling back to the
// identifier.
func (d FieldDefinition) Name(languageCode string) string {
	if n, ok := d.Names[languageCode]; ok && n != "" {
		return n
	}
	for _, n := range d.Names {
		if n != "" {
			return n
		}
	}
	return d.Identifier
}

// ContentType describes the fields of a family of contents.
type ContentType struct {
	ID               int               `json:"id"`
	Identifier       string            `json:"identifier"`
	Names            map[string]string `json:"names,omitempty"`
	FieldDefinitions []FieldDefinition `json:"fieldDefinitions"`
}

// Location places a content in the content tree.
type Location struct {
	ID         int    `json:"id"`
	ParentID   int    `json:"parentLocationId"`
	ContentID  int    `json:"contentId"`
	PathString string `json:"pathString"`
}

// CreateContentParams are the draft metadata used to create a content.
type CreateContentParams struct {
	LanguageCode   string
	ContentType    *ContentType
	ParentLocation *Location
	Fields         []FieldInput
}

// SaveVersionParams target a version of a known content.
type SaveVersionParams struct {
	ContentID    int
	VersionNo    int
	LanguageCode string
	Fields       []FieldInput
}

// Response is a raw repository response document.
type Response struct {
	Status   int
	Document []byte
}
