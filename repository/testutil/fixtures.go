// Package testutil provides repository fakes and fixtures shared by tests.
package testutil

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"draftui/dom"
	"draftui/repository"
	"draftui/view"
)

// Contents returns sample contents with the given ids.
func Contents(ids ...int) []repository.Content {
	out := make([]repository.Content, len(ids))
	for i, id := range ids {
		out[i] = repository.Content{
			ID:                    id,
			Name:                  "Content " + strconv.Itoa(id),
			ContentTypeIdentifier: "article",
			MainLanguageCode:      "eng-GB",
			Published:             true,
		}
	}
	return out
}

// ArticleType returns a content type with a required title and a required
// relation list.
func ArticleType() repository.ContentType {
	return repository.ContentType{
		ID:         16,
		Identifier: "article",
		Names:      map[string]string{"eng-GB": "Article"},
		FieldDefinitions: []repository.FieldDefinition{
			{Identifier: "title", FieldTypeIdentifier: "ezstring", IsRequired: true, Position: 1, Names: map[string]string{"eng-GB": "Title"}},
			{Identifier: "related", FieldTypeIdentifier: "ezobjectrelationlist", IsRequired: true, Position: 2, Names: map[string]string{"eng-GB": "Related"}},
		},
	}
}

// RelationField returns an ezobjectrelationlist field holding ids.
func RelationField(identifier string, ids ...int) repository.Field {
	if ids == nil {
		ids = []int{}
	}
	value, _ := json.Marshal(map[string][]int{"destinationContentIds": ids})
	return repository.Field{
		FieldDefinitionIdentifier: identifier,
		FieldTypeIdentifier:       "ezobjectrelationlist",
		LanguageCode:              "eng-GB",
		Value:                     value,
	}
}

// CreatedContentResponse renders the response of a content creation.
func CreatedContentResponse(contentID, versionNo int) (*repository.Response, error) {
	doc, err := repository.ContentDocument(
		repository.Content{ID: contentID, Name: "New content", CurrentVersionNo: versionNo, Modified: time.Unix(0, 0)},
		&repository.Version{ContentID: contentID, VersionNo: versionNo, Status: repository.VersionStatusDraft},
	)
	if err != nil {
		return nil, err
	}
	return &repository.Response{Status: 201, Document: doc}, nil
}

// VersionResponse renders the response of a version save.
func VersionResponse(contentID, versionNo int) (*repository.Response, error) {
	doc, err := repository.VersionDocument(repository.Version{ContentID: contentID, VersionNo: versionNo, Status: repository.VersionStatusDraft})
	if err != nil {
		return nil, err
	}
	return &repository.Response{Status: 200, Document: doc}, nil
}

// RunLoop executes every queued command and delivers the resulting messages
// until the loop is idle. Timers block for their duration.
func RunLoop(loop *view.Loop) {
	for loop.Pending() > 0 {
		for _, cmd := range loop.Drain() {
			deliver(loop, cmd())
		}
	}
}

func deliver(loop *view.Loop, msg tea.Msg) {
	switch m := msg.(type) {
	case nil:
	case tea.BatchMsg:
		for _, cmd := range m {
			if cmd != nil {
				deliver(loop, cmd())
			}
		}
	default:
		loop.Deliver(m)
	}
}

// NewEnv builds a view environment with an immediate animator.
func NewEnv() *view.Env {
	return &view.Env{
		Loop:     view.NewLoop(context.Background()),
		Plugins:  view.NewPluginRegistry(),
		Animator: dom.ImmediateAnimator{},
	}
}
