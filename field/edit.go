// Package field provides the editing views of content fields: the base every
// field edit view builds on, the asynchronous loading pattern, the registry
// mapping field types to views and the field views themselves.
package field

import (
	"draftui/dom"
	"draftui/event"
	"draftui/repository"
	"draftui/view"
)

// ErrorStatusChange is fired when the validation message of a field changes.
const ErrorStatusChange = "errorStatusChange"

// Params carry what a field edit view is built from.
type Params struct {
	Env          *view.Env
	Field        repository.Field
	Definition   repository.FieldDefinition
	Content      *repository.Content
	Version      *repository.Version
	ContentType  *repository.ContentType
	LanguageCode string
}

// Editor is a field edit view.
type Editor interface {
	view.View
	Definition() repository.FieldDefinition
	// Validate refreshes the error status.
	Validate()
	IsValid() bool
	ErrorStatus() string
	// FieldInput returns the value to submit, or false when the view does
	// not produce one.
	FieldInput() (repository.FieldInput, bool)
}

// EditView implements the parts of Editor shared by every field view.
// Concrete views embed it and call InitEdit.
type EditView struct {
	view.Base

	params      Params
	errorStatus string
}

// InitEdit initializes the base view and stores the field data.
func (v *EditView) InitEdit(self Editor, p Params, name string) {
	v.params = p
	v.Init(self, p.Env, name)
	v.Events().SetDefault(ErrorStatusChange, func(e *event.Facade) {
		v.errorStatus, _ = e.NewVal.(string)
	})
	v.Events().After(ErrorStatusChange, func(e *event.Facade) {
		if v.HasContainer() {
			v.syncErrorClass()
		}
	})
}

// Field returns the field as loaded from the repository.
func (v *EditView) Field() repository.Field {
	return v.params.Field
}

// Definition returns the field definition.
func (v *EditView) Definition() repository.FieldDefinition {
	return v.params.Definition
}

// Content returns the content being edited.
func (v *EditView) Content() *repository.Content {
	return v.params.Content
}

// Version returns the version being edited.
func (v *EditView) Version() *repository.Version {
	return v.params.Version
}

// LanguageCode returns the language being edited.
func (v *EditView) LanguageCode() string {
	return v.params.LanguageCode
}

// ErrorStatus returns the validation message, empty when valid.
func (v *EditView) ErrorStatus() string {
	return v.errorStatus
}

// SetErrorStatus changes the validation message. An empty message marks the
// field valid.
func (v *EditView) SetErrorStatus(msg string) {
	if msg == v.errorStatus {
		return
	}
	v.Fire(ErrorStatusChange, &event.Facade{PrevVal: v.errorStatus, NewVal: msg})
}

// IsValid reports whether the field has no validation message.
func (v *EditView) IsValid() bool {
	return v.errorStatus == ""
}

// Validate clears the error status. Views with constraints override it.
func (v *EditView) Validate() {
	v.SetErrorStatus("")
}

func (v *EditView) syncErrorClass() {
	c := v.Container()
	if v.errorStatus != "" {
		c.AddClass("is-error")
	} else {
		c.RemoveClass("is-error")
	}
	if msg := c.One(".ez-editfield-error-message"); msg != nil {
		msg.SetText(v.errorStatus)
	}
}

// Variables returns the template variables common to every field view.
func (v *EditView) Variables() map[string]any {
	return map[string]any{
		"fieldDefinition": v.params.Definition,
		"field":           v.params.Field,
		"content":         v.params.Content,
		"version":         v.params.Version,
		"contentType":     v.params.ContentType,
		"languageCode":    v.params.LanguageCode,
		"errorStatus":     v.errorStatus,
	}
}

// fieldTemplate renders the frame around a field input: label, input and
// error message.
func fieldTemplate(def repository.FieldDefinition, languageCode, errorStatus string, input ...*dom.Node) []*dom.Node {
	label := def.Name(languageCode)
	if def.IsRequired {
		label += "*"
	}
	return []*dom.Node{
		dom.El("div", dom.TextNode(label)).SetAttr("class", "ez-editfield-label"),
		dom.El("div", input...).SetAttr("class", "ez-editfield-input"),
		dom.El("p", dom.TextNode(errorStatus)).SetAttr("class", "ez-editfield-error-message"),
	}
}

// renderFrame replaces the container content with the field frame.
func (v *EditView) renderFrame(input ...*dom.Node) {
	c := v.Container()
	c.AddClass("ez-editfield-row")
	c.SetContent(fieldTemplate(v.params.Definition, v.params.LanguageCode, v.errorStatus, input...)...)
	v.syncErrorClass()
}
