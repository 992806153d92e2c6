package field

import (
	"encoding/json"

	"draftui/dom"
	"draftui/event"
	"draftui/repository"
	"draftui/view"
)

const (
	// StringFieldType is the field type edited by StringEditView.
	StringFieldType = "ezstring"

	// ValueChange is fired when a text field's value changes.
	ValueChange = "valueChange"
)

// StringEditView edits a single line text field. The input node carries the
// current value in its value attribute; a "change" action on it commits the
// attribute.
type StringEditView struct {
	EditView

	value string
}

// NewStringEditView creates the view of a text line field.
func NewStringEditView(p Params) Editor {
	v := &StringEditView{}
	if len(p.Field.Value) > 0 {
		_ = json.Unmarshal(p.Field.Value, &v.value)
	}
	v.InitEdit(v, p, "stringEditView")

	v.Events().SetDefault(ValueChange, func(e *event.Facade) {
		v.value, _ = e.NewVal.(string)
	})
	v.Events().After(ValueChange, func(e *event.Facade) {
		v.Validate()
		v.Render()
	})

	v.AddDOMEventHandlers(view.DOMHandler{Selector: ".ez-string-input", Action: "change", Handler: func(e *dom.Event) {
		e.PreventDefault()
		v.SetValue(e.CurrentTarget.Attr("value"))
	}})
	return v
}

// Value returns the current text.
func (v *StringEditView) Value() string {
	return v.value
}

// SetValue changes the text.
func (v *StringEditView) SetValue(value string) {
	if value == v.value {
		return
	}
	v.Fire(ValueChange, &event.Facade{PrevVal: v.value, NewVal: value})
}

// Validate sets the required message when the field is required and blank.
func (v *StringEditView) Validate() {
	if v.Definition().IsRequired && v.value == "" {
		v.SetErrorStatus(RequiredMessage)
	} else {
		v.SetErrorStatus("")
	}
}

// FieldInput validates the field and returns the text.
func (v *StringEditView) FieldInput() (repository.FieldInput, bool) {
	v.Validate()
	return repository.FieldInput{
		FieldDefinitionIdentifier: v.Definition().Identifier,
		LanguageCode:              v.LanguageCode(),
		Value:                     v.value,
	}, true
}

// Render draws the text input.
func (v *StringEditView) Render() {
	input := dom.El("input", dom.TextNode(v.value)).
		SetAttr("class", "ez-string-input").
		SetAttr("value", v.value).
		SetAttr("data-field", v.Definition().Identifier)
	v.renderFrame(input)
}
