// Package editor assembles the content editing screen: the form holding the
// field edit views, the content edit view around it and the factory building
// both for a host bridge.
package editor

import (
	"sort"

	"draftui/config"
	"draftui/dom"
	"draftui/event"
	"draftui/field"
	"draftui/repository"
	"draftui/view"
)

// SaveAction is fired by the form when the user asks to save the draft. The
// payload is a SaveIntent.
const SaveAction = "saveAction"

// SaveIntent is the payload of SaveAction.
type SaveIntent struct {
	Fields      []repository.FieldInput
	FormIsValid bool
}

// FormParams carry what a form is built from.
type FormParams struct {
	Env          *view.Env
	Fields       *field.Registry
	Content      *repository.Content
	Version      *repository.Version
	ContentType  *repository.ContentType
	LanguageCode string
}

// FormView lays out one field edit view per field definition, ordered by
// position. Events fired by the field views bubble to the form.
type FormView struct {
	view.Base

	editors []field.Editor
}

// NewFormView builds the form and its field edit views.
func NewFormView(p FormParams) *FormView {
	f := &FormView{}
	f.Init(f, p.Env, "contentEditFormView")
	f.SetContainerTag("form")

	var defs []repository.FieldDefinition
	if p.ContentType != nil {
		defs = append(defs, p.ContentType.FieldDefinitions...)
	}
	sort.SliceStable(defs, func(i, j int) bool { return defs[i].Position < defs[j].Position })

	for _, def := range defs {
		fld, ok := p.Version.Field(def.Identifier)
		if !ok {
			fld = repository.Field{
				FieldDefinitionIdentifier: def.Identifier,
				FieldTypeIdentifier:       def.FieldTypeIdentifier,
				LanguageCode:              p.LanguageCode,
			}
		}
		ed := p.Fields.Build(field.Params{
			Env:          p.Env,
			Field:        fld,
			Definition:   def,
			Content:      p.Content,
			Version:      p.Version,
			ContentType:  p.ContentType,
			LanguageCode: p.LanguageCode,
		})
		ed.Events().AddTarget(f.Events())
		f.editors = append(f.editors, ed)
		f.DeclareChild("field:"+def.Identifier, func() view.View { return ed })
	}

	f.AddDOMEventHandlers(view.DOMHandler{Selector: ".ez-form-save", Action: "tap", Handler: func(e *dom.Event) {
		e.PreventDefault()
		f.SaveAction()
	}})
	f.OnDestroy(func() {
		for _, ed := range f.editors {
			ed.Destroy(true)
		}
	})
	return f
}

// Editors returns the field edit views in display order.
func (f *FormView) Editors() []field.Editor {
	return append([]field.Editor(nil), f.editors...)
}

// Editor returns the field edit view of the definition identifier, or nil.
func (f *FormView) Editor(identifier string) field.Editor {
	for _, ed := range f.editors {
		if ed.Definition().Identifier == identifier {
			return ed
		}
	}
	return nil
}

// SaveAction collects the field values, validating every field on the way,
// and fires SaveAction.
func (f *FormView) SaveAction() {
	intent := SaveIntent{FormIsValid: true}
	for _, ed := range f.editors {
		input, ok := ed.FieldInput()
		if !ed.IsValid() {
			intent.FormIsValid = false
		}
		if ok {
			intent.Fields = append(intent.Fields, input)
		}
	}
	if config.DebugLog != nil {
		config.DebugLog.Debug().Str("component", "FormView").Bool("valid", intent.FormIsValid).
			Int("fields", len(intent.Fields)).Msg("save requested")
	}
	f.Fire(SaveAction, &event.Facade{Payload: intent})
}

// Render renders every field view into the form, followed by the save
// button.
func (f *FormView) Render() {
	c := f.Container()
	nodes := make([]*dom.Node, 0, len(f.editors)+1)
	for _, ed := range f.editors {
		ed.Render()
		nodes = append(nodes, ed.Container())
	}
	nodes = append(nodes, dom.El("div",
		dom.El("button", dom.TextNode("Save draft")).SetAttr("class", "ez-form-save"),
	).SetAttr("class", "ez-form-actions"))
	c.SetContent(nodes...)
}
