package editor

import (
	"strconv"

	"draftui/dom"
	"draftui/field"
	"draftui/repository"
	"draftui/service"
	"draftui/view"
)

// ContentEditView is the top level view of the editing screen. It holds the
// form and bubbles its events to the view service, which it owns.
type ContentEditView struct {
	view.Base

	service *service.Service
	form    *FormView
}

// NewContentEditView builds the screen editing the draft held by svc.
func NewContentEditView(env *view.Env, fields *field.Registry, svc *service.Service) *ContentEditView {
	v := &ContentEditView{service: svc}
	v.Init(v, env, "contentEditView")
	v.Events().AddTarget(svc.Events())

	v.form = NewFormView(FormParams{
		Env:          env,
		Fields:       fields,
		Content:      svc.Content(),
		Version:      svc.Version(),
		ContentType:  svc.ContentType(),
		LanguageCode: svc.LanguageCode(),
	})
	v.form.Events().AddTarget(v.Events())
	v.DeclareChild("formView", func() view.View { return v.form })

	v.OnDestroy(func() {
		v.form.Destroy(true)
		v.service.Release()
	})
	return v
}

// Service returns the view service.
func (v *ContentEditView) Service() *service.Service { return v.service }

// Form returns the form view.
func (v *ContentEditView) Form() *FormView { return v.form }

// Title returns the heading of the screen.
func (v *ContentEditView) Title() string {
	c := v.service.Content()
	if !c.IsNew() {
		return "Editing " + c.Name
	}
	name := "content"
	if ct := v.service.ContentType(); ct != nil {
		name = ct.Identifier
		if n, ok := ct.Names[v.service.LanguageCode()]; ok && n != "" {
			name = n
		}
	}
	return "New " + name
}

// Render draws the heading and the form.
func (v *ContentEditView) Render() {
	c := v.Container()
	c.AddClass("ez-view-contenteditview")

	header := dom.El("header",
		dom.El("h1", dom.TextNode(v.Title())).SetAttr("class", "ez-contenteditview-title"),
		dom.El("p", dom.TextNode(draftInfo(v.service.Version(), v.service.LanguageCode()))).
			SetAttr("class", "ez-contenteditview-info"),
	)
	v.form.Render()
	c.SetContent(header, v.form.Container())
}

func draftInfo(version *repository.Version, languageCode string) string {
	if version.IsNew() {
		return "New draft (" + languageCode + ")"
	}
	return "Draft " + strconv.Itoa(version.VersionNo) + " (" + languageCode + ")"
}
