package field

import (
	"draftui/dom"
	"draftui/repository"
)

// UnsupportedEditView stands in for field types without an edit view. It
// submits nothing, so the stored value is left untouched on save.
type UnsupportedEditView struct {
	EditView
}

// NewUnsupportedEditView creates the placeholder view of p's field.
func NewUnsupportedEditView(p Params) Editor {
	v := &UnsupportedEditView{}
	v.InitEdit(v, p, "unsupportedEditView")
	return v
}

// FieldInput returns false.
func (v *UnsupportedEditView) FieldInput() (repository.FieldInput, bool) {
	return repository.FieldInput{}, false
}

func (v *UnsupportedEditView) Render() {
	v.renderFrame(dom.El("p", dom.TextNode("This field type ("+v.Definition().FieldTypeIdentifier+") cannot be edited here")).
		SetAttr("class", "ez-editfield-unsupported"))
}
