package field

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draftui/dom"
	"draftui/event"
	"draftui/repository"
	"draftui/repository/testutil"
)

func TestRelationList(t *testing.T) {
	l := NewRelationList([]int{3, 1})
	assert.Equal(t, []int{3, 1}, l.IDs())
	assert.Empty(t, l.Contents())
	assert.True(t, l.Contains(1))
	assert.False(t, l.Contains(2))

	l = l.WithContents(testutil.Contents(1, 2, 3))
	assert.Equal(t, []int{1, 2, 3}, l.IDs())

	ids := l.IDs()
	ids[0] = 99
	assert.Equal(t, []int{1, 2, 3}, l.IDs())

	tests := []struct {
		name string
		got  []repository.Content
		want []int
	}{
		{"without a related id", l.Without(2), []int{1, 3}},
		{"without an unknown id", l.Without(8), []int{1, 2, 3}},
		{"with new contents", l.With(testutil.Contents(4, 5)...), []int{1, 2, 3, 4, 5}},
		{"with related contents", l.With(testutil.Contents(3, 1)...), []int{1, 2, 3}},
		{"with duplicates in the batch", l.With(testutil.Contents(6, 6, 2, 7)...), []int{1, 2, 3, 6, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewRelationList(nil).WithContents(tt.got).IDs())
		})
	}
}

func TestRegistry(t *testing.T) {
	env := testutil.NewEnv()
	r := NewDefaultRegistry()

	_, err := r.Get("ezimage")
	assert.ErrorIs(t, err, ErrUnsupportedFieldType)

	ctor, err := r.Get(RelationListFieldType)
	require.NoError(t, err)
	assert.IsType(t, &RelationListEditView{}, ctor(relationParams(env, false, 1)))

	tests := []struct {
		fieldType string
		want      Editor
	}{
		{RelationListFieldType, &RelationListEditView{}},
		{StringFieldType, &StringEditView{}},
		{"ezimage", &UnsupportedEditView{}},
	}

	for _, tt := range tests {
		t.Run(tt.fieldType, func(t *testing.T) {
			p := relationParams(env, false)
			p.Definition.FieldTypeIdentifier = tt.fieldType
			assert.IsType(t, tt.want, r.Build(p))
		})
	}
}

func TestUnsupportedEditView(t *testing.T) {
	env := testutil.NewEnv()
	p := relationParams(env, true)
	p.Definition.FieldTypeIdentifier = "ezimage"

	v := NewUnsupportedEditView(p)
	_, ok := v.FieldInput()
	assert.False(t, ok)

	v.Validate()
	assert.True(t, v.IsValid())

	v.Render()
	node := v.Container().One(".ez-editfield-unsupported")
	require.NotNil(t, node)
	assert.Contains(t, node.TextContent(), "ezimage")
}

func stringParams(t *testing.T, required bool, value string) Params {
	t.Helper()
	raw, err := json.Marshal(value)
	require.NoError(t, err)
	return Params{
		Env: testutil.NewEnv(),
		Field: repository.Field{
			FieldDefinitionIdentifier: "title",
			FieldTypeIdentifier:       StringFieldType,
			Value:                     raw,
		},
		Definition: repository.FieldDefinition{
			Identifier:          "title",
			FieldTypeIdentifier: StringFieldType,
			IsRequired:          required,
			Names:               map[string]string{"eng-GB": "Title"},
		},
		LanguageCode: "eng-GB",
	}
}

func TestStringEditView(t *testing.T) {
	v := NewStringEditView(stringParams(t, true, "Hello")).(*StringEditView)
	assert.Equal(t, "Hello", v.Value())

	v.Render()
	label := v.Container().One(".ez-editfield-label")
	require.NotNil(t, label)
	assert.Equal(t, "Title*", label.TextContent())

	input := v.Container().One(".ez-string-input")
	require.NotNil(t, input)
	assert.Equal(t, "Hello", input.Attr("value"))

	var changes int
	v.Events().After(ValueChange, func(e *event.Facade) { changes++ })

	input.SetAttr("value", "")
	dom.Trigger(input, "change")

	assert.Equal(t, 1, changes)
	assert.Equal(t, "", v.Value())
	assert.Equal(t, RequiredMessage, v.ErrorStatus())
	assert.True(t, v.Container().HasClass("is-error"))
	assert.Equal(t, RequiredMessage, v.Container().One(".ez-editfield-error-message").TextContent())

	v.SetValue("World")
	fi, ok := v.FieldInput()
	require.True(t, ok)
	assert.Equal(t, "World", fi.Value)
	assert.True(t, v.IsValid())

	v.SetValue("World")
	assert.Equal(t, 2, changes)
}

func TestErrorStatusChangeFiresOnlyOnChange(t *testing.T) {
	v := NewStringEditView(stringParams(t, true, "")).(*StringEditView)

	var fired int
	v.Events().After(ErrorStatusChange, func(e *event.Facade) { fired++ })

	v.Validate()
	v.Validate()
	assert.Equal(t, 1, fired)
	assert.False(t, v.IsValid())
}

func TestLoadStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", Uninitialized.String())
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "loaded", Loaded.String())
	assert.Equal(t, "error", Errored.String())
}
