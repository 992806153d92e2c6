package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draftui/event"
	"draftui/repository"
	"draftui/repository/testutil"
	"draftui/view"
)

type recordingPlugin struct {
	view.PluginBase
	ns     string
	events []string
}

func (p *recordingPlugin) Namespace() string { return p.ns }

func (p *recordingPlugin) Attach(host view.Host) {
	p.PluginBase.Attach(host)
	p.OnHostEvent("*:ping", func(e *event.Facade) { p.events = append(p.events, e.Type) })
}

func TestServicesAttachTheirPlugins(t *testing.T) {
	env := testutil.NewEnv()
	var created []*recordingPlugin
	env.Plugins.Register(func() view.Plugin {
		p := &recordingPlugin{ns: "both"}
		created = append(created, p)
		return p
	}, ContentEditViewServiceName, ContentCreateViewServiceName)
	env.Plugins.Register(func() view.Plugin { return &recordingPlugin{ns: "editOnly"} }, ContentEditViewServiceName)

	edit := NewContentEditViewService(Params{Env: env, Content: &repository.Content{ID: 4}})
	create := NewContentCreateViewService(Params{Env: env})

	assert.Len(t, edit.Plugins(), 2)
	assert.NotNil(t, edit.Plugin("editOnly"))
	assert.Len(t, create.Plugins(), 1)
	assert.Nil(t, create.Plugin("editOnly"))
	require.Len(t, created, 2)

	child := event.NewTarget("formView", nil)
	child.AddTarget(edit.Events())
	child.Fire("ping", nil)
	assert.Equal(t, []string{"formView:ping"}, created[0].events)
	assert.Empty(t, created[1].events)
}

func TestServiceBubblesToApp(t *testing.T) {
	env := testutil.NewEnv()
	app := event.NewTarget("app", nil)
	var got []string
	app.On("*:notify", func(e *event.Facade) { got = append(got, e.Type) })

	svc := NewContentCreateViewService(Params{Env: env, App: app})
	svc.Fire("notify", nil)
	assert.Equal(t, []string{"contentCreateViewService:notify"}, got)

	svc.Release()
	svc.Release()
	svc.Fire("notify", nil)
	assert.Len(t, got, 1)
	assert.True(t, svc.Released())
	assert.False(t, env.Loop.Alive(svc.ID()))
}

func TestCreateServiceDefaults(t *testing.T) {
	env := testutil.NewEnv()
	svc := NewContentCreateViewService(Params{Env: env, LanguageCode: "eng-GB"})

	assert.True(t, svc.IsNew())
	assert.True(t, svc.Version().IsNew())
	assert.Equal(t, repository.VersionStatusDraft, svc.Version().Status)

	svc.SetContent(nil)
	assert.NotNil(t, svc.Content())
	svc.SetContent(&repository.Content{ID: 9})
	assert.False(t, svc.IsNew())
}

func TestParams(t *testing.T) {
	env := testutil.NewEnv()
	ct := testutil.ArticleType()
	loc := &repository.Location{ID: 2}
	fields := []repository.FieldInput{{FieldDefinitionIdentifier: "title", Value: "Hi"}}

	create := NewContentCreateViewService(Params{Env: env, ContentType: &ct, ParentLocation: loc, LanguageCode: "eng-GB"})
	cp := create.CreateParams(fields)
	assert.Equal(t, "eng-GB", cp.LanguageCode)
	assert.Same(t, loc, cp.ParentLocation)
	assert.Equal(t, fields, cp.Fields)

	tests := []struct {
		name    string
		version repository.Version
		want    int
	}{
		{"draft", repository.Version{VersionNo: 3, Status: repository.VersionStatusDraft}, 3},
		{"published", repository.Version{VersionNo: 3, Status: repository.VersionStatusPublished}, 0},
		{"unknown", repository.Version{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version := tt.version
			svc := NewContentEditViewService(Params{Env: env, Content: &repository.Content{ID: 5}, Version: &version, LanguageCode: "fre-FR"})
			sp := svc.SaveParams(fields)
			assert.Equal(t, 5, sp.ContentID)
			assert.Equal(t, tt.want, sp.VersionNo)
			assert.Equal(t, "fre-FR", sp.LanguageCode)
		})
	}
}
