package editor

import (
	"context"
	"fmt"

	"draftui/bridge"
	"draftui/event"
	"draftui/field"
	"draftui/repository"
	"draftui/service"
	"draftui/view"
)

// Target selects the content a factory builds the screen for.
type Target struct {
	// ContentID of the content to edit; 0 creates a new content.
	ContentID             int
	LanguageCode          string
	ContentTypeIdentifier string
	ParentLocationID      int
}

// Factory builds content edit views for a host bridge. The repository data
// is loaded off the loop; the views are built on it.
type Factory struct {
	Env    *view.Env
	Client repository.Client
	Fields *field.Registry
	App    *event.Target
	Target Target
}

var _ bridge.Factory = (*Factory)(nil)

type draft struct {
	content        *repository.Content
	version        *repository.Version
	contentType    *repository.ContentType
	parentLocation *repository.Location
}

// CreateView loads the draft metadata and builds the content edit view.
func (f *Factory) CreateView(owner string, done func(view.View, error)) {
	view.Call(f.Env.Loop, owner, f.load, func(d *draft, err error) {
		if err != nil {
			done(nil, err)
			return
		}
		p := service.Params{
			Env:            f.Env,
			Client:         f.Client,
			Content:        d.content,
			Version:        d.version,
			ContentType:    d.contentType,
			ParentLocation: d.parentLocation,
			LanguageCode:   f.Target.LanguageCode,
			App:            f.App,
		}
		var svc *service.Service
		if d.content == nil {
			svc = service.NewContentCreateViewService(p)
		} else {
			svc = service.NewContentEditViewService(p)
		}
		done(NewContentEditView(f.Env, f.Fields, svc), nil)
	})
}

func (f *Factory) load(ctx context.Context) (*draft, error) {
	if f.Target.ContentID == 0 {
		return f.loadCreate(ctx)
	}
	return f.loadEdit(ctx)
}

func (f *Factory) loadCreate(ctx context.Context) (*draft, error) {
	ct, err := f.Client.LoadContentType(ctx, f.Target.ContentTypeIdentifier)
	if err != nil {
		return nil, fmt.Errorf("failed to load content type %q: %w", f.Target.ContentTypeIdentifier, err)
	}
	loc, err := f.Client.LoadLocation(ctx, f.Target.ParentLocationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load location %d: %w", f.Target.ParentLocationID, err)
	}
	return &draft{contentType: ct, parentLocation: loc}, nil
}

func (f *Factory) loadEdit(ctx context.Context) (*draft, error) {
	content, err := f.Client.LoadContent(ctx, f.Target.ContentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load content %d: %w", f.Target.ContentID, err)
	}
	version, err := f.Client.LoadVersion(ctx, content.ID, content.CurrentVersionNo)
	if err != nil {
		return nil, fmt.Errorf("failed to load version %d of content %d: %w", content.CurrentVersionNo, content.ID, err)
	}
	ct, err := f.Client.LoadContentType(ctx, content.ContentTypeIdentifier)
	if err != nil {
		return nil, fmt.Errorf("failed to load content type %q: %w", content.ContentTypeIdentifier, err)
	}
	return &draft{content: content, version: version, contentType: ct}, nil
}
