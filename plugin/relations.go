package plugin

import (
	"context"
	"fmt"

	"draftui/config"
	"draftui/event"
	"draftui/field"
	"draftui/repository"
	"draftui/service"
	"draftui/view"
)

// RelationsLoadNS is the namespace of the RelationsLoad plugin.
const RelationsLoadNS = "relationsLoad"

// RelationsLoad fetches the related contents of the relation fields below its
// service and hands them back to the requesting view.
type RelationsLoad struct {
	view.PluginBase

	client repository.Client
}

// NewRelationsLoad creates a RelationsLoad plugin.
func NewRelationsLoad() view.Plugin {
	return &RelationsLoad{}
}

// Namespace returns RelationsLoadNS.
func (p *RelationsLoad) Namespace() string { return RelationsLoadNS }

// Attach subscribes to the load requests bubbling to the service.
func (p *RelationsLoad) Attach(host view.Host) {
	p.PluginBase.Attach(host)
	svc, ok := host.(*service.Service)
	if !ok {
		return
	}
	p.client = svc.Client()
	p.OnHostEvent("*:"+field.LoadFieldRelatedContents, p.load)
}

// load runs the batch fetch owned by the requesting view, so the result is
// dropped when that view is destroyed before it arrives.
func (p *RelationsLoad) load(e *event.Facade) {
	loader, ok := e.Target.(field.RelatedContentsLoader)
	if !ok {
		return
	}
	req, _ := e.Payload.(field.LoadRequest)
	ids := req.DestinationContentIDs
	if ids == nil {
		ids = loader.DestinationContentsIDs()
	}
	client := p.client

	view.Call(loader.Env().Loop, loader.ID(), func(ctx context.Context) ([]repository.Content, error) {
		contents, err := client.LoadContents(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load related contents: %w", err)
		}
		return contents, nil
	}, func(contents []repository.Content, err error) {
		if err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Error().Err(err).Str("component", "RelationsLoad").
					Str("field", req.FieldDefinitionIdentifier).Ints("ids", ids).Msg("load failed")
			}
			loader.SetLoadingError(err)
			return
		}
		loader.LoadedDestinationContents(contents)
	})
}

// Options tune the registered plugins.
type Options struct {
	// SavedTimeout is the delay in seconds before a successful save
	// notification is dismissed. 0 uses SavedTimeout.
	SavedTimeout int
}

// Register registers the plugins of this package for both content view
// services.
func Register(r *view.PluginRegistry, opts Options) {
	r.Register(SaveDraftFactory(opts.SavedTimeout), service.ContentEditViewServiceName, service.ContentCreateViewServiceName)
	r.Register(NewRelationsLoad, service.ContentEditViewServiceName, service.ContentCreateViewServiceName)
}
