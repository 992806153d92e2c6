// Package service provides the view services behind the content edit and
// create screens. A service holds the draft being edited, is the host the
// saving and loading plugins attach to, and relays the events bubbling up
// from its views to the application.
package service

import (
	"draftui/config"
	"draftui/event"
	"draftui/repository"
	"draftui/view"
)

// Host names plugins are registered under.
const (
	ContentEditViewServiceName   = "contentEditViewService"
	ContentCreateViewServiceName = "contentCreateViewService"
)

// Params carry the draft metadata a service is built from.
type Params struct {
	Env            *view.Env
	Client         repository.Client
	Content        *repository.Content
	Version        *repository.Version
	ContentType    *repository.ContentType
	ParentLocation *repository.Location
	LanguageCode   string
	// App is the application event target the service bubbles to. It may be
	// nil.
	App *event.Target
}

// Service is a content edit or create view service.
type Service struct {
	view.HostBase

	client         repository.Client
	content        *repository.Content
	version        *repository.Version
	contentType    *repository.ContentType
	parentLocation *repository.Location
	languageCode   string
	app            *event.Target
	released       bool
}

// NewContentEditViewService creates the service of an existing content.
func NewContentEditViewService(p Params) *Service {
	return newService(ContentEditViewServiceName, p)
}

// NewContentCreateViewService creates the service of a content that has not
// been stored yet.
func NewContentCreateViewService(p Params) *Service {
	if p.Content == nil {
		p.Content = &repository.Content{}
	}
	if p.Version == nil {
		p.Version = &repository.Version{Status: repository.VersionStatusDraft}
	}
	return newService(ContentCreateViewServiceName, p)
}

func newService(name string, p Params) *Service {
	s := &Service{
		client:         p.Client,
		content:        p.Content,
		version:        p.Version,
		contentType:    p.ContentType,
		parentLocation: p.ParentLocation,
		languageCode:   p.LanguageCode,
		app:            p.App,
	}
	if s.content == nil {
		s.content = &repository.Content{}
	}
	if s.version == nil {
		s.version = &repository.Version{}
	}
	s.InitHost(s, p.Env, name)
	if s.app != nil {
		s.Events().AddTarget(s.app)
	}
	s.AttachPlugins(s)

	if config.DebugLog != nil {
		config.DebugLog.Debug().Str("component", "Service").Str("service", name).
			Int("content", s.content.ID).Str("language", s.languageCode).Msg("created")
	}
	return s
}

// Client returns the repository client.
func (s *Service) Client() repository.Client { return s.client }

// Content returns the content being edited.
func (s *Service) Content() *repository.Content { return s.content }

// Version returns the draft being edited.
func (s *Service) Version() *repository.Version { return s.version }

// ContentType returns the content type of the content.
func (s *Service) ContentType() *repository.ContentType { return s.contentType }

// ParentLocation returns the location a new content is created under.
func (s *Service) ParentLocation() *repository.Location { return s.parentLocation }

// LanguageCode returns the language being edited.
func (s *Service) LanguageCode() string { return s.languageCode }

// IsNew reports whether the content has not been stored yet.
func (s *Service) IsNew() bool { return s.content.IsNew() }

// SetContent replaces the content, typically once it has been created.
func (s *Service) SetContent(c *repository.Content) {
	if c != nil {
		s.content = c
	}
}

// SetVersion replaces the draft.
func (s *Service) SetVersion(v *repository.Version) {
	if v != nil {
		s.version = v
	}
}

// CreateParams returns the parameters creating the content with fields.
func (s *Service) CreateParams(fields []repository.FieldInput) repository.CreateContentParams {
	return repository.CreateContentParams{
		LanguageCode:   s.languageCode,
		ContentType:    s.contentType,
		ParentLocation: s.parentLocation,
		Fields:         fields,
	}
}

// SaveParams returns the parameters storing fields on the draft.
func (s *Service) SaveParams(fields []repository.FieldInput) repository.SaveVersionParams {
	versionNo := s.version.VersionNo
	if s.version.Status != "" && s.version.Status != repository.VersionStatusDraft {
		versionNo = 0
	}
	return repository.SaveVersionParams{
		ContentID:    s.content.ID,
		VersionNo:    versionNo,
		LanguageCode: s.languageCode,
		Fields:       fields,
	}
}

// Release detaches the plugins and stops the service from bubbling. Pending
// calls owned by the service are dropped.
func (s *Service) Release() {
	if s.released {
		return
	}
	s.released = true
	if s.app != nil {
		s.Events().RemoveTarget(s.app)
	}
	s.ReleaseHost()
}

// Released reports whether Release has been called.
func (s *Service) Released() bool { return s.released }
