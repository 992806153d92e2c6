// Package plugin provides the plugins attached to the content view services:
// saving the draft and loading the related contents of relation fields.
package plugin

import (
	"context"
	"fmt"
	"strconv"

	"draftui/config"
	"draftui/editor"
	"draftui/event"
	"draftui/notify"
	"draftui/repository"
	"draftui/service"
	"draftui/view"
)

// SaveDraftNS is the namespace of the SaveDraft plugin.
const SaveDraftNS = "saveDraft"

// Notification texts and timeouts of a draft save.
const (
	SavingText   = "Saving the draft"
	SavedText    = "The draft was stored successfully"
	FailedText   = "An error occured while saving the draft"
	SavedTimeout = 5
)

// SaveDraft stores the draft of its service when a form below it fires
// saveAction. New contents are created, known contents get their draft
// updated; both report progress through notifications.
type SaveDraft struct {
	view.PluginBase

	service      *service.Service
	savedTimeout int
}

// NewSaveDraft creates a SaveDraft plugin.
func NewSaveDraft() view.Plugin {
	return &SaveDraft{savedTimeout: SavedTimeout}
}

// SaveDraftFactory returns a factory of SaveDraft plugins dismissing their
// success notification after savedTimeout seconds.
func SaveDraftFactory(savedTimeout int) view.PluginFactory {
	if savedTimeout <= 0 {
		savedTimeout = SavedTimeout
	}
	return func() view.Plugin {
		return &SaveDraft{savedTimeout: savedTimeout}
	}
}

// Namespace returns SaveDraftNS.
func (p *SaveDraft) Namespace() string { return SaveDraftNS }

// Attach subscribes to the save actions bubbling to the service.
func (p *SaveDraft) Attach(host view.Host) {
	p.PluginBase.Attach(host)
	svc, ok := host.(*service.Service)
	if !ok {
		if config.DebugLog != nil {
			config.DebugLog.Warn().Str("component", "SaveDraft").Str("host", host.Name()).Msg("host is not a view service")
		}
		return
	}
	p.service = svc
	p.OnHostEvent("*:"+editor.SaveAction, p.saveDraft)
}

// saveResult is what a save hands back to the loop.
type saveResult struct {
	isNew    bool
	response *repository.Response
}

// NotificationIdentifier returns the identifier shared by the notifications
// of a save.
func NotificationIdentifier(isNew bool, contentID int, languageCode string) string {
	id := "0"
	if !isNew {
		id = strconv.Itoa(contentID)
	}
	return "save-draft-" + id + "-" + languageCode
}

func (p *SaveDraft) saveDraft(e *event.Facade) {
	intent, ok := e.Payload.(editor.SaveIntent)
	if !ok || !intent.FormIsValid {
		return
	}
	svc := p.service
	isNew := svc.IsNew()
	identifier := NotificationIdentifier(isNew, svc.Content().ID, svc.LanguageCode())

	p.notify(notify.Notification{
		Identifier: identifier,
		Text:       SavingText,
		State:      notify.StateStarted,
		Timeout:    0,
	})

	client := svc.Client()
	if isNew {
		params := svc.CreateParams(intent.Fields)
		view.Call(svc.Env().Loop, svc.ID(), func(ctx context.Context) (saveResult, error) {
			resp, err := client.CreateContent(ctx, params)
			return saveResult{isNew: true, response: resp}, err
		}, func(r saveResult, err error) {
			p.saved(identifier, r, err)
		})
		return
	}
	params := svc.SaveParams(intent.Fields)
	view.Call(svc.Env().Loop, svc.ID(), func(ctx context.Context) (saveResult, error) {
		resp, err := client.SaveVersion(ctx, params)
		return saveResult{isNew: false, response: resp}, err
	}, func(r saveResult, err error) {
		p.saved(identifier, r, err)
	})
}

func (p *SaveDraft) saved(identifier string, r saveResult, err error) {
	if err == nil {
		if r.isNew {
			err = p.updateCreated(r.response)
		} else {
			err = p.updateSaved(r.response)
		}
	}
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Error().Err(err).Str("component", "SaveDraft").Str("notification", identifier).
				Bool("new", r.isNew).Msg("failed to save the draft")
		}
		p.notify(notify.Notification{
			Identifier: identifier,
			Text:       FailedText,
			State:      notify.StateError,
			Timeout:    0,
		})
		return
	}
	if config.DebugLog != nil {
		config.DebugLog.Info().Str("component", "SaveDraft").Int("content", p.service.Content().ID).
			Int("version", p.service.Version().VersionNo).Msg("draft stored")
	}
	p.notify(notify.Notification{
		Identifier: identifier,
		Text:       SavedText,
		State:      notify.StateDone,
		Timeout:    p.savedTimeout,
	})
}

func (p *SaveDraft) updateCreated(resp *repository.Response) error {
	if resp == nil {
		return fmt.Errorf("failed to read created content: %w", repository.ErrInvalidDocument)
	}
	doc, err := repository.CurrentVersionDocument(resp.Document)
	if err != nil {
		return fmt.Errorf("failed to read created content: %w", err)
	}
	version := &repository.Version{}
	if err := version.Parse(doc); err != nil {
		return fmt.Errorf("failed to parse created version: %w", err)
	}
	content, err := repository.ParseContent(resp.Document)
	if err != nil {
		return fmt.Errorf("failed to parse created content: %w", err)
	}
	p.service.SetVersion(version)
	p.service.SetContent(content)
	return nil
}

func (p *SaveDraft) updateSaved(resp *repository.Response) error {
	if resp == nil {
		return fmt.Errorf("failed to read saved version: %w", repository.ErrInvalidDocument)
	}
	version, err := repository.ParseVersion(resp.Document)
	if err != nil {
		return fmt.Errorf("failed to parse saved version: %w", err)
	}
	p.service.SetVersion(version)
	return nil
}

func (p *SaveDraft) notify(n notify.Notification) {
	p.service.Fire(notify.Event, &event.Facade{Payload: n})
}
