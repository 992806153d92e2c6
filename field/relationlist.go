package field

import (
	"strconv"

	"github.com/tidwall/gjson"

	"draftui/config"
	"draftui/discovery"
	"draftui/dom"
	"draftui/event"
	"draftui/repository"
	"draftui/view"
)

const (
	// RelationListFieldType is the field type edited by RelationListEditView.
	RelationListFieldType = "ezobjectrelationlist"

	// DestinationContentsChange is fired when the related contents change.
	// NewVal holds the new []repository.Content. Removals carry Src
	// SrcRemove and the removed id in Meta["contentId"].
	DestinationContentsChange = "destinationContentsChange"
	// LoadFieldRelatedContents asks the view service to fetch the related
	// contents. The payload is a LoadRequest.
	LoadFieldRelatedContents = "loadFieldRelatedContents"

	SrcRemove = "remove"
	SrcLoad   = "load"

	// RequiredMessage is the error status of an empty required field.
	RequiredMessage = "This field is required"
	// DiscoveryTitle is the title of the picker opened to add relations.
	DiscoveryTitle = "Select the contents you want to add in the relation"
)

// LoadRequest is the payload of LoadFieldRelatedContents.
type LoadRequest struct {
	FieldDefinitionIdentifier string
	DestinationContentIDs     []int
}

// RelatedContentsLoader is implemented by views whose related contents are
// fetched by a view service plugin.
type RelatedContentsLoader interface {
	view.View
	DestinationContentsIDs() []int
	// LoadedDestinationContents ends the load with the fetched contents.
	LoadedDestinationContents(contents []repository.Content)
	// SetLoadingError ends the load with an error.
	SetLoadingError(err error)
}

// RelationListEditView edits a list of relations to other contents.
type RelationListEditView struct {
	EditView
	Async

	list RelationList
}

var _ RelatedContentsLoader = (*RelationListEditView)(nil)

// NewRelationListEditView creates the view of a relation list field. The
// stored destination ids seed the list; an empty field starts loaded and
// never fetches.
func NewRelationListEditView(p Params) Editor {
	v := &RelationListEditView{}
	v.list = NewRelationList(destinationContentIDs(p.Field))
	v.InitEdit(v, p, "relationListEditView")
	v.InitAsync(v, v.fireLoadFieldRelatedContents)
	if v.list.IsEmpty() {
		v.startLoaded()
	}

	v.Events().SetDefault(DestinationContentsChange, func(e *event.Facade) {
		contents, _ := e.NewVal.([]repository.Content)
		v.list = v.list.WithContents(contents)
	})
	v.Events().After(DestinationContentsChange, v.presentDestinationContentsChange)

	v.AddDOMEventHandlers(
		view.DOMHandler{Selector: ".ez-relation-discover", Action: "tap", Handler: v.runUniversalDiscovery},
		view.DOMHandler{Selector: ".ez-relation-remove-content", Action: "tap", Handler: v.removeRelation},
	)
	return v
}

func destinationContentIDs(f repository.Field) []int {
	var ids []int
	gjson.GetBytes(f.Value, "destinationContentIds").ForEach(func(_, id gjson.Result) bool {
		ids = append(ids, int(id.Int()))
		return true
	})
	return ids
}

// DestinationContents returns the related contents.
func (v *RelationListEditView) DestinationContents() []repository.Content {
	return v.list.Contents()
}

// DestinationContentsIDs returns the ids of the related contents.
func (v *RelationListEditView) DestinationContentsIDs() []int {
	return v.list.IDs()
}

// IsFieldEmpty reports whether the field relates no content.
func (v *RelationListEditView) IsFieldEmpty() bool {
	return v.list.IsEmpty()
}

// SetDestinationContents replaces the related contents, firing
// DestinationContentsChange with the given source.
func (v *RelationListEditView) SetDestinationContents(contents []repository.Content, src string, meta map[string]any) {
	v.Fire(DestinationContentsChange, &event.Facade{
		PrevVal: v.list.Contents(),
		NewVal:  contents,
		Src:     src,
		Meta:    meta,
	})
}

// LoadedDestinationContents ends a successful load.
func (v *RelationListEditView) LoadedDestinationContents(contents []repository.Content) {
	v.markLoaded()
	v.SetDestinationContents(contents, SrcLoad, nil)
}

func (v *RelationListEditView) fireLoadFieldRelatedContents() bool {
	if v.IsFieldEmpty() {
		return false
	}
	v.Fire(LoadFieldRelatedContents, &event.Facade{Payload: LoadRequest{
		FieldDefinitionIdentifier: v.Definition().Identifier,
		DestinationContentIDs:     v.list.IDs(),
	}})
	return true
}

// presentDestinationContentsChange updates the DOM after a change: removals
// fade out the removed row, or the whole list when it got empty; any other
// change renders the view again.
func (v *RelationListEditView) presentDestinationContentsChange(e *event.Facade) {
	if e.Src != SrcRemove {
		v.Render()
		return
	}
	if !v.list.IsEmpty() {
		v.vanish(dom.AttrSelector("tr", "data-content-id", strconv.Itoa(metaContentID(e))), false)
	} else {
		v.vanish(".ez-relationlist-contents", true)
	}
}

func metaContentID(e *event.Facade) int {
	id, _ := e.Meta["contentId"].(int)
	return id
}

// vanish fades out the node matching selector, removes it and optionally
// renders the view again.
func (v *RelationListEditView) vanish(selector string, reRender bool) {
	node := v.Container().One(selector)
	if node == nil {
		if reRender {
			v.Render()
		}
		return
	}
	animator := v.Env().Animator
	if animator == nil {
		animator = dom.ImmediateAnimator{}
	}
	animator.Animate(dom.Transition{Node: node, Duration: dom.VanishDuration, Opacity: 0}, func() {
		if v.Destroyed() {
			return
		}
		node.Remove()
		if reRender {
			v.Render()
		}
	})
}

// RemoveRelation removes the content with id from the relations.
func (v *RelationListEditView) RemoveRelation(id int) {
	remaining := v.list.Without(id)
	v.SetDestinationContents(remaining, SrcRemove, map[string]any{"contentId": id})
	v.Validate()
}

func (v *RelationListEditView) removeRelation(e *dom.Event) {
	e.PreventDefault()
	id, err := strconv.Atoi(e.CurrentTarget.Attr("data-content-id"))
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Warn().Str("component", "RelationListEditView").
				Str("value", e.CurrentTarget.Attr("data-content-id")).Msg("remove button without content id")
		}
		return
	}
	v.RemoveRelation(id)
}

// DiscoveryConfig returns the configuration of the picker used to add
// relations.
func (v *RelationListEditView) DiscoveryConfig() discovery.Config {
	return discovery.Config{
		Title:                    DiscoveryTitle,
		Multiple:                 true,
		ContentDiscoveredHandler: v.selectRelation,
		CancelDiscoverHandler:    v.Validate,
	}
}

// RunUniversalDiscovery asks for the discovery picker.
func (v *RelationListEditView) RunUniversalDiscovery() {
	v.Fire(discovery.Event, &event.Facade{Payload: v.DiscoveryConfig()})
}

func (v *RelationListEditView) runUniversalDiscovery(e *dom.Event) {
	e.PreventDefault()
	v.RunUniversalDiscovery()
}

func (v *RelationListEditView) selectRelation(sel discovery.Selection) {
	added := make([]repository.Content, 0, len(sel.Selection))
	for _, s := range sel.Selection {
		added = append(added, s.Content)
	}
	contents := v.list.With(added...)

	v.SetErrorStatus("")
	v.SetDestinationContents(contents, "", nil)
}

// Validate sets the required message when the field is required and empty.
func (v *RelationListEditView) Validate() {
	if v.Definition().IsRequired && v.IsFieldEmpty() {
		v.SetErrorStatus(RequiredMessage)
	} else {
		v.SetErrorStatus("")
	}
}

// FieldInput validates the field and returns the related content ids.
func (v *RelationListEditView) FieldInput() (repository.FieldInput, bool) {
	v.Validate()
	return repository.FieldInput{
		FieldDefinitionIdentifier: v.Definition().Identifier,
		LanguageCode:              v.LanguageCode(),
		Value:                     map[string][]int{"destinationContentIds": v.list.IDs()},
	}, true
}

// Variables returns the template variables of the view.
func (v *RelationListEditView) Variables() map[string]any {
	vars := v.EditView.Variables()
	vars["destinationContents"] = v.list.Contents()
	vars["loadingError"] = v.LoadingError()
	vars["isEmpty"] = v.IsFieldEmpty()
	vars["isRequired"] = v.Definition().IsRequired
	vars["loadState"] = v.LoadState()
	return vars
}

// Render draws the relation table, or the loading, error or empty state.
func (v *RelationListEditView) Render() {
	v.renderFrame(relationListTemplate(v.Variables())...)
	if config.DebugLog != nil {
		config.DebugLog.Debug().Str("component", "RelationListEditView").Str("field", v.Definition().Identifier).
			Str("state", v.LoadState().String()).Ints("ids", v.list.IDs()).Msg("render")
	}
}

func relationListTemplate(vars map[string]any) []*dom.Node {
	state, _ := vars["loadState"].(LoadState)
	loadingError, _ := vars["loadingError"].(error)
	contents, _ := vars["destinationContents"].([]repository.Content)
	isEmpty, _ := vars["isEmpty"].(bool)

	var body *dom.Node
	switch {
	case loadingError != nil:
		body = dom.El("p", dom.TextNode("An error occurred while loading the related contents: "+loadingError.Error())).
			SetAttr("class", "ez-relationlist-error")
	case state == Loading:
		body = dom.El("p", dom.TextNode("Loading the related contents")).
			SetAttr("class", "ez-asynchronousview-loading")
	case isEmpty:
		body = dom.El("p", dom.TextNode("No relation yet")).
			SetAttr("class", "ez-relationlist-empty")
	default:
		rows := make([]*dom.Node, 0, len(contents))
		for _, c := range contents {
			id := strconv.Itoa(c.ContentID())
			rows = append(rows, dom.El("tr",
				dom.El("td", dom.TextNode(c.Name)),
				dom.El("td", dom.TextNode(c.ContentTypeIdentifier)),
				dom.El("td", dom.El("button", dom.TextNode("Remove")).
					SetAttr("class", "ez-relation-remove-content").
					SetAttr("data-content-id", id)),
			).SetAttr("data-content-id", id))
		}
		body = dom.El("table",
			dom.El("thead", dom.El("tr",
				dom.El("th", dom.TextNode("Name")),
				dom.El("th", dom.TextNode("Content type")),
				dom.El("th"),
			)),
			dom.El("tbody", rows...),
		).SetAttr("class", "ez-relationlist-contents")
	}

	discover := dom.El("button", dom.TextNode("Select contents")).SetAttr("class", "ez-relation-discover")
	return []*dom.Node{body, discover}
}
