package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"draftui/bridge"
	"draftui/config"
	"draftui/discovery"
	"draftui/dom"
	"draftui/editor"
	"draftui/event"
	"draftui/field"
	"draftui/notify"
	"draftui/repository"
	"draftui/view"
)

// ContainerClass marks the document nodes hosting one edit view each.
const ContainerClass = "ez-view-container"

type appKeys struct {
	next, previous, tap key.Binding
	save, discover      key.Binding
	remove, yank        key.Binding
	dismiss, help, quit key.Binding
	clear               key.Binding
}

func newAppKeys(kb *config.KeyBindingsConfig) appKeys {
	return appKeys{
		next:     kb.Binding("focus_next", "next"),
		previous: kb.Binding("focus_previous", "previous"),
		tap:      kb.Binding("tap", "activate"),
		save:     kb.Binding("save_draft", "save draft"),
		discover: kb.Binding("discover", "add relations"),
		remove:   kb.Binding("remove", "remove relation"),
		yank:     kb.Binding("yank_content", "copy content id"),
		dismiss:  kb.Binding("dismiss", "dismiss"),
		help:     kb.Binding("help", "help"),
		quit:     kb.Binding("quit", "quit"),
		clear:    kb.Binding("clear_input", "clear"),
	}
}

// Options configure the application shell.
type Options struct {
	Keys    *config.KeyBindingsConfig
	Env     *view.Env
	Client  repository.Client
	Fields  *field.Registry
	Targets []editor.Target
	// Backend is shown in the header.
	Backend string
}

// AppView is the terminal host page: it owns the document, one bridge per
// edit target, the notification bar and the discovery picker overlay.
type AppView struct {
	kb     *config.KeyBindingsConfig
	keys   appKeys
	env    *view.Env
	client repository.Client

	app      *event.Target
	ready    *bridge.ReadySignal
	document *dom.Node
	bridges  []*bridge.Bridge
	bar      *notify.Bar
	picker   *discovery.Picker
	subs     []*event.Subscription

	focus   int
	editing *dom.Node
	input   textinput.Model
	spinner spinner.Model
	status  string
	backend string

	showHelp bool
	quitting bool
	width    int
	height   int

	copy func(string) error
}

// NewAppView builds the shell and connects a bridge per target. The views
// are created once Start fires the ready signal.
func NewAppView(opts Options) *AppView {
	kb := opts.Keys
	if kb == nil {
		kb = config.DefaultKeybindings()
	}

	input := textinput.New()
	input.CharLimit = 255
	input.Width = 40

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accentColor)

	a := &AppView{
		kb:       kb,
		keys:     newAppKeys(kb),
		env:      opts.Env,
		client:   opts.Client,
		ready:    bridge.NewReadySignal(),
		document: dom.El("document"),
		bar:      notify.NewBar(opts.Env.Loop),
		input:    input,
		spinner:  s,
		backend:  opts.Backend,
		copy:     clipboard.WriteAll,
	}
	a.app = event.NewTarget("app", a)
	a.subs = append(a.subs,
		a.bar.Listen(a.app),
		a.app.On(event.Wildcard+":"+discovery.Event, a.openDiscovery),
	)

	for _, t := range opts.Targets {
		node := dom.El("div", dom.TextNode("Loading…")).SetAttr("class", ContainerClass)
		a.document.Append(node)
		factory := &editor.Factory{Env: opts.Env, Client: opts.Client, Fields: opts.Fields, App: a.app, Target: t}
		b := bridge.New(node, factory, a.ready, opts.Env.Loop)
		b.Connect()
		a.bridges = append(a.bridges, b)
	}
	return a
}

// App returns the application event target every service bubbles to.
func (a *AppView) App() *event.Target { return a.app }

// Document returns the root node of the page.
func (a *AppView) Document() *dom.Node { return a.document }

// Bridges returns the bridges in document order.
func (a *AppView) Bridges() []*bridge.Bridge { return a.bridges }

// Notifications returns the notification bar.
func (a *AppView) Notifications() *notify.Bar { return a.bar }

// Start fires the ready signal, creating the views of every bridge.
func (a *AppView) Start() {
	if config.DebugLog != nil {
		config.DebugLog.Info().Str("component", "AppView").Int("bridges", len(a.bridges)).Msg("app ready")
	}
	a.ready.Fire()
}

func (a *AppView) Init() tea.Cmd {
	a.Start()
	return tea.Batch(a.spinner.Tick, a.env.Loop.Flush())
}

func (a *AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.env.Loop.Deliver(msg) {
		a.clampFocus()
		return a, a.env.Loop.Flush()
	}

	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = max(10, msg.Width/2)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		cmds = append(cmds, a.handleKey(msg))
	}

	cmds = append(cmds, a.env.Loop.Flush())
	return a, tea.Batch(cmds...)
}

func (a *AppView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if a.picker != nil {
		cmd := a.picker.Update(msg)
		if a.picker.Closed() {
			a.picker = nil
			a.clampFocus()
		}
		return cmd
	}

	if a.editing != nil {
		return a.updateEditing(msg)
	}

	if a.showHelp {
		if key.Matches(msg, a.keys.help) || key.Matches(msg, a.keys.dismiss) {
			a.showHelp = false
		}
		return nil
	}

	switch {
	case msg.Type == tea.KeyCtrlC, key.Matches(msg, a.keys.quit):
		return a.Quit()
	case key.Matches(msg, a.keys.help):
		a.showHelp = true
	case key.Matches(msg, a.keys.next):
		a.moveFocus(1)
	case key.Matches(msg, a.keys.previous):
		a.moveFocus(-1)
	case key.Matches(msg, a.keys.tap):
		return a.tap()
	case key.Matches(msg, a.keys.save):
		a.saveDraft()
	case key.Matches(msg, a.keys.discover):
		a.discover()
	case key.Matches(msg, a.keys.remove):
		a.remove()
	case key.Matches(msg, a.keys.yank):
		a.yank()
	case key.Matches(msg, a.keys.dismiss):
		a.bar.DismissAll()
		a.status = ""
	}
	return nil
}

// Quit tears every bridge down and ends the program.
func (a *AppView) Quit() tea.Cmd {
	if a.quitting {
		return tea.Quit
	}
	a.quitting = true
	if a.picker != nil {
		a.picker.Cancel()
		a.picker = nil
	}
	for _, b := range a.bridges {
		b.Disconnect()
	}
	for _, s := range a.subs {
		s.Detach()
	}
	if config.DebugLog != nil {
		config.DebugLog.Info().Str("component", "AppView").Msg("quit")
	}
	return tea.Quit
}

// focusables returns the buttons and inputs of the document in order.
func (a *AppView) focusables() []*dom.Node {
	var nodes []*dom.Node
	a.document.Walk(func(n *dom.Node) bool {
		if n.Tag == "button" || n.Tag == "input" {
			nodes = append(nodes, n)
		}
		return true
	})
	return nodes
}

// Focused returns the focused node, or nil when nothing can take focus.
func (a *AppView) Focused() *dom.Node {
	nodes := a.focusables()
	if len(nodes) == 0 {
		return nil
	}
	if a.focus >= len(nodes) {
		a.focus = len(nodes) - 1
	}
	return nodes[a.focus]
}

func (a *AppView) moveFocus(delta int) {
	n := len(a.focusables())
	if n == 0 {
		a.focus = 0
		return
	}
	a.focus = ((a.focus+delta)%n + n) % n
}

func (a *AppView) clampFocus() {
	n := len(a.focusables())
	if a.focus >= n {
		a.focus = max(0, n-1)
	}
}

func (a *AppView) tap() tea.Cmd {
	n := a.Focused()
	if n == nil {
		return nil
	}
	if n.Tag == "input" {
		a.editing = n
		a.input.SetValue(n.Attr("value"))
		a.input.CursorEnd()
		return a.input.Focus()
	}
	dom.Trigger(n, "tap")
	a.clampFocus()
	return nil
}

func (a *AppView) updateEditing(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.Type == tea.KeyEnter:
		node := a.editing
		a.editing = nil
		a.input.Blur()
		node.SetAttr("value", a.input.Value())
		dom.Trigger(node, "change")
		return nil
	case msg.Type == tea.KeyEsc:
		a.editing = nil
		a.input.Blur()
		return nil
	case key.Matches(msg, a.keys.clear):
		a.input.SetValue("")
		return nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return cmd
}

// currentBridge returns the bridge holding the focus, or the first one with
// a view.
func (a *AppView) currentBridge() *bridge.Bridge {
	if n := a.Focused(); n != nil {
		for _, b := range a.bridges {
			if b.Node().Contains(n) {
				return b
			}
		}
	}
	for _, b := range a.bridges {
		if b.View() != nil {
			return b
		}
	}
	return nil
}

func (a *AppView) saveDraft() {
	b := a.currentBridge()
	if b == nil {
		return
	}
	if button := b.Node().One(".ez-form-save"); button != nil {
		dom.Trigger(button, "tap")
	}
}

// discover opens the picker of the relation field holding the focus, or of
// the first relation field.
func (a *AppView) discover() {
	var button *dom.Node
	if row := closest(a.Focused(), "ez-editfield-row"); row != nil {
		button = row.One(".ez-relation-discover")
	}
	if button == nil {
		if b := a.currentBridge(); b != nil {
			button = b.Node().One(".ez-relation-discover")
		}
	}
	if button == nil {
		a.status = "No relation field to add contents to"
		return
	}
	dom.Trigger(button, "tap")
}

func (a *AppView) remove() {
	n := a.Focused()
	if n == nil || !n.HasClass("ez-relation-remove-content") {
		a.status = "Focus a related content to remove it"
		return
	}
	dom.Trigger(n, "tap")
	a.clampFocus()
}

func (a *AppView) yank() {
	id := ""
	for n := a.Focused(); n != nil; n = n.Parent() {
		if id = n.Attr("data-content-id"); id != "" {
			break
		}
	}
	if id == "" {
		a.status = "Focus a related content to copy its id"
		return
	}
	if err := a.copy(id); err != nil {
		a.status = fmt.Sprintf("Failed to copy: %v", err)
		if config.DebugLog != nil {
			config.DebugLog.Error().Err(err).Str("component", "AppView").Msg("clipboard write failed")
		}
		return
	}
	a.status = "Copied content id " + id
}

func (a *AppView) openDiscovery(e *event.Facade) {
	cfg, ok := e.Payload.(discovery.Config)
	if !ok {
		return
	}
	if a.picker != nil {
		a.picker.Cancel()
	}
	a.picker = discovery.NewPicker(cfg, a.env.Loop, a.client, a.kb)
	a.picker.Open()
}

func closest(n *dom.Node, class string) *dom.Node {
	for ; n != nil; n = n.Parent() {
		if n.HasClass(class) {
			return n
		}
	}
	return nil
}

func (a *AppView) View() string {
	if a.quitting {
		return ""
	}
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}
	if a.picker != nil {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, a.picker.View(a.width, a.height))
	}
	if a.showHelp {
		return a.renderHelpModal(a.width, a.height)
	}

	header := TitleStyle.Render("draftui")
	if a.backend != "" {
		header += StatusStyle.Render("  " + a.backend)
	}

	var bottom []string
	if notes := a.bar.View(a.width); notes != "" {
		bottom = append(bottom, notes)
	}
	if a.status != "" {
		bottom = append(bottom, StatusStyle.Render(a.status))
	}
	bottom = append(bottom, a.footer())
	footer := strings.Join(bottom, "\n")

	avail := a.height - 2 - lipgloss.Height(footer)
	if avail < 1 {
		avail = 1
	}
	body := a.bodyLines()
	offset := 0
	for i, l := range body {
		if strings.Contains(l, focusMarker) {
			offset = max(0, i-avail+1)
			break
		}
	}
	body = body[offset:]
	if len(body) > avail {
		body = body[:avail]
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		lipgloss.NewStyle().Height(avail).Render(strings.Join(body, "\n")),
		footer,
	)
}

func (a *AppView) bodyLines() []string {
	r := Renderer{
		Width:   a.width,
		Focused: a.Focused(),
		Spinner: a.spinner.View(),
	}
	if a.editing != nil {
		r.Editing = a.editing
		r.EditView = a.input.View()
	}
	return r.Lines(a.document)
}

func (a *AppView) footer() string {
	return FormatFooter(
		a.kb.DisplayActionKey("focus_next"), "Next",
		a.kb.DisplayActionKey("tap"), "Activate",
		a.kb.DisplayActionKey("save_draft"), "Save",
		a.kb.DisplayActionKey("discover"), "Add",
		a.kb.DisplayActionKey("help"), "Help",
		a.kb.DisplayActionKey("quit"), "Quit",
	)
}
