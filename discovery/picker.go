package discovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"draftui/config"
	"draftui/repository"
	"draftui/view"
)

// SearchLimit bounds the number of contents listed by the picker.
const SearchLimit = 100

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	modalStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(1, 2)
)

type pickerKeys struct {
	down, up, downArrow, upArrow     key.Binding
	toggle, confirm, cancel          key.Binding
	filter, downFiltered, upFiltered key.Binding
	clear                            key.Binding
}

func newPickerKeys(kb *config.KeyBindingsConfig) pickerKeys {
	return pickerKeys{
		down:         kb.Binding("discovery_down", "down"),
		up:           kb.Binding("discovery_up", "up"),
		downArrow:    kb.Binding("discovery_down_arrow", "down"),
		upArrow:      kb.Binding("discovery_up_arrow", "up"),
		toggle:       kb.Binding("discovery_toggle", "select"),
		confirm:      kb.Binding("discovery_confirm", "confirm"),
		cancel:       kb.Binding("discovery_cancel", "cancel"),
		filter:       kb.Binding("discovery_filter", "filter"),
		downFiltered: kb.Binding("discovery_down_filtered", "down"),
		upFiltered:   kb.Binding("discovery_up_filtered", "up"),
		clear:        kb.Binding("clear_input", "clear"),
	}
}

// Picker lists contents and lets the user select some of them. Listing is
// loaded asynchronously through the loop.
type Picker struct {
	cfg    Config
	loop   *view.Loop
	client repository.Client
	keys   pickerKeys
	id     string

	contents []repository.Content
	filtered []repository.Content
	selected []int
	cursor   int

	filterMode  bool
	filterInput textinput.Model

	loading bool
	err     error
	closed  bool
}

// NewPicker creates a picker for cfg. Call Open to start listing.
func NewPicker(cfg Config, loop *view.Loop, client repository.Client, kb *config.KeyBindingsConfig) *Picker {
	input := textinput.New()
	input.Placeholder = "Filter contents..."
	input.CharLimit = 100
	input.Width = 40

	if cfg.Title == "" {
		cfg.Title = "Select a content"
	}

	return &Picker{
		cfg:         cfg,
		loop:        loop,
		client:      client,
		keys:        newPickerKeys(kb),
		id:          "discovery-" + uuid.NewString(),
		filterInput: input,
	}
}

// Open registers the picker on the loop and starts loading contents.
func (p *Picker) Open() {
	p.loop.Register(p.id)
	p.loading = true
	view.Call(p.loop, p.id, func(ctx context.Context) ([]repository.Content, error) {
		return p.client.Search(ctx, "", SearchLimit)
	}, func(contents []repository.Content, err error) {
		p.loading = false
		if err != nil {
			p.err = fmt.Errorf("failed to list contents: %w", err)
			return
		}
		p.contents = contents
		p.applyFilter()
	})
}

// Closed reports whether the picker was confirmed or cancelled.
func (p *Picker) Closed() bool {
	return p.closed
}

// Loading reports whether the listing is in flight.
func (p *Picker) Loading() bool {
	return p.loading
}

// Err returns the listing error, if any.
func (p *Picker) Err() error {
	return p.err
}

// Visible returns the contents matching the current filter.
func (p *Picker) Visible() []repository.Content {
	return p.filtered
}

// Selected returns the ids of the selected contents, in selection order.
func (p *Picker) Selected() []int {
	return append([]int(nil), p.selected...)
}

func (p *Picker) applyFilter() {
	query := p.filterInput.Value()
	if query == "" {
		p.filtered = p.contents
	} else {
		targets := make([]string, len(p.contents))
		for i, c := range p.contents {
			targets[i] = c.Name
		}
		matches := fuzzy.Find(query, targets)
		p.filtered = make([]repository.Content, len(matches))
		for i, match := range matches {
			p.filtered[i] = p.contents[match.Index]
		}
	}
	if p.cursor >= len(p.filtered) {
		p.cursor = len(p.filtered) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// Toggle selects or deselects the content under the cursor. In single
// selection mode it replaces the selection.
func (p *Picker) Toggle() {
	if len(p.filtered) == 0 {
		return
	}
	id := p.filtered[p.cursor].ID
	for i, sel := range p.selected {
		if sel == id {
			p.selected = append(p.selected[:i], p.selected[i+1:]...)
			return
		}
	}
	if !p.cfg.Multiple {
		p.selected = p.selected[:0]
	}
	p.selected = append(p.selected, id)
}

// Confirm closes the picker and hands the selection to the discovered
// handler. With nothing selected the content under the cursor is used; with
// nothing listed it behaves like Cancel.
func (p *Picker) Confirm() {
	ids := p.selected
	if len(ids) == 0 && len(p.filtered) > 0 {
		ids = []int{p.filtered[p.cursor].ID}
	}
	if len(ids) == 0 {
		p.Cancel()
		return
	}

	byID := make(map[int]repository.Content, len(p.contents))
	for _, c := range p.contents {
		byID[c.ID] = c
	}
	var sel Selection
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			sel.Selection = append(sel.Selection, Struct{Content: c})
		}
	}

	p.close()
	if config.DebugLog != nil {
		config.DebugLog.Debug().Str("component", "Discovery").Int("selected", len(sel.Selection)).Msg("content discovered")
	}
	if p.cfg.ContentDiscoveredHandler != nil {
		p.cfg.ContentDiscoveredHandler(sel)
	}
}

// Cancel closes the picker without a selection.
func (p *Picker) Cancel() {
	p.close()
	if p.cfg.CancelDiscoverHandler != nil {
		p.cfg.CancelDiscoverHandler()
	}
}

func (p *Picker) close() {
	p.closed = true
	p.loop.Unregister(p.id)
}

func (p *Picker) move(delta int) {
	p.cursor += delta
	if p.cursor >= len(p.filtered) {
		p.cursor = len(p.filtered) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// Update handles a key while the picker is open.
func (p *Picker) Update(msg tea.KeyMsg) tea.Cmd {
	if p.closed {
		return nil
	}

	if p.filterMode {
		switch {
		case msg.Type == tea.KeyEsc:
			p.filterMode = false
			p.filterInput.Blur()
			p.filterInput.SetValue("")
			p.applyFilter()
			return nil
		case msg.Type == tea.KeyEnter:
			p.filterMode = false
			p.filterInput.Blur()
			return nil
		case key.Matches(msg, p.keys.downFiltered):
			p.move(1)
			return nil
		case key.Matches(msg, p.keys.upFiltered):
			p.move(-1)
			return nil
		case key.Matches(msg, p.keys.clear):
			p.filterInput.SetValue("")
			p.applyFilter()
			return nil
		}

		var cmd tea.Cmd
		p.filterInput, cmd = p.filterInput.Update(msg)
		p.applyFilter()
		return cmd
	}

	switch {
	case key.Matches(msg, p.keys.down), key.Matches(msg, p.keys.downArrow):
		p.move(1)
	case key.Matches(msg, p.keys.up), key.Matches(msg, p.keys.upArrow):
		p.move(-1)
	case key.Matches(msg, p.keys.toggle):
		p.Toggle()
	case key.Matches(msg, p.keys.confirm):
		p.Confirm()
	case key.Matches(msg, p.keys.cancel):
		p.Cancel()
	case key.Matches(msg, p.keys.filter):
		p.filterMode = true
		p.filterInput.SetValue("")
		p.filterInput.Focus()
		return textinput.Blink
	}
	return nil
}

func (p *Picker) isSelected(id int) bool {
	for _, sel := range p.selected {
		if sel == id {
			return true
		}
	}
	return false
}

// View renders the picker as a modal.
func (p *Picker) View(width, height int) string {
	modalWidth := width - 4
	if modalWidth > 80 {
		modalWidth = 80
	}
	if modalWidth < 20 {
		modalWidth = 20
	}
	inner := modalWidth - 6

	var b strings.Builder
	b.WriteString(titleStyle.Render(p.cfg.Title))
	b.WriteString("\n\n")

	if p.filterMode || p.filterInput.Value() != "" {
		b.WriteString(p.filterInput.View())
		b.WriteString("\n\n")
	}

	switch {
	case p.loading:
		b.WriteString(dimStyle.Render("Loading contents..."))
	case p.err != nil:
		b.WriteString(errorStyle.Render(p.err.Error()))
	case len(p.filtered) == 0:
		b.WriteString(dimStyle.Render("No contents found"))
	default:
		// Border(2) + Padding(2) + Title(2) + Filter(2) + Footer(2)
		visible := height - 10
		if visible < 3 {
			visible = 3
		}
		start := 0
		if p.cursor >= visible {
			start = p.cursor - visible + 1
		}
		end := start + visible
		if end > len(p.filtered) {
			end = len(p.filtered)
		}
		for i := start; i < end; i++ {
			c := p.filtered[i]
			mark := "[ ]"
			if p.isSelected(c.ID) {
				mark = "[x]"
			}
			line := fmt.Sprintf("%s %s (%s #%d)", mark, c.Name, c.ContentTypeIdentifier, c.ID)
			line = runewidth.Truncate(line, inner, "…")
			if i == p.cursor {
				line = selectedStyle.Render("▶ " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	footer := fmt.Sprintf("%s select • %s confirm • %s filter • %s cancel",
		p.keys.toggle.Help().Key, p.keys.confirm.Help().Key, p.keys.filter.Help().Key, p.keys.cancel.Help().Key)
	if !p.cfg.Multiple {
		footer = fmt.Sprintf("%s confirm • %s filter • %s cancel",
			p.keys.confirm.Help().Key, p.keys.filter.Help().Key, p.keys.cancel.Help().Key)
	}
	b.WriteString(dimStyle.Render(footer))

	return modalStyle.Width(modalWidth).Render(b.String())
}
