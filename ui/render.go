package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"draftui/dom"
)

const (
	// focusMarker prefixes the focused button or input. View uses it to
	// keep the focused line on screen.
	focusMarker = "▸ "

	maxCellWidth = 40
)

var inlineTags = map[string]bool{
	"button": true,
	"input":  true,
	"span":   true,
	"strong": true,
	"em":     true,
	"a":      true,
}

// Renderer draws a DOM tree as terminal lines. Block elements start a new
// line, inline elements and text flow on the current one.
type Renderer struct {
	Width int
	// Focused is highlighted and prefixed with the focus marker.
	Focused *dom.Node
	// Editing is the input being edited inline; EditView replaces its value.
	Editing  *dom.Node
	EditView string
	// Spinner prefixes loading messages.
	Spinner string
}

// Render returns the text of root.
func (r Renderer) Render(root *dom.Node) string {
	return strings.Join(r.Lines(root), "\n")
}

// Lines returns the lines of root.
func (r Renderer) Lines(root *dom.Node) []string {
	if root == nil {
		return nil
	}
	if root.IsText() || inlineTags[root.Tag] {
		return []string{r.inline(root)}
	}
	return r.block(root)
}

func (r Renderer) block(n *dom.Node) []string {
	var lines []string
	switch n.Tag {
	case "table":
		lines = r.table(n)
	case "h1":
		lines = []string{TitleStyle.Render(r.truncate(n.TextContent()))}
	case "p":
		text := strings.TrimSpace(n.TextContent())
		if text == "" {
			return nil
		}
		lines = []string{r.paragraph(n, r.truncate(text))}
	default:
		lines = r.flow(n)
	}
	return r.decorate(n, lines)
}

// flow lays out children: runs of inline content share a line.
func (r Renderer) flow(n *dom.Node) []string {
	var lines, run []string
	flush := func() {
		if len(run) > 0 {
			lines = append(lines, strings.Join(run, " "))
			run = nil
		}
	}
	for _, c := range n.Children() {
		if c.IsText() || inlineTags[c.Tag] {
			if s := r.inline(c); s != "" {
				run = append(run, s)
			}
			continue
		}
		flush()
		lines = append(lines, r.block(c)...)
	}
	flush()
	return lines
}

func (r Renderer) inline(n *dom.Node) string {
	var s string
	switch {
	case n.IsText():
		s = strings.TrimSpace(n.Text)
	case n.Tag == "button":
		s = "[ " + strings.TrimSpace(n.TextContent()) + " ]"
		if n != r.Focused {
			s = ButtonStyle.Render(s)
		}
	case n.Tag == "input":
		if n == r.Editing {
			return focusMarker + r.EditView
		}
		value := n.Attr("value")
		if value == "" {
			value = "…"
		}
		s = "[ " + r.truncate(value) + " ]"
		if n != r.Focused {
			s = InputStyle.Render(s)
		}
	default:
		parts := make([]string, 0, len(n.Children()))
		for _, c := range n.Children() {
			if p := r.inline(c); p != "" {
				parts = append(parts, p)
			}
		}
		s = strings.Join(parts, " ")
	}
	if n == r.Focused {
		s = SelectedStyle.Render(focusMarker + s)
	}
	if !n.IsText() && n.Opacity < 1 {
		s = FadedStyle.Render(s)
	}
	return s
}

func (r Renderer) paragraph(n *dom.Node, text string) string {
	switch {
	case n.HasClass("ez-editfield-error-message"), n.HasClass("ez-relationlist-error"):
		return ErrorStyle.Render(text)
	case n.HasClass("ez-asynchronousview-loading"):
		if r.Spinner != "" {
			return r.Spinner + " " + DimStyle.Render(text)
		}
		return DimStyle.Render(text)
	case n.HasClass("ez-relationlist-empty"), n.HasClass("ez-editfield-unsupported"), n.HasClass("ez-contenteditview-info"):
		return DimStyle.Render(text)
	}
	return text
}

// decorate applies the per-class block styling.
func (r Renderer) decorate(n *dom.Node, lines []string) []string {
	switch {
	case n.HasClass("ez-editfield-label"):
		for i, l := range lines {
			lines[i] = LabelStyle.Render(l)
		}
	case n.HasClass("ez-editfield-row"):
		gutter := "  "
		if n.HasClass("is-error") {
			gutter = ErrorStyle.Render("┃ ")
		}
		for i, l := range lines {
			lines[i] = gutter + l
		}
		lines = append(lines, "")
	case n.HasClass("ez-form-actions"), n.Tag == "header":
		lines = append(lines, "")
	}
	if n.Opacity < 1 {
		for i, l := range lines {
			lines[i] = FadedStyle.Render(l)
		}
	}
	return lines
}

// table renders rows as aligned columns. The header row is the one made of
// th cells.
func (r Renderer) table(n *dom.Node) []string {
	rows := n.All("tr")
	if len(rows) == 0 {
		return nil
	}

	cells := make([][]string, len(rows))
	var widths []int
	for i, row := range rows {
		for j, cell := range row.Children() {
			if cell.IsText() || (cell.Tag != "td" && cell.Tag != "th") {
				continue
			}
			text := r.cell(cell)
			cells[i] = append(cells[i], text)
			if len(widths) <= j {
				widths = append(widths, 0)
			}
			if w := lipgloss.Width(text); w > widths[j] {
				widths[j] = w
			}
		}
	}

	lines := make([]string, 0, len(rows))
	for i, row := range rows {
		padded := make([]string, len(cells[i]))
		for j, text := range cells[i] {
			padded[j] = text + strings.Repeat(" ", widths[j]-lipgloss.Width(text))
		}
		line := strings.TrimRight(strings.Join(padded, "  "), " ")
		switch {
		case row.One("th") != nil:
			line = TableHeaderStyle.Render(line)
		case row.Opacity < 1:
			line = FadedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return lines
}

func (r Renderer) cell(n *dom.Node) string {
	for _, c := range n.Children() {
		if !c.IsText() {
			return r.inline(n)
		}
	}
	return runewidth.Truncate(strings.TrimSpace(n.TextContent()), maxCellWidth, "…")
}

func (r Renderer) truncate(s string) string {
	if r.Width <= 0 {
		return s
	}
	return runewidth.Truncate(s, r.Width-4, "…")
}
