package discovery

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draftui/config"
	"draftui/repository"
	"draftui/repository/testutil"
)

func openPicker(t *testing.T, cfg Config, client *testutil.MockClient) *Picker {
	t.Helper()
	env := testutil.NewEnv()
	p := NewPicker(cfg, env.Loop, client, config.DefaultKeybindings())
	p.Open()
	assert.True(t, p.Loading())
	testutil.RunLoop(env.Loop)
	require.False(t, p.Loading())
	return p
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPickerMultipleSelection(t *testing.T) {
	var got Selection
	cfg := Config{Multiple: true, ContentDiscoveredHandler: func(s Selection) { got = s }}
	p := openPicker(t, cfg, testutil.NewMockClient(testutil.Contents(42, 77, 91)...))

	require.Len(t, p.Visible(), 3)

	p.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	p.Update(keyRunes("j"))
	p.Update(keyRunes("j"))
	p.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	assert.Equal(t, []int{42, 91}, p.Selected())

	p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, p.Closed())
	require.Len(t, got.Selection, 2)
	assert.Equal(t, 42, got.Selection[0].Content.ID)
	assert.Equal(t, 91, got.Selection[1].Content.ID)
}

func TestPickerToggleDeselects(t *testing.T) {
	p := openPicker(t, Config{Multiple: true}, testutil.NewMockClient(testutil.Contents(1, 2)...))

	p.Toggle()
	p.Toggle()
	assert.Empty(t, p.Selected())
}

func TestPickerSingleSelectionReplaces(t *testing.T) {
	p := openPicker(t, Config{}, testutil.NewMockClient(testutil.Contents(1, 2)...))

	p.Toggle()
	p.move(1)
	p.Toggle()
	assert.Equal(t, []int{2}, p.Selected())
}

func TestPickerConfirmUsesCursorWhenNothingSelected(t *testing.T) {
	var got Selection
	p := openPicker(t, Config{ContentDiscoveredHandler: func(s Selection) { got = s }}, testutil.NewMockClient(testutil.Contents(5, 6)...))

	p.move(1)
	p.Confirm()
	require.Len(t, got.Selection, 1)
	assert.Equal(t, 6, got.Selection[0].Content.ID)
}

func TestPickerCancel(t *testing.T) {
	cancelled := false
	discovered := false
	cfg := Config{
		ContentDiscoveredHandler: func(Selection) { discovered = true },
		CancelDiscoverHandler:    func() { cancelled = true },
	}
	p := openPicker(t, cfg, testutil.NewMockClient(testutil.Contents(5)...))

	p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, p.Closed())
	assert.True(t, cancelled)
	assert.False(t, discovered)
}

func TestPickerConfirmWithNothingListedCancels(t *testing.T) {
	cancelled := false
	p := openPicker(t, Config{CancelDiscoverHandler: func() { cancelled = true }}, testutil.NewMockClient())

	p.Confirm()
	assert.True(t, cancelled)
}

func TestPickerFilter(t *testing.T) {
	contents := []repository.Content{
		{ID: 1, Name: "Getting started"},
		{ID: 2, Name: "Release notes"},
		{ID: 3, Name: "Contributors"},
	}
	p := openPicker(t, Config{Multiple: true}, testutil.NewMockClient(contents...))

	p.Update(keyRunes("/"))
	for _, r := range "rel" {
		p.Update(keyRunes(string(r)))
	}
	require.NotEmpty(t, p.Visible())
	assert.Equal(t, "Release notes", p.Visible()[0].Name)

	p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Len(t, p.Visible(), 3)
	assert.False(t, p.Closed())
}

func TestPickerListingError(t *testing.T) {
	client := testutil.NewMockClient()
	client.SearchFunc = func(ctx context.Context, query string, limit int) ([]repository.Content, error) {
		return nil, errors.New("connection refused")
	}
	p := openPicker(t, Config{}, client)

	require.Error(t, p.Err())
	assert.Contains(t, p.View(80, 24), "connection refused")
}

func TestPickerResultAfterCloseIsDropped(t *testing.T) {
	env := testutil.NewEnv()
	p := NewPicker(Config{}, env.Loop, testutil.NewMockClient(testutil.Contents(1)...), config.DefaultKeybindings())
	p.Open()
	p.Cancel()

	testutil.RunLoop(env.Loop)
	assert.Empty(t, p.Visible())
}

func TestPickerView(t *testing.T) {
	p := openPicker(t, Config{Title: "Select the contents you want to add in the relation", Multiple: true}, testutil.NewMockClient(testutil.Contents(42)...))
	p.Toggle()

	out := p.View(80, 24)
	assert.Contains(t, out, "Select the contents you want to add in the relation")
	assert.Contains(t, out, "[x] Content 42")
}
