package notify

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"draftui/config"
	"draftui/event"
	"draftui/view"
)

var (
	startedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

type entry struct {
	Notification
	// generation changes whenever the entry is replaced so a pending
	// dismissal of an older notification leaves the new one alone.
	generation string
}

// Bar keeps the visible notifications, oldest first.
type Bar struct {
	loop    *view.Loop
	id      string
	entries []entry
}

// NewBar creates a bar scheduling its dismissals on loop.
func NewBar(loop *view.Loop) *Bar {
	b := &Bar{loop: loop, id: "notificationBar-" + uuid.NewString()}
	loop.Register(b.id)
	return b
}

// Listen subscribes the bar to notify events reaching target.
func (b *Bar) Listen(target *event.Target) *event.Subscription {
	return target.On(event.Wildcard+":"+Event, func(e *event.Facade) {
		if n, ok := e.Payload.(Notification); ok {
			b.Notify(n)
		}
	})
}

// Notify shows n, replacing the notification with the same identifier.
func (b *Bar) Notify(n Notification) {
	ent := entry{Notification: n, generation: uuid.NewString()}

	replaced := false
	for i := range b.entries {
		if b.entries[i].Identifier == n.Identifier {
			b.entries[i] = ent
			replaced = true
			break
		}
	}
	if !replaced {
		b.entries = append(b.entries, ent)
	}

	if config.DebugLog != nil {
		config.DebugLog.Debug().Str("component", "NotificationBar").Str("identifier", n.Identifier).
			Str("state", string(n.State)).Bool("replaced", replaced).Msg("notification")
	}

	if n.Timeout > 0 {
		b.loop.After(b.id, time.Duration(n.Timeout)*time.Second, func() {
			b.expire(n.Identifier, ent.generation)
		})
	}
}

func (b *Bar) expire(identifier, generation string) {
	for i, e := range b.entries {
		if e.Identifier == identifier && e.generation == generation {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return
		}
	}
}

// Dismiss removes the notification with the given identifier.
func (b *Bar) Dismiss(identifier string) {
	for i, e := range b.entries {
		if e.Identifier == identifier {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return
		}
	}
}

// DismissAll removes every notification.
func (b *Bar) DismissAll() {
	b.entries = nil
}

// Notifications returns the visible notifications, oldest first.
func (b *Bar) Notifications() []Notification {
	out := make([]Notification, len(b.entries))
	for i, e := range b.entries {
		out[i] = e.Notification
	}
	return out
}

// View renders one line per notification.
func (b *Bar) View(width int) string {
	if len(b.entries) == 0 {
		return ""
	}
	lines := make([]string, 0, len(b.entries))
	for _, e := range b.entries {
		var icon string
		var style lipgloss.Style
		switch e.State {
		case StateDone:
			icon, style = "✓", doneStyle
		case StateError:
			icon, style = "✗", errorStyle
		default:
			icon, style = "…", startedStyle
		}
		lines = append(lines, style.Width(width).Render(icon+" "+e.Text))
	}
	return strings.Join(lines, "\n")
}
