// Package notify holds the notification records services emit and the bar
// that displays them.
package notify

import "fmt"

// Event is the name of the event services fire to publish a notification.
// The payload is a Notification.
const Event = "notify"

// State of the operation a notification reports on.
type State string

const (
	StateStarted State = "started"
	StateDone    State = "done"
	StateError   State = "error"
)

// Notification is a user facing status message. Notifications sharing an
// Identifier replace each other. A Timeout of 0 keeps the notification until
// it is replaced or dismissed; otherwise it is removed after Timeout seconds.
type Notification struct {
	Identifier string
	Text       string
	State      State
	Timeout    int
}

func (n Notification) String() string {
	return fmt.Sprintf("[%s] %s (%s)", n.State, n.Text, n.Identifier)
}
