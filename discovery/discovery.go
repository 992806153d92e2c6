// Package discovery is the universal discovery picker: a modal list of
// repository contents the user selects from to fill relations.
package discovery

import "draftui/repository"

// Event is fired by views asking for the picker to open. The payload is a
// Config.
const Event = "contentDiscover"

// Config configures one run of the picker.
type Config struct {
	Title string
	// Multiple allows selecting more than one content.
	Multiple bool
	// ContentDiscoveredHandler receives the confirmed selection.
	ContentDiscoveredHandler func(Selection)
	// CancelDiscoverHandler runs when the picker is closed without a
	// selection.
	CancelDiscoverHandler func()
}

// Struct wraps one selected content.
type Struct struct {
	Content repository.Content
}

// Selection is the outcome of a confirmed discovery, in selection order.
type Selection struct {
	Selection []Struct
}
