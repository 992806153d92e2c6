package dom

// Event is a DOM event delivered to delegated handlers.
type Event struct {
	Action string
	// Target is the node the action was triggered on.
	Target *Node
	// CurrentTarget is the node that matched the delegated selector.
	CurrentTarget *Node

	prevented bool
}

// PreventDefault marks the event as handled.
func (e *Event) PreventDefault() {
	e.prevented = true
}

// Prevented reports whether PreventDefault was called.
func (e *Event) Prevented() bool {
	return e.prevented
}

// EventHandler handles a delegated DOM event.
type EventHandler func(e *Event)

type delegate struct {
	selector Selector
	action   string
	handler  EventHandler
	detached bool
}

// Delegate registers handler on n for action triggered on any descendant
// matching selector. The returned function removes the handler.
func (n *Node) Delegate(selector, action string, handler EventHandler) (func(), error) {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil, err
	}
	d := &delegate{selector: sel, action: action, handler: handler}
	n.delegates = append(n.delegates, d)
	return func() {
		d.detached = true
		for i, cur := range n.delegates {
			if cur == d {
				n.delegates = append(n.delegates[:i:i], n.delegates[i+1:]...)
				return
			}
		}
	}, nil
}

// Trigger dispatches action from target up through its ancestors. Every
// ancestor holding delegates gets a chance to handle the event for the
// closest matching node between target and itself. It returns true if any
// handler ran.
func Trigger(target *Node, action string) bool {
	handled := false
	for host := target; host != nil; host = host.parent {
		if len(host.delegates) == 0 {
			continue
		}
		delegates := make([]*delegate, len(host.delegates))
		copy(delegates, host.delegates)
		for _, d := range delegates {
			if d.detached || d.action != action {
				continue
			}
			for cur := target; cur != nil && cur != host; cur = cur.parent {
				if d.selector.Match(cur) {
					d.handler(&Event{Action: action, Target: target, CurrentTarget: cur})
					handled = true
					break
				}
			}
		}
	}
	return handled
}
