package dom

import (
	"fmt"
	"strings"
)

// Selector is a compound simple selector: an optional tag, any number of
// classes and attribute conditions, e.g. `tr[data-content-id="42"]` or
// `.ez-relationlist-contents`. Combinators are not supported.
type Selector struct {
	Tag     string
	Classes []string
	Attrs   []AttrCond
}

// AttrCond matches an attribute by presence or by exact value.
type AttrCond struct {
	Name     string
	Value    string
	HasValue bool
}

// ParseSelector parses a compound selector.
func ParseSelector(s string) (Selector, error) {
	var sel Selector
	s = strings.TrimSpace(s)
	if s == "" {
		return sel, fmt.Errorf("empty selector")
	}
	if strings.ContainsAny(s, " >+~,") && !strings.Contains(s, "[") {
		return sel, fmt.Errorf("unsupported selector %q", s)
	}

	i := 0
	readIdent := func() string {
		start := i
		for i < len(s) && s[i] != '.' && s[i] != '[' {
			i++
		}
		return s[start:i]
	}

	sel.Tag = readIdent()
	for i < len(s) {
		switch s[i] {
		case '.':
			i++
			class := readIdent()
			if class == "" {
				return sel, fmt.Errorf("empty class in selector %q", s)
			}
			sel.Classes = append(sel.Classes, class)
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end == -1 {
				return sel, fmt.Errorf("unterminated attribute in selector %q", s)
			}
			cond, err := parseAttrCond(s[i+1 : i+end])
			if err != nil {
				return sel, err
			}
			sel.Attrs = append(sel.Attrs, cond)
			i += end + 1
		default:
			return sel, fmt.Errorf("unexpected %q in selector %q", s[i], s)
		}
	}
	return sel, nil
}

func parseAttrCond(body string) (AttrCond, error) {
	name, value, found := strings.Cut(body, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return AttrCond{}, fmt.Errorf("empty attribute name in [%s]", body)
	}
	if !found {
		return AttrCond{Name: name}, nil
	}
	value = strings.Trim(strings.TrimSpace(value), `"'`)
	return AttrCond{Name: name, Value: value, HasValue: true}, nil
}

// Match reports whether the node matches the selector.
func (sel Selector) Match(n *Node) bool {
	if n == nil || n.IsText() {
		return false
	}
	if sel.Tag != "" && sel.Tag != n.Tag {
		return false
	}
	for _, c := range sel.Classes {
		if !n.HasClass(c) {
			return false
		}
	}
	for _, a := range sel.Attrs {
		if !n.HasAttr(a.Name) {
			return false
		}
		if a.HasValue && n.Attr(a.Name) != a.Value {
			return false
		}
	}
	return true
}

// One returns the first descendant of n matching selector, or nil. An
// invalid selector matches nothing.
func (n *Node) One(selector string) *Node {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil
	}
	var found *Node
	for _, c := range n.children {
		c.Walk(func(d *Node) bool {
			if sel.Match(d) {
				found = d
				return false
			}
			return true
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// All returns every descendant of n matching selector in document order.
func (n *Node) All(selector string) []*Node {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil
	}
	var out []*Node
	for _, c := range n.children {
		c.Walk(func(d *Node) bool {
			if sel.Match(d) {
				out = append(out, d)
			}
			return true
		})
	}
	return out
}

// AttrSelector builds `tag[name="value"]`.
func AttrSelector(tag, name, value string) string {
	return fmt.Sprintf(`%s[%s="%s"]`, tag, name, value)
}
