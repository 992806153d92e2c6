// Package dom is the rendered node tree views draw into. It is the surface
// the terminal renderer walks: element nodes carry a tag, attributes, classes
// and an opacity used by fade transitions; text nodes carry their text.
package dom

import (
	"sort"
	"strings"
)

// Node is an element or text node.
type Node struct {
	Tag     string
	Text    string
	Opacity float64

	attrs    map[string]string
	classes  []string
	children []*Node
	parent   *Node

	delegates []*delegate
}

// El creates an element node with the given children.
func El(tag string, children ...*Node) *Node {
	n := &Node{Tag: tag, Opacity: 1, attrs: make(map[string]string)}
	n.Append(children...)
	return n
}

// TextNode creates a text node.
func TextNode(text string) *Node {
	return &Node{Text: text, Opacity: 1, attrs: make(map[string]string)}
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n.Tag == ""
}

// SetAttr sets an attribute and returns n for chaining.
func (n *Node) SetAttr(name, value string) *Node {
	if name == "class" {
		n.classes = strings.Fields(value)
		return n
	}
	n.attrs[name] = value
	return n
}

// Attr returns the value of an attribute, or "" if unset.
func (n *Node) Attr(name string) string {
	if name == "class" {
		return strings.Join(n.classes, " ")
	}
	return n.attrs[name]
}

// HasAttr reports whether the attribute is set.
func (n *Node) HasAttr(name string) bool {
	if name == "class" {
		return len(n.classes) > 0
	}
	_, ok := n.attrs[name]
	return ok
}

// AttrNames returns the attribute names in sorted order.
func (n *Node) AttrNames() []string {
	names := make([]string, 0, len(n.attrs))
	for k := range n.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// AddClass adds a class if not present.
func (n *Node) AddClass(class string) *Node {
	if !n.HasClass(class) {
		n.classes = append(n.classes, class)
	}
	return n
}

// RemoveClass removes a class.
func (n *Node) RemoveClass(class string) *Node {
	for i, c := range n.classes {
		if c == class {
			n.classes = append(n.classes[:i:i], n.classes[i+1:]...)
			return n
		}
	}
	return n
}

// HasClass reports whether the node has the class.
func (n *Node) HasClass(class string) bool {
	for _, c := range n.classes {
		if c == class {
			return true
		}
	}
	return false
}

// Parent returns the parent node, or nil when detached.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the child nodes. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// Append appends children, detaching them from any previous parent.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c == nil {
			continue
		}
		c.Remove()
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

// Empty removes every child.
func (n *Node) Empty() *Node {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
	return n
}

// SetContent replaces the children with the given nodes.
func (n *Node) SetContent(children ...*Node) *Node {
	n.Empty()
	return n.Append(children...)
}

// SetText replaces the children with a single text node.
func (n *Node) SetText(text string) *Node {
	return n.SetContent(TextNode(text))
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	if n.parent == nil {
		return
	}
	p := n.parent
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// InDocument reports whether the node is attached under a node tagged
// "document".
func (n *Node) InDocument() bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.Tag == "document" {
			return true
		}
	}
	return false
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// Walk visits n and its descendants in document order until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}
