package field

import "draftui/repository"

// RelationList is the value of a relation list field: the destination
// contents and their ids. The ids are always derived from the contents once
// contents are known; before that they hold the ids stored in the field.
type RelationList struct {
	contents []repository.Content
	ids      []int
}

// NewRelationList seeds a list with the ids stored in a field, before the
// contents are fetched.
func NewRelationList(ids []int) RelationList {
	return RelationList{ids: append([]int(nil), ids...)}
}

// WithContents returns a list holding contents and their ids.
func (l RelationList) WithContents(contents []repository.Content) RelationList {
	out := RelationList{
		contents: append([]repository.Content(nil), contents...),
		ids:      make([]int, len(contents)),
	}
	for i, c := range contents {
		out.ids[i] = c.ContentID()
	}
	return out
}

// Contents returns a copy of the destination contents.
func (l RelationList) Contents() []repository.Content {
	return append([]repository.Content(nil), l.contents...)
}

// IDs returns a copy of the destination content ids.
func (l RelationList) IDs() []int {
	out := make([]int, len(l.ids))
	copy(out, l.ids)
	return out
}

// IsEmpty reports whether the list holds no id.
func (l RelationList) IsEmpty() bool {
	return len(l.ids) == 0
}

// Contains reports whether id is in the list.
func (l RelationList) Contains(id int) bool {
	for _, cur := range l.ids {
		if cur == id {
			return true
		}
	}
	return false
}

// Without returns the contents of l except the one with id.
func (l RelationList) Without(id int) []repository.Content {
	out := make([]repository.Content, 0, len(l.contents))
	for _, c := range l.contents {
		if c.ContentID() != id {
			out = append(out, c)
		}
	}
	return out
}

// With returns the contents of l followed by the given contents that are not
// related yet, in order.
func (l RelationList) With(added ...repository.Content) []repository.Content {
	out := l.Contents()
	seen := make(map[int]bool, len(l.ids)+len(added))
	for _, id := range l.ids {
		seen[id] = true
	}
	for _, c := range added {
		if seen[c.ContentID()] {
			continue
		}
		seen[c.ContentID()] = true
		out = append(out, c)
	}
	return out
}
