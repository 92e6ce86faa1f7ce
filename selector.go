package scrape

import "strings"

// Selector names one field of a Record and the CSS selector that locates it
// inside a container.
type Selector struct {
	// Field is the key the extracted value is stored under.
	Field string

	// Query is the CSS selector evaluated against each container.
	Query string

	// Attr, when set, reads this attribute of the matched element
	// instead of its text content.
	Attr string
}

// String returns the selector in the form accepted by ParseSelector.
func (s Selector) String() string {
	if s.Attr != "" {
		return s.Field + "=" + s.Query + "@" + s.Attr
	}
	return s.Field + "=" + s.Query
}

// ParseSelector parses "field=query" or "field=query@attr".
// The last "@" separates the attribute only when a bare attribute name
// follows it, so queries like a[href="mailto:me@x.com"] stay intact.
func ParseSelector(s string) (Selector, error) {
	field, rest, ok := strings.Cut(s, "=")
	if !ok {
		return Selector{}, Errorf(EINVALID, "selector %q: expected field=query", s)
	}

	sel := Selector{Field: strings.TrimSpace(field), Query: strings.TrimSpace(rest)}
	if i := strings.LastIndex(rest, "@"); i >= 0 {
		attr := strings.TrimSpace(rest[i+1:])
		switch {
		case attr == "":
			return Selector{}, Errorf(EINVALID, "selector %q: empty attribute name", s)
		case isAttrName(attr):
			sel.Query = strings.TrimSpace(rest[:i])
			sel.Attr = attr
		}
	}

	if sel.Field == "" || sel.Query == "" {
		return Selector{}, Errorf(EINVALID, "selector %q: field and query are required", s)
	}
	return sel, nil
}

// isAttrName reports whether s is a plain HTML attribute name:
// a letter, "_" or ":" followed by letters, digits, "-", "_", ":" or ".".
func isAttrName(s string) bool {
	for i, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r == '_', r == ':':
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return s != ""
}

// SelectorMap is an ordered set of selectors keyed by field name.
// Records produced from it carry its fields in the same order.
type SelectorMap []Selector

// Set adds sel, or replaces the selector already registered for sel.Field
// while keeping its position.
func (m *SelectorMap) Set(sel Selector) {
	for i := range *m {
		if (*m)[i].Field == sel.Field {
			(*m)[i] = sel
			return
		}
	}
	*m = append(*m, sel)
}

// Fields returns the field names in declaration order.
func (m SelectorMap) Fields() []string {
	fields := make([]string, len(m))
	for i, sel := range m {
		fields[i] = sel.Field
	}
	return fields
}

// Validate returns an error if the map is empty, has blank entries,
// or declares a field more than once.
func (m SelectorMap) Validate() error {
	if len(m) == 0 {
		return Errorf(EINVALID, "at least one selector is required")
	}
	seen := make(map[string]struct{}, len(m))
	for _, sel := range m {
		if sel.Field == "" {
			return Errorf(EINVALID, "selector field name required")
		}
		if sel.Query == "" {
			return Errorf(EINVALID, "selector for field %q is empty", sel.Field)
		}
		if _, ok := seen[sel.Field]; ok {
			return Errorf(EINVALID, "duplicate selector field %q", sel.Field)
		}
		seen[sel.Field] = struct{}{}
	}
	return nil
}

// ParseSelectorMap parses each entry with ParseSelector. Later entries for
// the same field replace earlier ones.
func ParseSelectorMap(entries []string) (SelectorMap, error) {
	var m SelectorMap
	for _, entry := range entries {
		sel, err := ParseSelector(entry)
		if err != nil {
			return nil, err
		}
		m.Set(sel)
	}
	return m, nil
}
