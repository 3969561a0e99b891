package autocomplete

import "strings"

// Kind tags the shape of a suggestion set.
type Kind int

const (
	Empty Kind = iota
	One
	Many
)

func (k Kind) String() string {
	switch k {
	case One:
		return "one"
	case Many:
		return "many"
	default:
		return "empty"
	}
}

// Suggestions is a normalized suggestion set. Exactly one of the payload
// fields is meaningful depending on Kind.
type Suggestions struct {
	Kind Kind
	One  string
	Many []string
}

// List returns the suggestions as a slice regardless of Kind.
func (s Suggestions) List() []string {
	switch s.Kind {
	case One:
		return []string{s.One}
	case Many:
		return s.Many
	default:
		return nil
	}
}

// normalize turns a decoded document into a tagged suggestion set. Entries
// without a suggestion data attribute are dropped.
func normalize(doc *toplevel) Suggestions {
	if doc == nil {
		return Suggestions{Kind: Empty}
	}
	values := make([]string, 0, len(doc.CompleteSuggestion))
	for _, entry := range doc.CompleteSuggestion {
		if entry.Suggestion == nil || entry.Suggestion.Data == nil {
			continue
		}
		value := strings.TrimSpace(*entry.Suggestion.Data)
		if value == "" {
			continue
		}
		values = append(values, value)
	}
	switch len(values) {
	case 0:
		return Suggestions{Kind: Empty}
	case 1:
		return Suggestions{Kind: One, One: values[0]}
	default:
		return Suggestions{Kind: Many, Many: values}
	}
}
