package commands

import (
	"github.com/teranos/ancestry/display"
)

func writeJSON(s *session, v interface{}) error {
	return display.OutputJSON(s.out, v)
}

// optional is satisfied by every genealogy.Optional instantiation.
type optional interface {
	Valid() bool
	String() string
}

// optionalCell renders an absent value as "-" in tables.
func optionalCell(v optional) string {
	if !v.Valid() {
		return "-"
	}
	return v.String()
}
