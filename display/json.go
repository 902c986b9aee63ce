package display

import (
	"encoding/json"
)

// MarshalJSON marshals JSON with pretty formatting for human-readable output
func MarshalJSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
