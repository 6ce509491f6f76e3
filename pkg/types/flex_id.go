package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FlexID is an identifier the REST API may encode as a JSON number or string.
// Numeric identifiers are written back as bare numbers.
type FlexID string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = FlexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("identifier must be a string or number: %w", err)
	}
	*f = FlexID(n.String())
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f FlexID) MarshalJSON() ([]byte, error) {
	if f.IsNumeric() {
		return []byte(f), nil
	}
	return json.Marshal(string(f))
}

// IsNumeric reports whether the identifier is a non-empty run of digits.
func (f FlexID) IsNumeric() bool {
	if f == "" {
		return false
	}
	for _, r := range f {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (f FlexID) String() string {
	return string(f)
}
