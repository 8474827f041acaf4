package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalString is a PATCH field that distinguishes "absent" from "null":
//   - Present=false: field not sent, leave unchanged
//   - Present=true, Value=nil: field sent as null, clear it
//   - Present=true, Value set: field sent with a value
type OptionalString struct {
	Present bool
	Value   *string
}

// Some returns a present field holding s
func Some(s string) OptionalString {
	return OptionalString{Present: true, Value: &s}
}

// Null returns a present field holding JSON null
func Null() OptionalString {
	return OptionalString{Present: true}
}

// UnmarshalJSON only runs for keys that appear in the document
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}
