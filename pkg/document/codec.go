package document

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// MarshalJSON encodes the value as a JSON string, array, or object.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// UnmarshalJSON decodes a JSON string, array of scalars, or object of scalars.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("document: decode value: %w", err)
	}
	decoded, ok := FromAny(raw)
	if !ok {
		return fmt.Errorf("document: unsupported value shape %s", string(data))
	}
	*v = decoded
	return nil
}
