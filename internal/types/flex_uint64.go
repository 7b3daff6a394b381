package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexUint64 is an unsigned integer that unmarshals from either a JSON
// number or a numeric JSON string. Scanner clients post
// defaultExpirationDays in both shapes, so request bodies use this type
// instead of rejecting one of them.
type FlexUint64 uint64

// UnmarshalJSON accepts 14 and "14" alike.
func (f *FlexUint64) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("FlexUint64: %w", err)
		}
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return fmt.Errorf("FlexUint64: invalid uint64 string %q: %w", s, err)
		}
		*f = FlexUint64(v)
		return nil
	}

	var n uint64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("FlexUint64: expected number or numeric string: %w", err)
	}
	*f = FlexUint64(n)
	return nil
}

// MarshalJSON always emits the plain number form.
func (f FlexUint64) MarshalJSON() ([]byte, error) {
	return json.Marshal(uint64(f))
}

// Uint64 converts FlexUint64 back to uint64.
func (f FlexUint64) Uint64() uint64 {
	return uint64(f)
}
