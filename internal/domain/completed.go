package domain

import (
	"encoding/json"
	"strings"
)

// NormalizeCompleted coerces the heterogeneous encodings clients send for the
// completed flag into a bool: true, 1, "true", "yes", "1" and "completed"
// (case-insensitive) are true, everything else is false.
func NormalizeCompleted(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val == 1
	case string:
		switch strings.ToLower(val) {
		case "true", "yes", "1", "completed":
			return true
		}
	}
	return false
}

// CompletedFlag is the JSON wrapper around NormalizeCompleted. A pointer field
// of this type distinguishes "absent" (nil) from "present and false".
type CompletedFlag bool

func (f *CompletedFlag) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = CompletedFlag(NormalizeCompleted(v))
	return nil
}

func (f CompletedFlag) Bool() bool { return bool(f) }
