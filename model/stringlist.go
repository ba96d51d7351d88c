package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// StringList is a list of short strings such as service features or blog tags.
//
// The upstream API historically stored these as a JSON-encoded string inside the
// record, so decoding accepts a JSON array, a string holding a JSON array, a
// comma separated string, "" and null. Encoding always produces a JSON array.
type StringList []string

// MarshalJSON encodes the list as a JSON array; a nil list encodes as [].
func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// UnmarshalJSON decodes any of the accepted wire shapes.
func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if data[0] == '[' {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("decode string list: %w", err)
		}
		*l = compact(items)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode string list: %w", err)
	}
	parsed, err := ParseStringList(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseStringList decodes the legacy string form of a list. Text that starts
// with "[" but is not a JSON array, such as "[Beta] group sessions", is read
// as a comma separated list.
func ParseStringList(s string) (StringList, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "[") {
		var items []string
		if err := json.Unmarshal([]byte(s), &items); err == nil {
			return compact(items), nil
		}
	}
	return compact(strings.Split(s, ",")), nil
}

// Value stores the list as JSON text.
func (l StringList) Value() (driver.Value, error) {
	b, err := l.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan reads a list stored by Value.
func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		parsed, err := ParseStringList(string(v))
		if err != nil {
			return err
		}
		*l = parsed
		return nil
	case string:
		parsed, err := ParseStringList(v)
		if err != nil {
			return err
		}
		*l = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// GormDataType keeps the column a text column on every dialect.
func (StringList) GormDataType() string {
	return "text"
}

func compact(items []string) StringList {
	out := make(StringList, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
