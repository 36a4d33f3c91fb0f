package asset

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// legacyTagSeparator is the delimiter used by catalogs created before tags were
// stored as JSON. It is only ever read, never written.
const legacyTagSeparator = "|"

// TagList is an ordered list of tags stored in a single text column.
//
// Values are written as a JSON array so tag content can never collide with the
// encoding. Blank entries are dropped and the rest are trimmed; order is kept.
// Scan also understands the legacy pipe-delimited format.
type TagList []string

// NewTagList builds a TagList from raw values, trimming each entry and
// dropping the ones that are empty or whitespace only.
func NewTagList(values ...string) TagList {
	out := make(TagList, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Contains reports whether tag is one of the entries.
func (t TagList) Contains(tag string) bool {
	for _, v := range t {
		if v == tag {
			return true
		}
	}
	return false
}

// Value implements the driver.Valuer interface for TagList.
func (t TagList) Value() (driver.Value, error) {
	b, err := json.Marshal([]string(NewTagList(t...)))
	if err != nil {
		return nil, fmt.Errorf("encode tag list: %w", err)
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for TagList. NULL, empty and
// malformed values decode to an empty list.
func (t *TagList) Scan(value any) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*t = TagList{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("unsupported type for TagList: %T", value)
	}
	*t = decodeTagList(raw)
	return nil
}

func decodeTagList(raw string) TagList {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return TagList{}
	}
	if strings.HasPrefix(raw, "[") {
		var values []string
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			return TagList{}
		}
		return NewTagList(values...)
	}
	return NewTagList(strings.Split(raw, legacyTagSeparator)...)
}

// MarshalJSON always emits an array, never null.
func (t TagList) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}
