package asset

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateLayout is the canonical form of last_validated_on.
const DateLayout = "2006-01-02"

// yearFirstLayouts are tried before the general parser so that ambiguous
// all-numeric dates read year first.
var yearFirstLayouts = []string{
	DateLayout,
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"2006.01.02",
	"2006.1.2",
	"2006 Jan 2",
	"2006 January 2",
	"2006-Jan-02",
	"2006-January-02",
	"06-01-02",
	"06/01/02",
}

// NormalizeDate converts a free-form date to YYYY-MM-DD.
//
// It has exactly two outcomes: the canonical date when s parses, or the
// trimmed input unchanged when it is empty or does not parse. Callers detect
// the second outcome with IsISODate.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range yearFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout)
		}
	}
	// Month first, unless the first field cannot be a month.
	t, err := dateparse.ParseAny(s, dateparse.RetryAmbiguousDateWithSwap(true))
	if err != nil {
		return s
	}
	return t.Format(DateLayout)
}

// IsISODate reports whether s is already a canonical YYYY-MM-DD date.
func IsISODate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
