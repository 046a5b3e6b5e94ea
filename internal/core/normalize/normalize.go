// Package normalize turns one month of the broadcaster export into typed
// records. Cell-level helpers:
// 1 Header drops BOM and format runes, quotes and edge whitespace, then NFKC,
// case and width folds so header spellings compare equal
// 2 TrimTrailingField removes the phantom field every data row carries,
// working on the raw line so a stray quote in it cannot reach the parser
// 3 Number folds width, strips thousands separators, maps "-" to zero and
// anything unparseable to missing
// 4 Timestamp accepts the export's locale layouts in a fixed zone
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
	_ "time/tzdata" // Asia/Tokyo on hosts without zoneinfo
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"liverkpi/internal/core/broadcast"
)

// pool of fresh header chains
var headerPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			runes.Remove(runes.In(unicode.Cf)), // BOM, ZWSP and friends
			norm.NFKC,
			cases.Fold(),
			width.Fold,
		)
	},
}

// Header returns the comparison form of a header cell
func Header(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = strings.ReplaceAll(s, `"`, "")

	tr := headerPool.Get().(transform.Transformer)
	out, _, _ := transform.String(tr, s)
	tr.Reset()
	headerPool.Put(tr)

	return strings.TrimSpace(out)
}

// TrimTrailingField cuts the phantom field off a raw line before the line is
// parsed: a line one field wider than the header loses everything after its
// last unquoted delimiter, a line of exactly width fields passes unchanged.
// Anything else, or a quote left open outside the phantom field, is an error.
func TrimTrailingField(line string, width int) (string, error) {
	cuts, open := fieldCuts(line)
	switch n := len(cuts) + 1; {
	case n == width+1:
		return line[:cuts[width-1]], nil
	case open:
		return "", fmt.Errorf("unterminated quoted field in field %d", n)
	case n == width:
		return line, nil
	default:
		return "", fmt.Errorf("row has %d fields, header has %d", n, width)
	}
}

// Number parses a numeric cell
func Number(s string) broadcast.Value {
	s = width.Fold.String(s)
	s = strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	switch s {
	case "":
		return broadcast.Missing
	case "-":
		return broadcast.Some(0)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return broadcast.Missing
	}
	return broadcast.Some(v)
}

var layouts = []string{
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006/01/02",
	"2006/1/2",
	"2006-01-02",
}

// Timestamp parses an export timestamp; zone-less values are read in loc
func Timestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(width.Fold.String(s))
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	for _, l := range layouts {
		if t, err := time.ParseInLocation(l, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
