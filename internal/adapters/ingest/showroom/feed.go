package showroom

import (
	"fmt"
	"net/url"
	"strings"

	perr "liverkpi/internal/platform/errors"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

// Kind selects which export family a month is read from
type Kind string

const (
	// FeedAll is the combined export holding every broadcaster
	FeedAll Kind = "all"
	// FeedMember is the legacy per-broadcaster export
	FeedMember Kind = "member"
)

// ParseKind accepts "all" or "member"; empty means FeedAll
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FeedAll):
		return FeedAll, nil
	case string(FeedMember):
		return FeedMember, nil
	}
	return "", perr.InvalidArgf("unknown feed %q", s)
}

// Source is one resource to download
type Source struct {
	URL      string
	Label    string // metric label
	Encoding string
	Month    MonthRef
}

// Feed builds month sources for one export family
type Feed struct {
	Kind     Kind
	Base     string
	Encoding string
}

// Month returns the source for month m. member is required for FeedMember.
func (f Feed) Month(m MonthRef, member string) (Source, error) {
	base := strings.TrimRight(f.Base, "/")
	var name string
	switch f.Kind {
	case FeedAll, "":
		name = fmt.Sprintf("%s_all_all.csv", m)
	case FeedMember:
		if strings.TrimSpace(member) == "" {
			return Source{}, perr.InvalidArgf("member feed needs an account id")
		}
		name = fmt.Sprintf("%s_all_%s.csv", m, url.PathEscape(member))
	default:
		return Source{}, perr.InvalidArgf("unknown feed %q", f.Kind)
	}
	return Source{
		URL:      base + "/" + name,
		Label:    string(f.kindOrAll()),
		Encoding: f.Encoding,
		Month:    m,
	}, nil
}

func (f Feed) kindOrAll() Kind {
	if f.Kind == "" {
		return FeedAll
	}
	return f.Kind
}

// Encoding resolves an encoding name. utf-8-sig and cp932 are accepted next
// to every WHATWG label.
func Encoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8-sig", "utf8-sig", "utf-8", "utf8":
		return unicode.UTF8BOM, nil
	case "cp932", "ms932", "sjis", "shift-jis":
		return japanese.ShiftJIS, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, perr.InvalidArgf("unknown encoding %q", name)
	}
	return enc, nil
}
