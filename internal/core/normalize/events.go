package normalize

import (
	"errors"
	"io"
	"strings"
	"time"

	"golang.org/x/text/width"

	"liverkpi/internal/core/broadcast"
	perr "liverkpi/internal/platform/errors"
)

// linkedValues are the spellings of a set linkage flag
var linkedValues = map[string]bool{
	"1": true, "true": true, "yes": true, "y": true,
	"○": true, "〇": true, "済": true, "紐付け済": true, "あり": true,
}

// Linked parses the linkage flag cell
func Linked(s string) bool {
	return linkedValues[strings.ToLower(strings.TrimSpace(width.Fold.String(s)))]
}

// DecodeEvents reads the event-entry table; every column is required
func DecodeEvents(r io.Reader, loc *time.Location) ([]broadcast.Event, error) {
	rr := newRowReader(r)
	header, err := rr.header()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, perr.Wrapf(err, perr.CodeOf(err), "event header")
	}

	ec := broadcast.EventColumns
	want := []broadcast.Column{ec.Account, ec.Name, ec.Start, ec.End, ec.Linked}
	pos := make([]int, len(want))
	for i, c := range want {
		pos[i] = -1
		names := map[string]bool{}
		for _, n := range c.Names() {
			names[Header(n)] = true
		}
		for j, h := range header {
			if names[Header(h)] {
				pos[i] = j
				break
			}
		}
		if pos[i] < 0 {
			return nil, perr.WithField(perr.Malformedf("event table missing column %q", c.Name), c.Name)
		}
	}

	var out []broadcast.Event
	for {
		rec, err := rr.row(len(header))
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, perr.Wrapf(err, perr.CodeOf(err), "event table")
		}
		line := rr.line
		if blank(rec) {
			continue
		}
		start, err := Timestamp(rec[pos[2]], loc)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeMalformed, "event line %d", line)
		}
		end, err := Timestamp(rec[pos[3]], loc)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeMalformed, "event line %d", line)
		}
		if dateOnly(rec[pos[3]]) {
			end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		out = append(out, broadcast.Event{
			AccountID: strings.TrimSpace(rec[pos[0]]),
			Name:      strings.TrimSpace(rec[pos[1]]),
			Start:     start,
			End:       end,
			Linked:    Linked(rec[pos[4]]),
		})
	}
	return out, nil
}

// dateOnly reports a bound without a time of day; such end bounds cover the whole day
func dateOnly(s string) bool { return !strings.Contains(strings.TrimSpace(s), ":") }
