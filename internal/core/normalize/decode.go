package normalize

import (
	"errors"
	"io"
	"strings"
	"time"

	"liverkpi/internal/core/broadcast"
	perr "liverkpi/internal/platform/errors"
)

// Options configures a Decoder
type Options struct {
	// Location is the zone of zone-less timestamps; nil means UTC
	Location *time.Location
	// DefaultAccount fills AccountID when the export has no account column
	// (the per-member feed)
	DefaultAccount string
}

// Table is one decoded month
type Table struct {
	Records []broadcast.Record
	// Present lists the metrics whose column exists in the header
	Present []broadcast.Metric
	// Skipped counts data rows without a timestamp
	Skipped int
}

// Has reports whether m had a column
func (t Table) Has(m broadcast.Metric) bool {
	for _, p := range t.Present {
		if p == m {
			return true
		}
	}
	return false
}

// Decoder maps export headers onto broadcast records; safe for concurrent use
type Decoder struct {
	opts  Options
	index map[string]broadcast.Column
}

// NewDecoder builds the header index once
func NewDecoder(opts Options) *Decoder {
	return &Decoder{opts: opts, index: indexColumns(broadcast.Schema())}
}

func indexColumns(cols []broadcast.Column) map[string]broadcast.Column {
	idx := make(map[string]broadcast.Column, len(cols)*3)
	for _, c := range cols {
		for _, n := range c.Names() {
			idx[Header(n)] = c
		}
	}
	return idx
}

// Decode returns the records of one month
func (d *Decoder) Decode(r io.Reader) ([]broadcast.Record, error) {
	t, err := d.DecodeTable(r)
	if err != nil {
		return nil, err
	}
	return t.Records, nil
}

// DecodeTable decodes one month and reports which columns were present
func (d *Decoder) DecodeTable(r io.Reader) (Table, error) {
	rr := newRowReader(r)

	header, err := rr.header()
	if errors.Is(err, io.EOF) {
		return Table{}, perr.Malformedf("export is empty")
	}
	if err != nil {
		return Table{}, err
	}

	// position -> column; first occurrence of a column wins
	cols := make([]*broadcast.Column, len(header))
	seen := map[string]bool{}
	var (
		present          []broadcast.Metric
		hasTime, hasAcct bool
	)
	for i, h := range header {
		c, ok := d.index[Header(h)]
		if !ok || seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		cols[i] = &c
		switch c.Field {
		case broadcast.FieldMetric:
			present = append(present, c.Metric)
		case broadcast.FieldStartedAt:
			hasTime = true
		case broadcast.FieldAccount:
			hasAcct = true
		}
	}
	if !hasTime {
		return Table{}, perr.WithField(perr.Malformedf("missing column %q", broadcast.StartedAtHeader), broadcast.StartedAtHeader)
	}
	if !hasAcct && d.opts.DefaultAccount == "" {
		return Table{}, perr.WithField(perr.Malformedf("missing column %q", "アカウントID"), "アカウントID")
	}

	out := Table{Present: present}
	for {
		rec, err := rr.row(len(header))
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, err
		}
		line := rr.line
		if blank(rec) {
			continue
		}

		row := broadcast.Record{AccountID: d.opts.DefaultAccount}
		stamped := false
		for i, cell := range rec {
			c := cols[i]
			if c == nil {
				continue
			}
			switch c.Field {
			case broadcast.FieldMetric:
				row.Set(c.Metric, Number(cell))
			case broadcast.FieldAccount:
				if v := strings.TrimSpace(cell); v != "" {
					row.AccountID = v
				}
			case broadcast.FieldRoomID:
				row.RoomID = strings.TrimSpace(cell)
			case broadcast.FieldRoomName:
				row.RoomName = strings.TrimSpace(cell)
			case broadcast.FieldStartedAt:
				if strings.TrimSpace(cell) == "" {
					continue
				}
				at, err := Timestamp(cell, d.opts.Location)
				if err != nil {
					return Table{}, perr.Wrapf(err, perr.ErrorCodeMalformed, "line %d", line)
				}
				row.StartedAt = at
				stamped = true
			}
		}
		if !stamped {
			out.Skipped++
			continue
		}
		out.Records = append(out.Records, row)
	}
	return out, nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
