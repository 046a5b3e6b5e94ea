package service

import (
	"slices"

	"liverkpi/internal/core/broadcast"
	"liverkpi/internal/core/normalize"
	"liverkpi/internal/services/analysis/domain"
)

// Assemble concatenates months in order, drops repeated (account, start)
// keys keeping the first, sorts by start time and keeps rows inside w
func Assemble(tables []normalize.Table, w domain.Window) []broadcast.Record {
	n := 0
	for _, t := range tables {
		n += len(t.Records)
	}
	seen := make(map[broadcast.Key]struct{}, n)
	out := make([]broadcast.Record, 0, n)
	for _, t := range tables {
		for _, r := range t.Records {
			k := r.Key()
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			if w.Contains(r.StartedAt) {
				out = append(out, r)
			}
		}
	}
	slices.SortStableFunc(out, func(a, b broadcast.Record) int { return a.StartedAt.Compare(b.StartedAt) })
	return out
}

// ForAccount keeps the rows of one account, preserving order
func ForAccount(rows []broadcast.Record, account string) []broadcast.Record {
	out := make([]broadcast.Record, 0, len(rows)/8+1)
	for _, r := range rows {
		if r.AccountID == account {
			out = append(out, r)
		}
	}
	return out
}
