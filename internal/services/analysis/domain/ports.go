package domain

import (
	"context"

	"liverkpi/internal/adapters/ingest/showroom"
	"liverkpi/internal/core/broadcast"
	"liverkpi/internal/core/normalize"
)

// ServicePort is consumed by handlers and the report command
type ServicePort interface {
	Run(ctx context.Context, req Request) (Result, error)
	Months(ctx context.Context, in MonthsInput) (MonthsOutput, error)
}

// MonthSource loads one decoded monthly export. A month that is not
// published returns an error wrapping showroom.ErrNotFound.
type MonthSource interface {
	Source(kind showroom.Kind, account string, m showroom.MonthRef) (showroom.Source, error)
	Load(ctx context.Context, kind showroom.Kind, account string, m showroom.MonthRef) (normalize.Table, error)
}

// EventsPort is the slice of the events module analysis needs
type EventsPort interface {
	Linked(ctx context.Context) ([]broadcast.Event, error)
	Find(ctx context.Context, account, name string) (broadcast.Event, error)
}
