// Package domain holds the event-entry contracts shared by transport and other modules
package domain

import (
	"context"

	"liverkpi/internal/core/broadcast"
)

// ListInput selects the events of one account
type ListInput struct {
	Account string `query:"account" json:"account" validate:"required,max=200" example:"room_1234"`
}

// ListOutput is the events payload
type ListOutput struct {
	Account string            `json:"account" example:"room_1234"`
	Events  []broadcast.Event `json:"events"`
}

// ServicePort is consumed by handlers and the analysis module
type ServicePort interface {
	// Linked returns every linked event; nil when no table is configured
	Linked(ctx context.Context) ([]broadcast.Event, error)
	// ForAccount returns the linked events of account ordered by start
	ForAccount(ctx context.Context, account string) ([]broadcast.Event, error)
	// Find returns the linked event called name for account; NotFound when absent
	Find(ctx context.Context, account, name string) (broadcast.Event, error)
}
