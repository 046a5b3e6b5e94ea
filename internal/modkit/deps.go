// Package modkit provides module wiring and core deps
package modkit

import (
	"liverkpi/internal/platform/config"
	"liverkpi/internal/platform/logger"
	"liverkpi/internal/platform/metrics"
	"liverkpi/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log     logger.Logger
	Cfg     config.Conf
	Metrics *metrics.Pipeline
	Store   *store.Store
}

// Cache returns the byte cache or nil when no store was opened
func (d Deps) Cache() store.KV {
	if d.Store == nil {
		return nil
	}
	return d.Store.KV
}
