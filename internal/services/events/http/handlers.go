// Package http provides http transport for events
package http

import (
	stdhttp "net/http"

	"liverkpi/internal/modkit/httpkit"
	"liverkpi/internal/services/events/domain"
)

// Register mounts the events endpoints
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	httpkit.GetQuery[domain.ListInput](r, "/", h.list)
}

type handlers struct{ svc domain.ServicePort }

// swagger:route GET /events Events eventsList
// @Summary Linked events of an account
// @Tags Events
// @Produce json
// @Param account query string true "Account id"
// @Success 200 {object} domain.ListOutput "ok"
// @Failure 400 {object} httpkit.Envelope "invalid account"
// @Router /events [get]
func (h *handlers) list(r *stdhttp.Request, in domain.ListInput) (any, error) {
	evs, err := h.svc.ForAccount(r.Context(), in.Account)
	if err != nil {
		return nil, err
	}
	return domain.ListOutput{Account: in.Account, Events: evs}, nil
}
