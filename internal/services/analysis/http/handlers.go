// Package http provides http transport for analysis
package http

import (
	stdhttp "net/http"

	"liverkpi/internal/modkit/httpkit"
	"liverkpi/internal/services/analysis/domain"
)

// Register mounts analysis endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	// full pipeline run
	httpkit.PostJSON[domain.Request](r, "/", h.run)

	// month plan preview
	httpkit.GetQuery[domain.MonthsInput](r, "/months", h.months)
}

type handlers struct{ svc domain.ServicePort }

// swagger:route POST /analysis Analysis analysisRun
// @Summary Run one analysis over a window
// @Description Fetches every month the window touches, assembles the rows and computes the KPI report. An empty selection answers 202 with status "empty".
// @Tags Analysis
// @Accept json
// @Produce json
// @Param payload body domain.Request true "Analysis request"
// @Success 200 {object} domain.Result "ok"
// @Success 202 {object} domain.Result "no rows matched"
// @Failure 404 {object} httpkit.Envelope "no month published or unknown event"
// @Failure 422 {object} httpkit.Envelope "invalid request"
// @Router /analysis [post]
func (h *handlers) run(r *stdhttp.Request, in domain.Request) (any, error) {
	res, err := h.svc.Run(r.Context(), in)
	if err != nil {
		return nil, err
	}
	if res.Status == domain.StatusEmpty {
		return httpkit.Accepted(res), nil
	}
	return res, nil
}

// swagger:route GET /analysis/months Analysis analysisMonths
// @Summary Months and export URLs a window touches
// @Tags Analysis
// @Produce json
// @Param start query string true "Start bound" example(2025-01-15)
// @Param end query string true "End bound" example(2025-03-10)
// @Param feed query string false "all or member"
// @Param account query string false "Account id, member feed only"
// @Success 200 {object} domain.MonthsOutput "ok"
// @Failure 422 {object} httpkit.Envelope "invalid window"
// @Router /analysis/months [get]
func (h *handlers) months(r *stdhttp.Request, in domain.MonthsInput) (any, error) {
	return h.svc.Months(r.Context(), in)
}
