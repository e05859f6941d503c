// Package http provides http transport for compliance
package http

import (
	stdhttp "net/http"

	"glowdesk/internal/modkit/httpkit"
	"glowdesk/internal/services/api/compliance/domain"
	svc "glowdesk/internal/services/api/compliance/service"
)

// Register mounts compliance endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.CompleteInput](r, "/complete", h.complete)
	httpkit.PostJSON[domain.SweepInput](r, "/sweep", h.sweep)
	httpkit.PostJSON[domain.DayPlanInput](r, "/day", h.day)
}

type handlers struct{ svc svc.Service }

// @Summary Mark an occurrence as completed
// @Tags Compliance
// @Accept json
// @Produce json
// @Param payload body domain.CompleteInput true "Completion"
// @Success 200 {object} domain.Occurrence "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Failure 409 {object} httpkit.Envelope "already finalized or grace period over"
// @Router /compliance/complete [post]
func (h *handlers) complete(r *stdhttp.Request, in domain.CompleteInput) (any, error) {
	return h.svc.Complete(r.Context(), in)
}

// @Summary Flip expired pending occurrences to missed
// @Tags Compliance
// @Accept json
// @Produce json
// @Param payload body domain.SweepInput true "Cutoff"
// @Success 200 {object} domain.SweepOutput "ok"
// @Router /compliance/sweep [post]
func (h *handlers) sweep(r *stdhttp.Request, in domain.SweepInput) (any, error) {
	return h.svc.Sweep(r.Context(), in)
}

// @Summary A subscriber's occurrences for one date
// @Tags Compliance
// @Accept json
// @Produce json
// @Param payload body domain.DayPlanInput true "Query"
// @Success 200 {array} domain.Occurrence "ok"
// @Router /compliance/day [post]
func (h *handlers) day(r *stdhttp.Request, in domain.DayPlanInput) (any, error) {
	return h.svc.DayPlan(r.Context(), in)
}
