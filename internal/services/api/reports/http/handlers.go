// Package http provides http transport for reports
package http

import (
	stdhttp "net/http"

	"glowdesk/internal/modkit/httpkit"
	"glowdesk/internal/services/api/reports/domain"
	svc "glowdesk/internal/services/api/reports/service"
)

// Register mounts report endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.WeeklyInput](r, "/weekly", h.weekly)
	httpkit.PostJSON[domain.ByProductInput](r, "/by-product", h.byProduct)
}

type handlers struct{ svc svc.Service }

// @Summary Weekly compliance report for a subscriber
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body domain.WeeklyInput true "Query"
// @Success 200 {object} domain.WeeklyReport "ok"
// @Router /reports/weekly [post]
func (h *handlers) weekly(r *stdhttp.Request, in domain.WeeklyInput) (any, error) {
	return h.svc.Weekly(r.Context(), in)
}

// @Summary Per product compliance over a date range
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body domain.ByProductInput true "Query"
// @Success 200 {array} domain.ProductReport "ok"
// @Router /reports/by-product [post]
func (h *handlers) byProduct(r *stdhttp.Request, in domain.ByProductInput) (any, error) {
	return h.svc.ByProduct(r.Context(), in)
}
