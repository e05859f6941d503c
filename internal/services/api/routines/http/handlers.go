// Package http provides http transport for routines
package http

import (
	stdhttp "net/http"

	"glowdesk/internal/modkit/httpkit"
	"glowdesk/internal/services/api/routines/domain"
	svc "glowdesk/internal/services/api/routines/service"
)

// Register mounts routine management endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.CreateRoutineInput](r, "/create", h.create)
	httpkit.PostJSON[domain.RoutineRef](r, "/get", h.get)
	httpkit.PostJSON[domain.ListRoutinesInput](r, "/list", h.list)
	httpkit.PostJSON[domain.UpdateRoutineInput](r, "/update", h.update)
	httpkit.PostJSON[domain.RoutineRef](r, "/delete", h.delete)
	httpkit.PostJSON[domain.RoutineRef](r, "/publish", h.publish)
	httpkit.PostJSON[domain.RoutineRef](r, "/unpublish", h.unpublish)
	httpkit.PostJSON[domain.AddProductInput](r, "/products/add", h.addProduct)
	httpkit.PostJSON[domain.UpdateProductInput](r, "/products/update", h.updateProduct)
	httpkit.PostJSON[domain.ProductRef](r, "/products/delete", h.deleteProduct)
}

type handlers struct{ svc svc.Service }

// @Summary Create a draft routine
// @Tags Routines
// @Accept json
// @Produce json
// @Param payload body domain.CreateRoutineInput true "Routine"
// @Success 200 {object} domain.Routine "ok"
// @Router /routines/create [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreateRoutineInput) (any, error) {
	return h.svc.Create(r.Context(), in)
}

// @Summary Fetch a routine with its product steps
// @Tags Routines
// @Accept json
// @Produce json
// @Param payload body domain.RoutineRef true "Routine ref"
// @Success 200 {object} domain.RoutineDetail "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /routines/get [post]
func (h *handlers) get(r *stdhttp.Request, in domain.RoutineRef) (any, error) {
	return h.svc.Get(r.Context(), in)
}

// @Summary List a subscriber's routines
// @Tags Routines
// @Accept json
// @Produce json
// @Param payload body domain.ListRoutinesInput true "Filter"
// @Success 200 {array} domain.Routine "ok"
// @Router /routines/list [post]
func (h *handlers) list(r *stdhttp.Request, in domain.ListRoutinesInput) (any, error) {
	return h.svc.List(r.Context(), in)
}

// @Summary Update a routine's fields
// @Tags Routines
// @Accept json
// @Produce json
// @Param payload body domain.UpdateRoutineInput true "Routine"
// @Success 200 {object} domain.Routine "ok"
// @Router /routines/update [post]
func (h *handlers) update(r *stdhttp.Request, in domain.UpdateRoutineInput) (any, error) {
	return h.svc.Update(r.Context(), in)
}

// @Summary Delete a routine and everything under it
// @Tags Routines
// @Accept json
// @Produce json
// @Param payload body domain.RoutineRef true "Routine ref"
// @Success 200 {object} httpkit.Envelope "ok"
// @Router /routines/delete [post]
func (h *handlers) delete(r *stdhttp.Request, in domain.RoutineRef) (any, error) {
	return nil, h.svc.Delete(r.Context(), in)
}

// @Summary Publish a routine and materialize its schedule
// @Tags Routines
// @Accept json
// @Produce json
// @Param payload body domain.RoutineRef true "Routine ref"
// @Success 200 {object} domain.Routine "ok"
// @Failure 409 {object} httpkit.Envelope "conflict"
// @Router /routines/publish [post]
func (h *handlers) publish(r *stdhttp.Request, in domain.RoutineRef) (any, error) {
	return h.svc.Publish(r.Context(), in)
}

// @Summary Unpublish a routine, dropping future occurrences
// @Tags Routines
// @Accept json
// @Produce json
// @Param payload body domain.RoutineRef true "Routine ref"
// @Success 200 {object} domain.Routine "ok"
// @Router /routines/unpublish [post]
func (h *handlers) unpublish(r *stdhttp.Request, in domain.RoutineRef) (any, error) {
	return h.svc.Unpublish(r.Context(), in)
}

// @Summary Add a product step to a routine
// @Tags Routines
// @Accept json
// @Produce json
// @Param payload body domain.AddProductInput true "Product"
// @Success 200 {object} domain.Product "ok"
// @Router /routines/products/add [post]
func (h *handlers) addProduct(r *stdhttp.Request, in domain.AddProductInput) (any, error) {
	return h.svc.AddProduct(r.Context(), in)
}

// @Summary Update a product step
// @Tags Routines
// @Accept json
// @Produce json
// @Param payload body domain.UpdateProductInput true "Product"
// @Success 200 {object} domain.Product "ok"
// @Router /routines/products/update [post]
func (h *handlers) updateProduct(r *stdhttp.Request, in domain.UpdateProductInput) (any, error) {
	return h.svc.UpdateProduct(r.Context(), in)
}

// @Summary Delete a product step and its occurrences
// @Tags Routines
// @Accept json
// @Produce json
// @Param payload body domain.ProductRef true "Product ref"
// @Success 200 {object} httpkit.Envelope "ok"
// @Router /routines/products/delete [post]
func (h *handlers) deleteProduct(r *stdhttp.Request, in domain.ProductRef) (any, error) {
	return nil, h.svc.DeleteProduct(r.Context(), in)
}
