package member

import (
	"errors"
	"net/http"

	"lumina/internal/httpx"
	"lumina/internal/query"
	"lumina/internal/store"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// List handles GET /v1/members
// @Summary List members
// @Description Members matching a name, email or phone search, with the number of books each holds
// @Tags members
// @Produce json
// @Param search query string false "Name, email or phone fragment"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {array} query.MemberView
// @Router /v1/members [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	members := h.service.List(r.Context(), r.URL.Query().Get("search"))
	page := httpx.ParsePage(r)
	httpx.JSONSuccess(w, r, query.Paginate(members, page.Offset(), page.Size), httpx.PageMeta(page, len(members)))
}

// Get handles GET /v1/members/{id}
// @Summary Get a member
// @Tags members
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} query.MemberView
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/members/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, m, nil)
}

// Transactions handles GET /v1/members/{id}/transactions
// @Summary Loan history of a member
// @Tags members
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {array} query.LoanDetail
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/members/{id}/transactions [get]
func (h *HTTPHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	loans, err := h.service.Transactions(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, loans, map[string]any{"total": len(loans)})
}

// Register handles POST /v1/members
// @Summary Register a member
// @Tags members
// @Accept json
// @Produce json
// @Param request body Input true "Member"
// @Success 201 {object} entity.Member
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /v1/members [post]
func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if details := httpx.ValidateStruct(in); details != nil {
		httpx.WriteValidation(w, r, details)
		return
	}

	m, err := h.service.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, m)
}

// Update handles PUT /v1/members/{id}
// @Summary Edit a member
// @Tags members
// @Accept json
// @Produce json
// @Param id path string true "Member ID"
// @Param request body Input true "Member"
// @Success 200 {object} entity.Member
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /v1/members/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if details := httpx.ValidateStruct(in); details != nil {
		httpx.WriteValidation(w, r, details)
		return
	}

	m, err := h.service.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, m, nil)
}

// Delete handles DELETE /v1/members/{id}
// @Summary Remove a member
// @Tags members
// @Param id path string true "Member ID"
// @Success 204
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /v1/members/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONNoContent(w)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrEmailTaken):
		httpx.JSONError(w, r, http.StatusConflict, "ALREADY_EXISTS", "Email already registered", nil)
	case errors.Is(err, store.ErrReferenced):
		httpx.JSONError(w, r, http.StatusConflict, "REFERENCED", "Member has books on loan and cannot be removed", nil)
	default:
		httpx.WriteError(w, r, err)
	}
}
