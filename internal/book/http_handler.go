package book

import (
	"errors"
	"net/http"

	"lumina/internal/entity"
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

// List godoc
// @Summary List books
// @Description Catalog search over title, author and ISBN with category and status filters
// @Tags books
// @Produce json
// @Param search query string false "Title/author (case-insensitive) or ISBN fragment"
// @Param category query string false "Category, or all"
// @Param status query string false "Available, Borrowed or Maintenance"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {array} entity.Book
// @Router /v1/books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := query.BookFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Status:   entity.BookStatus(q.Get("status")),
	}
	if f.Search == "" {
		f.Search = q.Get("q")
	}
	if f.Status != "" && !f.Status.Valid() {
		httpx.WriteValidation(w, r, []httpx.ErrorDetail{{Field: "status", Message: "status must be Available, Borrowed or Maintenance"}})
		return
	}

	books := h.service.List(r.Context(), f)
	page := httpx.ParsePage(r)
	httpx.JSONSuccess(w, r, query.Paginate(books, page.Offset(), page.Size), httpx.PageMeta(page, len(books)))
}

// Available godoc
// @Summary Books that can be lent
// @Tags books
// @Produce json
// @Success 200 {array} entity.Book
// @Router /v1/books/available [get]
func (h *HTTPHandler) Available(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, r, h.service.Available(r.Context()), nil)
}

// Categories godoc
// @Summary Distinct book categories
// @Tags books
// @Produce json
// @Success 200 {array} string
// @Router /v1/books/categories [get]
func (h *HTTPHandler) Categories(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, r, h.service.Categories(r.Context()), nil)
}

// Get godoc
// @Summary Get a book
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} entity.Book
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/books/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Create godoc
// @Summary Add a book to the inventory
// @Tags books
// @Accept json
// @Produce json
// @Param request body CreateInput true "Book"
// @Success 201 {object} entity.Book
// @Failure 400 {object} httpx.ErrorResponse
// @Router /v1/books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if details := httpx.ValidateStruct(in); details != nil {
		httpx.WriteValidation(w, r, details)
		return
	}

	b, err := h.service.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, b)
}

// Update godoc
// @Summary Edit a book
// @Tags books
// @Accept json
// @Produce json
// @Param id path string true "Book ID"
// @Param request body UpdateInput true "Book"
// @Success 200 {object} entity.Book
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /v1/books/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in UpdateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if details := httpx.ValidateStruct(in); details != nil {
		httpx.WriteValidation(w, r, details)
		return
	}

	b, err := h.service.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Delete godoc
// @Summary Remove a book
// @Tags books
// @Param id path string true "Book ID"
// @Success 204
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /v1/books/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONNoContent(w)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrBookOnLoan):
		httpx.JSONError(w, r, http.StatusConflict, "BOOK_ON_LOAN", "Book is on loan; return it before changing its status", nil)
	case errors.Is(err, store.ErrReferenced):
		httpx.JSONError(w, r, http.StatusConflict, "REFERENCED", "Book is on an active loan and cannot be removed", nil)
	case errors.Is(err, store.ErrDuplicateID):
		httpx.JSONError(w, r, http.StatusConflict, "ALREADY_EXISTS", "Book already exists", nil)
	default:
		httpx.WriteError(w, r, err)
	}
}
