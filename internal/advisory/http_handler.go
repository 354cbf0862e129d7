package advisory

import (
	"net/http"

	"go.uber.org/zap"

	"lumina/internal/httpx"
)

type HTTPHandler struct {
	adapter *Adapter
	logger  *zap.Logger
}

func NewHTTPHandler(adapter *Adapter, logger *zap.Logger) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPHandler{adapter: adapter, logger: logger}
}

type CategoryRequest struct {
	Title  string `json:"title" validate:"required,max=300"`
	Author string `json:"author" validate:"max=200"`
}

type CoverRequest struct {
	Title    string `json:"title" validate:"required,max=300"`
	Category string `json:"category" validate:"max=100"`
}

// abandoned reports whether the client went away while the model was
// working. The result is dropped in that case.
func (h *HTTPHandler) abandoned(r *http.Request, op string) bool {
	if err := r.Context().Err(); err != nil {
		h.logger.Debug("advisory result discarded", zap.String("op", op), zap.Error(err))
		return true
	}
	return false
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		httpx.WriteError(w, r, err)
		return false
	}
	if details := httpx.ValidateStruct(dst); details != nil {
		httpx.WriteValidation(w, r, details)
		return false
	}
	return true
}

// Insight godoc
// @Summary Reading insight for a book
// @Tags advisory
// @Accept json
// @Produce json
// @Param request body BookInfo true "Book"
// @Success 200 {object} Advice
// @Router /v1/advisory/insight [post]
func (h *HTTPHandler) Insight(w http.ResponseWriter, r *http.Request) {
	var req BookInfo
	if !decodeAndValidate(w, r, &req) {
		return
	}
	advice := h.adapter.Insight(r.Context(), req)
	if h.abandoned(r, "insight") {
		return
	}
	httpx.JSONSuccess(w, r, advice, nil)
}

// Category godoc
// @Summary Suggest a category
// @Tags advisory
// @Accept json
// @Produce json
// @Param request body CategoryRequest true "Title and author"
// @Success 200 {object} Advice
// @Router /v1/advisory/category [post]
func (h *HTTPHandler) Category(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	advice := h.adapter.SuggestCategory(r.Context(), req.Title, req.Author)
	if h.abandoned(r, "category") {
		return
	}
	httpx.JSONSuccess(w, r, advice, nil)
}

// Cover godoc
// @Summary Generate cover art
// @Tags advisory
// @Accept json
// @Produce json
// @Param request body CoverRequest true "Title and category"
// @Success 200 {object} Cover
// @Router /v1/advisory/cover [post]
func (h *HTTPHandler) Cover(w http.ResponseWriter, r *http.Request) {
	var req CoverRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	cover := h.adapter.GenerateCover(r.Context(), req.Title, req.Category)
	if h.abandoned(r, "cover") {
		return
	}
	httpx.JSONSuccess(w, r, cover, nil)
}

// ISBN godoc
// @Summary Prefill book metadata from an ISBN
// @Tags advisory
// @Produce json
// @Param isbn path string true "ISBN-10 or ISBN-13"
// @Success 200 {object} Prefill
// @Failure 400 {object} httpx.ErrorResponse
// @Router /v1/advisory/isbn/{isbn} [get]
func (h *HTTPHandler) ISBN(w http.ResponseWriter, r *http.Request) {
	isbn := httpx.NormalizeISBN(r.PathValue("isbn"))
	req := struct {
		ISBN string `json:"isbn" validate:"required,isbn"`
	}{ISBN: isbn}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.WriteValidation(w, r, details)
		return
	}

	prefill := h.adapter.PrefillISBN(r.Context(), req.ISBN)
	if h.abandoned(r, "isbn") {
		return
	}
	httpx.JSONSuccess(w, r, prefill, nil)
}
