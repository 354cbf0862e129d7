package lending

import (
	"errors"
	"net/http"
	"strings"

	"lumina/internal/entity"
	"lumina/internal/httpx"
	"lumina/internal/query"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type BorrowRequest struct {
	BookID   string `json:"book_id"`
	MemberID string `json:"member_id"`
}

var transactionStatuses = map[string]bool{
	"":                         true,
	"all":                      true,
	string(entity.TxActive):    true,
	string(entity.TxCompleted): true,
	string(entity.TxOverdue):   true,
}

// Borrow godoc
// @Summary Borrow a book
// @Description Lends an Available book to a member for the loan period
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body BorrowRequest true "Book and member"
// @Success 201 {object} query.LoanDetail
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /v1/transactions [post]
func (h *HTTPHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	var req BorrowRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	tx, err := h.service.Borrow(r.Context(), strings.TrimSpace(req.BookID), strings.TrimSpace(req.MemberID))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, query.WithDetails(h.service.Snapshot(), tx, h.service.Now()))
}

// Return godoc
// @Summary Return a book
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} query.LoanDetail
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /v1/transactions/{id}/return [post]
func (h *HTTPHandler) Return(w http.ResponseWriter, r *http.Request) {
	tx, err := h.service.Return(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, query.WithDetails(h.service.Snapshot(), tx, h.service.Now()), nil)
}

// List godoc
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Param status query string false "active, completed, overdue or all"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {array} query.LoanDetail
// @Router /v1/transactions [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if !transactionStatuses[status] {
		httpx.WriteValidation(w, r, []httpx.ErrorDetail{{Field: "status", Message: "status must be active, completed, overdue or all"}})
		return
	}

	snap := h.service.Snapshot()
	now := h.service.Now()
	txs := query.TransactionsByStatus(snap, status, now)
	page := httpx.ParsePage(r)

	httpx.JSONSuccess(w, r,
		query.AllWithDetails(snap, query.Paginate(txs, page.Offset(), page.Size), now),
		httpx.PageMeta(page, len(txs)),
	)
}

// Get godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} query.LoanDetail
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/transactions/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	tx, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, query.WithDetails(h.service.Snapshot(), tx, h.service.Now()), nil)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidBorrowRequest):
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_BORROW_REQUEST", "Select both a book and a member", nil)
	case errors.Is(err, ErrBookUnavailable):
		httpx.JSONError(w, r, http.StatusConflict, "BOOK_UNAVAILABLE", "Book is not available for lending", nil)
	case errors.Is(err, ErrTransactionNotActive):
		httpx.JSONError(w, r, http.StatusConflict, "TRANSACTION_NOT_ACTIVE", "Transaction has already been returned", nil)
	default:
		httpx.WriteError(w, r, err)
	}
}
