package main

import (
	"net/http"

	"lumina/internal/httpx"
	"lumina/internal/store"
)

func newRouter(h handlers, st *store.Store) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		snap := st.Snapshot()
		if snap == nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		httpx.JSONSuccess(w, r, map[string]any{"status": "ready", "version": snap.Version}, nil)
	})

	router.Handle("/v1/dashboard", httpx.MethodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(h.query.Dashboard),
	}))

	router.Handle("/v1/books", httpx.MethodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(h.books.List),
		http.MethodPost: http.HandlerFunc(h.books.Create),
	}))
	router.Handle("/v1/books/available", httpx.MethodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(h.books.Available),
	}))
	router.Handle("/v1/books/categories", httpx.MethodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(h.books.Categories),
	}))
	router.Handle("/v1/books/{id}", httpx.MethodMux(map[string]http.Handler{
		http.MethodGet:    http.HandlerFunc(h.books.Get),
		http.MethodPut:    http.HandlerFunc(h.books.Update),
		http.MethodDelete: http.HandlerFunc(h.books.Delete),
	}))

	router.Handle("/v1/members", httpx.MethodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(h.members.List),
		http.MethodPost: http.HandlerFunc(h.members.Register),
	}))
	router.Handle("/v1/members/{id}", httpx.MethodMux(map[string]http.Handler{
		http.MethodGet:    http.HandlerFunc(h.members.Get),
		http.MethodPut:    http.HandlerFunc(h.members.Update),
		http.MethodDelete: http.HandlerFunc(h.members.Delete),
	}))
	router.Handle("/v1/members/{id}/transactions", httpx.MethodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(h.members.Transactions),
	}))

	router.Handle("/v1/transactions", httpx.MethodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(h.lending.List),
		http.MethodPost: http.HandlerFunc(h.lending.Borrow),
	}))
	router.Handle("/v1/transactions/{id}", httpx.MethodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(h.lending.Get),
	}))
	router.Handle("/v1/transactions/{id}/return", httpx.MethodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(h.lending.Return),
	}))

	router.Handle("/v1/advisory/insight", httpx.MethodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(h.advisory.Insight),
	}))
	router.Handle("/v1/advisory/category", httpx.MethodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(h.advisory.Category),
	}))
	router.Handle("/v1/advisory/cover", httpx.MethodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(h.advisory.Cover),
	}))
	router.Handle("/v1/advisory/isbn/{isbn}", httpx.MethodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(h.advisory.ISBN),
	}))

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})

	return router
}
