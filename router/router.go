// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/rollcall/handlers"
	"github.com/danielhkuo/rollcall/middleware"
)

func NewRouter(webhookHandler *handlers.WebhookHandler) *http.ServeMux {
	mux := http.NewServeMux()

	// Health check, also the keep-alive self-ping target
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// LINE webhook
	mux.HandleFunc("POST /callback", middleware.WithLogging(webhookHandler.Callback))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("rollcall bot v1"))
	})

	return mux
}
