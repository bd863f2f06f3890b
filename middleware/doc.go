// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware for the webhook server.

WithLogging wraps a handler with structured request/completion logging via
log/slog. The server's only client is the LINE platform, so there is no
CORS or client-IP handling here.
*/
package middleware
