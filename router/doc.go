// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP routes using Go 1.22+ routing.

The surface is small: the LINE webhook callback, a health check that doubles
as the keep-alive self-ping target, and a root endpoint.
*/
package router
