// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package bridge is the HTTP client for the save, rewind and next-question
// endpoints. Every request carries the CSRF token as both header and cookie.
//
// SaveResult backs the controller's final save and Rewind its invalidation
// hook. NextQuestion binds the server-rendered next-question endpoint for
// frontends that fetch question fragments; nothing in this service calls it,
// since the controller resolves transitions from the catalog.
package bridge
