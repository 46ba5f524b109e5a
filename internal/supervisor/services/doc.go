// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

/*
Package services provides suture.Service wrappers for Nearbite components.

Each wrapper translates a component lifecycle into suture's
Serve(ctx) error and identifies itself through fmt.Stringer.

HTTPServerService runs an *http.Server, shutting it down gracefully when the
supervisor cancels its context.

StoreHealthService pings the interaction store on an interval and exports
the store_healthy gauge. Ping failures are logged and never returned, so a
flapping database does not burn the supervisor's failure budget.
*/
package services
