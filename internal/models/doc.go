// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

/*
Package models defines the HTTP request and response structures of the
Nearbite API.

Every endpoint answers with the APIResponse envelope:

	{
	  "status": "success",
	  "data": [...],
	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 12}
	}

Errors carry a machine-readable code in APIError. Domain types (places,
interactions, matches) live in their own packages and are embedded in the
Data field as-is.
*/
package models
