// Package t8 provides an HTTP client for the T8 condition-monitoring
// device REST API.
//
// # Overview
//
// The client wraps the device's read-only REST surface: configuration
// catalogs (processing modes, parameters, config documents), stored
// capture records (snapshots, waveforms, spectra) and trend histories,
// plus the device info endpoints. Every request carries basic auth and
// runs within a 5-second timeout.
//
// # Listings and "latest"
//
// Listing endpoints return a `_items` envelope whose `_links.self` URLs
// encode the identity of each record; for capture records the final path
// segment is the Unix capture timestamp. List methods return those
// timestamps sorted ascending without deduplication.
//
// Fetch methods accept a capture instant; the zero time.Time means "the
// newest record" and is resolved by listing first and fetching the
// maximum timestamp. That is two round trips: a capture landing between
// them is neither guaranteed included nor excluded.
//
// # Array payloads
//
// Sample arrays travel as base64 strings. Waveforms and spectra use the
// zint format (zlib-deflated int16 counts times a scale factor); trends
// use zlib (deflated float32) with per-field integer dtypes for
// timestamps and flags. See decode.go.
//
// # Errors
//
// Non-success statuses map onto sentinel errors (ErrAuthentication,
// ErrNotFound, ErrServer); requests built from empty tags fail with
// ErrValidation before touching the network. Transport failures wrap the
// underlying error. There are no retries: the caller decides what a
// failure means.
package t8
