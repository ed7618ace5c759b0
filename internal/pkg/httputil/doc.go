// Package httputil provides shared HTTP response helpers for handlers.
//
// Handlers use these helpers instead of writing raw http.ResponseWriter
// calls so that content types, error envelopes, and logging stay
// consistent across the JSON health endpoints and the HTML frontend.
package httputil
