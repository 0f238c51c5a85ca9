// Package context holds typed request-scoped values shared between the transport
// and service layers.
package context

type contextKey string
