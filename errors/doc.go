// Package errors provides the structured error type returned across gatekit
// boundaries. An AppError carries a machine-readable code, a client-safe
// message, the HTTP status to respond with, and an optional cause that is
// never serialized.
package errors
