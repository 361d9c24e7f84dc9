// Package hook exposes the hook registry over gRPC so an out-of-process pad
// host can fire hooks by name.
//
// Messages are google.protobuf.Struct values: a request carries "hook" and
// an optional "context", a response carries "hook" and "completed". The
// service descriptor is written by hand; no generated code is involved.
package hook
