// Package logger wraps zap for the hook server and the notify CLI.
//
// A global sugared logger writes console lines to stdout. Services carry a
// scoped logger in their context (ToContext/FromContext/WithName/WithKV), so
// a delivery started from a hook call logs with the name and request id of
// that call even after the caller has moved on.
package logger
