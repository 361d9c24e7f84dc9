// Package server runs the hook server: it loads the shared key, registers
// the pad update hook and serves hook invocations over gRPC until stopped.
package server
