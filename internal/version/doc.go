// Package version exposes build metadata for ldocs-hook-server and ldocs-notify.
//
// Version, Commit and BuildTime are injected with -ldflags; when Commit is not
// injected it falls back to the VCS revision recorded by the Go toolchain.
package version
