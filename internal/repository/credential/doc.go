// Package credential loads the shared API key the pad host keeps on disk.
//
// The key is read once at startup; callers keep the returned value for the
// life of the process.
package credential
