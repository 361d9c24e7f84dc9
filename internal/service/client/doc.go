// Package client implements the ldocs-notify commands.
//
// Run sends one update notification directly to the API, the way the hook
// does, and can wait for its outcome. Invoke asks a running hook server to
// fire a hook instead.
package client
