// Package hook adapts services to the pad host's hook contract.
//
// A hook receives an opaque host context and a completion callback it must
// call exactly once. Registry maps hook names to handlers so the host can
// invoke them by name.
package hook
