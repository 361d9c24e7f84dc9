// Package notifier reports pad updates to the Living Documents API.
//
// A Notifier sends one HTTPS POST per Notify call to a fixed endpoint on the
// local machine. Notify returns as soon as the request is dispatched; the
// returned Delivery settles later with the logged outcome.
package notifier
