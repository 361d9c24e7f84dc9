// Package notification contains the domain types of a pad update notification.
//
// Request is the JSON body reported to the Living Documents API when a pad
// changes. Result is the typed outcome of one delivery attempt.
package notification
