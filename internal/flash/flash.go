// Package flash carries one-time notices across a redirect.
package flash

import "net/http"

// Store keeps notices for the next response that pops them.
type Store interface {
	// Add queues messages for the next request from the same client.
	Add(w http.ResponseWriter, r *http.Request, messages ...string) error
	// Pop returns and forgets the queued messages.
	Pop(w http.ResponseWriter, r *http.Request) ([]string, error)
}
