// Package chatapi provides the wire types and HTTP client for the radiant chat
// backend.
package chatapi

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string  `json:"message"` // Trimmed user text, may be empty when an image is attached
	Image   *string `json:"image"`   // Data URI of the attached image, null when absent
}
