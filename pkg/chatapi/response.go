package chatapi

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	Response *string `json:"response"` // Assistant reply, required
}

// ClearResponse is the body returned by POST /clear. Only used for logging;
// success is decided by the status code alone.
type ClearResponse struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}
