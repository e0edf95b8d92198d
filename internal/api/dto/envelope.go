package dto

// Envelope is the response shape shared by every endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK wraps data in a successful envelope.
func OK(message string, data any) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}

// List wraps a collection with its count.
func List[T any](items []T) Envelope {
	n := len(items)
	return Envelope{Success: true, Count: &n, Data: items}
}

// Fail builds an error envelope. detail is omitted when empty.
func Fail(message, detail string) Envelope {
	return Envelope{Success: false, Message: message, Error: detail}
}
