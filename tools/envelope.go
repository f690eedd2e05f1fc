package tools

// Request is the uniform envelope for a tool call.
type Request struct {
	// ID correlates the response with the request. Assigned when empty.
	ID string `json:"id,omitempty"`

	// Tool is the registered tool name.
	Tool string `json:"tool"`

	// Args are the tool's named arguments.
	Args map[string]any `json:"args,omitempty"`
}

// Response is the uniform envelope for a tool result.
type Response struct {
	ID     string `json:"id"`
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Cached bool   `json:"cached"`
	Error  string `json:"error,omitempty"`
}
