package contract

// ToolRequest is one tool invocation the model asked for.
type ToolRequest struct {
	ID   string         `json:"id,omitempty"`
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolResult carries the user-facing text a tool produced. Tools fold their
// own failures into Content; there is no separate error channel back to the
// model.
type ToolResult struct {
	ID      string `json:"id,omitempty"`
	Tool    string `json:"tool"`
	Content string `json:"content"`
}
