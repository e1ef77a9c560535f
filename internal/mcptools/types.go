package mcptools

// --- MCP tool types for serve-mcp mode ---
// Every tool reads metadata and reports; none writes files.

// CheckNamesInput is the input for the check_discovery_names tool.
type CheckNamesInput struct {
	Inputs []string `json:"inputs,omitempty" jsonschema:"metadata files to check (default: configured inputs)"`
}

// CheckNamesOutput is the result of the check_discovery_names tool.
type CheckNamesOutput struct {
	Entities   int         `json:"entities"`
	Collisions []Collision `json:"collisions"`
}

// Collision lists the clash messages recorded against one entity.
type Collision struct {
	EntityID string   `json:"entityId"`
	Messages []string `json:"messages"`
}

// PreviewRenamesInput is the input for the preview_discovery_renames tool.
type PreviewRenamesInput struct {
	Inputs        []string `json:"inputs,omitempty" jsonschema:"metadata files to examine (default: configured inputs)"`
	HomeAuthority string   `json:"homeAuthority,omitempty" jsonschema:"registration authority whose names are preserved (default: configured)"`
}

// PreviewRenamesOutput is the result of the preview_discovery_renames tool.
type PreviewRenamesOutput struct {
	Renames []RenameSummary `json:"renames"`
	// Unregistered lists identity providers without a registration authority.
	Unregistered []string `json:"unregistered,omitempty"`
	Status       string   `json:"status"` // "ok" or "aborted"
	Message      string   `json:"message,omitempty"`
}

// RenameSummary is one discovery name that avoidance would rewrite.
type RenameSummary struct {
	EntityID string `json:"entityId"`
	From     string `json:"from"`
	To       string `json:"to"`
}

// SummarizeRunInput is the input for the summarize_run tool.
type SummarizeRunInput struct {
	Mode string `json:"mode,omitempty" jsonschema:"detect, avoid or none (default: configured mode)"`
}

// SummarizeRunOutput is the result of the summarize_run tool.
type SummarizeRunOutput struct {
	Status   string `json:"status"` // "completed" or "failed"
	Entities int    `json:"entities"`
	Kept     int    `json:"kept"`
	Errors   int    `json:"errors"`
	Warnings int    `json:"warnings"`
	Summary  string `json:"summary,omitempty"`
	Message  string `json:"message,omitempty"`
}
