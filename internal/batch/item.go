package batch

// Overrides are per-item settings that take precedence over the batch-wide
// settings of a pipeline. Zero values mean "use the batch setting".
type Overrides struct {
	Language     string `json:"language,omitempty"`
	TargetLength int    `json:"targetLength,omitempty"`
	Style        string `json:"style,omitempty"`
}

// WorkItem is one unit of input submitted into a batch.
type WorkItem struct {
	ID        string    `json:"id"`
	Input     string    `json:"input"`
	Overrides Overrides `json:"overrides,omitzero"`
}

// WorkResult tracks the output and status of one WorkItem.
type WorkResult struct {
	ID       string `json:"id"`
	Output   string `json:"output,omitempty"`
	Status   Status `json:"status"`
	Progress string `json:"progress"`
	Error    string `json:"error,omitempty"`
}
