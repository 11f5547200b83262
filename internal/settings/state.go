package settings

import (
	"github.com/phrazzld/creator-api/internal/batch"
	"github.com/phrazzld/creator-api/internal/pipeline"
)

// Storage keys, one per module. The suffix versions the document layout.
const (
	KeyWriteStory   = "writeStoryModuleState_v1"
	KeyRewrite      = "rewriteModuleState_v1"
	KeyBatchRewrite = "batchRewriteModuleState_v1"
	KeyEditStory    = "editStoryModuleState_v1"
)

// Keys lists every module key in a stable order.
func Keys() []string {
	return []string{KeyWriteStory, KeyRewrite, KeyBatchRewrite, KeyEditStory}
}

// State is a module document that knows its key and how to drop the fields
// that must not survive a restart.
type State interface {
	StateKey() string
	Persistent() State
}

// WriteStoryState is the long-form writer module.
type WriteStoryState struct {
	Settings pipeline.WriteSettings `json:"settings"`
	Outline  string                 `json:"outline"`

	Story   string `json:"story,omitempty"`
	Loading bool   `json:"loading,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s WriteStoryState) StateKey() string { return KeyWriteStory }

func (s WriteStoryState) Persistent() State {
	s.Story, s.Loading, s.Error = "", false, ""
	return s
}

// RewriteState is the single-text rewrite module.
type RewriteState struct {
	Settings pipeline.RewriteSettings `json:"settings"`
	Input    string                   `json:"input"`

	Output  string `json:"output,omitempty"`
	Loading bool   `json:"loading,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s RewriteState) StateKey() string { return KeyRewrite }

func (s RewriteState) Persistent() State {
	s.Output, s.Loading, s.Error = "", false, ""
	return s
}

// BatchRewriteState is the batch rewrite module. Items keep their input and
// overrides; results are dropped.
type BatchRewriteState struct {
	Settings    pipeline.RewriteSettings `json:"settings"`
	Concurrency int                      `json:"concurrency"`
	Items       []batch.WorkItem         `json:"items"`

	Results  []batch.WorkResult `json:"results,omitempty"`
	Running  bool               `json:"running,omitempty"`
	Progress string             `json:"progress,omitempty"`
	Error    string             `json:"error,omitempty"`
}

func (s BatchRewriteState) StateKey() string { return KeyBatchRewrite }

func (s BatchRewriteState) Persistent() State {
	s.Items = append([]batch.WorkItem(nil), s.Items...)
	s.Results, s.Running, s.Progress, s.Error = nil, false, "", ""
	return s
}

// EditStoryState is the story editor module.
type EditStoryState struct {
	Settings pipeline.EditSettings `json:"settings"`
	Input    string                `json:"input"`

	Edited   string             `json:"edited,omitempty"`
	Analysis *pipeline.Analysis `json:"analysis,omitempty"`
	Loading  bool               `json:"loading,omitempty"`
	Error    string             `json:"error,omitempty"`
}

func (s EditStoryState) StateKey() string { return KeyEditStory }

func (s EditStoryState) Persistent() State {
	s.Edited, s.Analysis, s.Loading, s.Error = "", nil, false, ""
	return s
}
