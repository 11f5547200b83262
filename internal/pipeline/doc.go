// Package pipeline holds the per-item AI call chains of the studio tools.
//
// Each pipeline is one or two sequential calls to a Generator. A Rewriter
// rewrites text chunk by chunk and can polish the result; a StoryEditor
// edits a story and can analyze the edit; a Writer drafts a long story
// section by section from an outline. Rewriter and StoryEditor plug into
// batch.Dispatcher through their Pipeline methods.
package pipeline
