// Package generation is the boundary between the backend and AI providers.
//
// A Generator produces text or images for a prompt. Providers register under
// a name in a Registry; the /ai endpoints pick one by the request's provider
// field.
package generation
