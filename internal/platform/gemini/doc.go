// Package gemini implements generation.Generator on Google's Gemini API:
// text through the Gemini models and images through Imagen.
//
// Transient failures (rate limiting, 5xx, network errors) are retried with
// exponential backoff and jitter. Safety blocks and malformed responses are
// permanent and returned immediately.
package gemini
