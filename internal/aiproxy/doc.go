// Package aiproxy is the studio's client for the backend proxy. It sends
// prompts with the license key as bearer token and turns the backend's
// {success, error} envelope into Go errors.
//
// There are no retries, backoff, or caching here; the caller's context and
// the http.Client timeout are the only limits.
package aiproxy
