// Package api handles incoming HTTP requests for the generation backend:
// the license-key gated /ai endpoints, key validation, and the admin API.
// Handlers decode and validate requests, call the services, and map their
// errors onto status codes and safe messages.
package api
