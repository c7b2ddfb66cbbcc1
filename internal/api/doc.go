// Package api adapts HTTP requests to the user directory and content
// services. Handlers decode and validate payloads, resolve the caller from
// the session claims, enforce ownership through the services' authorization
// hooks and map service errors to status codes with sanitized messages.
package api
