// Package api defines the service layer and transport DTOs shared by the
// HTTP server and the CLI. The service wraps the identification engine and
// the session manager; DTOs carry markup-stripped display text and stable
// camelCase JSON field names.
package api
