// Package server exposes the identification service over a small JSON
// HTTP API. Sessions are addressed by id under /api/sessions; the server
// holds no session state beyond what the key service persists, so it can
// restart without losing identification progress.
package server
