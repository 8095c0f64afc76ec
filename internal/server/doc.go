// Package server provides the HTTP API for reactions: applying actions,
// reading per-target counts and per-user status, batch status resolution,
// and the operational endpoints (health, metrics).
package server
