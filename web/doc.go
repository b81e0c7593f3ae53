// Package web exposes the pipeline as a JSON HTTP API.
//
// Endpoints: POST /search creates a session from a keyword, POST
// /sessions/{id}/analyze asks a question against a session, GET /health
// reports liveness. Missing sessions answer 404, expired ones 410, and
// catalog outages 502.
package web
