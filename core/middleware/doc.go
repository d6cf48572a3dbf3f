// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation, so only the local UI shell can call the API.
//   - rayid: a per-request id stored in Locals and echoed in X-Ray-ID.
package middleware
