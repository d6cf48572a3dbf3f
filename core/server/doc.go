// Package server holds the configuration of the local HTTP API.
//
// The API is the boundary between the mobile UI shell and the studyhub core;
// it binds to loopback by default. The cmd package starts the Fiber app and
// uses Addr to listen.
package server
