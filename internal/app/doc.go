// Package app wires application dependencies for the CLI.
//
// It loads the YAML config, builds the concrete stores, the relay client
// and the session, and exposes them via the Wire struct for commands to
// use.
package app
