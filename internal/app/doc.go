// Package app wires configuration, sources, the sound stream player, the
// TUI and the network feed into the two command line applications.
package app
