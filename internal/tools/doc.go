// Package tools provides host helpers shared by the attach commands.
//
// Ownership boundary:
// - external command execution (modprobe)
package tools
