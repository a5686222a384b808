// Package tty owns the serial side of a KISS attach.
//
// Ownership boundary:
// - bit rate -> termios speed token
//
// - device open, speed, N_AX25 line discipline
//
// - kernel-assigned interface name discovery
//
// - pseudo-terminal pairs for software TNCs
//
// Linux only.
package tty
