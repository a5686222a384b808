// Package bridge connects a software KISS modem reachable over TCP (fldigi)
// to the kernel AX.25 stack through a pseudo-terminal.
//
// Lifecycle order:
// - open pty pair -> attach the slave -> dial the modem -> pump bytes
//
// The pty master and the attached slave handle are both held for the life of
// the bridge. The master keeps the slave's N_AX25 line discipline alive; the
// slave handle keeps reads on the master from returning EIO.
package bridge
