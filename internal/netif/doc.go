// Package netif configures the network interface created by the mkiss line
// discipline: hardware address, encapsulation, MTU and flags.
//
// Every step is a single ioctl. A failing step aborts the sequence and
// nothing already applied is rolled back.
package netif
