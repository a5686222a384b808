// Package ax25 owns the AX.25 address-field encoding used as the hardware
// address of a KISS network interface.
//
// Ownership boundary:
// - callsign[-SSID] text -> 7-octet address field
//
// - address field -> printable callsign for logs
//
// Layout:
// - octets 0-5: callsign characters shifted left one bit, space padded
//
// - octet 6: SSID packed as ((ssid + '0') << 1) & 0x1E
package ax25
