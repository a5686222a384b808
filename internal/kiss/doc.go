// Package kiss owns the attach sequence that turns a KISS TNC tty into an
// operational AX.25 network interface.
//
// Lifecycle order:
// - Idle -> DeviceOpen -> SpeedApplied (skipped when speed is 0)
//
// - LineDisciplineSet -> InterfaceNamed -> HwAddressSet
//
// - EncapsulationSet -> Up
//
// Any step may end in Failed. States never move backwards and a failed
// attempt is not retried.
//
// The tty handle is released on every failure path. On success it is owned
// by the returned Link: closing the last descriptor of a real serial tty
// makes the kernel drop the line discipline and remove the interface.
package kiss
