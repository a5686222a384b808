package bridge

// KISS framing bytes.
const (
	FEND  byte = 0xC0
	FESC  byte = 0xDB
	TFEND byte = 0xDC
	TFESC byte = 0xDD
)

// frameCounter counts complete KISS frames in a byte stream without altering
// it. Bytes between two FENDs form one frame; repeated FENDs are fill.
// Escapes never contain a raw FEND, so they need no tracking.
type frameCounter struct {
	open bool
}

// scan returns the number of frames closed within b.
func (c *frameCounter) scan(b []byte) int {
	n := 0
	for _, x := range b {
		if x != FEND {
			c.open = true
			continue
		}
		if c.open {
			n++
			c.open = false
		}
	}
	return n
}
