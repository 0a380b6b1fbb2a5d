package serial

// Device is the collaborator interface for whatever is plugged into the
// serial port. A real link cable peer would implement this; the
// non-goal'd serial-link peering is out of scope, so the only shipped
// implementation is nullDevice below.
type Device interface {
	// Send returns the next bit this device is driving onto the line.
	Send() bool
	// Receive accepts the bit the other side drove onto the line.
	Receive(bit bool)
}

// nullDevice models an unplugged cable. Real unplugged hardware floats
// the line high, which would shred the byte being "sent" into 0xFF over
// the 8-bit transfer; instead we echo back whatever bit we're handed, so
// a lone instance's SB register survives a transfer unchanged and can be
// read as a debug character stream (see Controller.WriteSC) the same way
// the reference emulator's Blargg-test harness reads it.
type nullDevice struct {
	last bool
}

func (d *nullDevice) Send() bool    { return d.last }
func (d *nullDevice) Receive(bit bool) { d.last = bit }
