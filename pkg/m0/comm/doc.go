// Package comm provides M0 protocol support.
package comm

// M0 protocol is communicated between the M0 motion-and-I/O firmware and
// a host-side driver over a duplex byte channel (e.g. serial port).
//
// The protocol is textual and line-delimited. Each request carries a
// monotonically increasing command id which the firmware echoes back in
// the first field of the reply, allowing the driver to correlate replies
// with requests. Fields within a line are separated by ';'.
//
// Only one command is in flight at a time: the Dispatcher serializes all
// callers into a strict FIFO of exchanges, so a reply id that does not
// match the id just sent can only be a stale line from an earlier aborted
// exchange, which is surfaced as an error and never resynced silently.
//
// Producer: host driver
// Consumer: M0 firmware
