// Package serial opens real serial ports as M0 transports.
package serial

import (
	bugst "go.bug.st/serial"
)

// DefaultBaudRate is used when Config.BaudRate is zero.
const DefaultBaudRate = 115200

// Config describes the serial port of an M0 controller.
type Config struct {
	Device   string
	BaudRate int
}

// Open opens the port in 8N1 mode. The returned port is an
// io.ReadWriteCloser and supports receive buffer reset, which the
// dispatcher uses before each exchange.
func (c Config) Open() (bugst.Port, error) {
	baud := c.BaudRate
	if baud == 0 {
		baud = DefaultBaudRate
	}
	mode := &bugst.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   bugst.NoParity,
		StopBits: bugst.OneStopBit,
	}
	return bugst.Open(c.Device, mode)
}
