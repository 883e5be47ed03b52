package board

import (
	"strconv"

	"github.com/robotalks/motion.go/pkg/m0/comm"
)

// SetPinsMode sets the I/O direction per pin.
func (b *Board) SetPinsMode(modes ...PinModeSet) error {
	pins := make([]int, len(modes))
	args := make([]string, len(modes))
	for i, mode := range modes {
		pins[i] = mode.Pin
		args[i] = strconv.Itoa(int(mode.Mode))
	}
	sel, err := comm.Select(pins...)
	if err != nil {
		return err
	}
	_, err = b.exec(comm.CmdPinsModeSet, len(args), sel, args...)
	return err
}

// WriteDigitalPins sets the output level per pin.
func (b *Board) WriteDigitalPins(levels ...PinLevel) error {
	pins := make([]int, len(levels))
	args := make([]string, len(levels))
	for i, level := range levels {
		pins[i] = level.Pin
		args[i] = "0"
		if level.High {
			args[i] = "1"
		}
	}
	sel, err := comm.Select(pins...)
	if err != nil {
		return err
	}
	_, err = b.exec(comm.CmdDigitalPinsSet, len(args), sel, args...)
	return err
}

// DigitalSensors reads the specified digital sensors. Results are in
// the order the sensors were passed.
func (b *Board) DigitalSensors(sensors ...int) ([]bool, error) {
	sel, err := comm.Select(sensors...)
	if err != nil {
		return nil, err
	}
	fields, err := b.exec(comm.CmdDigitalSensorsState, 0, sel)
	if err != nil {
		return nil, err
	}
	if len(fields) < len(sensors) {
		return nil, ErrShortReply
	}
	states := make([]bool, len(sensors))
	for i := range sensors {
		val, err := strconv.Atoi(fields[i])
		if err != nil {
			return nil, err
		}
		states[i] = val != 0
	}
	return states, nil
}

// AnalogSensors reads the specified analog sensors. Results are in the
// order the sensors were passed.
func (b *Board) AnalogSensors(sensors ...int) ([]int, error) {
	sel, err := comm.Select(sensors...)
	if err != nil {
		return nil, err
	}
	fields, err := b.exec(comm.CmdAnalogSensorsState, 0, sel)
	if err != nil {
		return nil, err
	}
	if len(fields) < len(sensors) {
		return nil, ErrShortReply
	}
	values := make([]int, len(sensors))
	for i := range sensors {
		if values[i], err = strconv.Atoi(fields[i]); err != nil {
			return nil, err
		}
	}
	return values, nil
}
