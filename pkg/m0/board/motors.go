package board

import (
	"sort"
	"strconv"

	"github.com/robotalks/motion.go/pkg/m0/comm"
)

// motorStateFields is the per-motor field count in a MOTORS_STATE reply.
const motorStateFields = 7

// Motors reads the state of the specified motors. Results are in the
// order the motors were passed, not in bit order.
func (b *Board) Motors(motors ...int) ([]MotorState, error) {
	sel, err := comm.Select(motors...)
	if err != nil {
		return nil, err
	}
	fields, err := b.exec(comm.CmdMotorsState, 0, sel)
	if err != nil {
		return nil, err
	}
	if len(fields) < len(motors)*motorStateFields {
		return nil, ErrShortReply
	}
	states := make([]MotorState, len(motors))
	for i := range motors {
		group := fields[i*motorStateFields : (i+1)*motorStateFields]
		if states[i], err = parseMotorState(group); err != nil {
			return nil, err
		}
	}
	return states, nil
}

func parseMotorState(fields []string) (state MotorState, err error) {
	raw := make([]int, motorStateFields)
	for i, field := range fields {
		if raw[i], err = strconv.Atoi(field); err != nil {
			return
		}
	}
	state.Writable = raw[0] != 0
	state.Enabled = raw[1] != 0
	state.StepsComplete = raw[2] != 0
	state.HardwareFault = raw[3] != 0
	state.HLFB = HLFBStateOf(raw[4])
	state.HLFBMode = raw[5]
	state.Position = raw[6]
	return
}

// EnableMotors enables the specified motors. The wire command replaces
// the full enabled set, so the selector sent carries every motor the
// Board currently tracks as enabled, not only the ones passed.
func (b *Board) EnableMotors(motors ...int) error {
	sel, err := b.updateEnabled(motors, true)
	if err != nil {
		return err
	}
	_, err = b.exec(comm.CmdMotorsEnable, 0, sel)
	return err
}

// DisableMotors disables the specified motors by re-asserting the
// remaining enabled set.
func (b *Board) DisableMotors(motors ...int) error {
	sel, err := b.updateEnabled(motors, false)
	if err != nil {
		return err
	}
	_, err = b.exec(comm.CmdMotorsEnable, 0, sel)
	return err
}

// DisableAllMotors disables every motor with a zero selector and resets
// the tracked enabled set, so a later EnableMotors call asserts only the
// motors it names.
func (b *Board) DisableAllMotors() error {
	b.enabledLock.Lock()
	b.enabled = make(map[int]bool)
	b.enabledLock.Unlock()
	_, err := b.exec(comm.CmdMotorsEnable, 0, 0)
	return err
}

// EnabledMotors enumerates the motors the Board tracks as enabled, in
// ascending order.
func (b *Board) EnabledMotors() []int {
	b.enabledLock.Lock()
	motors := make([]int, 0, len(b.enabled))
	for motor := range b.enabled {
		motors = append(motors, motor)
	}
	b.enabledLock.Unlock()
	sort.Ints(motors)
	return motors
}

// updateEnabled mutates the tracked set and returns the selector of the
// full resulting set. The set is untouched when an index is invalid.
func (b *Board) updateEnabled(motors []int, enable bool) (comm.Selector, error) {
	if _, err := comm.Select(motors...); err != nil {
		return 0, err
	}
	b.enabledLock.Lock()
	defer b.enabledLock.Unlock()
	for _, motor := range motors {
		if enable {
			b.enabled[motor] = true
		} else {
			delete(b.enabled, motor)
		}
	}
	all := make([]int, 0, len(b.enabled))
	for motor := range b.enabled {
		all = append(all, motor)
	}
	return comm.Select(all...)
}

// MoveMotors issues one move of the specified steps per motor.
func (b *Board) MoveMotors(moves ...MotorMove) error {
	motors := make([]int, len(moves))
	args := make([]string, len(moves))
	for i, move := range moves {
		motors[i] = move.Motor
		args[i] = strconv.Itoa(move.Steps)
	}
	sel, err := comm.Select(motors...)
	if err != nil {
		return err
	}
	_, err = b.exec(comm.CmdMotorsMove, len(args), sel, args...)
	return err
}

// SetMotorsHome declares the current position of the specified motors
// as home.
func (b *Board) SetMotorsHome(motors ...int) error {
	sel, err := comm.Select(motors...)
	if err != nil {
		return err
	}
	_, err = b.exec(comm.CmdMotorsHome, 0, sel)
	return err
}

// SetMotorsVelocity sets the move velocity per motor.
func (b *Board) SetMotorsVelocity(velocities ...MotorVelocity) error {
	motors := make([]int, len(velocities))
	args := make([]string, len(velocities))
	for i, v := range velocities {
		motors[i] = v.Motor
		args[i] = strconv.Itoa(v.Velocity)
	}
	sel, err := comm.Select(motors...)
	if err != nil {
		return err
	}
	_, err = b.exec(comm.CmdMotorsSetVelocity, len(args), sel, args...)
	return err
}

// StopMotors abruptly stops the specified motors.
func (b *Board) StopMotors(motors ...int) error {
	sel, err := comm.Select(motors...)
	if err != nil {
		return err
	}
	_, err = b.exec(comm.CmdMotorsStopAbrupt, 0, sel)
	return err
}

// SetEStopPin designates a digital pin as the emergency stop input.
// The pin number travels in the selector position as a plain value.
func (b *Board) SetEStopPin(pin int) error {
	_, err := b.exec(comm.CmdMotorsSetEStopPin, 0, comm.Selector(pin))
	return err
}
