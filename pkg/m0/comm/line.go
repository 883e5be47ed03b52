package comm

import (
	"strconv"
	"strings"
)

// CommandSeq defines the type of command id.
type CommandSeq uint32

// MaxCommandSeq is the exclusive upper bound of command ids.
const MaxCommandSeq CommandSeq = 1000000

// Next calculates the next command id.
func (s CommandSeq) Next() CommandSeq {
	n := s + 1
	if n >= MaxCommandSeq {
		n = 0
	}
	return n
}

// IsValid checks if it's a valid command id.
func (s CommandSeq) IsValid() bool {
	return s < MaxCommandSeq
}

// Command names understood by the M0 firmware.
const (
	CmdGetVersion          = "GET_VERSION"
	CmdExpansionBoards     = "EXPANSION_BOARDS_STATE"
	CmdMotorsState         = "MOTORS_STATE"
	CmdMotorsEnable        = "MOTORS_ENABLE"
	CmdMotorsMove          = "MOTORS_MOVE"
	CmdMotorsHome          = "MOTORS_HOME"
	CmdMotorsSetVelocity   = "MOTORS_SET_VELOCITY"
	CmdMotorsStopAbrupt    = "MOTORS_STOP_ABRUPT"
	CmdMotorsSetEStopPin   = "MOTORS_SET_ESTOP_PIN"
	CmdPinsModeSet         = "PINS_MODE_SET"
	CmdDigitalSensorsState = "DSENSORS_STATE"
	CmdAnalogSensorsState  = "ASENSORS_STATE"
	CmdDigitalPinsSet      = "DPINS_SET"
)

// Encode builds a command line without the leading id:
// "<name>;<argc>;<sel>[;<arg>...]".
// argc is the count of fields following the selector, which for commands
// carrying several fields per target is a multiple of the target count.
// Argument values are not validated; the firmware rejects what it cannot
// accept.
func Encode(name string, argc int, sel Selector, args ...string) string {
	fields := make([]string, 0, len(args)+3)
	fields = append(fields, name,
		strconv.Itoa(argc),
		strconv.FormatUint(uint64(sel), 10))
	fields = append(fields, args...)
	return strings.Join(fields, ";")
}

// Fields splits a line on ';' and drops the empty field produced by a
// trailing delimiter.
func Fields(line string) []string {
	fields := strings.Split(line, ";")
	if n := len(fields); n > 0 && fields[n-1] == "" {
		fields = fields[:n-1]
	}
	return fields
}

// ParseID extracts the leading field of a reply line as a command id.
func ParseID(line string) (CommandSeq, error) {
	field := line
	if i := strings.IndexByte(line, ';'); i >= 0 {
		field = line[:i]
	}
	id, err := strconv.ParseUint(field, 10, 32)
	if err != nil {
		return 0, err
	}
	return CommandSeq(id), nil
}
