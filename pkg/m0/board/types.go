package board

// HLFBState is the hardware feedback signal of a motor channel.
type HLFBState int

// Known HLFB states.
const (
	HLFBDeAsserted HLFBState = iota
	HLFBAsserted
	HLFBHasMeasurement
	HLFBUnknown
)

// HLFBStateOf maps the raw wire value to an HLFBState.
func HLFBStateOf(raw int) HLFBState {
	switch HLFBState(raw) {
	case HLFBDeAsserted, HLFBAsserted, HLFBHasMeasurement:
		return HLFBState(raw)
	}
	return HLFBUnknown
}

// String implements fmt.Stringer.
func (s HLFBState) String() string {
	switch s {
	case HLFBDeAsserted:
		return "DeAsserted"
	case HLFBAsserted:
		return "Asserted"
	case HLFBHasMeasurement:
		return "HasMeasurement"
	}
	return "Unknown"
}

// MotorState is the decoded state of one motor channel.
type MotorState struct {
	Writable      bool
	Enabled       bool
	StepsComplete bool
	HardwareFault bool
	HLFB          HLFBState
	HLFBMode      int
	Position      int
}

// MotorMove targets one motor with a move in steps.
type MotorMove struct {
	Motor int
	Steps int
}

// MotorVelocity targets one motor with a velocity setting.
type MotorVelocity struct {
	Motor    int
	Velocity int
}

// PinMode is the I/O direction of a digital pin.
type PinMode int

// Pin modes as encoded on the wire.
const (
	PinInput PinMode = iota
	PinOutput
)

// PinModeSet targets one pin with a mode.
type PinModeSet struct {
	Pin  int
	Mode PinMode
}

// PinLevel targets one digital pin with an output level.
type PinLevel struct {
	Pin  int
	High bool
}

// ExpansionState reports attached expansion boards.
type ExpansionState struct {
	Boards int
	Ports  int
}
