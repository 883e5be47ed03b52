package board

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/motion.go/pkg/m0/comm"
)

// scriptStream echoes the command id back with the next scripted reply
// suffix, imitating the firmware side of the wire.
type scriptStream struct {
	t      *testing.T
	readCh chan string

	lock    sync.Mutex
	replies []string
	wrote   []string
	pending []byte
}

func newScriptStream(t *testing.T, replies ...string) *scriptStream {
	return &scriptStream{
		t:       t,
		readCh:  make(chan string, 4),
		replies: replies,
	}
}

func (s *scriptStream) Read(p []byte) (int, error) {
	if len(s.pending) == 0 {
		line, ok := <-s.readCh
		if !ok {
			return 0, io.EOF
		}
		s.pending = []byte(line)
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

func (s *scriptStream) Write(p []byte) (int, error) {
	line := strings.TrimSpace(string(p))
	s.lock.Lock()
	s.wrote = append(s.wrote, line)
	var suffix string
	if len(s.replies) > 0 {
		suffix = s.replies[0]
		s.replies = s.replies[1:]
	}
	s.lock.Unlock()
	if suffix != "" {
		id, err := comm.ParseID(line)
		require.NoError(s.t, err)
		s.readCh <- fmt.Sprintf("%d;%s\n", id, suffix)
	}
	return len(p), nil
}

func (s *scriptStream) written() []string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]string(nil), s.wrote...)
}

func newTestBoard(t *testing.T, replies ...string) (*Board, *scriptStream, context.CancelFunc) {
	s := newScriptStream(t, replies...)
	d := comm.NewDispatcher(s)
	ctx, cancel := context.WithCancel(context.TODO())
	go d.Run(ctx)
	return New(d), s, cancel
}

func TestVersion(t *testing.T) {
	b, s, cancel := newTestBoard(t,
		"0;1;2;3;4;5;6;7;8;9;10;11;12;13;14;15;16;17;18;19;20;")
	defer cancel()

	ver, err := b.Version()
	require.NoError(t, err)
	require.Equal(t, "1234567891011121314151617181920", ver)
	require.Equal(t, []string{"0;GET_VERSION;0;0"}, s.written())
}

func TestExpansionBoards(t *testing.T) {
	b, s, cancel := newTestBoard(t, "0;2;6;")
	defer cancel()

	state, err := b.ExpansionBoards()
	require.NoError(t, err)
	require.Equal(t, ExpansionState{Boards: 2, Ports: 6}, state)
	require.Equal(t, []string{"0;EXPANSION_BOARDS_STATE;0;0"}, s.written())
}

func TestMotors(t *testing.T) {
	b, s, cancel := newTestBoard(t,
		"0;1;1;1;0;1;0;100;1;0;1;0;1;0;200;")
	defer cancel()

	states, err := b.Motors(0, 2)
	require.NoError(t, err)
	require.Equal(t, []MotorState{
		{
			Writable:      true,
			Enabled:       true,
			StepsComplete: true,
			HLFB:          HLFBAsserted,
			Position:      100,
		},
		{
			Writable:      true,
			StepsComplete: true,
			HLFB:          HLFBAsserted,
			Position:      200,
		},
	}, states)
	require.Equal(t, []string{"0;MOTORS_STATE;0;5"}, s.written())
}

func TestMotorsShortReply(t *testing.T) {
	b, _, cancel := newTestBoard(t, "0;")
	defer cancel()

	_, err := b.Motors(0)
	require.Equal(t, ErrShortReply, err)
}

func TestEnableMotorsKeepsSet(t *testing.T) {
	b, s, cancel := newTestBoard(t, "0;", "0;", "0;", "0;", "0;")
	defer cancel()

	require.NoError(t, b.EnableMotors(0))
	require.NoError(t, b.EnableMotors(2))
	require.Equal(t, []int{0, 2}, b.EnabledMotors())

	require.NoError(t, b.DisableMotors(0))
	require.Equal(t, []int{2}, b.EnabledMotors())

	require.NoError(t, b.DisableAllMotors())
	require.Empty(t, b.EnabledMotors())

	// the tracked set was reset, so only motor 1 is asserted
	require.NoError(t, b.EnableMotors(1))

	require.Equal(t, []string{
		"0;MOTORS_ENABLE;0;1",
		"1;MOTORS_ENABLE;0;5",
		"2;MOTORS_ENABLE;0;4",
		"3;MOTORS_ENABLE;0;0",
		"4;MOTORS_ENABLE;0;2",
	}, s.written())
}

func TestMoveMotors(t *testing.T) {
	b, s, cancel := newTestBoard(t, "0;")
	defer cancel()

	err := b.MoveMotors(
		MotorMove{Motor: 0, Steps: 100},
		MotorMove{Motor: 2, Steps: -50})
	require.NoError(t, err)
	require.Equal(t, []string{"0;MOTORS_MOVE;2;5;100;-50"}, s.written())
}

func TestSetMotorsVelocity(t *testing.T) {
	b, s, cancel := newTestBoard(t, "0;")
	defer cancel()

	err := b.SetMotorsVelocity(
		MotorVelocity{Motor: 1, Velocity: 400},
		MotorVelocity{Motor: 3, Velocity: 800})
	require.NoError(t, err)
	require.Equal(t, []string{"0;MOTORS_SET_VELOCITY;2;10;400;800"}, s.written())
}

func TestSetMotorsHomeAndStop(t *testing.T) {
	b, s, cancel := newTestBoard(t, "0;", "0;")
	defer cancel()

	require.NoError(t, b.SetMotorsHome(0, 1))
	require.NoError(t, b.StopMotors(1))
	require.Equal(t, []string{
		"0;MOTORS_HOME;0;3",
		"1;MOTORS_STOP_ABRUPT;0;2",
	}, s.written())
}

func TestSetEStopPin(t *testing.T) {
	b, s, cancel := newTestBoard(t, "0;")
	defer cancel()

	require.NoError(t, b.SetEStopPin(4))
	require.Equal(t, []string{"0;MOTORS_SET_ESTOP_PIN;0;4"}, s.written())
}

func TestSetPinsMode(t *testing.T) {
	b, s, cancel := newTestBoard(t, "0;")
	defer cancel()

	err := b.SetPinsMode(
		PinModeSet{Pin: 1, Mode: PinOutput},
		PinModeSet{Pin: 3, Mode: PinInput})
	require.NoError(t, err)
	require.Equal(t, []string{"0;PINS_MODE_SET;2;10;1;0"}, s.written())
}

func TestWriteDigitalPins(t *testing.T) {
	b, s, cancel := newTestBoard(t, "0;")
	defer cancel()

	err := b.WriteDigitalPins(
		PinLevel{Pin: 0, High: true},
		PinLevel{Pin: 4, High: false})
	require.NoError(t, err)
	require.Equal(t, []string{"0;DPINS_SET;2;17;1;0"}, s.written())
}

func TestDigitalSensors(t *testing.T) {
	b, s, cancel := newTestBoard(t, "0;1;0;")
	defer cancel()

	states, err := b.DigitalSensors(1, 2)
	require.NoError(t, err)
	require.Equal(t, []bool{true, false}, states)
	require.Equal(t, []string{"0;DSENSORS_STATE;0;6"}, s.written())
}

func TestAnalogSensors(t *testing.T) {
	b, s, cancel := newTestBoard(t, "0;512;1023;")
	defer cancel()

	values, err := b.AnalogSensors(0, 1)
	require.NoError(t, err)
	require.Equal(t, []int{512, 1023}, values)
	require.Equal(t, []string{"0;ASENSORS_STATE;0;3"}, s.written())
}

func TestSelectorRange(t *testing.T) {
	b, s, cancel := newTestBoard(t)
	defer cancel()

	_, err := b.Motors(40)
	require.Error(t, err)
	require.IsType(t, &comm.SelectorError{}, err)
	require.Empty(t, s.written())

	require.Error(t, b.EnableMotors(-1))
	require.Empty(t, b.EnabledMotors())
}

func TestHLFBStateOf(t *testing.T) {
	require.Equal(t, HLFBDeAsserted, HLFBStateOf(0))
	require.Equal(t, HLFBAsserted, HLFBStateOf(1))
	require.Equal(t, HLFBHasMeasurement, HLFBStateOf(2))
	require.Equal(t, HLFBUnknown, HLFBStateOf(9))
	require.Equal(t, "Asserted", HLFBAsserted.String())
	require.Equal(t, "Unknown", HLFBState(17).String())
}
