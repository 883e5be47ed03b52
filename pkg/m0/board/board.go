// Package board provides typed operations of an M0 controller.
package board

import (
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/robotalks/motion.go/pkg/m0/comm"
)

// ErrShortReply indicates a reply payload with fewer fields than the
// issued command requires.
var ErrShortReply = errors.New("short reply payload")

// Board drives an M0 controller through a command dispatcher.
//
// Board tracks which motors it enabled because MOTORS_ENABLE replaces
// the full enabled set on every send: enabling one motor must re-assert
// all the others. Methods may be called concurrently; the dispatcher
// serializes the resulting exchanges.
type Board struct {
	dispatcher *comm.Dispatcher

	enabledLock sync.Mutex
	enabled     map[int]bool
}

// New creates a Board over a dispatcher.
func New(d *comm.Dispatcher) *Board {
	return &Board{
		dispatcher: d,
		enabled:    make(map[int]bool),
	}
}

// Dispatcher gets the wrapped dispatcher.
func (b *Board) Dispatcher() *comm.Dispatcher {
	return b.dispatcher
}

// exec performs one exchange and returns the payload fields of the
// reply, with the echoed id and status fields stripped.
func (b *Board) exec(name string, argc int, sel comm.Selector, args ...string) ([]string, error) {
	line, err := b.dispatcher.Execute(comm.Encode(name, argc, sel, args...))
	if err != nil {
		return nil, err
	}
	fields := comm.Fields(line)
	if len(fields) <= 2 {
		return nil, nil
	}
	return fields[2:], nil
}

// Version queries the firmware version string.
func (b *Board) Version() (string, error) {
	fields, err := b.exec(comm.CmdGetVersion, 0, 0)
	if err != nil {
		return "", err
	}
	return strings.Join(fields, ""), nil
}

// ExpansionBoards queries attached expansion boards.
func (b *Board) ExpansionBoards() (ExpansionState, error) {
	var state ExpansionState
	fields, err := b.exec(comm.CmdExpansionBoards, 0, 0)
	if err != nil {
		return state, err
	}
	if len(fields) < 2 {
		return state, ErrShortReply
	}
	if state.Boards, err = strconv.Atoi(fields[0]); err != nil {
		return state, err
	}
	if state.Ports, err = strconv.Atoi(fields[1]); err != nil {
		return state, err
	}
	return state, nil
}
