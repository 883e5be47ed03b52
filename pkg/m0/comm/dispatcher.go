package comm

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"
)

// BufferResetter is an optional transport capability to discard bytes
// pending in the receive buffer. Serial ports support it; generic duplex
// streams need not, in which case buffer reset is a no-op.
type BufferResetter interface {
	ResetInputBuffer() error
}

// Result is the result of an exchange.
type Result struct {
	Err  error
	Line string
}

// Exchange represents one command sent and its correlated reply.
type Exchange struct {
	command  string
	timeout  time.Duration
	resultCh chan Result
}

// Command returns the command line without the leading id.
func (x *Exchange) Command() string {
	return x.command
}

// ResultChan returns the chan to retrieve the result.
func (x *Exchange) ResultChan() <-chan Result {
	return x.resultCh
}

// Dispatcher serializes command exchanges over a duplex byte channel.
//
// All callers are funneled into a strict FIFO: an exchange starts only
// after the previous one resolved, so at most one command id is ever in
// flight and reply correlation reduces to an equality check. Run must be
// active for exchanges to make progress.
type Dispatcher struct {
	Transport io.ReadWriter
	Timeout   time.Duration

	seq      CommandSeq
	submitCh chan *Exchange
	lineCh   chan string
	errCh    chan error
	fatal    error
}

// DefaultTimeout is the per-exchange deadline unless overridden.
const DefaultTimeout = 100 * time.Millisecond

// NewDispatcher creates a Dispatcher over a transport.
func NewDispatcher(rw io.ReadWriter) *Dispatcher {
	return &Dispatcher{
		Transport: rw,
		Timeout:   DefaultTimeout,
		submitCh:  make(chan *Exchange, 16),
		lineCh:    make(chan string, 1),
		errCh:     make(chan error, 1),
	}
}

// DoWith enqueues a command and expects a result in the provided chan.
// A non-positive timeout means the dispatcher default.
func (d *Dispatcher) DoWith(command string, timeout time.Duration, ch chan Result) *Exchange {
	x := &Exchange{command: command, timeout: timeout, resultCh: ch}
	d.submitCh <- x
	return x
}

// Do enqueues a command with the default timeout.
func (d *Dispatcher) Do(command string) *Exchange {
	return d.DoWith(command, 0, make(chan Result, 1))
}

// DoWithTimeout enqueues a command with a per-exchange timeout.
func (d *Dispatcher) DoWithTimeout(command string, timeout time.Duration) *Exchange {
	return d.DoWith(command, timeout, make(chan Result, 1))
}

// Execute enqueues a command and blocks for the correlated reply line.
func (d *Dispatcher) Execute(command string) (string, error) {
	r := <-d.Do(command).ResultChan()
	return r.Line, r.Err
}

// Run processes exchanges in the background until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) error {
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go d.readLoop(subCtx)
	for {
		select {
		case <-ctx.Done():
			d.failPending(ctx.Err())
			return ctx.Err()
		case err := <-d.errCh:
			d.fatal = &TransportError{Err: err}
		case x := <-d.submitCh:
			d.exchange(ctx, x)
		}
	}
}

func (d *Dispatcher) failPending(err error) {
	for {
		select {
		case x := <-d.submitCh:
			x.resultCh <- Result{Err: err}
		default:
			return
		}
	}
}

// exchange performs one send/receive cycle. Whatever the outcome, the
// exchange resolves exactly once and the worker moves to the next one.
func (d *Dispatcher) exchange(ctx context.Context, x *Exchange) {
	if d.fatal != nil {
		x.resultCh <- Result{Err: d.fatal}
		return
	}
	d.resetReceiveBuffer()

	seq := d.seq
	d.seq = d.seq.Next()

	line := strconv.FormatUint(uint64(seq), 10) + ";" + x.command
	if glog.V(2) {
		glog.Infof("SND %q", line)
	}
	start := time.Now()
	if _, err := io.WriteString(d.Transport, line+"\n"); err != nil {
		x.resultCh <- Result{Err: &TransportError{Err: err}}
		return
	}

	timeout := x.timeout
	if timeout <= 0 {
		timeout = d.Timeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case reply := <-d.lineCh:
		if glog.V(2) {
			glog.Infof("RCV %q", reply)
		}
		id, err := ParseID(reply)
		if err != nil {
			id = MaxCommandSeq
		}
		if id != seq {
			x.resultCh <- Result{Err: &MismatchError{Sent: seq, Received: id, Line: reply}}
			return
		}
		x.resultCh <- Result{Line: reply}
	case err := <-d.errCh:
		d.fatal = &TransportError{Err: err}
		x.resultCh <- Result{Err: d.fatal}
	case <-timer.C:
		glog.V(1).Infof("timeout %q", line)
		x.resultCh <- Result{Err: &TimeoutError{Command: x.command, Elapsed: time.Since(start)}}
	case <-ctx.Done():
		x.resultCh <- Result{Err: ctx.Err()}
	}
}

// resetReceiveBuffer discards lines left over from an aborted exchange,
// then opportunistically clears the transport receive buffer when the
// capability exists.
func (d *Dispatcher) resetReceiveBuffer() {
	for {
		select {
		case stale := <-d.lineCh:
			glog.V(2).Infof("DROP %q", stale)
			continue
		default:
		}
		if br, ok := d.Transport.(BufferResetter); ok {
			if err := br.ResetInputBuffer(); err != nil {
				glog.V(1).Infof("reset input buffer: %v", err)
			}
		}
		return
	}
}

func (d *Dispatcher) readLoop(ctx context.Context) {
	scanner := bufio.NewScanner(d.Transport)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		select {
		case d.lineCh <- line:
		case <-ctx.Done():
			return
		}
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	select {
	case d.errCh <- err:
	case <-ctx.Done():
	}
}
