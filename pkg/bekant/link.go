// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package bekant

import (
	"io"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Transport is the byte stream to the desk controller. Serial ports from
// go.bug.st/serial satisfy it directly.
type Transport interface {
	io.Reader
	io.Writer

	// ResetInputBuffer discards any unread input
	ResetInputBuffer() error

	// SetReadTimeout bounds the next Read. A Read that times out returns
	// zero bytes and no error.
	SetReadTimeout(t time.Duration) error
}

// Recorder receives every completed exchange
type Recorder interface {
	Record(e Exchange) error
}

// Link performs request/response exchanges with the desk controller.
// Exchanges are serialized; there are no retries.
type Link struct {
	mu        sync.Mutex
	transport Transport
	timeout   time.Duration
	log       hclog.Logger
	recorder  Recorder
	stats     *Statistics
	now       func() time.Time
}

// Option configures a Link
type Option func(*Link)

// WithTimeout sets the response timeout
func WithTimeout(d time.Duration) Option {
	return func(l *Link) { l.timeout = d }
}

// WithLogger sets the link logger
func WithLogger(log hclog.Logger) Option {
	return func(l *Link) { l.log = log }
}

// WithRecorder records every exchange
func WithRecorder(r Recorder) Option {
	return func(l *Link) { l.recorder = r }
}

// WithStatistics accumulates exchange outcomes into s
func WithStatistics(s *Statistics) Option {
	return func(l *Link) { l.stats = s }
}

// NewLink creates a link over t
func NewLink(t Transport, opts ...Option) *Link {
	l := &Link{
		transport: t,
		timeout:   DefaultTimeout,
		log:       hclog.NewNullLogger(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Statistics returns the statistics tracker, or nil when none is attached
func (l *Link) Statistics() *Statistics {
	return l.stats
}

// Exchange sends cmd with payload and returns the validated response
func (l *Link) Exchange(cmd Command, payload []byte) (Frame, error) {
	expected := ResponseLength(cmd)
	if expected == 0 {
		return Frame{}, hostError(cmd, HostInvalidCommand, "command not in catalogue")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	start := l.now()
	request := Encode(cmd, payload)
	response, err := l.roundTrip(cmd, request, expected)

	var frame Frame
	if err == nil {
		frame, err = Decode(cmd, expected, response)
	}
	if err != nil {
		l.flush()
	}

	l.finish(Exchange{
		At:       start,
		Command:  cmd,
		Request:  request,
		Response: response,
		Duration: l.now().Sub(start),
		Err:      err,
	})

	return frame, err
}

func (l *Link) roundTrip(cmd Command, request []byte, expected int) ([]byte, error) {
	l.flush()

	if _, err := l.transport.Write(request); err != nil {
		return nil, &HostError{Kind: HostTransport, Op: cmd, Detail: "write", Err: err}
	}

	response, err := l.readFull(expected)
	if err != nil {
		return response, &HostError{Kind: HostTransport, Op: cmd, Detail: "read", Err: err}
	}
	if len(response) == 0 {
		return nil, hostError(cmd, HostTimeout, "no response within %s", l.timeout)
	}

	// A short response is handed to Decode so it is classified by content
	return response, nil
}

// readFull reads up to n bytes, stopping early when the timeout elapses
func (l *Link) readFull(n int) ([]byte, error) {
	buf := make([]byte, n)
	got := 0
	deadline := l.now().Add(l.timeout)

	for got < n {
		remaining := deadline.Sub(l.now())
		if remaining <= 0 {
			break
		}
		if err := l.transport.SetReadTimeout(remaining); err != nil {
			return buf[:got], err
		}

		k, err := l.transport.Read(buf[got:])
		got += k
		if err != nil {
			return buf[:got], err
		}
		if k == 0 {
			break
		}
	}

	return buf[:got], nil
}

func (l *Link) flush() {
	if err := l.transport.ResetInputBuffer(); err != nil {
		l.log.Debug("flush failed", "error", err)
	}
}

func (l *Link) finish(e Exchange) {
	if e.Err != nil {
		l.log.Debug("exchange failed", "command", FormatCommand(e.Command), "error", e.Err)
	} else {
		l.log.Trace("exchange", "command", FormatCommand(e.Command), "request", hexBytes(e.Request), "response", hexBytes(e.Response))
	}

	if l.stats != nil {
		l.stats.Update(e.Command, e.Duration, e.Err)
	}

	if l.recorder != nil {
		if err := l.recorder.Record(e); err != nil {
			l.log.Warn("failed to record exchange", "error", err)
		}
	}
}

// call performs a command whose response carries only the status byte
func (l *Link) call(cmd Command, payload []byte) error {
	_, err := l.Exchange(cmd, payload)
	return err
}

func (l *Link) readUint8(cmd Command) (uint8, error) {
	f, err := l.Exchange(cmd, nil)
	if err != nil {
		return 0, err
	}
	return f.Uint8(), nil
}

func (l *Link) readUint16(cmd Command) (uint16, error) {
	f, err := l.Exchange(cmd, nil)
	if err != nil {
		return 0, err
	}
	return f.Uint16(), nil
}
