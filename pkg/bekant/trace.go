// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package bekant

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Exchange is one completed request/response cycle
type Exchange struct {
	At       time.Time
	Command  Command
	Request  []byte
	Response []byte
	Duration time.Duration
	Err      error
}

// traceRecord is the on-disk form of an Exchange
type traceRecord struct {
	At       int64  `cbor:"1,keyasint"` // unix nanoseconds
	Command  uint8  `cbor:"2,keyasint"`
	Request  []byte `cbor:"3,keyasint"`
	Response []byte `cbor:"4,keyasint,omitempty"`
	Duration int64  `cbor:"5,keyasint"` // nanoseconds
	Error    string `cbor:"6,keyasint,omitempty"`
	HostKind uint8  `cbor:"7,keyasint,omitempty"`
	DeskCode uint8  `cbor:"8,keyasint,omitempty"`
	Detail   string `cbor:"9,keyasint,omitempty"`
	Cause    string `cbor:"10,keyasint,omitempty"`
}

// TraceError is an untyped failure restored from a trace
type TraceError struct {
	Message string
}

func (e *TraceError) Error() string {
	return e.Message
}

// TraceWriter appends exchanges to a stream as a CBOR sequence
type TraceWriter struct {
	mu  sync.Mutex
	enc *cbor.Encoder
}

// NewTraceWriter creates a writer on w
func NewTraceWriter(w io.Writer) *TraceWriter {
	return &TraceWriter{enc: cbor.NewEncoder(w)}
}

// Record implements Recorder
func (t *TraceWriter) Record(e Exchange) error {
	rec := traceRecord{
		At:       e.At.UnixNano(),
		Command:  uint8(e.Command),
		Request:  e.Request,
		Response: e.Response,
		Duration: int64(e.Duration),
	}
	if e.Err != nil {
		rec.Error = e.Err.Error()

		var de *DeskError
		var he *HostError
		switch {
		case errors.As(e.Err, &de):
			rec.DeskCode = uint8(de.Code)
		case errors.As(e.Err, &he):
			rec.HostKind = uint8(he.Kind)
			rec.Detail = he.Detail
			if he.Err != nil {
				rec.Cause = he.Err.Error()
			}
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to encode trace record: %w", err)
	}
	return nil
}

// TraceReader reads exchanges written by TraceWriter
type TraceReader struct {
	dec *cbor.Decoder
}

// NewTraceReader creates a reader on r
func NewTraceReader(r io.Reader) *TraceReader {
	return &TraceReader{dec: cbor.NewDecoder(r)}
}

// Next returns the next exchange, or io.EOF at the end of the trace
func (t *TraceReader) Next() (Exchange, error) {
	var rec traceRecord
	if err := t.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return Exchange{}, io.EOF
		}
		return Exchange{}, fmt.Errorf("failed to decode trace record: %w", err)
	}

	e := Exchange{
		At:       time.Unix(0, rec.At),
		Command:  Command(rec.Command),
		Request:  rec.Request,
		Response: rec.Response,
		Duration: time.Duration(rec.Duration),
	}
	if rec.Error != "" {
		e.Err = restoreError(e.Command, rec)
	}
	return e, nil
}

// restoreError rebuilds a typed error. Wrapped causes keep their message only.
func restoreError(op Command, rec traceRecord) error {
	switch {
	case rec.DeskCode != 0:
		return &DeskError{Code: DeskErrorCode(rec.DeskCode), Op: op}
	case rec.HostKind != 0:
		he := &HostError{Kind: HostErrorKind(rec.HostKind), Op: op, Detail: rec.Detail}
		if rec.Cause != "" {
			he.Err = &TraceError{Message: rec.Cause}
		}
		return he
	default:
		return &TraceError{Message: rec.Error}
	}
}
