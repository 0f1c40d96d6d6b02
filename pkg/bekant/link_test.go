// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package bekant

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

// fakeTransport answers each write with the next queued response
type fakeTransport struct {
	responses [][]byte
	pending   []byte
	chunk     int // bytes per Read, 0 for everything

	written  [][]byte
	flushes  int
	writeErr error
	readErr  error
}

func (f *fakeTransport) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	f.written = append(f.written, append([]byte(nil), p...))
	if len(f.responses) > 0 {
		f.pending = f.responses[0]
		f.responses = f.responses[1:]
	}
	return len(p), nil
}

func (f *fakeTransport) Read(p []byte) (int, error) {
	if f.readErr != nil {
		return 0, f.readErr
	}
	if len(f.pending) == 0 {
		return 0, nil
	}
	n := len(p)
	if f.chunk > 0 && f.chunk < n {
		n = f.chunk
	}
	n = copy(p[:n], f.pending)
	f.pending = f.pending[n:]
	return n, nil
}

func (f *fakeTransport) ResetInputBuffer() error {
	f.flushes++
	f.pending = nil
	return nil
}

func (f *fakeTransport) SetReadTimeout(time.Duration) error {
	return nil
}

func newTestLink(responses ...[]byte) (*Link, *fakeTransport) {
	ft := &fakeTransport{responses: responses}
	return NewLink(ft, WithStatistics(NewStatistics())), ft
}

// ============================================================
// Exchange mechanics
// ============================================================

func TestLinkWritesRequestFrame(t *testing.T) {
	link, ft := newTestLink(response(CmdSetPosition, 0x00))

	if err := link.SetPosition(0x1EA0); err != nil {
		t.Fatalf("SetPosition() error = %v", err)
	}

	want := []byte{0x4C, 0x50, 0x02, 0x1E, 0xA0, 0x4C ^ 0x50 ^ 0x02 ^ 0x1E ^ 0xA0}
	if len(ft.written) != 1 || !bytes.Equal(ft.written[0], want) {
		t.Errorf("written = % X, want % X", ft.written, want)
	}
}

func TestLinkFlushesBeforeEveryRequest(t *testing.T) {
	link, ft := newTestLink(response(CmdHalt, 0x00))

	if err := link.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if ft.flushes != 1 {
		t.Errorf("flushes = %d, want 1", ft.flushes)
	}
}

func TestLinkReassemblesChunkedResponse(t *testing.T) {
	link, ft := newTestLink(response(CmdDeskPosition, 0x00, 0x0F, 0xA0))
	ft.chunk = 2

	pos, err := link.Position()
	if err != nil {
		t.Fatalf("Position() error = %v", err)
	}
	if pos != 4000 {
		t.Errorf("Position() = %d, want 4000", pos)
	}
}

func TestLinkNoResponseIsTimeout(t *testing.T) {
	link, ft := newTestLink()

	_, err := link.State()
	if !IsHostError(err, HostTimeout) {
		t.Fatalf("State() error = %v, want host timeout", err)
	}
	// One flush before the request, one after the failure
	if ft.flushes != 2 {
		t.Errorf("flushes = %d, want 2", ft.flushes)
	}
	if link.Statistics().Timeouts != 1 {
		t.Errorf("Timeouts = %d, want 1", link.Statistics().Timeouts)
	}
}

func TestLinkShortResponseIsDecoded(t *testing.T) {
	full := response(CmdDeskPosition, 0x00, 0x0F, 0xA0)
	link, ft := newTestLink(full[:3])

	_, err := link.Position()
	if !IsHostError(err, HostInvalidLength) {
		t.Fatalf("Position() error = %v, want invalid length", err)
	}
	if ft.flushes != 2 {
		t.Errorf("flushes = %d, want 2", ft.flushes)
	}
}

func TestLinkFailuresFlush(t *testing.T) {
	corrupt := response(CmdDeskState, 0x00, 0x42)
	corrupt[4] ^= 0x10

	tests := []struct {
		name string
		resp []byte
		want func(error) bool
	}{
		{"checksum", corrupt, func(err error) bool { return IsHostError(err, HostInvalidChecksum) }},
		{"desk error", response(CmdDeskState, 0x05), func(err error) bool { return IsDeskError(err, DeskBusy) }},
		{"wrong command", response(CmdDeskDrift, 0x00, 0x01), func(err error) bool { return IsHostError(err, HostInvalidCommand) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, ft := newTestLink(tt.resp)
			_, err := link.State()
			if !tt.want(err) {
				t.Fatalf("State() error = %v", err)
			}
			if ft.flushes != 2 {
				t.Errorf("flushes = %d, want 2", ft.flushes)
			}
		})
	}
}

func TestLinkTransportErrors(t *testing.T) {
	ioErr := errors.New("device unplugged")

	link, ft := newTestLink()
	ft.writeErr = ioErr
	err := link.Startup()
	if !IsHostError(err, HostTransport) || !errors.Is(err, ioErr) {
		t.Errorf("write failure: error = %v", err)
	}

	link, ft = newTestLink(response(CmdDeskInit, 0x00))
	ft.readErr = ioErr
	err = link.Startup()
	if !IsHostError(err, HostTransport) || !errors.Is(err, ioErr) {
		t.Errorf("read failure: error = %v", err)
	}
}

func TestLinkRecordsExchanges(t *testing.T) {
	var rec recorderFunc
	var got []Exchange
	rec = func(e Exchange) error {
		got = append(got, e)
		return nil
	}

	ft := &fakeTransport{responses: [][]byte{response(CmdDeskState, 0x00, 0x42)}}
	link := NewLink(ft, WithRecorder(rec))

	if _, err := link.State(); err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if _, err := link.State(); err == nil {
		t.Fatal("second State() succeeded without a response")
	}

	if len(got) != 2 {
		t.Fatalf("recorded %d exchanges, want 2", len(got))
	}
	if got[0].Err != nil || got[0].Command != CmdDeskState {
		t.Errorf("first exchange = %+v", got[0])
	}
	if !IsHostError(got[1].Err, HostTimeout) {
		t.Errorf("second exchange error = %v, want timeout", got[1].Err)
	}
}

type recorderFunc func(Exchange) error

func (f recorderFunc) Record(e Exchange) error { return f(e) }

// ============================================================
// Operations
// ============================================================

func TestLinkValueOperations(t *testing.T) {
	link, _ := newTestLink(
		response(CmdDeskState, 0x00, 0x42),
		response(CmdDeskDrift, 0x00, 0x03),
		response(CmdDeskUpperLimit, 0x00, 0x19, 0x64),
		response(CmdDeskLowerLimit, 0x00, 0x00, 0x96),
		response(CmdFirmwareVersion, 0x00, 2, 0, 7),
		response(CmdProtocolVersion, 0x00, 1, 0, 0),
		response(CmdBoardRevision, 0x00, 'A', '0', '1'),
	)

	state, err := link.State()
	if err != nil || state != StateOperationNormal {
		t.Errorf("State() = %v, %v", state, err)
	}
	drift, err := link.Drift()
	if err != nil || drift != 3 {
		t.Errorf("Drift() = %d, %v", drift, err)
	}
	upper, err := link.UpperLimit()
	if err != nil || upper != 6500 {
		t.Errorf("UpperLimit() = %d, %v", upper, err)
	}
	lower, err := link.LowerLimit()
	if err != nil || lower != 150 {
		t.Errorf("LowerLimit() = %d, %v", lower, err)
	}
	fw, err := link.FirmwareVersion()
	if err != nil || fw != "2.0.7" {
		t.Errorf("FirmwareVersion() = %q, %v", fw, err)
	}
	proto, err := link.ProtocolVersion()
	if err != nil || proto != "1.0.0" {
		t.Errorf("ProtocolVersion() = %q, %v", proto, err)
	}
	rev, err := link.BoardRevision()
	if err != nil || rev != "A01" {
		t.Errorf("BoardRevision() = %q, %v", rev, err)
	}
}

func TestLinkLowerLimitZeroIsInvalidData(t *testing.T) {
	link, _ := newTestLink(response(CmdDeskLowerLimit, 0x00, 0x00, 0x00))

	_, err := link.LowerLimit()
	if !IsHostError(err, HostInvalidData) {
		t.Errorf("LowerLimit() error = %v, want invalid data", err)
	}
}

func TestLinkMotorOperations(t *testing.T) {
	tests := []struct {
		motor Motor
		cmd   Command
	}{
		{MotorLeft, CmdMotorLeftScanID},
		{MotorRight, CmdMotorRightScanID},
	}

	for _, tt := range tests {
		t.Run(string(tt.motor), func(t *testing.T) {
			link, ft := newTestLink(response(tt.cmd, 0x00, 0x11))
			id, err := link.MotorScanID(tt.motor)
			if err != nil || id != 0x11 {
				t.Fatalf("MotorScanID() = %d, %v", id, err)
			}
			if Command(ft.written[0][1]) != tt.cmd {
				t.Errorf("sent command 0x%02X, want 0x%02X", ft.written[0][1], uint8(tt.cmd))
			}
		})
	}

	link, ft := newTestLink(response(CmdMotorRightPosition, 0x00, 0x01, 0x00))
	pos, err := link.MotorPosition(MotorRight)
	if err != nil || pos != 256 {
		t.Errorf("MotorPosition(right) = %d, %v", pos, err)
	}
	if Command(ft.written[0][1]) != CmdMotorRightPosition {
		t.Errorf("sent command 0x%02X", ft.written[0][1])
	}
}

func TestLinkInvalidMotorNeverTouchesTransport(t *testing.T) {
	link, ft := newTestLink()

	calls := []func() error{
		func() error { _, err := link.MotorState("middle"); return err },
		func() error { _, err := link.MotorPosition(""); return err },
		func() error { _, err := link.MotorUpperLimit("LEFT"); return err },
		func() error { _, err := link.MotorLowerLimit("up"); return err },
		func() error { _, err := link.MotorNodeID("x"); return err },
		func() error { _, err := link.MotorScanID("x"); return err },
		func() error { _, err := link.MotorProperty("x"); return err },
	}

	for i, call := range calls {
		if err := call(); !IsHostError(err, HostInvalidParameter) {
			t.Errorf("call %d: error = %v, want invalid parameter", i, err)
		}
	}
	if len(ft.written) != 0 || ft.flushes != 0 {
		t.Errorf("transport used: %d writes, %d flushes", len(ft.written), ft.flushes)
	}
}

func TestLinkCallsSendEmptyPayload(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		call func(*Link) error
	}{
		{"startup", CmdDeskInit, (*Link).Startup},
		{"shutdown", CmdDeskDeinit, (*Link).Shutdown},
		{"calibrate", CmdDeskCalibration, (*Link).Calibrate},
		{"stop", CmdHalt, (*Link).Stop},
		{"watchdog enable", CmdWatchdogEnable, (*Link).WatchdogEnable},
		{"watchdog disable", CmdWatchdogDisable, (*Link).WatchdogDisable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, ft := newTestLink(response(tt.cmd, 0x00))
			if err := tt.call(link); err != nil {
				t.Fatalf("error = %v", err)
			}
			if !bytes.Equal(ft.written[0], Encode(tt.cmd, nil)) {
				t.Errorf("written = % X", ft.written[0])
			}
		})
	}
}

func TestLinkDeskLimitOnMove(t *testing.T) {
	link, _ := newTestLink(response(CmdSetPosition, byte(DeskUpperLimit)))

	err := link.SetPosition(9000)
	if !IsLimitError(err) {
		t.Errorf("SetPosition() error = %v, want limit error", err)
	}
}
