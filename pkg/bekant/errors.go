// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package bekant

import (
	"errors"
	"fmt"
)

// HostErrorKind classifies failures detected on the host side of the link
type HostErrorKind uint8

const (
	HostInvalidData HostErrorKind = iota + 1
	HostInvalidLength
	HostInvalidCommand
	HostInvalidChecksum
	HostInvalidParameter
	HostInvalidIdentifier
	HostTimeout
	HostTransport
)

func (k HostErrorKind) String() string {
	switch k {
	case HostInvalidData:
		return "invalid data"
	case HostInvalidLength:
		return "invalid length"
	case HostInvalidCommand:
		return "invalid command"
	case HostInvalidChecksum:
		return "invalid checksum"
	case HostInvalidParameter:
		return "invalid parameter"
	case HostInvalidIdentifier:
		return "invalid identifier"
	case HostTimeout:
		return "timeout"
	case HostTransport:
		return "transport failure"
	default:
		return fmt.Sprintf("host error %d", uint8(k))
	}
}

// HostError is a failure detected by the host: framing, timing or argument
// problems. It never carries a device status byte.
type HostError struct {
	Kind   HostErrorKind
	Op     Command
	Detail string
	Err    error
}

func (e *HostError) Error() string {
	msg := fmt.Sprintf("%s: host %s", FormatCommand(e.Op), e.Kind)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *HostError) Unwrap() error {
	return e.Err
}

// DeskErrorCode is the non-zero status byte reported by the desk controller
type DeskErrorCode uint8

const (
	DeskTimeout         DeskErrorCode = 0x01
	DeskInvalidData     DeskErrorCode = 0x02
	DeskInvalidCommand  DeskErrorCode = 0x03
	DeskInvalidChecksum DeskErrorCode = 0x04
	DeskBusy            DeskErrorCode = 0x05
	DeskNotIdle         DeskErrorCode = 0x06
	DeskNotReady        DeskErrorCode = 0x07
	DeskTargetPosition  DeskErrorCode = 0x08
	DeskUpperLimit      DeskErrorCode = 0x09
	DeskLowerLimit      DeskErrorCode = 0x0A
)

// Known reports whether the code is one of the documented status values.
// Unknown codes are general desk errors carrying the raw status byte.
func (c DeskErrorCode) Known() bool {
	return c >= DeskTimeout && c <= DeskLowerLimit
}

func (c DeskErrorCode) String() string {
	switch c {
	case DeskTimeout:
		return "timeout"
	case DeskInvalidData:
		return "invalid data"
	case DeskInvalidCommand:
		return "invalid command"
	case DeskInvalidChecksum:
		return "invalid checksum"
	case DeskBusy:
		return "busy"
	case DeskNotIdle:
		return "not idle"
	case DeskNotReady:
		return "not ready"
	case DeskTargetPosition:
		return "target position too close"
	case DeskUpperLimit:
		return "upper limit"
	case DeskLowerLimit:
		return "lower limit"
	default:
		return fmt.Sprintf("general error 0x%02X", uint8(c))
	}
}

// DeskError is a failure reported by the desk controller through the status
// byte of an otherwise well-formed response.
type DeskError struct {
	Code DeskErrorCode
	Op   Command
}

func (e *DeskError) Error() string {
	return fmt.Sprintf("%s: desk %s", FormatCommand(e.Op), e.Code)
}

// IsHostError reports whether err is a host error of the given kind
func IsHostError(err error, kind HostErrorKind) bool {
	var he *HostError
	return errors.As(err, &he) && he.Kind == kind
}

// IsDeskError reports whether err is a desk error with the given code
func IsDeskError(err error, code DeskErrorCode) bool {
	var de *DeskError
	return errors.As(err, &de) && de.Code == code
}

// IsLimitError reports whether err is a desk upper or lower limit error
func IsLimitError(err error) bool {
	return IsDeskError(err, DeskUpperLimit) || IsDeskError(err, DeskLowerLimit)
}

func hostError(op Command, kind HostErrorKind, format string, args ...any) *HostError {
	return &HostError{Kind: kind, Op: op, Detail: fmt.Sprintf(format, args...)}
}
