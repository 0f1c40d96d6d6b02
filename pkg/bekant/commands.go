// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package bekant

// Startup initializes the desk controller and its motors
func (l *Link) Startup() error {
	return l.call(CmdDeskInit, nil)
}

// Shutdown deinitializes the desk controller
func (l *Link) Shutdown() error {
	return l.call(CmdDeskDeinit, nil)
}

// Calibrate starts a calibration run
func (l *Link) Calibrate() error {
	return l.call(CmdDeskCalibration, nil)
}

// Stop halts any movement in progress
func (l *Link) Stop() error {
	return l.call(CmdHalt, nil)
}

// SetPosition starts a move to position
func (l *Link) SetPosition(position uint16) error {
	return l.call(CmdSetPosition, []byte{byte(position >> 8), byte(position)})
}

// State returns the desk operating state
func (l *Link) State() (DeskState, error) {
	v, err := l.readUint8(CmdDeskState)
	return DeskState(v), err
}

// Drift returns the position difference between the two motors
func (l *Link) Drift() (uint8, error) {
	return l.readUint8(CmdDeskDrift)
}

// Position returns the current desk position
func (l *Link) Position() (uint16, error) {
	return l.readUint16(CmdDeskPosition)
}

// UpperLimit returns the highest reachable desk position
func (l *Link) UpperLimit() (uint16, error) {
	return l.readUint16(CmdDeskUpperLimit)
}

// LowerLimit returns the lowest reachable desk position. A lower limit of
// zero is never valid and is reported as invalid data.
func (l *Link) LowerLimit() (uint16, error) {
	v, err := l.readUint16(CmdDeskLowerLimit)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return 0, hostError(CmdDeskLowerLimit, HostInvalidData, "lower limit is zero")
	}
	return v, nil
}

func motorCommand(m Motor, offset Command) (Command, error) {
	base, ok := motorBase[m]
	if !ok {
		return 0, hostError(0, HostInvalidParameter, "unknown motor %q", string(m))
	}
	return base + offset, nil
}

func (l *Link) motorUint8(m Motor, offset Command) (uint8, error) {
	cmd, err := motorCommand(m, offset)
	if err != nil {
		return 0, err
	}
	return l.readUint8(cmd)
}

func (l *Link) motorUint16(m Motor, offset Command) (uint16, error) {
	cmd, err := motorCommand(m, offset)
	if err != nil {
		return 0, err
	}
	return l.readUint16(cmd)
}

// MotorState returns the state byte of one motor
func (l *Link) MotorState(m Motor) (uint8, error) {
	return l.motorUint8(m, motorState)
}

// MotorPosition returns the position of one motor
func (l *Link) MotorPosition(m Motor) (uint16, error) {
	return l.motorUint16(m, motorPosition)
}

// MotorUpperLimit returns the upper limit of one motor
func (l *Link) MotorUpperLimit(m Motor) (uint16, error) {
	return l.motorUint16(m, motorUpperLimit)
}

// MotorLowerLimit returns the lower limit of one motor
func (l *Link) MotorLowerLimit(m Motor) (uint16, error) {
	return l.motorUint16(m, motorLowerLimit)
}

// MotorNodeID returns the bus node identifier of one motor
func (l *Link) MotorNodeID(m Motor) (uint8, error) {
	return l.motorUint8(m, motorNodeID)
}

// MotorScanID returns the scan identifier of one motor
func (l *Link) MotorScanID(m Motor) (uint8, error) {
	return l.motorUint8(m, motorScanID)
}

// MotorProperty returns the property byte of one motor
func (l *Link) MotorProperty(m Motor) (uint8, error) {
	return l.motorUint8(m, motorProperty)
}

// ProtocolVersion returns the host protocol version as "major.minor.patch"
func (l *Link) ProtocolVersion() (string, error) {
	f, err := l.Exchange(CmdProtocolVersion, nil)
	if err != nil {
		return "", err
	}
	return f.Version(), nil
}

// FirmwareVersion returns the controller firmware version as
// "major.minor.patch"
func (l *Link) FirmwareVersion() (string, error) {
	f, err := l.Exchange(CmdFirmwareVersion, nil)
	if err != nil {
		return "", err
	}
	return f.Version(), nil
}

// BoardRevision returns the three character board revision
func (l *Link) BoardRevision() (string, error) {
	f, err := l.Exchange(CmdBoardRevision, nil)
	if err != nil {
		return "", err
	}
	return f.ASCII(), nil
}

// WatchdogEnable arms the controller-side watchdog. Once armed the host must
// keep exchanging frames or the controller stops the desk.
func (l *Link) WatchdogEnable() error {
	return l.call(CmdWatchdogEnable, nil)
}

// WatchdogDisable disarms the controller-side watchdog
func (l *Link) WatchdogDisable() error {
	return l.call(CmdWatchdogDisable, nil)
}
