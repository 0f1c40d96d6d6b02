// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package bekant

import "time"

// Framing
const (
	STX = 0x4C // start byte of every request and response

	// ResponseFlag is OR'ed into the command byte of every response
	ResponseFlag = 0x80

	// MinFrameSize is STX + command + length + status + checksum
	MinFrameSize = 5
)

// Link defaults
const (
	DefaultBaudRate = 115200
	DefaultTimeout  = 80 * time.Millisecond
)

// Command identifies a host request
type Command uint8

// Desk queries
const (
	CmdDeskState      Command = 0x10
	CmdDeskDrift      Command = 0x11
	CmdDeskPosition   Command = 0x12
	CmdDeskUpperLimit Command = 0x13
	CmdDeskLowerLimit Command = 0x14
)

// Left motor queries
const (
	CmdMotorLeftState      Command = 0x20
	CmdMotorLeftPosition   Command = 0x21
	CmdMotorLeftUpperLimit Command = 0x22
	CmdMotorLeftLowerLimit Command = 0x23
	CmdMotorLeftNodeID     Command = 0x24
	CmdMotorLeftScanID     Command = 0x25
	CmdMotorLeftProperty   Command = 0x26
)

// Right motor queries
const (
	CmdMotorRightState      Command = 0x30
	CmdMotorRightPosition   Command = 0x31
	CmdMotorRightUpperLimit Command = 0x32
	CmdMotorRightLowerLimit Command = 0x33
	CmdMotorRightNodeID     Command = 0x34
	CmdMotorRightScanID     Command = 0x35
	CmdMotorRightProperty   Command = 0x36
)

// Desk calls
const (
	CmdDeskInit        Command = 0x40
	CmdDeskDeinit      Command = 0x41
	CmdDeskCalibration Command = 0x42
	CmdSetPosition     Command = 0x50
	CmdHalt            Command = 0x51
)

// Controller board
const (
	CmdProtocolVersion Command = 0x70
	CmdFirmwareVersion Command = 0x71
	CmdBoardRevision   Command = 0x72
	CmdWatchdogEnable  Command = 0x73
	CmdWatchdogDisable Command = 0x74
)

// Response frame lengths including STX, command, length, status and checksum
const (
	lengthStatus  = 5 // status only
	lengthByte    = 6 // status + 1 byte
	lengthWord    = 7 // status + 2 bytes
	lengthTriplet = 8 // status + 3 bytes
)

var responseLengths = map[Command]int{
	CmdDeskState:      lengthByte,
	CmdDeskDrift:      lengthByte,
	CmdDeskPosition:   lengthWord,
	CmdDeskUpperLimit: lengthWord,
	CmdDeskLowerLimit: lengthWord,

	CmdMotorLeftState:      lengthByte,
	CmdMotorLeftPosition:   lengthWord,
	CmdMotorLeftUpperLimit: lengthWord,
	CmdMotorLeftLowerLimit: lengthWord,
	CmdMotorLeftNodeID:     lengthByte,
	CmdMotorLeftScanID:     lengthByte,
	CmdMotorLeftProperty:   lengthByte,

	CmdMotorRightState:      lengthByte,
	CmdMotorRightPosition:   lengthWord,
	CmdMotorRightUpperLimit: lengthWord,
	CmdMotorRightLowerLimit: lengthWord,
	CmdMotorRightNodeID:     lengthByte,
	CmdMotorRightScanID:     lengthByte,
	CmdMotorRightProperty:   lengthByte,

	CmdDeskInit:        lengthStatus,
	CmdDeskDeinit:      lengthStatus,
	CmdDeskCalibration: lengthStatus,
	CmdSetPosition:     lengthStatus,
	CmdHalt:            lengthStatus,

	CmdProtocolVersion: lengthTriplet,
	CmdFirmwareVersion: lengthTriplet,
	CmdBoardRevision:   lengthTriplet,
	CmdWatchdogEnable:  lengthStatus,
	CmdWatchdogDisable: lengthStatus,
}

// ResponseLength returns the expected total response frame length for cmd,
// or 0 for commands outside the catalogue.
func ResponseLength(cmd Command) int {
	return responseLengths[cmd]
}

// Commands returns every command in the catalogue in ascending order
func Commands() []Command {
	cmds := make([]Command, 0, len(responseLengths))
	for c := Command(0); c < 0x80; c++ {
		if _, ok := responseLengths[c]; ok {
			cmds = append(cmds, c)
		}
	}
	return cmds
}

// DeskState is the operating state reported by the desk controller
type DeskState uint8

const (
	StateIdle                     DeskState = 0x00
	StateMaintenanceBlocked       DeskState = 0x10
	StateMaintenanceCalibration   DeskState = 0x11
	StateStartup                  DeskState = 0x20
	StateStartupBegin             DeskState = 0x21
	StateStartupAnnouncementOne   DeskState = 0x22
	StateStartupAnnouncementTwo   DeskState = 0x23
	StateStartupPreprocessingOne  DeskState = 0x24
	StateStartupPreprocessingTwo  DeskState = 0x25
	StateStartupScanNode          DeskState = 0x26
	StateStartupReadStatusByte    DeskState = 0x27
	StateStartupReadUpperLimitHi  DeskState = 0x28
	StateStartupReadUpperLimitLo  DeskState = 0x29
	StateStartupReadLowerLimitHi  DeskState = 0x2A
	StateStartupReadLowerLimitLo  DeskState = 0x2B
	StateStartupWriteIdentifier   DeskState = 0x2C
	StateStartupPostprocessingOne DeskState = 0x2D
	StateStartupPostprocessingTwo DeskState = 0x2E
	StateOperation                DeskState = 0x40
	StateOperationBegin           DeskState = 0x41
	StateOperationNormal          DeskState = 0x42
	StateOperationRescue          DeskState = 0x43
	StateOperationAnnouncing      DeskState = 0x44
	StateOperationMovingUp        DeskState = 0x45
	StateOperationMovingDown      DeskState = 0x46
	StateOperationMovingSlow      DeskState = 0x47
	StateOperationMovingStop      DeskState = 0x48
	StateOperationCalibrating     DeskState = 0x49
	StateOperationCalibratingDone DeskState = 0x4A
	StateOperationLimitUp         DeskState = 0x4B
	StateOperationLimitDown       DeskState = 0x4C
)

// Motor selects one of the two leg motors
type Motor string

const (
	MotorLeft  Motor = "left"
	MotorRight Motor = "right"
)

// motorBase maps a motor to the command block of its queries
var motorBase = map[Motor]Command{
	MotorLeft:  CmdMotorLeftState,
	MotorRight: CmdMotorRightState,
}

// Offsets inside a motor command block
const (
	motorState Command = iota
	motorPosition
	motorUpperLimit
	motorLowerLimit
	motorNodeID
	motorScanID
	motorProperty
)
