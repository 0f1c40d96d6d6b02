// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package bekant

import (
	"fmt"
	"strings"
	"time"
)

var commandNames = map[Command]string{
	CmdDeskState:      "GET_DESK_STATE",
	CmdDeskDrift:      "GET_DESK_DRIFT",
	CmdDeskPosition:   "GET_DESK_POSITION",
	CmdDeskUpperLimit: "GET_DESK_UPPER_LIMIT",
	CmdDeskLowerLimit: "GET_DESK_LOWER_LIMIT",

	CmdMotorLeftState:      "GET_MOTOR_LEFT_STATE",
	CmdMotorLeftPosition:   "GET_MOTOR_LEFT_POSITION",
	CmdMotorLeftUpperLimit: "GET_MOTOR_LEFT_UPPER_LIMIT",
	CmdMotorLeftLowerLimit: "GET_MOTOR_LEFT_LOWER_LIMIT",
	CmdMotorLeftNodeID:     "GET_MOTOR_LEFT_NODE_ID",
	CmdMotorLeftScanID:     "GET_MOTOR_LEFT_SCAN_ID",
	CmdMotorLeftProperty:   "GET_MOTOR_LEFT_PROPERTY",

	CmdMotorRightState:      "GET_MOTOR_RIGHT_STATE",
	CmdMotorRightPosition:   "GET_MOTOR_RIGHT_POSITION",
	CmdMotorRightUpperLimit: "GET_MOTOR_RIGHT_UPPER_LIMIT",
	CmdMotorRightLowerLimit: "GET_MOTOR_RIGHT_LOWER_LIMIT",
	CmdMotorRightNodeID:     "GET_MOTOR_RIGHT_NODE_ID",
	CmdMotorRightScanID:     "GET_MOTOR_RIGHT_SCAN_ID",
	CmdMotorRightProperty:   "GET_MOTOR_RIGHT_PROPERTY",

	CmdDeskInit:        "CALL_DESK_INIT",
	CmdDeskDeinit:      "CALL_DESK_DEINIT",
	CmdDeskCalibration: "CALL_DESK_CALIBRATION",
	CmdSetPosition:     "SET_DESK_POSITION",
	CmdHalt:            "SET_DESK_HALT",

	CmdProtocolVersion: "GET_PROTOCOL_VERSION",
	CmdFirmwareVersion: "GET_FIRMWARE_VERSION",
	CmdBoardRevision:   "GET_BOARD_REVISION",
	CmdWatchdogEnable:  "CALL_WATCHDOG_ENABLE",
	CmdWatchdogDisable: "CALL_WATCHDOG_DISABLE",
}

// FormatCommand returns the human-readable name for a command
func FormatCommand(cmd Command) string {
	if name, ok := commandNames[cmd&^ResponseFlag]; ok {
		return name
	}
	return "UNKNOWN"
}

func (c Command) String() string {
	return FormatCommand(c)
}

var stateNames = map[DeskState]string{
	StateIdle:                     "IDLE",
	StateMaintenanceBlocked:       "MAINTENANCE_BLOCKED",
	StateMaintenanceCalibration:   "MAINTENANCE_CALIBRATION",
	StateStartup:                  "STARTUP",
	StateStartupBegin:             "STARTUP_BEGIN",
	StateStartupAnnouncementOne:   "STARTUP_ANNOUNCEMENT_ONE",
	StateStartupAnnouncementTwo:   "STARTUP_ANNOUNCEMENT_TWO",
	StateStartupPreprocessingOne:  "STARTUP_PREPROCESSING_ONE",
	StateStartupPreprocessingTwo:  "STARTUP_PREPROCESSING_TWO",
	StateStartupScanNode:          "STARTUP_SCAN_NODE",
	StateStartupReadStatusByte:    "STARTUP_READ_STATUS_BYTE",
	StateStartupReadUpperLimitHi:  "STARTUP_READ_UPPER_LIMIT_HI",
	StateStartupReadUpperLimitLo:  "STARTUP_READ_UPPER_LIMIT_LO",
	StateStartupReadLowerLimitHi:  "STARTUP_READ_LOWER_LIMIT_HI",
	StateStartupReadLowerLimitLo:  "STARTUP_READ_LOWER_LIMIT_LO",
	StateStartupWriteIdentifier:   "STARTUP_WRITE_IDENTIFIER",
	StateStartupPostprocessingOne: "STARTUP_POSTPROCESSING_ONE",
	StateStartupPostprocessingTwo: "STARTUP_POSTPROCESSING_TWO",
	StateOperation:                "OPERATION",
	StateOperationBegin:           "OPERATION_BEGIN",
	StateOperationNormal:          "OPERATION_NORMAL",
	StateOperationRescue:          "OPERATION_RESCUE",
	StateOperationAnnouncing:      "OPERATION_ANNOUNCING",
	StateOperationMovingUp:        "OPERATION_MOVING_UP",
	StateOperationMovingDown:      "OPERATION_MOVING_DOWN",
	StateOperationMovingSlow:      "OPERATION_MOVING_SLOW",
	StateOperationMovingStop:      "OPERATION_MOVING_STOP",
	StateOperationCalibrating:     "OPERATION_CALIBRATING",
	StateOperationCalibratingDone: "OPERATION_CALIBRATING_DONE",
	StateOperationLimitUp:         "OPERATION_LIMIT_UP",
	StateOperationLimitDown:       "OPERATION_LIMIT_DOWN",
}

func (s DeskState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(0x%02X)", uint8(s))
}

// FormatFrame formats a frame into a human-readable string
func FormatFrame(f Frame) string {
	result := fmt.Sprintf("%s (0x%02X) len=%d", FormatCommand(f.Command), uint8(f.Command), f.Length())
	if f.Command&ResponseFlag != 0 {
		result += fmt.Sprintf(" status=0x%02X", f.Status())
		if data := f.Data(); len(data) > 0 {
			result += " data=" + hexBytes(data)
		}
	} else if len(f.Payload) > 0 {
		result += " payload=" + hexBytes(f.Payload)
	}
	return result
}

// FormatExchange formats an exchange into a single human-readable line
func FormatExchange(e Exchange) string {
	timestamp := e.At.Format("15:04:05.000")
	result := fmt.Sprintf("[%s] %-27s tx=%s", timestamp, FormatCommand(e.Command), hexBytes(e.Request))
	if len(e.Response) > 0 {
		result += " rx=" + hexBytes(e.Response)
	}
	result += fmt.Sprintf(" (%s)", e.Duration.Round(10 * time.Microsecond))
	if e.Err != nil {
		result += " ERROR: " + e.Err.Error()
	}
	return result
}

func hexBytes(b []byte) string {
	if len(b) == 0 {
		return "-"
	}
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = fmt.Sprintf("%02X", v)
	}
	return strings.Join(parts, " ")
}
