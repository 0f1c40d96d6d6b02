// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package settings holds the user preferences of the desk controller and
// persists them as a JSON document.
package settings

import "fmt"

// Unit is the display unit for the desk height
type Unit string

const (
	UnitCM   Unit = "cm"
	UnitInch Unit = "inch"
)

// Limits of the user adjustable values
const (
	Slots = 4 // memory presets

	MinOffset = -10
	MaxOffset = 10

	MinBrightness = 1
	MaxBrightness = 4

	MinOnTime  = 5 // seconds
	MaxOnTime  = 20
	OnTimeStep = 5
)

// Settings is the persisted configuration document
type Settings struct {
	DeskPosition1     uint16 `json:"desk_position_1"`
	DeskPosition2     uint16 `json:"desk_position_2"`
	DeskPosition3     uint16 `json:"desk_position_3"`
	DeskPosition4     uint16 `json:"desk_position_4"`
	DeskOffset        int    `json:"desk_offset"`
	DisplayUnit       Unit   `json:"display_unit"`
	DisplayBrightness int    `json:"display_brightness"`
	DisplayOnTime     int    `json:"display_on_time"` // seconds until sleep
	Audio             bool   `json:"audio"`
}

// Defaults returns the factory configuration
func Defaults() Settings {
	return Settings{
		DeskPosition1:     200,
		DeskPosition2:     1500,
		DeskPosition3:     4000,
		DeskPosition4:     6000,
		DeskOffset:        0,
		DisplayUnit:       UnitCM,
		DisplayBrightness: 4,
		DisplayOnTime:     10,
		Audio:             true,
	}
}

func (s *Settings) slot(n int) (*uint16, error) {
	switch n {
	case 1:
		return &s.DeskPosition1, nil
	case 2:
		return &s.DeskPosition2, nil
	case 3:
		return &s.DeskPosition3, nil
	case 4:
		return &s.DeskPosition4, nil
	default:
		return nil, fmt.Errorf("memory slot %d out of range 1..%d", n, Slots)
	}
}

// Preset returns the stored position of memory slot n (1..4)
func (s Settings) Preset(n int) (uint16, error) {
	p, err := s.slot(n)
	if err != nil {
		return 0, err
	}
	return *p, nil
}

// SetPreset stores position in memory slot n (1..4)
func (s *Settings) SetPreset(n int, position uint16) error {
	p, err := s.slot(n)
	if err != nil {
		return err
	}
	*p = position
	return nil
}
