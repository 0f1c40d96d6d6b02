// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package settings

import "fmt"

// Validate checks settings correctness.
// It performs declarative validation only and does not mutate s.
func Validate(s Settings) error {
	switch s.DisplayUnit {
	case UnitCM, UnitInch:
	default:
		return fmt.Errorf("display_unit %q: must be %q or %q", s.DisplayUnit, UnitCM, UnitInch)
	}

	if s.DeskOffset < MinOffset || s.DeskOffset > MaxOffset {
		return fmt.Errorf("desk_offset %d: out of range %d..%d", s.DeskOffset, MinOffset, MaxOffset)
	}

	if s.DisplayBrightness < MinBrightness || s.DisplayBrightness > MaxBrightness {
		return fmt.Errorf("display_brightness %d: out of range %d..%d", s.DisplayBrightness, MinBrightness, MaxBrightness)
	}

	if s.DisplayOnTime < MinOnTime || s.DisplayOnTime > MaxOnTime || s.DisplayOnTime%OnTimeStep != 0 {
		return fmt.Errorf("display_on_time %d: must be a multiple of %d in %d..%d", s.DisplayOnTime, OnTimeStep, MinOnTime, MaxOnTime)
	}

	return nil
}

// Normalize replaces every out of range field with its default.
// Preset positions are not touched; the desk rejects unreachable targets.
func Normalize(s *Settings) {
	if s == nil {
		return
	}

	def := Defaults()

	switch s.DisplayUnit {
	case UnitCM, UnitInch:
	default:
		s.DisplayUnit = def.DisplayUnit
	}

	if s.DeskOffset < MinOffset || s.DeskOffset > MaxOffset {
		s.DeskOffset = def.DeskOffset
	}

	if s.DisplayBrightness < MinBrightness || s.DisplayBrightness > MaxBrightness {
		s.DisplayBrightness = def.DisplayBrightness
	}

	if s.DisplayOnTime < MinOnTime || s.DisplayOnTime > MaxOnTime || s.DisplayOnTime%OnTimeStep != 0 {
		s.DisplayOnTime = def.DisplayOnTime
	}
}
