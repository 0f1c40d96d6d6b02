// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package controller

import "github.com/Thermoquad/lyft/pkg/settings"

// Height of the desk top at position 0, in centimetres
const baseHeightCM = 60

// PositionToHeight converts a raw desk position to the displayed height.
// Centimetres are whole numbers; inches are returned in tenths and shown
// with a decimal point.
func PositionToHeight(position uint16, offset int, unit settings.Unit) int {
	height := float64(position)/100 + baseHeightCM + float64(offset)
	if unit == settings.UnitInch {
		return int(height / 2.54 * 10)
	}
	return int(height)
}
