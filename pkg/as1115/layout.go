// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package as1115

// Digits holds the characters of the four digit positions. Digits 0..2 form
// the number, digit 3 is the indicator cell between label and value.
type Digits [4]byte

// Blank is a panel with nothing shown
var Blank = Digits{' ', ' ', ' ', ' '}

// NumberDigits lays out a three digit number. A zero hundreds digit is
// blanked. The decimal point belongs to digit 1 and is not part of the
// returned characters.
func NumberDigits(value int) Digits {
	if value < 0 {
		value = -value
	}

	d := Digits{
		byte('0' + value/100%10),
		byte('0' + value/10%10),
		byte('0' + value%10),
		' ',
	}
	if d[0] == '0' {
		d[0] = ' '
	}
	return d
}

// TextDigits lays out a four character page text "abcd" as a, c and d on
// the digits and b on the indicator cell
func TextDigits(text string) (Digits, bool) {
	if len(text) != 4 {
		return Blank, false
	}
	return Digits{text[0], text[2], text[3], text[1]}, true
}

// CharacterDigit maps an UpdateCharacter position, counted from the
// rightmost digit, to a digit index
func CharacterDigit(position int) (int, bool) {
	if position < 0 || position > 2 {
		return 0, false
	}
	return 2 - position, true
}

// segments is the seven segment pattern (DP A B C D E F G) of each
// character the panel can show in alphanumeric mode
var segments = map[byte]byte{
	'0': 0x7E,
	'1': 0x30,
	'2': 0x6D,
	'3': 0x79,
	'4': 0x33,
	'5': 0x5B,
	'6': 0x5F,
	'7': 0x70,
	'8': 0x7F,
	'9': 0x7B,
	'A': 0x77,
	'C': 0x4E,
	'E': 0x4F,
	'F': 0x47,
	'G': 0x5E,
	'H': 0x37,
	'L': 0x0E,
	'O': 0x7E,
	'P': 0x67,
	'U': 0x3E,
	'c': 0x0D,
	'd': 0x3D,
	'i': 0x10,
	'n': 0x15,
	'o': 0x1D,
	'r': 0x05,
	'.': 0x80,
	' ': 0x00,
	':': 0x60,
	'-': 0x01,
	'_': 0x08,
	'*': 0x10,
}

// Segments returns the segment pattern of ch
func Segments(ch byte) (byte, bool) {
	s, ok := segments[ch]
	return s, ok
}
