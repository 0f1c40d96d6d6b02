// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package bekant

// Checksum returns the XOR of every byte in data
func Checksum(data []byte) byte {
	var cc byte
	for _, b := range data {
		cc ^= b
	}
	return cc
}
