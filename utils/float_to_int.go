// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"slices"
)

// Float32ToInt16 clamps x to [-1, 1] and scales it to the full int16 range,
// rounding to the nearest value. -1 maps to math.MinInt16 and 1 to math.MaxInt16.
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	if x < 0 {
		return int16(math.Round(float64(x) * 32768.0))
	}
	return int16(math.Round(float64(x) * 32767.0))
}

// Int16ToFloat32 is the inverse of Float32ToInt16.
func Int16ToFloat32(v int16) float32 {
	if v < 0 {
		return float32(v) / 32768.0
	}
	return float32(v) / 32767.0
}

// AppendFloat32AsInt16 converts src and appends the result to dst.
func AppendFloat32AsInt16(dst []int16, src []float32) []int16 {
	dst = slices.Grow(dst, len(src))
	for _, x := range src {
		dst = append(dst, Float32ToInt16(x))
	}

	return dst
}
