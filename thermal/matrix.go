package thermal

import (
	"fmt"
	"strings"
)

// TemperatureMatrix holds one frame of pixel temperatures in Celsius,
// indexed [row][col] in the sensor scan order.
type TemperatureMatrix [Height][Width]float32

// Rows returns the frame as a slice of rows.
func (m TemperatureMatrix) Rows() [][]float32 {
	rows := make([][]float32, Height)
	for r := range m {
		rows[r] = make([]float32, Width)
		copy(rows[r], m[r][:])
	}
	return rows
}

func (m TemperatureMatrix) Min() float32 {
	lo := m[0][0]
	for r := range m {
		for _, v := range m[r] {
			if v < lo {
				lo = v
			}
		}
	}
	return lo
}

func (m TemperatureMatrix) Max() float32 {
	hi := m[0][0]
	for r := range m {
		for _, v := range m[r] {
			if v > hi {
				hi = v
			}
		}
	}
	return hi
}

func (m TemperatureMatrix) String() string {
	var b strings.Builder
	for r := range m {
		for c, v := range m[r] {
			if c > 0 {
				b.WriteByte(' ')
			}
			_, _ = fmt.Fprintf(&b, "%6.2f", v)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
