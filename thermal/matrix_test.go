package thermal

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemperatureMatrix_Rows(t *testing.T) {
	var m TemperatureMatrix
	m[0][0] = 1.25
	m[3][5] = 30.5
	m[7][7] = -2

	rows := m.Rows()
	assert.Len(t, rows, Height)
	for _, row := range rows {
		assert.Len(t, row, Width)
	}
	assert.Equal(t, float32(1.25), rows[0][0])
	assert.Equal(t, float32(30.5), rows[3][5])
	assert.Equal(t, float32(-2), rows[7][7])

	rows[0][0] = 99
	assert.Equal(t, float32(1.25), m[0][0], "rows must not alias the matrix")
}

func TestTemperatureMatrix_MinMax(t *testing.T) {
	m := UniformMatrix(21)
	m[2][6] = 36.5
	m[5][1] = 18.25
	assert.Equal(t, float32(18.25), m.Min())
	assert.Equal(t, float32(36.5), m.Max())
}

func TestTemperatureMatrix_String(t *testing.T) {
	lines := strings.Split(strings.TrimSuffix(UniformMatrix(25).String(), "\n"), "\n")
	assert.Len(t, lines, Height)
	assert.Equal(t, " 25.00  25.00  25.00  25.00  25.00  25.00  25.00  25.00", lines[0])
}

func TestMockArraySensor(t *testing.T) {
	calls := 0
	sensor := NewMockArraySensor(
		func(ctx context.Context) (float32, error) { return 24.5, nil },
		func(ctx context.Context) (TemperatureMatrix, error) {
			calls++
			if calls > 1 {
				return TemperatureMatrix{}, errors.New("bus timeout")
			}
			return UniformMatrix(20), nil
		},
	)
	ctx := context.Background()

	temp, err := sensor.ReadAmbientTemperature(ctx)
	assert.NoError(t, err)
	assert.Equal(t, float32(24.5), temp)

	m, err := sensor.ReadPixelMatrix(ctx)
	assert.NoError(t, err)
	assert.Equal(t, float32(20), m.Max())

	_, err = sensor.ReadPixelMatrix(ctx)
	assert.EqualError(t, err, "bus timeout")
}

func TestPowerModeString(t *testing.T) {
	assert.Equal(t, "normal", PowerNormal.String())
	assert.Equal(t, "sleep", PowerSleep.String())
	assert.Equal(t, "stand-by 60s", PowerStandBy60s.String())
	assert.Equal(t, "stand-by 10s", PowerStandBy10s.String())
	assert.Equal(t, "unknown", PowerMode(0x42).String())
}
