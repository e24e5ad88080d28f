package thermal

import (
	"context"
)

// ArraySensor is implemented by AMG88xx and by MockArraySensor.
type ArraySensor interface {
	ReadAmbientTemperature(ctx context.Context) (float32, error)
	ReadPixelMatrix(ctx context.Context) (TemperatureMatrix, error)
}

var _ ArraySensor = &AMG88xx{}
var _ ArraySensor = &MockArraySensor{}

// AmbientBehaviorFunc produces a thermistor reading in Celsius or an error.
type AmbientBehaviorFunc func(ctx context.Context) (float32, error)

// MatrixBehaviorFunc produces a pixel frame or an error.
type MatrixBehaviorFunc func(ctx context.Context) (TemperatureMatrix, error)

// MockArraySensor is a mock implementation of a thermal array sensor that
// uses behavior functions to produce results without requiring any hardware.
//
// Example usage:
//
//	sensor := NewMockArraySensor(
//		func(ctx context.Context) (float32, error) { return 24.5, nil },
//		func(ctx context.Context) (TemperatureMatrix, error) { return UniformMatrix(21), nil },
//	)
type MockArraySensor struct {
	ambient AmbientBehaviorFunc
	matrix  MatrixBehaviorFunc
}

func NewMockArraySensor(ambient AmbientBehaviorFunc, matrix MatrixBehaviorFunc) *MockArraySensor {
	return &MockArraySensor{ambient: ambient, matrix: matrix}
}

// ReadAmbientTemperature calls the ambient behavior function.
func (m *MockArraySensor) ReadAmbientTemperature(ctx context.Context) (float32, error) {
	return m.ambient(ctx)
}

// ReadPixelMatrix calls the matrix behavior function.
func (m *MockArraySensor) ReadPixelMatrix(ctx context.Context) (TemperatureMatrix, error) {
	return m.matrix(ctx)
}

// UniformMatrix returns a frame with every pixel set to temp.
func UniformMatrix(temp float32) TemperatureMatrix {
	var m TemperatureMatrix
	for r := range m {
		for c := range m[r] {
			m[r][c] = temp
		}
	}
	return m
}
