package thermal

import (
	"context"
	"fmt"

	"github.com/mklimuk/grideye"
	"github.com/mklimuk/grideye/snsctx"
)

// AMG88xx represents Panasonic AMG88xx (Grid-EYE) 8x8 infrared array sensor.
// See: https://industry.panasonic.eu/components/sensors/grid-eye
//
// Usage: initialize with Open, then call ReadPixelMatrix(ctx) or
// ReadAmbientTemperature(ctx). Every call queries the device; nothing is
// cached. The driver holds no lock, callers sharing an instance between
// goroutines must serialize access themselves.
type AMG88xx struct {
	transport grideye.RegisterBus
}

// Open puts the sensor in normal mode, performs the initial reset, disables
// interrupts and sets the frame rate to 10 fps, in that order. The first
// failed write aborts initialization and its error is returned; the device may
// then be partially configured and Open should be retried as a whole.
//
// The address is a property of the bus handle (AddrPrimary or AddrAlternate).
func Open(ctx context.Context, bus grideye.RegisterBus) (*AMG88xx, error) {
	err := bus.WriteBlockData(ctx, RegPCTL, []byte{byte(PowerNormal)})
	if err != nil {
		return nil, fmt.Errorf("amg88xx: could not set normal mode: %w", err)
	}
	err = bus.WriteBlockData(ctx, RegRST, []byte{ResetInitial})
	if err != nil {
		return nil, fmt.Errorf("amg88xx: could not reset: %w", err)
	}
	err = bus.WriteByteData(ctx, RegINTC, IntDisabled)
	if err != nil {
		return nil, fmt.Errorf("amg88xx: could not disable interrupts: %w", err)
	}
	err = bus.WriteByteData(ctx, RegFPSC, FPS10)
	if err != nil {
		return nil, fmt.Errorf("amg88xx: could not set frame rate: %w", err)
	}
	snsctx.Logger(ctx).Debug("amg88xx initialized", "mode", PowerNormal, "fps", 10)
	return &AMG88xx{transport: bus}, nil
}

func (s *AMG88xx) String() string {
	return "AMG88xx"
}

// ReadAmbientTemperature reads the on-board thermistor in Celsius.
//
// The raw 12-bit value is treated as unsigned: readings below 0°C come back
// as large positive values and must be post-processed by the caller.
func (s *AMG88xx) ReadAmbientTemperature(ctx context.Context) (float32, error) {
	high, err := s.transport.ReadByteData(ctx, RegTTHH)
	if err != nil {
		return 0, fmt.Errorf("amg88xx: could not read thermistor upper byte: %w", err)
	}
	low, err := s.transport.ReadByteData(ctx, RegTTHL)
	if err != nil {
		return 0, fmt.Errorf("amg88xx: could not read thermistor lower byte: %w", err)
	}
	return convertThermistor(high, low), nil
}

// ReadPixelMatrix reads all 64 pixels in Celsius, one word read per pixel in
// row-major order. A failed read aborts the scan and no matrix is returned.
func (s *AMG88xx) ReadPixelMatrix(ctx context.Context) (TemperatureMatrix, error) {
	var m TemperatureMatrix
	for row := 0; row < Height; row++ {
		for col := 0; col < Width; col++ {
			i := row*Width + col
			raw, err := s.transport.ReadWordData(ctx, pixelRegister(i))
			if err != nil {
				return TemperatureMatrix{}, fmt.Errorf("amg88xx: could not read pixel %d: %w", i, err)
			}
			m[row][col] = convertPixel(raw)
		}
	}
	return m, nil
}

// SetPowerMode switches the sensor between normal, sleep and stand-by.
// Wake-up from sleep must go through PowerNormal before any other mode.
func (s *AMG88xx) SetPowerMode(ctx context.Context, mode PowerMode) error {
	err := s.transport.WriteByteData(ctx, RegPCTL, byte(mode))
	if err != nil {
		return fmt.Errorf("amg88xx: could not set %s mode: %w", mode, err)
	}
	return nil
}

func pixelRegister(i int) Register {
	return RegPixelOffset + Register(i<<1)
}

func convertThermistor(high, low byte) float32 {
	raw := uint16(high)<<8 | uint16(low)
	return float32(raw) * ThermistorConversion
}

func convertPixel(raw uint16) float32 {
	return float32(raw) * PixelConversion
}
