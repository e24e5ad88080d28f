package command

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"
	"periph.io/x/conn/v3/physic"

	"github.com/mklimuk/grideye"
	"github.com/mklimuk/grideye/adapter"
	"github.com/mklimuk/grideye/cmd/grideye/console"
	"github.com/mklimuk/grideye/i2c"
	"github.com/mklimuk/grideye/snsctx"
	"github.com/mklimuk/grideye/thermal"
)

var ErrUnknownAdapter = errors.New("unknown adapter")

// session is an initialized sensor together with whatever must be released
// once the command is done. driver is nil for the mock adapter.
type session struct {
	sensor  thermal.ArraySensor
	driver  *thermal.AMG88xx
	closers []func() error
}

func (s *session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}

func openSession(ctx context.Context, cfg Config) (*session, error) {
	addr, err := ParseAddress(cfg.Address)
	if err != nil {
		return nil, err
	}
	log := snsctx.Logger(ctx).With("adapter", cfg.Adapter, "address", fmt.Sprintf("%#02x", addr))
	ctx = snsctx.WithLogger(ctx, log)

	s := &session{}
	var bus grideye.RegisterBus
	switch cfg.Adapter {
	case "mcp2221":
		mcp := adapter.NewMCP2221(adapter.WithSpeed(cfg.Speed), adapter.WithIndex(cfg.Index))
		err := mcp.Init(ctx)
		if err != nil {
			return nil, fmt.Errorf("adapter initialization error: %w", err)
		}
		bus = i2c.NewRegisterDevice(mcp, addr)
	case "generic":
		b, err := i2c.NewGenericBus(cfg.Device)
		if err != nil {
			return nil, fmt.Errorf("adapter initialization error: %w", err)
		}
		s.closers = append(s.closers, b.Close)
		err = b.SetSpeed(physic.Frequency(cfg.Speed) * physic.Hertz)
		if err != nil {
			console.Warnf("keeping default bus speed: %s", err)
		}
		bus = b.Device(addr)
	case "gobot":
		npi := nanopi.NewNeoAdaptor()
		err := npi.Connect()
		if err != nil {
			return nil, fmt.Errorf("adaptor connect error: %w", err)
		}
		s.closers = append(s.closers, npi.Finalize)
		dev, err := i2c.NewGobotDevice(npi, cfg.Bus, addr)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.closers = append(s.closers, dev.Close)
		bus = dev
	case "mock":
		s.sensor = newSimulatedSensor(rand.New(rand.NewSource(rand.Int63())))
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAdapter, cfg.Adapter)
	}

	driver, err := thermal.Open(ctx, bus)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	log.Debug("sensor ready", "sensor", driver)
	s.driver = driver
	s.sensor = driver
	return s, nil
}

// newSimulatedSensor returns a sensor showing a warm spot drifting over a
// room temperature background.
func newSimulatedSensor(rnd *rand.Rand) *thermal.MockArraySensor {
	x, y := rnd.Float64()*thermal.Width, rnd.Float64()*thermal.Height
	return thermal.NewMockArraySensor(
		func(ctx context.Context) (float32, error) {
			return 24 + float32(rnd.Intn(16))*thermal.ThermistorConversion, nil
		},
		func(ctx context.Context) (thermal.TemperatureMatrix, error) {
			x = math.Mod(x+rnd.Float64()-0.5+thermal.Width, thermal.Width)
			y = math.Mod(y+rnd.Float64()-0.5+thermal.Height, thermal.Height)
			var m thermal.TemperatureMatrix
			for r := range m {
				for c := range m[r] {
					d := math.Hypot(float64(c)-x, float64(r)-y)
					t := 22 + 12*math.Exp(-d*d/4)
					// quantize to the pixel resolution
					m[r][c] = float32(math.Round(t*4)) * thermal.PixelConversion
				}
			}
			return m, nil
		},
	)
}
