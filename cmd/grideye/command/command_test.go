package command

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/grideye/cmd/grideye/console"
	"github.com/mklimuk/grideye/thermal"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		given    string
		expected byte
		fails    bool
	}{
		{"primary", 0x69, false},
		{"", 0x69, false},
		{"alternate", 0x68, false},
		{"l", 0x68, false},
		{"0x69", 0x69, false},
		{"68", 0x68, false},
		{"0x4d", 0, true},
		{"zz", 0, true},
	}
	for _, test := range tests {
		t.Run(test.given, func(t *testing.T) {
			addr, err := ParseAddress(test.given)
			if test.fails {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, test.expected, addr)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig, cfg)

	path := filepath.Join(t.TempDir(), "grideye.yaml")
	require.NoError(t, os.WriteFile(path, []byte("adapter: generic\naddress: alternate\ninterval: 250ms\n"), 0o600))
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "generic", cfg.Adapter)
	assert.Equal(t, "alternate", cfg.Address)
	assert.Equal(t, 250*time.Millisecond, cfg.Interval)
	assert.Equal(t, DefaultConfig.Device, cfg.Device, "unset keys keep their default")

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig.Validate())

	path := filepath.Join(t.TempDir(), "grideye.yaml")
	require.NoError(t, os.WriteFile(path, []byte("speed: 0\ninterval: 0s\n"), 0o600))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidSpeed)

	cfg.Speed = 400_000
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidInterval)

	cfg.Interval = -time.Second
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidInterval)
}

func TestOpenSession_Mock(t *testing.T) {
	cfg := DefaultConfig
	cfg.Adapter = "mock"
	s, err := openSession(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, s.driver)
	assert.NoError(t, s.Close())

	m, err := s.sensor.ReadPixelMatrix(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, m.Min(), float32(22))
	assert.LessOrEqual(t, m.Max(), float32(34))
}

func TestOpenSession_UnknownAdapter(t *testing.T) {
	cfg := DefaultConfig
	cfg.Adapter = "serial"
	_, err := openSession(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrUnknownAdapter)

	cfg.Adapter = "mock"
	cfg.Address = "0x10"
	_, err = openSession(context.Background(), cfg)
	assert.Error(t, err)
}

func TestSessionClose(t *testing.T) {
	var order []int
	failure := errors.New("finalize failed")
	s := &session{closers: []func() error{
		func() error { order = append(order, 1); return failure },
		func() error { order = append(order, 2); return nil },
	}}
	assert.ErrorIs(t, s.Close(), failure)
	assert.Equal(t, []int{2, 1}, order, "closed in reverse order")
}

func TestSimulatedSensor(t *testing.T) {
	sensor := newSimulatedSensor(rand.New(rand.NewSource(1)))
	ctx := context.Background()
	temp, err := sensor.ReadAmbientTemperature(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, temp, float32(24))
	assert.Less(t, temp, float32(25))

	m, err := sensor.ReadPixelMatrix(ctx)
	require.NoError(t, err)
	for r := range m {
		for _, v := range m[r] {
			assert.Equal(t, v, float32(int(v*4))/4, "pixel resolution is 0.25 °C")
		}
	}
	assert.Greater(t, m.Max(), m.Min())
}

func TestWatch(t *testing.T) {
	calls := 0
	err := watch(context.Background(), time.Millisecond, 3, func() error {
		calls++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)

	failure := errors.New("bus timeout")
	calls = 0
	err = watch(context.Background(), time.Millisecond, 0, func() error {
		calls++
		if calls == 2 {
			return failure
		}
		return nil
	})
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 2, calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls = 0
	err = watch(ctx, time.Hour, 0, func() error {
		calls++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)

	calls = 0
	err = watch(context.Background(), 0, 1, func() error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, ErrInvalidInterval)
	assert.Zero(t, calls)
}

func TestFormatters(t *testing.T) {
	m := thermal.UniformMatrix(21.5)
	m[0][1] = 30

	var buf bytes.Buffer
	require.NoError(t, writeTable(&buf, m))
	assert.Contains(t, buf.String(), " 21.50  30.00")

	buf.Reset()
	require.NoError(t, writeYAML(&buf, m))
	var decoded struct {
		Pixels [][]float32 `yaml:"pixels"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, m.Rows(), decoded.Pixels)

	buf.Reset()
	require.NoError(t, writeHeatMap(&buf, m))
	assert.Contains(t, buf.String(), "min 21.50 °C  max 30.00 °C")
}

func TestRunShellLine(t *testing.T) {
	var out bytes.Buffer
	console.SetOutput(&out, &out)
	defer console.SetOutput(os.Stdout, os.Stderr)

	s := &session{sensor: thermal.NewMockArraySensor(
		func(ctx context.Context) (float32, error) { return 25, nil },
		func(ctx context.Context) (thermal.TemperatureMatrix, error) { return thermal.UniformMatrix(20), nil },
	)}
	ctx := context.Background()

	done, err := runShellLine(ctx, s, "ambient")
	assert.NoError(t, err)
	assert.False(t, done)
	assert.Contains(t, out.String(), "25.0000 °C")

	_, err = runShellLine(ctx, s, "table extra")
	assert.NoError(t, err)
	assert.Contains(t, out.String(), " 20.00  20.00")

	_, err = runShellLine(ctx, s, "reboot")
	assert.Error(t, err)

	done, err = runShellLine(ctx, s, "quit")
	assert.NoError(t, err)
	assert.True(t, done)
}
