package command

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/grideye/thermal"
)

var (
	ErrInvalidSpeed    = errors.New("bus speed must be positive")
	ErrInvalidInterval = errors.New("polling interval must be positive")
)

// Config holds connection settings. Values come from built-in defaults, then
// the optional YAML file, then flags set explicitly on the command line.
type Config struct {
	Adapter  string        `yaml:"adapter"`
	Device   string        `yaml:"device"`
	Bus      int           `yaml:"bus"`
	Address  string        `yaml:"address"`
	Speed    int           `yaml:"speed"`
	Index    int           `yaml:"index"`
	Interval time.Duration `yaml:"interval"`
}

var DefaultConfig = Config{
	Adapter:  "mcp2221",
	Device:   "/dev/i2c-1",
	Bus:      0,
	Address:  "primary",
	Speed:    100_000,
	Interval: 100 * time.Millisecond,
}

// ConnectionFlags are shared by every command talking to the sensor.
var ConnectionFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "adapter",
		Aliases: []string{"a"},
		Value:   DefaultConfig.Adapter,
		Usage:   "bus adapter: mcp2221, generic, gobot or mock",
	},
	&cli.StringFlag{
		Name:    "device",
		Aliases: []string{"d"},
		Value:   DefaultConfig.Device,
		Usage:   "i2c device for the generic adapter",
	},
	&cli.IntFlag{
		Name:  "bus",
		Value: DefaultConfig.Bus,
		Usage: "i2c bus number for the gobot adapter",
	},
	&cli.StringFlag{
		Name:  "addr",
		Value: DefaultConfig.Address,
		Usage: "sensor address: primary (0x69), alternate (0x68) or hex",
	},
	&cli.IntFlag{
		Name:  "index",
		Usage: "MCP2221 to use when several are plugged in",
	},
	&cli.IntFlag{
		Name:  "speed",
		Value: DefaultConfig.Speed,
		Usage: "i2c clock in Hz",
	},
}

// LoadConfig reads a YAML file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not read config file: %w", err)
	}
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("could not decode config file %s: %w", path, err)
	}
	return cfg, nil
}

func configFromContext(c *cli.Context) (Config, error) {
	cfg, err := LoadConfig(c.String("config"))
	if err != nil {
		return cfg, err
	}
	if c.IsSet("adapter") {
		cfg.Adapter = c.String("adapter")
	}
	if c.IsSet("device") {
		cfg.Device = c.String("device")
	}
	if c.IsSet("bus") {
		cfg.Bus = c.Int("bus")
	}
	if c.IsSet("addr") {
		cfg.Address = c.String("addr")
	}
	if c.IsSet("index") {
		cfg.Index = c.Int("index")
	}
	if c.IsSet("speed") {
		cfg.Speed = c.Int("speed")
	}
	if c.IsSet("interval") {
		cfg.Interval = c.Duration("interval")
	}
	return cfg, cfg.Validate()
}

// Validate rejects values that cannot drive a bus or a polling loop.
func (c Config) Validate() error {
	if c.Speed <= 0 {
		return fmt.Errorf("%w: %d Hz", ErrInvalidSpeed, c.Speed)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, c.Interval)
	}
	return nil
}

// ParseAddress accepts the address names or a hex value.
func ParseAddress(s string) (byte, error) {
	switch strings.ToLower(s) {
	case "primary", "h", "":
		return thermal.AddrPrimary, nil
	case "alternate", "alt", "l":
		return thermal.AddrAlternate, nil
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	addr := byte(v)
	if addr != thermal.AddrPrimary && addr != thermal.AddrAlternate {
		return 0, fmt.Errorf("unsupported address %#02x, expected %#02x or %#02x", addr, thermal.AddrPrimary, thermal.AddrAlternate)
	}
	return addr, nil
}
