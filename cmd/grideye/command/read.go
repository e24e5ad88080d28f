package command

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/grideye/cmd/grideye/console"
	"github.com/mklimuk/grideye/snsctx"
	"github.com/mklimuk/grideye/thermal"
)

// withSession loads the configuration, opens the sensor and runs fn.
func withSession(c *cli.Context, fn func(ctx context.Context, cfg Config, s *session) error) error {
	cfg, err := configFromContext(c)
	if err != nil {
		return console.Exit(1, "configuration error: %s", console.Red(err))
	}
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = snsctx.SetVerbose(ctx, c.Bool("verbose"))

	s, err := openSession(ctx, cfg)
	if err != nil {
		return console.Exit(1, "sensor initialization error: %s", console.Red(err))
	}
	defer func() {
		if err := s.Close(); err != nil {
			console.Errorf("error closing bus: %s", console.Red(err))
		}
	}()
	return fn(ctx, cfg, s)
}

var AmbientCmd = &cli.Command{
	Name:    "ambient",
	Aliases: []string{"temp"},
	Usage:   "read the on-board thermistor",
	Flags:   ConnectionFlags,
	Action: func(c *cli.Context) error {
		return withSession(c, func(ctx context.Context, cfg Config, s *session) error {
			temp, err := s.sensor.ReadAmbientTemperature(ctx)
			if err != nil {
				return console.Exit(1, "error getting thermistor read: %s", console.Red(err))
			}
			console.PInfof(console.PictoThermometer, "%s °C", console.White(fmt.Sprintf("%.4f", temp)))
			return nil
		})
	},
}

var PixelsCmd = &cli.Command{
	Name:    "pixels",
	Aliases: []string{"px"},
	Usage:   "read the 8x8 pixel temperatures",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:  "format",
			Value: "heat",
			Usage: "output format: heat, table or yaml",
		},
		&cli.BoolFlag{
			Name:    "watch",
			Aliases: []string{"w"},
			Usage:   "keep reading frames until interrupted",
		},
		&cli.DurationFlag{
			Name:  "interval",
			Value: DefaultConfig.Interval,
			Usage: "delay between frames in watch mode",
		},
		&cli.IntFlag{
			Name:  "count",
			Usage: "stop watching after this many frames (0 means no limit)",
		},
	}, ConnectionFlags...),
	Action: func(c *cli.Context) error {
		format := c.String("format")
		if _, ok := formatters[format]; !ok {
			return console.Exit(1, "unknown format %s", format)
		}
		return withSession(c, func(ctx context.Context, cfg Config, s *session) error {
			if !c.Bool("watch") {
				return printFrame(ctx, s.sensor, format)
			}
			return watch(ctx, cfg.Interval, c.Int("count"), func() error {
				return printFrame(ctx, s.sensor, format)
			})
		})
	},
}

func printFrame(ctx context.Context, sensor thermal.ArraySensor, format string) error {
	m, err := sensor.ReadPixelMatrix(ctx)
	if err != nil {
		return console.Exit(1, "error getting pixel read: %s", console.Red(err))
	}
	return formatters[format](console.Output(), m)
}

// watch calls read every interval until ctx is done, read fails or count
// frames have been read.
func watch(ctx context.Context, interval time.Duration, count int, read func() error) error {
	if interval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for n := 1; ; n++ {
		if err := read(); err != nil {
			return err
		}
		if count > 0 && n >= count {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

var formatters = map[string]func(w io.Writer, m thermal.TemperatureMatrix) error{
	"heat":  writeHeatMap,
	"table": writeTable,
	"yaml":  writeYAML,
}

func writeHeatMap(w io.Writer, m thermal.TemperatureMatrix) error {
	lo, hi := m.Min(), m.Max()
	var b strings.Builder
	for r := range m {
		for _, v := range m[r] {
			b.WriteString(console.Heat(v, lo, hi, " %6.2f "))
		}
		b.WriteByte('\n')
	}
	_, _ = fmt.Fprintf(&b, "%s min %.2f °C  max %.2f °C\n", console.PictoGrid, lo, hi)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeTable(w io.Writer, m thermal.TemperatureMatrix) error {
	_, err := io.WriteString(w, m.String())
	return err
}

func writeYAML(w io.Writer, m thermal.TemperatureMatrix) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()
	return enc.Encode(map[string]interface{}{
		"pixels": m.Rows(),
	})
}
