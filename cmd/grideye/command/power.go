package command

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/grideye/cmd/grideye/console"
	"github.com/mklimuk/grideye/thermal"
)

var powerModes = map[string]thermal.PowerMode{
	"normal":      thermal.PowerNormal,
	"sleep":       thermal.PowerSleep,
	"standby":     thermal.PowerStandBy60s,
	"standby-10s": thermal.PowerStandBy10s,
}

var PowerCmd = &cli.Command{
	Name:      "power",
	Usage:     "switch the sensor power mode",
	ArgsUsage: "<normal|sleep|standby|standby-10s>",
	Flags:     ConnectionFlags,
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected 1 argument, got %d", c.NArg())
		}
		mode, ok := powerModes[c.Args().Get(0)]
		if !ok {
			return console.Exit(1, "unknown power mode %s", c.Args().Get(0))
		}
		return withSession(c, func(ctx context.Context, cfg Config, s *session) error {
			if s.driver == nil {
				return console.Exit(1, "adapter %s has no power control", cfg.Adapter)
			}
			// Open leaves the sensor in normal mode
			if mode == thermal.PowerNormal {
				console.PInfof(console.PictoPin, "sensor mode: %s", console.Green(mode))
				return nil
			}
			if mode != thermal.PowerSleep {
				answer, err := console.YesOrNo("stand-by mode lowers the update rate, continue?")
				if err != nil || answer != console.Yes {
					return nil
				}
			}
			err := s.driver.SetPowerMode(ctx, mode)
			if err != nil {
				return console.Exit(1, "error setting power mode: %s", console.Red(err))
			}
			console.PInfof(console.PictoSleep, "sensor mode: %s", console.Yellow(mode))
			return nil
		})
	},
}
