package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/grideye/cmd/grideye/console"
)

var shellCommands = []string{"ambient", "pixels", "table", "yaml", "help", "quit"}

var ShellCmd = &cli.Command{
	Name:  "shell",
	Usage: "interactive session with an initialized sensor",
	Flags: ConnectionFlags,
	Action: func(c *cli.Context) error {
		return withSession(c, func(ctx context.Context, cfg Config, s *session) error {
			console.Infof("connected through %s, type %s to leave", cfg.Adapter, console.Bold("quit"))
			return console.Shell("grideye> ", shellCommands, func(line string) (bool, error) {
				return runShellLine(ctx, s, line)
			})
		})
	},
}

func runShellLine(ctx context.Context, s *session, line string) (bool, error) {
	cmd := strings.Fields(line)[0]
	switch cmd {
	case "quit", "exit":
		return true, nil
	case "ambient":
		temp, err := s.sensor.ReadAmbientTemperature(ctx)
		if err != nil {
			return false, err
		}
		console.PInfof(console.PictoThermometer, "%.4f °C", temp)
	case "pixels":
		return false, printFrame(ctx, s.sensor, "heat")
	case "table", "yaml":
		return false, printFrame(ctx, s.sensor, cmd)
	case "help":
		console.Printf("commands: %s\n", strings.Join(shellCommands, ", "))
	default:
		return false, fmt.Errorf("unknown command %q", cmd)
	}
	return ctx.Err() != nil, nil
}
