package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/karalabe/hid"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/grideye/adapter"
	"github.com/mklimuk/grideye/cmd/grideye/console"
)

var usbCmd = cli.Command{
	Name:  "usb",
	Usage: "list USB HID devices and MCP2221 bridges",
	Subcommands: cli.Commands{
		&usbLsCmd,
		&usbDetectCmd,
	},
}

var usbLsCmd = cli.Command{
	Name: "ls",
	Flags: []cli.Flag{
		&cli.UintFlag{Name: "vendor", Usage: "only list this vendor id (0 lists all)"},
		&cli.UintFlag{Name: "product", Usage: "only list this product id (0 lists all)"},
	},
	Action: func(c *cli.Context) error {
		devices := hid.Enumerate(uint16(c.Uint("vendor")), uint16(c.Uint("product")))
		w := tabwriter.NewWriter(os.Stdout, 24, 0, 1, ' ', 0)
		_, _ = fmt.Fprintln(w, "VENDOR\tPRODUCT\tSERIAL\tMANUFACTURER\tNAME\tPATH")
		for _, dev := range devices {
			_, _ = fmt.Fprintf(w, "%#04x\t%#04x\t%s\t%s\t%s\t%s\n",
				dev.VendorID, dev.ProductID, dev.Serial, dev.Manufacturer, dev.Product, dev.Path)
		}
		return w.Flush()
	},
}

var usbDetectCmd = cli.Command{
	Name:  "detect",
	Usage: "list MCP2221 bridges with the index accepted by --index",
	Action: func(c *cli.Context) error {
		bridges := adapter.Bridges()
		if len(bridges) == 0 {
			return console.Exit(1, "%s no MCP2221 bridge found", console.PictoStop)
		}
		w := tabwriter.NewWriter(os.Stdout, 8, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "INDEX\tSERIAL\tPATH")
		for i, dev := range bridges {
			_, _ = fmt.Fprintf(w, "%d\t%s\t%s\n", i, dev.Serial, dev.Path)
		}
		return w.Flush()
	},
}
