package console

import "github.com/fatih/color"

// Available ANSI colors
var (
	Yellow = color.New(color.FgYellow).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()
	Green  = color.New(color.FgGreen).SprintFunc()
	White  = color.New(color.FgHiWhite).SprintFunc()
	Bold   = color.New(color.Bold).SprintFunc()
)

// heat scale from coldest to hottest
var heat = []*color.Color{
	color.New(color.BgBlue, color.FgHiWhite),
	color.New(color.BgCyan, color.FgBlack),
	color.New(color.BgGreen, color.FgBlack),
	color.New(color.BgYellow, color.FgBlack),
	color.New(color.BgRed, color.FgHiWhite),
	color.New(color.BgMagenta, color.FgHiWhite),
}

// Heat formats v with a background picked by its position between lo and hi.
func Heat(v, lo, hi float32, format string) string {
	return heat[HeatLevel(v, lo, hi)].Sprintf(format, v)
}

// HeatLevel maps v to an index of the heat scale.
func HeatLevel(v, lo, hi float32) int {
	if hi <= lo {
		return 0
	}
	level := int((v - lo) / (hi - lo) * float32(len(heat)))
	if level < 0 {
		return 0
	}
	if level >= len(heat) {
		return len(heat) - 1
	}
	return level
}
