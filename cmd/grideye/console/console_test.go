package console

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeatLevel(t *testing.T) {
	assert.Equal(t, 0, HeatLevel(20, 20, 32))
	assert.Equal(t, 5, HeatLevel(32, 20, 32))
	assert.Equal(t, 3, HeatLevel(26, 20, 32))
	assert.Equal(t, 0, HeatLevel(10, 20, 32))
	assert.Equal(t, 5, HeatLevel(40, 20, 32))
	assert.Equal(t, 0, HeatLevel(25, 25, 25), "flat frame")
}

func TestPromptLine(t *testing.T) {
	assert.Equal(t, "continue? [Y/n]:", promptLine("continue?", yesNoConstraints))
}

func TestMatchAnswer(t *testing.T) {
	assert.Equal(t, Yes, matchAnswer("", yesNoConstraints))
	assert.Equal(t, No, matchAnswer(" N ", yesNoConstraints))
	assert.Equal(t, Yes, matchAnswer("maybe", yesNoConstraints))
}

func TestOutput(t *testing.T) {
	prevOut, prevErr := writer, errWriter
	defer SetOutput(prevOut, prevErr)
	var out, errOut bytes.Buffer
	SetOutput(&out, &errOut)

	Printf("%d pixels\n", 64)
	PInfof(PictoThermometer, "%.2f", 25.0)
	Errorf("bus %s", "timeout")
	Warnf("keeping %s", "defaults")
	assert.Equal(t, "64 pixels\n"+PictoThermometer+" 25.00\n", out.String())
	assert.Contains(t, errOut.String(), "bus timeout")
	assert.Contains(t, errOut.String(), "keeping defaults")
}
