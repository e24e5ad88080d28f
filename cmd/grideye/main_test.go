package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mklimuk/grideye/cmd/grideye/console"
)

func TestRun_MockAdapter(t *testing.T) {
	var out bytes.Buffer
	console.SetOutput(&out, &out)
	defer console.SetOutput(os.Stdout, os.Stderr)

	code := run([]string{"grideye", "pixels", "--adapter", "mock", "--format", "table"})
	assert.Equal(t, 0, code)
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	assert.Len(t, lines, 8)

	out.Reset()
	code = run([]string{"grideye", "ambient", "--adapter", "mock"})
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "°C")

	out.Reset()
	code = run([]string{"grideye", "pixels", "--adapter", "mock", "--watch", "--count", "2", "--interval", "1ms", "--format", "table"})
	assert.Equal(t, 0, code)
	assert.Len(t, strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n"), 16)
}

func TestRun_Errors(t *testing.T) {
	var out bytes.Buffer
	console.SetOutput(&out, &out)
	defer console.SetOutput(os.Stdout, os.Stderr)

	assert.Equal(t, 1, run([]string{"grideye", "pixels", "--adapter", "serial"}))
	assert.Equal(t, 1, run([]string{"grideye", "pixels", "--adapter", "mock", "--format", "png"}))
	assert.Equal(t, 1, run([]string{"grideye", "power", "--adapter", "mock", "sleep"}))
	assert.Equal(t, 1, run([]string{"grideye", "power", "--adapter", "mock", "hibernate"}))
	assert.Equal(t, 1, run([]string{"grideye", "pixels", "--adapter", "mock", "--speed", "0"}))
	assert.Equal(t, 1, run([]string{"grideye", "pixels", "--adapter", "mock", "--watch", "--interval", "0s"}))
}
