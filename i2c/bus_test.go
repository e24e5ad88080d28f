package i2c

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"

	"github.com/mklimuk/grideye/thermal"
)

func TestGenericBus_RawTransfers(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x69, W: []byte{0x0F}},
			{Addr: 0x69, R: []byte{0x01}},
		},
	}
	bus := &GenericBus{bus: pb}
	ctx := context.Background()

	require.NoError(t, bus.WriteToAddr(ctx, 0x69, []byte{0x0F}))
	buf := make([]byte, 1)
	require.NoError(t, bus.ReadFromAddr(ctx, 0x69, buf))
	assert.Equal(t, byte(0x01), buf[0])
	assert.NoError(t, bus.Release(ctx))
	assert.NoError(t, bus.Close())
}

func TestGenericBus_SetSpeed(t *testing.T) {
	pb := &i2ctest.Playback{}
	bus := &GenericBus{bus: pb}
	assert.NoError(t, bus.SetSpeed(400*physic.KiloHertz))
	assert.NoError(t, bus.Close())
}

func TestPeriphDevice_Registers(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x68, W: []byte{0x00, 0x10}},
			{Addr: 0x68, W: []byte{0x01, 0x3F}},
			{Addr: 0x68, W: []byte{0x0E}, R: []byte{0x90}},
			{Addr: 0x68, W: []byte{0x80}, R: []byte{0x90, 0x01}},
		},
	}
	dev := (&GenericBus{bus: pb}).Device(0x68)
	ctx := context.Background()

	require.NoError(t, dev.WriteByteData(ctx, 0x00, 0x10))
	require.NoError(t, dev.WriteBlockData(ctx, 0x01, []byte{0x3F}))
	b, err := dev.ReadByteData(ctx, 0x0E)
	require.NoError(t, err)
	assert.Equal(t, byte(0x90), b)
	w, err := dev.ReadWordData(ctx, 0x80)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0190), w, "lower byte comes first")
	assert.NoError(t, pb.Close())
}

func TestPeriphDevice_AMG88xx(t *testing.T) {
	ops := []i2ctest.IO{
		{Addr: 0x69, W: []byte{0x00, 0x00}},
		{Addr: 0x69, W: []byte{0x01, 0x3F}},
		{Addr: 0x69, W: []byte{0x03, 0x00}},
		{Addr: 0x69, W: []byte{0x02, 0x00}},
		{Addr: 0x69, W: []byte{0x0F}, R: []byte{0x01}},
		{Addr: 0x69, W: []byte{0x0E}, R: []byte{0x90}},
	}
	for i := 0; i < thermal.Pixels; i++ {
		ops = append(ops, i2ctest.IO{Addr: 0x69, W: []byte{byte(0x80 + 2*i)}, R: []byte{0x64, 0x00}})
	}
	pb := &i2ctest.Playback{Ops: ops}
	ctx := context.Background()

	sensor, err := thermal.Open(ctx, (&GenericBus{bus: pb}).Device(thermal.AddrPrimary))
	require.NoError(t, err)
	temp, err := sensor.ReadAmbientTemperature(ctx)
	require.NoError(t, err)
	assert.Equal(t, float32(25.0), temp)
	m, err := sensor.ReadPixelMatrix(ctx)
	require.NoError(t, err)
	assert.Equal(t, thermal.UniformMatrix(25.0), m)
	assert.NoError(t, pb.Close())
}
