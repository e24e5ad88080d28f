package i2c

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/mklimuk/grideye"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/mmr"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

var _ grideye.I2CBus = &GenericBus{}
var _ grideye.RegisterBus = &PeriphDevice{}

// GenericBus is a host I2C bus (e.g. /dev/i2c-1) opened through periph.io.
type GenericBus struct {
	bus i2c.BusCloser
}

func NewGenericBus(dev string) (*GenericBus, error) {
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	for _, driver := range state.Loaded {
		slog.Debug("periph driver loaded", "driver", driver.String())
	}
	bus, err := i2creg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c bus: %w", err)
	}
	return &GenericBus{
		bus: bus,
	}, nil
}

func (b *GenericBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	err := b.bus.Tx(uint16(address), nil, buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c bus %x: %w", address, err)
	}
	return nil
}

func (b *GenericBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	err := b.bus.Tx(uint16(address), buffer, nil)
	if err != nil {
		return fmt.Errorf("could not write to i2c bus %x: %w", address, err)
	}
	return nil
}

func (b *GenericBus) Release(ctx context.Context) error {
	return nil
}

// SetSpeed changes the bus clock. The AMG88xx supports up to 400 kHz.
func (b *GenericBus) SetSpeed(f physic.Frequency) error {
	err := b.bus.SetSpeed(f)
	if err != nil {
		return fmt.Errorf("could not set i2c bus speed to %s: %w", f, err)
	}
	return nil
}

// Device binds the bus to a single device address. Register reads use a
// combined write/read transaction with a repeated start.
func (b *GenericBus) Device(address byte) *PeriphDevice {
	d := &i2c.Dev{Bus: b.bus, Addr: uint16(address)}
	return &PeriphDevice{
		dev:  d,
		regs: mmr.Dev8{Conn: d, Order: binary.LittleEndian},
	}
}

func (b *GenericBus) Close() error {
	return b.bus.Close()
}

// PeriphDevice is a register view of a single device on a GenericBus.
type PeriphDevice struct {
	dev  *i2c.Dev
	regs mmr.Dev8
}

func (d *PeriphDevice) WriteByteData(ctx context.Context, reg byte, value byte) error {
	err := d.regs.WriteUint8(reg, value)
	if err != nil {
		return fmt.Errorf("could not write register %#02x of %s: %w", reg, d.dev, err)
	}
	return nil
}

func (d *PeriphDevice) WriteBlockData(ctx context.Context, reg byte, data []byte) error {
	buf := make([]byte, 0, len(data)+1)
	buf = append(buf, reg)
	buf = append(buf, data...)
	err := d.dev.Tx(buf, nil)
	if err != nil {
		return fmt.Errorf("could not write block at %#02x of %s: %w", reg, d.dev, err)
	}
	return nil
}

func (d *PeriphDevice) ReadByteData(ctx context.Context, reg byte) (byte, error) {
	v, err := d.regs.ReadUint8(reg)
	if err != nil {
		return 0, fmt.Errorf("could not read register %#02x of %s: %w", reg, d.dev, err)
	}
	return v, nil
}

func (d *PeriphDevice) ReadWordData(ctx context.Context, reg byte) (uint16, error) {
	v, err := d.regs.ReadUint16(reg)
	if err != nil {
		return 0, fmt.Errorf("could not read word at %#02x of %s: %w", reg, d.dev, err)
	}
	return v, nil
}
