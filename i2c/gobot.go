package i2c

import (
	"context"
	"fmt"

	gi2c "gobot.io/x/gobot/v2/drivers/i2c"

	"github.com/mklimuk/grideye"
)

var _ grideye.RegisterBus = &GobotDevice{}

// GobotDevice gives register access through a gobot I2C connection, for
// boards where gobot provides the platform adaptor (e.g. NanoPi NEO).
type GobotDevice struct {
	conn gi2c.Connection
}

// NewGobotDevice opens a connection to address on the given bus number of
// the adaptor.
func NewGobotDevice(adaptor gi2c.Connector, busNr int, address byte) (*GobotDevice, error) {
	conn, err := adaptor.GetI2cConnection(int(address), busNr)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c connection to %#02x on bus %d: %w", address, busNr, err)
	}
	return &GobotDevice{conn: conn}, nil
}

func (d *GobotDevice) WriteByteData(ctx context.Context, reg byte, value byte) error {
	err := d.conn.WriteByteData(reg, value)
	if err != nil {
		return fmt.Errorf("could not write register %#02x: %w", reg, err)
	}
	return nil
}

func (d *GobotDevice) WriteBlockData(ctx context.Context, reg byte, data []byte) error {
	err := d.conn.WriteBlockData(reg, data)
	if err != nil {
		return fmt.Errorf("could not write block at %#02x: %w", reg, err)
	}
	return nil
}

func (d *GobotDevice) ReadByteData(ctx context.Context, reg byte) (byte, error) {
	v, err := d.conn.ReadByteData(reg)
	if err != nil {
		return 0, fmt.Errorf("could not read register %#02x: %w", reg, err)
	}
	return v, nil
}

func (d *GobotDevice) ReadWordData(ctx context.Context, reg byte) (uint16, error) {
	v, err := d.conn.ReadWordData(reg)
	if err != nil {
		return 0, fmt.Errorf("could not read word at %#02x: %w", reg, err)
	}
	return v, nil
}

func (d *GobotDevice) Close() error {
	return d.conn.Close()
}
