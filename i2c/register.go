package i2c

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/mklimuk/grideye"
)

var _ grideye.RegisterBus = &RegisterDevice{}

// RegisterDevice gives register access to a device behind a raw addressable
// bus such as the MCP2221 bridge. Reads set the register pointer with a
// write and fetch the data with a separate read.
type RegisterDevice struct {
	transport grideye.I2CBus
	address   byte
	buf       [2]byte
}

func NewRegisterDevice(trans grideye.I2CBus, address byte) *RegisterDevice {
	return &RegisterDevice{transport: trans, address: address}
}

func (d *RegisterDevice) WriteByteData(ctx context.Context, reg byte, value byte) error {
	err := d.transport.WriteToAddr(ctx, d.address, []byte{reg, value})
	if err != nil {
		return fmt.Errorf("could not write register %#02x: %w", reg, err)
	}
	return nil
}

func (d *RegisterDevice) WriteBlockData(ctx context.Context, reg byte, data []byte) error {
	buf := make([]byte, 0, len(data)+1)
	buf = append(buf, reg)
	buf = append(buf, data...)
	err := d.transport.WriteToAddr(ctx, d.address, buf)
	if err != nil {
		return fmt.Errorf("could not write block at %#02x: %w", reg, err)
	}
	return nil
}

func (d *RegisterDevice) ReadByteData(ctx context.Context, reg byte) (byte, error) {
	err := d.read(ctx, reg, d.buf[:1])
	if err != nil {
		return 0, err
	}
	return d.buf[0], nil
}

func (d *RegisterDevice) ReadWordData(ctx context.Context, reg byte) (uint16, error) {
	err := d.read(ctx, reg, d.buf[:2])
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(d.buf[:2]), nil
}

func (d *RegisterDevice) read(ctx context.Context, reg byte, buf []byte) error {
	err := d.transport.WriteToAddr(ctx, d.address, []byte{reg})
	if err != nil {
		return fmt.Errorf("could not set register pointer to %#02x: %w", reg, err)
	}
	err = d.transport.ReadFromAddr(ctx, d.address, buf)
	if err != nil {
		return fmt.Errorf("could not read register %#02x: %w", reg, err)
	}
	return nil
}
