package grideye

import (
	"context"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

// I2CBus is a raw bus shared by many devices; every call selects the
// target by its 7-bit address.
type I2CBus interface {
	AddressableReader
	AddressableWriter
}

// RegisterBus is a handle bound to a single device that reads and writes
// its registers directly.
//
// WriteBlockData writes data to consecutive registers starting at reg with
// no length prefix on the wire. ReadWordData returns reg as the low byte and
// reg+1 as the high byte.
type RegisterBus interface {
	WriteByteData(ctx context.Context, reg byte, value byte) error
	WriteBlockData(ctx context.Context, reg byte, data []byte) error
	ReadByteData(ctx context.Context, reg byte) (byte, error)
	ReadWordData(ctx context.Context, reg byte) (uint16, error)
}
