package thermal

// Bus addresses (7-bit). The alternate address is selected by pulling the
// AD_SELECT pin low.
const (
	AddrPrimary   byte = 0x69
	AddrAlternate byte = 0x68
)

// Register is an address in the sensor register map.
type Register = byte

const (
	RegPCTL  Register = iota // power control
	RegRST                   // software reset
	RegFPSC                  // frame rate
	RegINTC                  // interrupt control
	RegSTAT                  // status
	RegSCLR                  // status clear
	_                        // 0x06 reserved
	RegAVE                   // moving average
	RegINTHL                 // interrupt level upper limit, lower byte
	RegINTHH
	RegINTLL
	RegINTLH
	RegIHYSL
	RegIHYSH
	RegTTHL // thermistor, lower byte
	RegTTHH // thermistor, upper byte
)

const (
	// RegIntOffset is the first of 8 interrupt flag bytes, one bit per pixel.
	RegIntOffset Register = 0x10
	// RegPixelOffset is the first of 64 pixel slots, 2 bytes each, lower
	// byte first.
	RegPixelOffset Register = 0x80
)

// PowerMode is a value of the power control register.
type PowerMode byte

const (
	PowerNormal     PowerMode = 0x00
	PowerSleep      PowerMode = 0x10
	PowerStandBy60s PowerMode = 0x20
	PowerStandBy10s PowerMode = 0x21
)

func (m PowerMode) String() string {
	switch m {
	case PowerNormal:
		return "normal"
	case PowerSleep:
		return "sleep"
	case PowerStandBy60s:
		return "stand-by 60s"
	case PowerStandBy10s:
		return "stand-by 10s"
	default:
		return "unknown"
	}
}

// Software reset values
const (
	ResetFlag    byte = 0x30 // clears status and interrupt flags
	ResetInitial byte = 0x3F // flag reset plus reload of adjustment values
)

// Frame rates
const (
	FPS10 byte = 0x00
	FPS1  byte = 0x01
)

// Interrupt control. The mode values are those of the INTMOD bit.
const (
	IntDisabled byte = 0x00
	IntEnabled  byte = 0x01

	IntModeDifference byte = 0x00
	IntModeAbsolute   byte = 0x01
)

const (
	Width  = 8
	Height = 8
	Pixels = Width * Height

	// °C per LSB
	PixelConversion      float32 = 0.25
	ThermistorConversion float32 = 0.0625
)
