package rn487x

import "time"

// Timing defaults of the command shell.
const (
	DefaultTimeout      = 1000 * time.Millisecond
	DefaultResetTimeout = 2000 * time.Millisecond
	DefaultListTimeout  = 3000 * time.Millisecond
	DefaultCommandDelay = 100 * time.Millisecond
	DefaultPollInterval = time.Millisecond

	resetPulse  = 5 * time.Millisecond
	resetSettle = 500 * time.Millisecond
	wakePulse   = 5 * time.Millisecond
)

// Sizes and limits.
const (
	DefaultBaudRate = 115200

	// BufferSize is the capacity of the line buffer.
	BufferSize = 500
	// MaxCharacteristics is the default capacity of the handle table.
	MaxCharacteristics = 16

	MaxSerializedNameLen = 15
	MaxDeviceNameLen     = 20
	MaxManufNameLen      = 15
	MaxPowerLevel        = 5

	MinValueLen = 1
	MaxValueLen = 20

	PrivateUUIDLen = 32 // 128-bit
	PublicUUIDLen  = 4  // 16-bit
)

const (
	cr = '\r'

	cmdEnterCommand = "$$$"
	cmdExitCommand  = "---\r"

	cmdSetSerializedName  = "S-,"
	cmdSetDeviceName      = "SN,"
	cmdSetManufName       = "SDN,"
	cmdSetAdvPower        = "SGA,"
	cmdSetConnPower       = "SGC,"
	cmdSetDefaultServices = "SS,"
	cmdFactoryReset       = "SF,1"
	cmdGetDeviceName      = "GN"
	cmdGetConnection      = "GK"
	cmdStartAdv           = "A"
	cmdStopAdv            = "Y"
	cmdClearImmediateAdv  = "IA,Z"
	cmdStartImmediateAdv  = "IA,"
	cmdKillConnection     = "K,1"
	cmdReboot             = "R,1"
	cmdVersion            = "V"
	cmdListCharacts       = "LS"
	cmdDefineCharact      = "PC,"
	cmdDefineService      = "PS,"
	cmdClearAllServices   = "PZ"
	cmdReadLocalCharact   = "SHR,"
	cmdWriteLocalCharact  = "SHW,"
)

// Reply tokens.
const (
	tokenAOK          = "AOK"
	tokenPrompt       = "CMD>"
	tokenEnd          = "END"
	tokenRebooting    = "Rebooting"
	tokenFactoryReset = "Reboot after Factory Reset"
	tokenNone         = "none"
	tokenNotAvailable = "N/A"
	tokenError        = "ERR"
)

// Property is the GATT characteristic property bitmap.
type Property uint8

// Characteristic properties.
const (
	PropertyBroadcast   Property = 0x01
	PropertyRead        Property = 0x02
	PropertyWriteNoResp Property = 0x04
	PropertyWrite       Property = 0x08
	PropertyNotify      Property = 0x10
	PropertyIndicate    Property = 0x20
)

// AdType is the type byte of an advertising data structure.
type AdType uint8

// Advertising data types.
const (
	AdTypeFlags              AdType = 0x01
	AdTypeIncomplete16UUID   AdType = 0x02
	AdTypeComplete16UUID     AdType = 0x03
	AdTypeIncomplete128UUID  AdType = 0x06
	AdTypeComplete128UUID    AdType = 0x07
	AdTypeShortenedLocalName AdType = 0x08
	AdTypeCompleteLocalName  AdType = 0x09
	AdTypeTxPowerLevel       AdType = 0x0A
	AdTypeServiceData        AdType = 0x16
	AdTypeManufacturerData   AdType = 0xFF
)

// Default service bitmap for SetDefaultServices.
const (
	ServiceDeviceInfo  uint8 = 0x80
	ServiceTransparent uint8 = 0x40
	ServiceBeacon      uint8 = 0x20
	ServiceAirPatch    uint8 = 0x10
	ServiceNone        uint8 = 0x00
)
