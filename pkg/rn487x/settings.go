package rn487x

import (
	"strings"

	"github.com/golang/glog"
)

// SetSerializedName sets the name prefix the module completes with the
// last two bytes of its MAC address. Names over 15 bytes are truncated and
// the returned flag is set.
func (d *Driver) SetSerializedName(name string) (bool, error) {
	name, truncated, err := d.setName(cmdSetSerializedName, name, MaxSerializedNameLen)
	if err == nil {
		d.identity.SerializedName = name
	}
	return truncated, err
}

// SetDeviceName sets the advertised device name, up to 20 bytes.
func (d *Driver) SetDeviceName(name string) (bool, error) {
	name, truncated, err := d.setName(cmdSetDeviceName, name, MaxDeviceNameLen)
	if err == nil {
		d.identity.DeviceName = name
	}
	return truncated, err
}

// SetManufacturerName sets the manufacturer name of the Device Information
// service, up to 15 bytes.
func (d *Driver) SetManufacturerName(name string) (bool, error) {
	name, truncated, err := d.setName(cmdSetManufName, name, MaxManufNameLen)
	if err == nil {
		d.identity.ManufName = name
	}
	return truncated, err
}

// DeviceName queries the device name stored in the module.
func (d *Driver) DeviceName() (string, error) {
	return d.Exec(cmdGetDeviceName)
}

// FirmwareVersion queries the firmware version line.
func (d *Driver) FirmwareVersion() (string, error) {
	return d.Exec(cmdVersion)
}

// ClampPower limits a power level to 0-5.
func ClampPower(level uint8) (uint8, bool) {
	if level > MaxPowerLevel {
		return MaxPowerLevel, true
	}
	return level, false
}

func (d *Driver) setPower(prefix string, level uint8) (bool, error) {
	level, clamped := ClampPower(level)
	if clamped {
		glog.Warningf("power level clamped to %d", level)
	}
	d.begin(prefix)
	d.buf = append(d.buf, '0'+level)
	return clamped, d.doAOK()
}

// SetAdvPower sets the output power while advertising.
func (d *Driver) SetAdvPower(level uint8) (bool, error) {
	return d.setPower(cmdSetAdvPower, level)
}

// SetConnPower sets the output power while connected.
func (d *Driver) SetConnPower(level uint8) (bool, error) {
	return d.setPower(cmdSetConnPower, level)
}

// SetDefaultServices selects the built-in services, see Service* bits.
func (d *Driver) SetDefaultServices(bitmap uint8) error {
	d.begin(cmdSetDefaultServices)
	d.buf = AppendHex(d.buf, uint32(bitmap), 2)
	return d.doAOK()
}

// StartAdvertising starts advertising with default parameters.
func (d *Driver) StartAdvertising() error {
	d.begin(cmdStartAdv)
	return d.doAOK()
}

// StopAdvertising stops advertising.
func (d *Driver) StopAdvertising() error {
	d.begin(cmdStopAdv)
	return d.doAOK()
}

// ClearImmediateAdvertising clears the immediate advertising payload.
func (d *Driver) ClearImmediateAdvertising() error {
	d.begin(cmdClearImmediateAdv)
	return d.doAOK()
}

// StartImmediateAdvertising adds one AD structure to the advertising
// payload and starts advertising it right away.
func (d *Driver) StartImmediateAdvertising(typ AdType, data []byte) error {
	d.begin(cmdStartImmediateAdv)
	d.buf = AppendHex(d.buf, uint32(typ), 2)
	d.buf = append(d.buf, ',')
	d.buf = AppendHexBytes(d.buf, data)
	return d.doAOK()
}

// KillConnection drops the active BLE connection.
func (d *Driver) KillConnection() error {
	d.begin(cmdKillConnection)
	return d.doAOK()
}

// Connection is the reply of ConnectionStatus.
type Connection struct {
	Connected bool
	Raw       string

	// Set only when the reply has the <address>,<type>,<transparent> form.
	Peer        string
	Random      bool
	Transparent bool
}

// ConnectionStatus reports whether a peer is connected.
func (d *Driver) ConnectionStatus() (Connection, error) {
	line, err := d.Exec(cmdGetConnection)
	if err != nil {
		return Connection{}, err
	}
	conn := Connection{Raw: line}
	if strings.Contains(line, tokenNone) {
		return conn, nil
	}
	conn.Connected = true
	if fields := strings.Split(strings.TrimSpace(line), ","); len(fields) == 3 {
		conn.Peer = fields[0]
		conn.Random = fields[1] == "1"
		conn.Transparent = fields[2] == "1"
	}
	return conn, nil
}
