package sh

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/rn487x.go/pkg/profile"
	"github.com/robotalks/rn487x.go/pkg/rn487x"
)

func init() {
	AddCmds(
		&InitCmd, &ResetCmd, &WakeCmd, &EnterCmd, &ExitCmd, &RebootCmd, &FactoryResetCmd,
		&NameCmd, &DeviceNameCmd, &ManufacturerCmd, &VersionCmd, &StatusCmd, &KillCmd,
		&PowerCmd, &DefaultServicesCmd, &AdvertiseCmd,
		&ClearServicesCmd, &ServiceCmd, &CharCmd, &ListCmd, &CharsCmd,
		&ReadCmd, &WriteCmd, &ProfileCmd, &RawCmd, &SendCmd,
	)
}

func run(fn func(c *ishell.Context, s *Shell) error) func(*ishell.Context) {
	return func(c *ishell.Context) {
		s := ShellFrom(c)
		err := fn(c, s)
		s.updatePrompt()
		if err != nil {
			c.Err(err)
		}
	}
}

func simple(fn func(d *rn487x.Driver) error) func(*ishell.Context) {
	return run(func(c *ishell.Context, s *Shell) error {
		if err := fn(s.Driver); err != nil {
			return err
		}
		c.Println("OK")
		return nil
	})
}

func needArgs(c *ishell.Context, n int, usage string) error {
	if len(c.Args) < n {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

func printAdjusted(c *ishell.Context, adjusted bool) {
	if adjusted {
		c.Println("OK (adjusted)")
		return
	}
	c.Println("OK")
}

func setName(usage string, set func(*rn487x.Driver, string) (bool, error)) func(*ishell.Context) {
	return run(func(c *ishell.Context, s *Shell) error {
		if err := needArgs(c, 1, usage); err != nil {
			return err
		}
		truncated, err := set(s.Driver, strings.Join(c.Args, " "))
		if err != nil {
			return err
		}
		printAdjusted(c, truncated)
		return nil
	})
}

// ParseByte parses a byte in decimal or 0x prefixed hex.
func ParseByte(arg string) (uint8, error) {
	v, err := strconv.ParseUint(arg, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte %q", arg)
	}
	return uint8(v), nil
}

// ParseProperties parses properties as names joined by "," or "|", or a
// numeric bitmap.
func ParseProperties(arg string) (rn487x.Property, error) {
	if v, err := ParseByte(arg); err == nil {
		return rn487x.Property(v), nil
	}
	return profile.ParseProperties(strings.FieldsFunc(arg, func(r rune) bool {
		return r == ',' || r == '|'
	}))
}

var (
	// InitCmd resets the module into data mode.
	InitCmd = ishell.Cmd{
		Name: "init",
		Help: "reset and reboot into data mode",
		Func: simple((*rn487x.Driver).Initialize),
	}

	// ResetCmd pulses the reset line.
	ResetCmd = ishell.Cmd{
		Name: "reset",
		Help: "pulse the reset line",
		Func: simple((*rn487x.Driver).HardwareReset),
	}

	// WakeCmd asserts the wake line.
	WakeCmd = ishell.Cmd{
		Name: "wake",
		Help: "assert the wake line",
		Func: simple((*rn487x.Driver).WakeUp),
	}

	// EnterCmd enters command mode.
	EnterCmd = ishell.Cmd{
		Name:    "enter",
		Aliases: []string{"$$$"},
		Help:    "enter command mode",
		Func:    simple((*rn487x.Driver).EnterCommandMode),
	}

	// ExitCmd leaves command mode.
	ExitCmd = ishell.Cmd{
		Name:    "leave",
		Aliases: []string{"---"},
		Help:    "leave command mode",
		Func:    simple((*rn487x.Driver).ExitCommandMode),
	}

	// RebootCmd reboots the module.
	RebootCmd = ishell.Cmd{
		Name: "reboot",
		Help: "reboot the module",
		Func: simple((*rn487x.Driver).Reboot),
	}

	// FactoryResetCmd restores factory settings.
	FactoryResetCmd = ishell.Cmd{
		Name: "factory-reset",
		Help: "restore factory settings",
		Func: simple((*rn487x.Driver).FactoryReset),
	}

	// NameCmd sets the serialized name.
	NameCmd = ishell.Cmd{
		Name: "name",
		Help: "NAME, set the serialized name",
		Func: setName("name NAME", (*rn487x.Driver).SetSerializedName),
	}

	// DeviceNameCmd gets or sets the device name.
	DeviceNameCmd = ishell.Cmd{
		Name: "device-name",
		Help: "[NAME], get or set the device name",
		Func: func(c *ishell.Context) {
			if len(c.Args) > 0 {
				setName("device-name NAME", (*rn487x.Driver).SetDeviceName)(c)
				return
			}
			run(func(c *ishell.Context, s *Shell) error {
				name, err := s.Driver.DeviceName()
				if err == nil {
					c.Println(name)
				}
				return err
			})(c)
		},
	}

	// ManufacturerCmd sets the manufacturer name.
	ManufacturerCmd = ishell.Cmd{
		Name: "manufacturer",
		Help: "NAME, set the manufacturer name",
		Func: setName("manufacturer NAME", (*rn487x.Driver).SetManufacturerName),
	}

	// VersionCmd prints the firmware version.
	VersionCmd = ishell.Cmd{
		Name: "version",
		Help: "print the firmware version",
		Func: run(func(c *ishell.Context, s *Shell) error {
			version, err := s.Driver.FirmwareVersion()
			if err == nil {
				c.Println(version)
			}
			return err
		}),
	}

	// StatusCmd prints the connection status.
	StatusCmd = ishell.Cmd{
		Name: "status",
		Help: "print the connection status",
		Func: run(func(c *ishell.Context, s *Shell) error {
			conn, err := s.Driver.ConnectionStatus()
			if err != nil {
				return err
			}
			switch {
			case !conn.Connected:
				c.Println("not connected")
			case conn.Peer != "":
				c.Printf("connected to %s random=%v transparent=%v\n", conn.Peer, conn.Random, conn.Transparent)
			default:
				c.Printf("connected: %s\n", conn.Raw)
			}
			return nil
		}),
	}

	// KillCmd drops the connection.
	KillCmd = ishell.Cmd{
		Name: "kill",
		Help: "drop the active connection",
		Func: simple((*rn487x.Driver).KillConnection),
	}

	// PowerCmd sets output power levels.
	PowerCmd = ishell.Cmd{
		Name: "power",
		Help: "adv|conn LEVEL(0-5), set output power",
		Func: run(func(c *ishell.Context, s *Shell) error {
			if err := needArgs(c, 2, "power adv|conn LEVEL"); err != nil {
				return err
			}
			level, err := ParseByte(c.Args[1])
			if err != nil {
				return err
			}
			var clamped bool
			switch c.Args[0] {
			case "adv":
				clamped, err = s.Driver.SetAdvPower(level)
			case "conn":
				clamped, err = s.Driver.SetConnPower(level)
			default:
				return fmt.Errorf("unknown power target %q", c.Args[0])
			}
			if err == nil {
				printAdjusted(c, clamped)
			}
			return err
		}),
	}

	// DefaultServicesCmd selects the built-in services.
	DefaultServicesCmd = ishell.Cmd{
		Name: "default-services",
		Help: "NAME... (device_info transparent beacon airpatch) or BITMAP",
		Func: run(func(c *ishell.Context, s *Shell) error {
			if err := needArgs(c, 1, "default-services NAME...|BITMAP"); err != nil {
				return err
			}
			bitmap, err := ParseByte(c.Args[0])
			if err != nil {
				if bitmap, err = profile.ParseServiceBitmap(c.Args); err != nil {
					return err
				}
			}
			if err = s.Driver.SetDefaultServices(bitmap); err == nil {
				c.Println("OK")
			}
			return err
		}),
	}

	// AdvertiseCmd controls advertising.
	AdvertiseCmd = ishell.Cmd{
		Name:    "adv",
		Help:    "start|stop|clear|now TYPE HEX",
		Aliases: []string{"advertise"},
		Func: run(func(c *ishell.Context, s *Shell) error {
			if err := needArgs(c, 1, "adv start|stop|clear|now TYPE HEX"); err != nil {
				return err
			}
			var err error
			switch c.Args[0] {
			case "start":
				err = s.Driver.StartAdvertising()
			case "stop":
				err = s.Driver.StopAdvertising()
			case "clear":
				err = s.Driver.ClearImmediateAdvertising()
			case "now":
				if err = needArgs(c, 3, "adv now TYPE HEX"); err != nil {
					return err
				}
				typ, perr := ParseByte(c.Args[1])
				if perr != nil {
					return perr
				}
				data, perr := rn487x.ParseHexBytes(c.Args[2])
				if perr != nil {
					return perr
				}
				err = s.Driver.StartImmediateAdvertising(rn487x.AdType(typ), data)
			default:
				return fmt.Errorf("unknown advertising action %q", c.Args[0])
			}
			if err == nil {
				c.Println("OK")
			}
			return err
		}),
	}

	// ClearServicesCmd removes all user services.
	ClearServicesCmd = ishell.Cmd{
		Name: "clear-services",
		Help: "remove all user services and characteristics",
		Func: run(func(c *ishell.Context, s *Shell) error {
			if err := s.Driver.ClearAllServices(); err != nil {
				return err
			}
			s.Chars = make(profile.Characteristics)
			c.Println("OK")
			return nil
		}),
	}

	// ServiceCmd defines a service.
	ServiceCmd = ishell.Cmd{
		Name: "service",
		Help: "UUID, define a service",
		Func: run(func(c *ishell.Context, s *Shell) error {
			if err := needArgs(c, 1, "service UUID"); err != nil {
				return err
			}
			uuid, err := profile.ModuleUUID(c.Args[0])
			if err != nil {
				return err
			}
			if err = s.Driver.DefineService(uuid); err == nil {
				c.Println("OK")
			}
			return err
		}),
	}

	// CharCmd defines a characteristic.
	CharCmd = ishell.Cmd{
		Name: "char",
		Help: "UUID PROPERTIES LENGTH [NAME], define a characteristic",
		Func: run(func(c *ishell.Context, s *Shell) error {
			if err := needArgs(c, 3, "char UUID PROPERTIES LENGTH [NAME]"); err != nil {
				return err
			}
			uuid, err := profile.ModuleUUID(c.Args[0])
			if err != nil {
				return err
			}
			props, err := ParseProperties(c.Args[1])
			if err != nil {
				return err
			}
			length, err := strconv.Atoi(c.Args[2])
			if err != nil {
				return fmt.Errorf("invalid length %q", c.Args[2])
			}
			ch, err := s.Driver.DefineCharacteristic(uuid, props, length)
			if err != nil {
				return err
			}
			if len(c.Args) > 3 {
				s.Chars[c.Args[3]] = ch
			}
			c.Printf("characteristic %d, length %d\n", ch.Index, ch.Length)
			return nil
		}),
	}

	// ListCmd rebuilds the handle table.
	ListCmd = ishell.Cmd{
		Name:    "list",
		Aliases: []string{"ls"},
		Help:    "list characteristics and discover handles",
		Func: run(func(c *ishell.Context, s *Shell) error {
			n, err := s.Driver.RefreshHandles()
			if err != nil && !rn487x.IsIncomplete(err) {
				return err
			}
			for i, h := range s.Driver.Handles() {
				c.Printf("%d: %04X\n", i, h)
			}
			if err != nil {
				c.Printf("listing incomplete after %d handles\n", n)
			}
			return nil
		}),
	}

	// CharsCmd prints the defined characteristics.
	CharsCmd = ishell.Cmd{
		Name: "chars",
		Help: "print defined characteristics",
		Func: run(func(c *ishell.Context, s *Shell) error {
			names := make(map[int]string)
			for _, name := range s.Names() {
				names[s.Chars[name].Index] = name
			}
			for _, ch := range s.Driver.Characteristics() {
				handle := "----"
				if h, ok := s.Driver.Handle(ch); ok {
					handle = rn487x.EncodeHex(uint32(h), 4)
				}
				c.Printf("%d: %s props=%02X len=%d handle=%s %s\n",
					ch.Index, ch.UUID, uint8(ch.Properties), ch.Length, handle, names[ch.Index])
			}
			return nil
		}),
	}

	// ReadCmd reads a local characteristic.
	ReadCmd = ishell.Cmd{
		Name:    "read",
		Aliases: []string{"r"},
		Help:    "NAME|INDEX, read a local characteristic",
		Func: run(func(c *ishell.Context, s *Shell) error {
			if err := needArgs(c, 1, "read NAME|INDEX"); err != nil {
				return err
			}
			ch, err := s.Characteristic(c.Args[0])
			if err != nil {
				return err
			}
			value, err := s.Driver.ReadLocal(ch)
			switch {
			case err != nil:
				return err
			case value == nil:
				c.Println("N/A")
			default:
				c.Println(string(rn487x.AppendHexBytes(nil, value)))
			}
			return nil
		}),
	}

	// WriteCmd writes a local characteristic.
	WriteCmd = ishell.Cmd{
		Name:    "write",
		Aliases: []string{"w"},
		Help:    "NAME|INDEX HEX, write a local characteristic",
		Func: run(func(c *ishell.Context, s *Shell) error {
			if err := needArgs(c, 2, "write NAME|INDEX HEX"); err != nil {
				return err
			}
			ch, err := s.Characteristic(c.Args[0])
			if err != nil {
				return err
			}
			value, err := rn487x.ParseHexBytes(c.Args[1])
			if err != nil {
				return err
			}
			if err = s.Driver.WriteLocal(ch, value); err == nil {
				c.Println("OK")
			}
			return err
		}),
	}

	// ProfileCmd applies a profile file.
	ProfileCmd = ishell.Cmd{
		Name: "profile",
		Help: "PATH, program a GATT profile",
		Func: run(func(c *ishell.Context, s *Shell) error {
			if err := needArgs(c, 1, "profile PATH"); err != nil {
				return err
			}
			if err := s.ApplyProfile(c.Args[0]); err != nil {
				return err
			}
			for _, name := range s.Names() {
				c.Printf("%d: %s\n", s.Chars[name].Index, name)
			}
			return nil
		}),
	}

	// RawCmd sends a raw command and prints the reply.
	RawCmd = ishell.Cmd{
		Name: "raw",
		Help: "COMMAND..., send a raw command",
		Func: run(func(c *ishell.Context, s *Shell) error {
			if err := needArgs(c, 1, "raw COMMAND"); err != nil {
				return err
			}
			reply, err := s.Driver.Exec(strings.Join(c.Args, " "))
			if err == nil {
				c.Println(reply)
			}
			return err
		}),
	}

	// SendCmd sends raw data.
	SendCmd = ishell.Cmd{
		Name: "send",
		Help: "HEX, send data bytes in data mode",
		Func: run(func(c *ishell.Context, s *Shell) error {
			if err := needArgs(c, 1, "send HEX"); err != nil {
				return err
			}
			data, err := rn487x.ParseHexBytes(c.Args[0])
			if err != nil {
				return err
			}
			if err = s.Driver.SendData(data); err == nil {
				c.Println("OK")
			}
			return err
		}),
	}
)
