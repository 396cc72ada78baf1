package profile

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/rn487x.go/pkg/rn487x"
)

// Module is the part of the driver used to program a profile.
type Module interface {
	SetSerializedName(name string) (bool, error)
	SetDeviceName(name string) (bool, error)
	SetManufacturerName(name string) (bool, error)
	SetDefaultServices(bitmap uint8) error
	SetAdvPower(level uint8) (bool, error)
	SetConnPower(level uint8) (bool, error)
	ClearAllServices() error
	DefineService(uuid string) error
	DefineCharacteristic(uuid string, props rn487x.Property, length int) (rn487x.Characteristic, error)
	Reboot() error
	EnterCommandMode() error
	RefreshHandles() (int, error)
	Capacity() int
	ListingLayout() rn487x.ListingLayout
}

// Characteristics maps characteristic keys to their driver entries. Notify
// and indicate characteristics have no handle and are left out.
type Characteristics map[string]rn487x.Characteristic

// Apply programs p into a module in command mode. The module is rebooted
// so the services take effect, command mode is entered again and the
// handles are discovered. The number of handles listed must match the
// characteristics returned.
func Apply(m Module, p *Profile) (Characteristics, error) {
	if err := p.ValidateFor(Limits{Capacity: m.Capacity(), Layout: m.ListingLayout()}); err != nil {
		return nil, err
	}
	if err := applySettings(m, p); err != nil {
		return nil, err
	}
	if p.ClearServices {
		if err := m.ClearAllServices(); err != nil {
			return nil, fmt.Errorf("clear services: %w", err)
		}
	}
	chars := make(Characteristics)
	for _, svc := range p.Services {
		uuid, err := ModuleUUID(svc.UUID)
		if err != nil {
			return nil, err
		}
		if err := m.DefineService(uuid); err != nil {
			return nil, fmt.Errorf("service %q: %w", svc.Name, err)
		}
		for _, c := range svc.Characteristics {
			ch, err := defineCharacteristic(m, &c)
			if err != nil {
				return nil, fmt.Errorf("characteristic %q: %w", c.Key(), err)
			}
			if !rn487x.Listed(ch.Properties) {
				glog.Warningf("characteristic %q: notify and indicate characteristics have no handle", c.Key())
				continue
			}
			chars[c.Key()] = ch
		}
	}
	if err := m.Reboot(); err != nil {
		return nil, fmt.Errorf("reboot: %w", err)
	}
	if err := m.EnterCommandMode(); err != nil {
		return nil, fmt.Errorf("command mode: %w", err)
	}
	n, err := m.RefreshHandles()
	if err != nil {
		return chars, fmt.Errorf("list handles: %w", err)
	}
	if n != len(chars) {
		return chars, fmt.Errorf("%d handles listed for %d characteristics", n, len(chars))
	}
	return chars, nil
}

func applySettings(m Module, p *Profile) error {
	names := []struct {
		name string
		set  func(string) (bool, error)
	}{
		{p.SerializedName, m.SetSerializedName},
		{p.DeviceName, m.SetDeviceName},
		{p.Manufacturer, m.SetManufacturerName},
	}
	for _, n := range names {
		if n.name == "" {
			continue
		}
		if _, err := n.set(n.name); err != nil {
			return fmt.Errorf("set name %q: %w", n.name, err)
		}
	}
	if len(p.DefaultServices) > 0 {
		bitmap, err := ParseServiceBitmap(p.DefaultServices)
		if err != nil {
			return err
		}
		if err := m.SetDefaultServices(bitmap); err != nil {
			return fmt.Errorf("default services: %w", err)
		}
	}
	if p.AdvPower != nil {
		if _, err := m.SetAdvPower(uint8(*p.AdvPower)); err != nil {
			return fmt.Errorf("advertising power: %w", err)
		}
	}
	if p.ConnPower != nil {
		if _, err := m.SetConnPower(uint8(*p.ConnPower)); err != nil {
			return fmt.Errorf("connection power: %w", err)
		}
	}
	return nil
}

func defineCharacteristic(m Module, c *Characteristic) (rn487x.Characteristic, error) {
	uuid, err := ModuleUUID(c.UUID)
	if err != nil {
		return rn487x.Characteristic{}, err
	}
	props, err := ParseProperties(c.Properties)
	if err != nil {
		return rn487x.Characteristic{}, err
	}
	return m.DefineCharacteristic(uuid, props, c.Length)
}
