// Package profile describes the identity and GATT layout to program into a
// module, loaded from YAML.
package profile

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"tinygo.org/x/bluetooth"

	"github.com/robotalks/rn487x.go/pkg/rn487x"
)

// Profile is the setup applied to a module.
type Profile struct {
	SerializedName  string    `yaml:"serialized_name"`
	DeviceName      string    `yaml:"device_name"`
	Manufacturer    string    `yaml:"manufacturer"`
	DefaultServices []string  `yaml:"default_services"` // device_info, transparent, beacon, airpatch
	AdvPower        *int      `yaml:"adv_power"`
	ConnPower       *int      `yaml:"conn_power"`
	ClearServices   bool      `yaml:"clear_services"`
	Services        []Service `yaml:"services"`
}

// Service is a user defined service.
type Service struct {
	Name            string           `yaml:"name"`
	UUID            string           `yaml:"uuid"`
	Characteristics []Characteristic `yaml:"characteristics"`
}

// Characteristic is a characteristic of a Service.
type Characteristic struct {
	Name       string   `yaml:"name"`
	UUID       string   `yaml:"uuid"`
	Properties []string `yaml:"properties"`
	Length     int      `yaml:"length"`
}

// Key is the name of the characteristic, or its UUID when unnamed.
func (c *Characteristic) Key() string {
	if c.Name != "" {
		return c.Name
	}
	return c.UUID
}

// Load reads and parses a YAML profile.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates a YAML profile.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Limits describes what a module can hold. A zero Capacity is not checked,
// and the zero Layout accepts characteristics of any UUID length.
type Limits struct {
	Capacity int
	Layout   rn487x.ListingLayout
}

// Validate checks the structure of the profile.
func (p *Profile) Validate() error {
	return p.ValidateFor(Limits{})
}

// ValidateFor checks the profile can be programmed into a module with the
// given limits. Characteristics listed with handles must have UUIDs the
// listing layout can parse.
func (p *Profile) ValidateFor(l Limits) error {
	if _, err := ParseServiceBitmap(p.DefaultServices); err != nil {
		return err
	}
	for _, power := range []*int{p.AdvPower, p.ConnPower} {
		if power != nil && (*power < 0 || *power > rn487x.MaxPowerLevel) {
			return fmt.Errorf("power level must be 0-%d, got %d", rn487x.MaxPowerLevel, *power)
		}
	}
	keys := make(map[string]bool)
	count := 0
	for i := range p.Services {
		svc := &p.Services[i]
		if _, err := ModuleUUID(svc.UUID); err != nil {
			return fmt.Errorf("service %q: %w", svc.Name, err)
		}
		for j := range svc.Characteristics {
			c := &svc.Characteristics[j]
			uuid, err := ModuleUUID(c.UUID)
			if err != nil {
				return fmt.Errorf("characteristic %q: %w", c.Key(), err)
			}
			props, err := ParseProperties(c.Properties)
			if err != nil {
				return fmt.Errorf("characteristic %q: %w", c.Key(), err)
			}
			if rn487x.Listed(props) && !l.Layout.Accepts(len(uuid)) {
				return fmt.Errorf("characteristic %q: %d digit UUID does not match the listing layout", c.Key(), len(uuid))
			}
			if keys[c.Key()] {
				return fmt.Errorf("characteristic %q defined twice", c.Key())
			}
			keys[c.Key()] = true
			count++
		}
	}
	if l.Capacity > 0 && count > l.Capacity {
		return fmt.Errorf("%d characteristics exceed the limit of %d", count, l.Capacity)
	}
	return nil
}

// ModuleUUID converts a UUID to the digits the module expects. 4 and 32
// digit forms are kept. Dashed UUIDs in the Bluetooth base range are
// shortened to 4 digits, others become 32 digits.
func ModuleUUID(s string) (string, error) {
	switch len(s) {
	case rn487x.PublicUUIDLen, rn487x.PrivateUUIDLen:
		if _, err := rn487x.ParseHexBytes(s); err != nil {
			return "", err
		}
		return strings.ToUpper(s), nil
	}
	uuid, err := bluetooth.ParseUUID(s)
	if err != nil {
		return "", fmt.Errorf("invalid UUID %q: %w", s, err)
	}
	str := uuid.String()
	if uuid.Is16Bit() {
		return strings.ToUpper(str[4:8]), nil
	}
	return strings.ToUpper(strings.ReplaceAll(str, "-", "")), nil
}

var propertyNames = map[string]bluetooth.CharacteristicPermissions{
	"broadcast":              bluetooth.CharacteristicBroadcastPermission,
	"read":                   bluetooth.CharacteristicReadPermission,
	"write_without_response": bluetooth.CharacteristicWriteWithoutResponsePermission,
	"write":                  bluetooth.CharacteristicWritePermission,
	"notify":                 bluetooth.CharacteristicNotifyPermission,
	"indicate":               bluetooth.CharacteristicIndicatePermission,
}

// ParseProperties combines property names into the property bitmap.
func ParseProperties(names []string) (rn487x.Property, error) {
	var perms bluetooth.CharacteristicPermissions
	for _, name := range names {
		perm, ok := propertyNames[strings.ToLower(name)]
		if !ok {
			return 0, fmt.Errorf("unknown property %q", name)
		}
		perms |= perm
	}
	return rn487x.Property(perms), nil
}

var serviceNames = map[string]uint8{
	"device_info": rn487x.ServiceDeviceInfo,
	"transparent": rn487x.ServiceTransparent,
	"beacon":      rn487x.ServiceBeacon,
	"airpatch":    rn487x.ServiceAirPatch,
}

// ParseServiceBitmap combines default service names into the bitmap of
// SetDefaultServices.
func ParseServiceBitmap(names []string) (uint8, error) {
	var bitmap uint8
	for _, name := range names {
		bit, ok := serviceNames[strings.ToLower(name)]
		if !ok {
			return 0, fmt.Errorf("unknown default service %q", name)
		}
		bitmap |= bit
	}
	return bitmap, nil
}
