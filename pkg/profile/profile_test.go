package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rn487x.go/pkg/rn487x"
)

const sensorProfile = `
serialized_name: Sensor
device_name: Sensor Node
manufacturer: Robotalks
default_services: [device_info]
adv_power: 3
conn_power: 0
clear_services: true
services:
  - name: battery
    uuid: 180F
    characteristics:
      - name: level
        uuid: 2A19
        properties: [read]
        length: 1
  - name: control
    uuid: 49535343-fe7d-4ae5-8fa9-9fafd205e455
    characteristics:
      - name: command
        uuid: 11223344556677889900AABBCCDDEEFF
        properties: [read, write]
        length: 20
      - uuid: 0000fe01-0000-1000-8000-00805f9b34fb
        properties: [read, notify]
        length: 2
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sensorProfile), 0644))
	p, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Sensor", p.SerializedName)
	require.Equal(t, "Sensor Node", p.DeviceName)
	require.Equal(t, "Robotalks", p.Manufacturer)
	require.Equal(t, 3, *p.AdvPower)
	require.Equal(t, 0, *p.ConnPower)
	require.True(t, p.ClearServices)
	require.Len(t, p.Services, 2)
	require.Len(t, p.Services[1].Characteristics, 2)
	require.Equal(t, "0000fe01-0000-1000-8000-00805f9b34fb", p.Services[1].Characteristics[1].Key())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestParseInvalid(t *testing.T) {
	for name, doc := range map[string]string{
		"yaml":         "services: [",
		"power":        "adv_power: 6",
		"service uuid": "services: [{uuid: 180}]",
		"char uuid":    "services: [{uuid: 180F, characteristics: [{uuid: 2AXX}]}]",
		"property":     "services: [{uuid: 180F, characteristics: [{uuid: 2A19, properties: [fly]}]}]",
		"duplicate":    "services: [{uuid: 180F, characteristics: [{name: a, uuid: 2A19}, {name: a, uuid: 2A1A}]}]",
		"default svc":  "default_services: [heart_rate]",
	} {
		_, err := Parse([]byte(doc))
		require.Error(t, err, name)
	}
}

func TestValidateFor(t *testing.T) {
	p := &Profile{Services: []Service{{UUID: "180F"}}}
	for i := 0; i < rn487x.MaxCharacteristics+2; i++ {
		p.Services[0].Characteristics = append(p.Services[0].Characteristics,
			Characteristic{UUID: fmt.Sprintf("2A%02X", i), Properties: []string{"read"}})
	}
	require.NoError(t, p.Validate())
	require.NoError(t, p.ValidateFor(Limits{Capacity: rn487x.MaxCharacteristics + 2, Layout: rn487x.ShortListingLayout}))
	require.Error(t, p.ValidateFor(Limits{Capacity: rn487x.MaxCharacteristics}))
	require.Error(t, p.ValidateFor(Limits{Layout: rn487x.DefaultListingLayout}))

	p.Services[0].Characteristics = []Characteristic{{UUID: "2A19", Properties: []string{"read", "notify"}}}
	require.NoError(t, p.ValidateFor(Limits{Layout: rn487x.DefaultListingLayout}))
}

func TestModuleUUID(t *testing.T) {
	for in, out := range map[string]string{
		"180f":                                 "180F",
		"2A19":                                 "2A19",
		"11223344556677889900aabbccddeeff":     "11223344556677889900AABBCCDDEEFF",
		"0000180f-0000-1000-8000-00805f9b34fb": "180F",
		"49535343-fe7d-4ae5-8fa9-9fafd205e455": "49535343FE7D4AE58FA99FAFD205E455",
	} {
		uuid, err := ModuleUUID(in)
		require.NoError(t, err, in)
		require.Equal(t, out, uuid, in)
	}
	for _, in := range []string{"", "18G0", "123", "0000180f-0000"} {
		_, err := ModuleUUID(in)
		require.Error(t, err, in)
	}
}

func TestParseProperties(t *testing.T) {
	props, err := ParseProperties([]string{"read", "Write", "notify"})
	require.NoError(t, err)
	require.Equal(t, rn487x.PropertyRead|rn487x.PropertyWrite|rn487x.PropertyNotify, props)

	props, err = ParseProperties([]string{"broadcast", "write_without_response", "indicate"})
	require.NoError(t, err)
	require.Equal(t, rn487x.PropertyBroadcast|rn487x.PropertyWriteNoResp|rn487x.PropertyIndicate, props)

	props, err = ParseProperties(nil)
	require.NoError(t, err)
	require.Zero(t, props)
}

func TestParseServiceBitmap(t *testing.T) {
	bitmap, err := ParseServiceBitmap([]string{"device_info", "transparent"})
	require.NoError(t, err)
	require.Equal(t, uint8(0xC0), bitmap)
}
