package bridge

import (
	"flag"
	"os"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// Config defines the configurations for the bridge.
type Config struct {
	MQTTURL      string
	NodeID       string
	PollInterval time.Duration
	Profile      string
}

var defaultConfig = Config{
	MQTTURL:      "mqtt://localhost:1883/rn487x/",
	PollInterval: time.Second,
}

const (
	appID     = "rn487x-bridge"
	nodeIDLen = 12
)

func init() {
	if url := os.Getenv("RN487X_MQTT_URL"); url != "" {
		defaultConfig.MQTTURL = url
	}
	if id := os.Getenv("RN487X_NODE_ID"); id != "" {
		defaultConfig.NodeID = id
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.MQTTURL, "mqtt", defaultConfig.MQTTURL, "MQTT broker URL, the path is the topic prefix.")
	flag.StringVar(&defaultConfig.NodeID, "node-id", defaultConfig.NodeID, "Topic name of this node, defaults to the machine ID.")
	flag.DurationVar(&defaultConfig.PollInterval, "poll", defaultConfig.PollInterval, "Characteristic polling interval.")
	flag.StringVar(&defaultConfig.Profile, "profile", defaultConfig.Profile, "GATT profile to program at start.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// EffectiveNodeID returns NodeID or the machine ID.
func (c *Config) EffectiveNodeID() string {
	if c.NodeID != "" {
		return c.NodeID
	}
	return MachineID()
}

// MachineID retrieves an ID identifying this machine, hashed for this
// application. The host name is used when there is no machine ID.
func MachineID() string {
	id, err := machineid.ProtectedID(appID)
	if err != nil {
		glog.Warningf("machine ID unavailable: %v", err)
		if id, err = os.Hostname(); err != nil {
			return appID
		}
		return id
	}
	if len(id) > nodeIDLen {
		id = id[:nodeIDLen]
	}
	return id
}
