// Package bridge mirrors local characteristics of a module to MQTT.
//
// Each readable characteristic is published, retained, to
// <node>/<name> whenever its value changes. A value published to
// <node>/<name>/set is written to the characteristic. Payloads are
// serialized google.protobuf.BytesValue messages.
package bridge

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"
	"github.com/golang/protobuf/ptypes/wrappers"

	fx "github.com/robotalks/rn487x.go/pkg/framework"
	"github.com/robotalks/rn487x.go/pkg/mqtt"
	"github.com/robotalks/rn487x.go/pkg/profile"
	"github.com/robotalks/rn487x.go/pkg/rn487x"
)

// Module is the part of the driver used by the bridge.
type Module interface {
	ReadLocal(c rn487x.Characteristic) ([]byte, error)
	WriteLocal(c rn487x.Characteristic, value []byte) error
}

// Broker publishes and subscribes topics relative to a prefix.
type Broker interface {
	Publish(topic string, payload []byte) error
	Subscribe(topic string, handler mqtt.Handler) (io.Closer, error)
}

type queueBroker struct {
	*mqtt.Queue
}

func (b queueBroker) Subscribe(topic string, handler mqtt.Handler) (io.Closer, error) {
	return b.Queue.Subscribe(topic, handler)
}

// QueueBroker adapts a Queue to Broker.
func QueueBroker(q *mqtt.Queue) Broker {
	return queueBroker{Queue: q}
}

const setSuffix = "/set"

// Bridge polls characteristics and applies writes.
type Bridge struct {
	Module   Module
	Broker   Broker
	NodeID   string
	Interval time.Duration

	chars profile.Characteristics
	names []string

	lock sync.Mutex
	last map[string][]byte
}

// New creates a Bridge for chars.
func New(m Module, b Broker, nodeID string, chars profile.Characteristics) *Bridge {
	names := make([]string, 0, len(chars))
	for name := range chars {
		names = append(names, name)
	}
	sort.Strings(names)
	return &Bridge{
		Module:   m,
		Broker:   b,
		NodeID:   nodeID,
		Interval: defaultConfig.PollInterval,
		chars:    chars,
		names:    names,
		last:     make(map[string][]byte),
	}
}

// Name implements framework.Named.
func (b *Bridge) Name() string {
	return "bridge"
}

// Topic returns the value topic of a characteristic.
func (b *Bridge) Topic(name string) string {
	return b.NodeID + "/" + name
}

// EncodeValue serializes a characteristic value.
func EncodeValue(v []byte) ([]byte, error) {
	return proto.Marshal(&wrappers.BytesValue{Value: v})
}

// DecodeValue parses a serialized characteristic value.
func DecodeValue(payload []byte) ([]byte, error) {
	var msg wrappers.BytesValue
	if err := proto.Unmarshal(payload, &msg); err != nil {
		return nil, err
	}
	return msg.Value, nil
}

func readable(c rn487x.Characteristic) bool {
	return c.Properties&rn487x.PropertyRead != 0
}

func writable(c rn487x.Characteristic) bool {
	return c.Properties&(rn487x.PropertyWrite|rn487x.PropertyWriteNoResp) != 0
}

// recoverable reports errors of a single exchange which do not stop the
// bridge.
func recoverable(err error) bool {
	for _, e := range []error{rn487x.ErrTimeout, rn487x.ErrMismatch, rn487x.ErrModule, rn487x.ErrLength, rn487x.ErrHandleUnknown} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// Poll reads all readable characteristics once and publishes the changed
// values.
func (b *Bridge) Poll(ctx context.Context) error {
	for _, name := range b.names {
		if err := ctx.Err(); err != nil {
			return err
		}
		c := b.chars[name]
		if !readable(c) {
			continue
		}
		b.lock.Lock()
		value, err := b.Module.ReadLocal(c)
		b.lock.Unlock()
		if err != nil {
			if !recoverable(err) {
				return err
			}
			glog.Warningf("read %s: %v", name, err)
			continue
		}
		if value == nil || bytes.Equal(value, b.last[name]) {
			continue
		}
		payload, err := EncodeValue(value)
		if err != nil {
			return err
		}
		if err := b.Broker.Publish(b.Topic(name), payload); err != nil {
			glog.Warningf("publish %s: %v", name, err)
			continue
		}
		glog.V(3).Infof("%s = %X", name, value)
		b.last[name] = value
	}
	return nil
}

// HandleSet writes the value published on a set topic.
func (b *Bridge) HandleSet(topic string, payload []byte) {
	name := strings.TrimSuffix(strings.TrimPrefix(topic, b.NodeID+"/"), setSuffix)
	c, ok := b.chars[name]
	if !ok || !writable(c) {
		glog.Warningf("set %s: no writable characteristic", name)
		return
	}
	value, err := DecodeValue(payload)
	if err != nil {
		glog.Warningf("set %s: %v", name, err)
		return
	}
	b.lock.Lock()
	err = b.Module.WriteLocal(c, value)
	b.lock.Unlock()
	if err != nil {
		glog.Warningf("set %s: %v", name, err)
		return
	}
	glog.V(3).Infof("%s <- %X", name, value)
}

// Run subscribes the set topics and polls until ctx is done.
func (b *Bridge) Run(ctx context.Context) error {
	sub, err := b.Broker.Subscribe(b.NodeID+"/+"+setSuffix, b.HandleSet)
	if err != nil {
		return err
	}
	defer sub.Close()
	return fx.Every(b.Interval, b.Poll).Run(ctx)
}
