package main

import (
	"context"
	"flag"

	"github.com/golang/glog"

	"github.com/robotalks/rn487x.go/pkg/bridge"
	"github.com/robotalks/rn487x.go/pkg/framework"
	"github.com/robotalks/rn487x.go/pkg/mqtt"
	"github.com/robotalks/rn487x.go/pkg/profile"
	"github.com/robotalks/rn487x.go/pkg/rn487x"
	"github.com/robotalks/rn487x.go/pkg/serial"
)

func init() {
	serial.SetupFlags()
	rn487x.SetupFlags()
	bridge.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := bridge.Default()
	if conf.Profile == "" {
		glog.Exit("-profile is required")
	}
	p, err := profile.Load(conf.Profile)
	if err != nil {
		glog.Exit(err)
	}

	serialConf := serial.Default()
	port, err := serialConf.Open()
	if err != nil {
		glog.Exit(err)
	}
	defer port.Close()
	d := rn487x.DefaultOptions().NewDriver(port)
	if err := serialConf.Attach(port, d); err != nil {
		glog.Exit(err)
	}
	if err := d.Initialize(); err != nil {
		glog.Exitf("initialize: %v", err)
	}
	if err := d.EnterCommandMode(); err != nil {
		glog.Exitf("command mode: %v", err)
	}
	chars, err := profile.Apply(d, p)
	if err != nil {
		glog.Exitf("apply profile %s: %v", conf.Profile, err)
	}

	q, err := mqtt.NewQueueFromURL(conf.MQTTURL)
	if err != nil {
		glog.Exit(err)
	}
	if err := q.Connect(); err != nil {
		glog.Exitf("connect %s: %v", conf.MQTTURL, err)
	}
	defer q.Close()

	b := bridge.New(d, bridge.QueueBroker(q), conf.EffectiveNodeID(), chars)
	b.Interval = conf.PollInterval
	glog.Infof("bridging %d characteristics as %s", len(chars), b.NodeID)

	err = framework.NewRunner().HandleSignals().Go(
		b,
		framework.NamedRun("serial", framework.RunFunc(func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-port.Done():
				return port.Err()
			}
		})),
	).Wait()
	if err != nil {
		glog.Error(err)
	}
}
