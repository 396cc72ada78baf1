package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/robotalks/rn487x.go/pkg/bridge"
	"github.com/robotalks/rn487x.go/pkg/mqtt"
	"github.com/robotalks/rn487x.go/pkg/rn487x"
)

var (
	mqttURL = "mqtt://localhost:1883/rn487x/"
)

func init() {
	if val := os.Getenv("RN487X_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if err := q.Connect(); err != nil {
		log.Fatalln(err)
	}
	defer q.Close()

	filter := "#"
	if flag.NArg() > 0 {
		filter = flag.Arg(0) + "/#"
	}
	_, err = q.Subscribe(filter, func(topic string, payload []byte) {
		value, err := bridge.DecodeValue(payload)
		if err != nil {
			log.Printf("%s: bad payload: %v", topic, err)
			return
		}
		dir := "="
		if strings.HasSuffix(topic, "/set") {
			dir = "<-"
		}
		log.Printf("%s %s %s", topic, dir, rn487x.AppendHexBytes(nil, value))
	})
	if err != nil {
		log.Fatalln(err)
	}
	<-(chan struct{})(nil)
}
