package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robotalks/motion.go/pkg/m0/board"
	"github.com/robotalks/motion.go/pkg/m0/comm"
	mqtttr "github.com/robotalks/motion.go/pkg/m0/transport/mqtt"
	serialtr "github.com/robotalks/motion.go/pkg/m0/transport/serial"
)

var (
	serialDevice = os.Getenv("M0_SERIAL")
	baudRate     = serialtr.DefaultBaudRate
	mqttURL      = os.Getenv("M0_MQTT_URL")
	motorList    = "0"
	interval     = time.Second
)

func init() {
	flag.StringVar(&serialDevice, "serial", serialDevice, "Serial device of the controller.")
	flag.IntVar(&baudRate, "baud", baudRate, "Serial baud rate.")
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL bridging the controller.")
	flag.StringVar(&motorList, "motors", motorList, "Comma-separated motor indices to poll.")
	flag.DurationVar(&interval, "interval", interval, "Poll interval.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	var motors []int
	for _, item := range strings.Split(motorList, ",") {
		motor, err := strconv.Atoi(strings.TrimSpace(item))
		if err != nil {
			log.Fatalf("invalid -motors: %v", err)
		}
		motors = append(motors, motor)
	}

	var rw io.ReadWriter
	var err error
	switch {
	case serialDevice != "":
		rw, err = serialtr.Config{Device: serialDevice, BaudRate: baudRate}.Open()
	case mqttURL != "":
		rw, err = mqtttr.Dial(mqttURL)
	default:
		log.Fatalln("one of -serial, -mqtt required")
	}
	if err != nil {
		log.Fatalln(err)
	}

	dispatcher := comm.NewDispatcher(rw)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dispatcher.Run(ctx)

	b := board.New(dispatcher)
	if ver, err := b.Version(); err == nil {
		log.Printf("firmware %s", ver)
	} else {
		log.Printf("version query failed: %v", err)
	}

	for range time.Tick(interval) {
		states, err := b.Motors(motors...)
		if err != nil {
			log.Printf("motors: %v", err)
			continue
		}
		for i, state := range states {
			log.Printf("motor %d: enabled=%v stepsComplete=%v fault=%v hlfb=%s position=%d",
				motors[i], state.Enabled, state.StepsComplete,
				state.HardwareFault, state.HLFB, state.Position)
		}
	}
}
