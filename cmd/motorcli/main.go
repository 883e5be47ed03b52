package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/motion.go/pkg/m0/board"
	"github.com/robotalks/motion.go/pkg/m0/comm"
	mqtttr "github.com/robotalks/motion.go/pkg/m0/transport/mqtt"
	serialtr "github.com/robotalks/motion.go/pkg/m0/transport/serial"
	wstr "github.com/robotalks/motion.go/pkg/m0/transport/ws"
)

//go-build: CGO_ENABLED=0

var (
	serialDevice = os.Getenv("M0_SERIAL")
	baudRate     = serialtr.DefaultBaudRate
	mqttURL      = os.Getenv("M0_MQTT_URL")
	wsURL        string
	timeout      = comm.DefaultTimeout
	evalOnly     bool
)

func init() {
	flag.StringVar(&serialDevice, "serial", serialDevice, "Serial device of the controller.")
	flag.IntVar(&baudRate, "baud", baudRate, "Serial baud rate.")
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL bridging the controller.")
	flag.StringVar(&wsURL, "ws", wsURL, "WebSocket URL bridging the controller.")
	flag.DurationVar(&timeout, "timeout", timeout, "Per-command timeout.")
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
}

func openTransport() (io.ReadWriter, error) {
	switch {
	case serialDevice != "":
		return serialtr.Config{Device: serialDevice, BaudRate: baudRate}.Open()
	case mqttURL != "":
		return mqtttr.Dial(mqttURL)
	case wsURL != "":
		return wstr.Dial(wsURL, "")
	}
	return nil, fmt.Errorf("one of -serial, -mqtt, -ws required")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	rw, err := openTransport()
	if err != nil {
		log.Fatalln(err)
	}

	dispatcher := comm.NewDispatcher(rw)
	dispatcher.Timeout = timeout
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dispatcher.Run(ctx)

	shell := newShell(board.New(dispatcher))
	if args := flag.Args(); len(args) > 0 {
		if err := shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if evalOnly {
		log.Fatalln("command expected")
	}
	shell.Run()
}

func argInts(c *ishell.Context) ([]int, error) {
	if len(c.Args) == 0 {
		return nil, fmt.Errorf("INDEX expected")
	}
	values := make([]int, len(c.Args))
	for i, arg := range c.Args {
		val, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid INDEX %q: %v", arg, err)
		}
		values[i] = val
	}
	return values, nil
}

func argPairs(c *ishell.Context) ([][2]int, error) {
	if len(c.Args) == 0 || len(c.Args)%2 != 0 {
		return nil, fmt.Errorf("INDEX VALUE pairs expected")
	}
	pairs := make([][2]int, len(c.Args)/2)
	for i := range pairs {
		for j := 0; j < 2; j++ {
			val, err := strconv.Atoi(c.Args[i*2+j])
			if err != nil {
				return nil, fmt.Errorf("invalid argument %q: %v", c.Args[i*2+j], err)
			}
			pairs[i][j] = val
		}
	}
	return pairs, nil
}

func done(c *ishell.Context, err error) {
	if err != nil {
		c.Err(err)
		return
	}
	c.Println("OK")
}

func newShell(b *board.Board) *ishell.Shell {
	shell := ishell.New()
	shell.SetPrompt("m0 > ")

	shell.AddCmd(&ishell.Cmd{
		Name: "version",
		Help: "",
		Func: func(c *ishell.Context) {
			ver, err := b.Version()
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(ver)
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "boards",
		Help: "",
		Func: func(c *ishell.Context) {
			state, err := b.ExpansionBoards()
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("boards=%d ports=%d\n", state.Boards, state.Ports)
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name:    "motors",
		Aliases: []string{"m"},
		Help:    "MOTOR...",
		Func: func(c *ishell.Context) {
			motors, err := argInts(c)
			if err != nil {
				c.Err(err)
				return
			}
			states, err := b.Motors(motors...)
			if err != nil {
				c.Err(err)
				return
			}
			for i, state := range states {
				c.Printf("motor %d: enabled=%v writable=%v stepsComplete=%v fault=%v hlfb=%s hlfbMode=%d position=%d\n",
					motors[i], state.Enabled, state.Writable, state.StepsComplete,
					state.HardwareFault, state.HLFB, state.HLFBMode, state.Position)
			}
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name:    "enable",
		Aliases: []string{"en"},
		Help:    "MOTOR...",
		Func: func(c *ishell.Context) {
			motors, err := argInts(c)
			if err != nil {
				c.Err(err)
				return
			}
			done(c, b.EnableMotors(motors...))
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name:    "disable",
		Aliases: []string{"dis"},
		Help:    "MOTOR...",
		Func: func(c *ishell.Context) {
			motors, err := argInts(c)
			if err != nil {
				c.Err(err)
				return
			}
			done(c, b.DisableMotors(motors...))
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "disable-all",
		Help: "",
		Func: func(c *ishell.Context) {
			done(c, b.DisableAllMotors())
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "enabled",
		Help: "",
		Func: func(c *ishell.Context) {
			c.Println(b.EnabledMotors())
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name:    "move",
		Aliases: []string{"mv"},
		Help:    "MOTOR STEPS [MOTOR STEPS]...",
		Func: func(c *ishell.Context) {
			pairs, err := argPairs(c)
			if err != nil {
				c.Err(err)
				return
			}
			moves := make([]board.MotorMove, len(pairs))
			for i, pair := range pairs {
				moves[i] = board.MotorMove{Motor: pair[0], Steps: pair[1]}
			}
			done(c, b.MoveMotors(moves...))
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "home",
		Help: "MOTOR...",
		Func: func(c *ishell.Context) {
			motors, err := argInts(c)
			if err != nil {
				c.Err(err)
				return
			}
			done(c, b.SetMotorsHome(motors...))
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name:    "velocity",
		Aliases: []string{"vel"},
		Help:    "MOTOR VELOCITY [MOTOR VELOCITY]...",
		Func: func(c *ishell.Context) {
			pairs, err := argPairs(c)
			if err != nil {
				c.Err(err)
				return
			}
			velocities := make([]board.MotorVelocity, len(pairs))
			for i, pair := range pairs {
				velocities[i] = board.MotorVelocity{Motor: pair[0], Velocity: pair[1]}
			}
			done(c, b.SetMotorsVelocity(velocities...))
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "stop",
		Help: "MOTOR...",
		Func: func(c *ishell.Context) {
			motors, err := argInts(c)
			if err != nil {
				c.Err(err)
				return
			}
			done(c, b.StopMotors(motors...))
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "estop",
		Help: "PIN",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("PIN expected"))
				return
			}
			pin, err := strconv.Atoi(c.Args[0])
			if err != nil {
				c.Err(fmt.Errorf("invalid PIN %q: %v", c.Args[0], err))
				return
			}
			done(c, b.SetEStopPin(pin))
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "pinmode",
		Help: "PIN MODE(0=in,1=out) [PIN MODE]...",
		Func: func(c *ishell.Context) {
			pairs, err := argPairs(c)
			if err != nil {
				c.Err(err)
				return
			}
			modes := make([]board.PinModeSet, len(pairs))
			for i, pair := range pairs {
				modes[i] = board.PinModeSet{Pin: pair[0], Mode: board.PinMode(pair[1])}
			}
			done(c, b.SetPinsMode(modes...))
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "dpins",
		Help: "PIN LEVEL(0|1) [PIN LEVEL]...",
		Func: func(c *ishell.Context) {
			pairs, err := argPairs(c)
			if err != nil {
				c.Err(err)
				return
			}
			levels := make([]board.PinLevel, len(pairs))
			for i, pair := range pairs {
				levels[i] = board.PinLevel{Pin: pair[0], High: pair[1] != 0}
			}
			done(c, b.WriteDigitalPins(levels...))
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "dsensors",
		Help: "SENSOR...",
		Func: func(c *ishell.Context) {
			sensors, err := argInts(c)
			if err != nil {
				c.Err(err)
				return
			}
			states, err := b.DigitalSensors(sensors...)
			if err != nil {
				c.Err(err)
				return
			}
			for i, state := range states {
				c.Printf("sensor %d: %v\n", sensors[i], state)
			}
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "asensors",
		Help: "SENSOR...",
		Func: func(c *ishell.Context) {
			sensors, err := argInts(c)
			if err != nil {
				c.Err(err)
				return
			}
			values, err := b.AnalogSensors(sensors...)
			if err != nil {
				c.Err(err)
				return
			}
			for i, value := range values {
				c.Printf("sensor %d: %d\n", sensors[i], value)
			}
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "raw",
		Help: "COMMANDLINE (without leading id)",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("COMMANDLINE expected"))
				return
			}
			start := time.Now()
			line, err := b.Dispatcher().Execute(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("%s (%v)\n", line, time.Since(start))
		},
	})
	return shell
}
