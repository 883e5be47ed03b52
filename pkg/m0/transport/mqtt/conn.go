// Package mqtt bridges the M0 byte channel over an MQTT broker, for
// controllers attached to a serial-to-MQTT bridge instead of a local
// port.
package mqtt

import (
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/denisbrodbeck/machineid"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
)

// Conn is a duplex byte channel over a pair of MQTT topics: command
// lines are published to "<prefix>/cmd", reply lines arrive on
// "<prefix>/msg". Conn offers no receive buffer reset, so the
// dispatcher treats buffer reset as a no-op.
type Conn struct {
	client   paho.Client
	subTopic string
	pubTopic string

	recvCh    chan []byte
	pending   []byte
	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects the broker and subscribes the reply topic.
// The URL follows the convention "mqtt://host:port/prefix"; a client id
// may be forced with the "client-id" query parameter, otherwise one is
// derived from the machine id.
func Dial(brokerURL string) (*Conn, error) {
	u, err := url.Parse(brokerURL)
	if err != nil {
		return nil, err
	}
	server := u.Scheme
	if server == "" || server == "mqtt" {
		server = "tcp"
	}
	server += "://" + u.Host
	prefix := strings.TrimPrefix(u.Path, "/")

	opts := paho.NewClientOptions()
	opts.AddBroker(server).
		SetAutoReconnect(true).
		SetCleanSession(true)
	if u.User != nil {
		opts.SetUsername(u.User.Username())
		if pwd, ok := u.User.Password(); ok {
			opts.SetPassword(pwd)
		}
	}
	clientID := u.Query().Get("client-id")
	if clientID == "" {
		if id, err := machineid.ID(); err == nil {
			clientID = "m0-" + id
		}
	}
	if clientID != "" {
		opts.SetClientID(clientID)
	}
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		glog.Warningf("connection lost: %v", err)
	})

	conn := &Conn{
		subTopic: prefix + "/msg",
		pubTopic: prefix + "/cmd",
		recvCh:   make(chan []byte, 16),
		done:     make(chan struct{}),
	}
	conn.client = paho.NewClient(opts)
	if token := conn.client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	if token := conn.client.Subscribe(conn.subTopic, 0, conn.handleMsg); token.Wait() && token.Error() != nil {
		conn.client.Disconnect(0)
		return nil, token.Error()
	}
	if glog.V(2) {
		glog.Infof("SUB %q", conn.subTopic)
	}
	return conn, nil
}

func (c *Conn) handleMsg(_ paho.Client, msg paho.Message) {
	payload := make([]byte, len(msg.Payload()))
	copy(payload, msg.Payload())
	select {
	case c.recvCh <- payload:
	case <-c.done:
	}
}

// Read implements io.Reader.
func (c *Conn) Read(p []byte) (int, error) {
	if len(c.pending) == 0 {
		select {
		case payload := <-c.recvCh:
			c.pending = payload
		case <-c.done:
			return 0, io.EOF
		}
	}
	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}

// Write implements io.Writer.
func (c *Conn) Write(p []byte) (int, error) {
	token := c.client.Publish(c.pubTopic, 0, false, p)
	token.Wait()
	if err := token.Error(); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close implements io.Closer.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		c.client.Disconnect(250)
	})
	return nil
}
