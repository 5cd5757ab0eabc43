package core

import (
	"net"
	"time"

	"github.com/diogofriggo/petri/pkg/petri/types"
)

// Sender delivers active and passive events to fed nodes.
type Sender interface {
	SendActive(destination string, event types.ActiveEvent) error
	SendPassive(destination string, event types.PassiveEvent) error
}

// TCPSender establishes a fresh outbound connection per delivery: simple
// and correct, acceptable for the simulation's message volume.
type TCPSender struct {
	// DialTimeout bounds a single connection attempt.
	DialTimeout time.Duration

	// RetryDelay is the bounded back-off before the single retry on an
	// initial connect failure.
	RetryDelay time.Duration

	log types.Logger
}

// NewTCPSender builds a TCPSender with a 3 second retry back-off.
func NewTCPSender(log types.Logger) *TCPSender {
	return &TCPSender{
		DialTimeout: 5 * time.Second,
		RetryDelay:  3 * time.Second,
		log:         log,
	}
}

func (s *TCPSender) SendActive(destination string, event types.ActiveEvent) error {
	payload, err := event.Encode()
	if err != nil {
		return err
	}
	return s.deliver(destination, payload)
}

func (s *TCPSender) SendPassive(destination string, event types.PassiveEvent) error {
	payload, err := event.Encode()
	if err != nil {
		return err
	}
	return s.deliver(destination, payload)
}

// deliver connects, writes the full payload (retrying partial writes
// until complete or the stream errors) and closes the connection. On
// initial connect failure it waits RetryDelay and retries once; a
// second failure is fatal for this delivery and is surfaced to the
// caller.
func (s *TCPSender) deliver(destination string, payload []byte) error {
	conn, err := net.DialTimeout("tcp", destination, s.DialTimeout)
	if err != nil {
		s.log.Warnf("connect to %s failed, retrying in %s: %v", destination, s.RetryDelay, err)
		time.Sleep(s.RetryDelay)
		conn, err = net.DialTimeout("tcp", destination, s.DialTimeout)
		if err != nil {
			return err
		}
	}
	defer conn.Close()

	for len(payload) > 0 {
		n, werr := conn.Write(payload)
		if werr != nil {
			return werr
		}
		payload = payload[n:]
	}
	return nil
}
