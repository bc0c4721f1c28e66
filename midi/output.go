// Package midi opens output ports and turns channel hits into MIDI messages.
package midi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

//go:generate mockgen -destination=mock/mock_output.go -package=mockmidi -source=output.go

// Output receives MIDI messages
type Output interface {
	Send(msg gomidi.Message) error
	Close() error
}

// portTimeout bounds port enumeration; CoreMIDI can hang
const portTimeout = 3 * time.Second

// PortOutput is an opened hardware or virtual output port
type PortOutput struct {
	port drivers.Out
	send func(gomidi.Message) error
}

// OpenOutput opens the first output port whose name matches. An exact match
// wins, otherwise a case-insensitive substring match is used.
func OpenOutput(ctx context.Context, name string) (*PortOutput, error) {
	ports, err := outPorts(ctx)
	if err != nil {
		return nil, err
	}

	port := matchPort(ports, name)
	if port == nil {
		return nil, fault.New(fmt.Sprintf("no output port matching %q", name),
			fmsg.WithDesc("port not found", fmt.Sprintf("MIDI output %q is not connected", name)),
			ftag.With(ftag.NotFound))
	}

	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, fault.Wrap(err,
			fmsg.WithDesc("open port", fmt.Sprintf("could not open MIDI output %q", port.String())))
	}
	return &PortOutput{port: port, send: send}, nil
}

// ListOutPorts returns the names of all output ports
func ListOutPorts(ctx context.Context) ([]string, error) {
	ports, err := outPorts(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(ports))
	for i, p := range ports {
		names[i] = p.String()
	}
	return names, nil
}

func (p *PortOutput) Send(msg gomidi.Message) error {
	if err := p.send(msg); err != nil {
		return fault.Wrap(err, fmsg.With(fmt.Sprintf("send %s to %s", msg, p.port.String())))
	}
	return nil
}

func (p *PortOutput) Close() error {
	return p.port.Close()
}

// Name is the port name as reported by the driver
func (p *PortOutput) Name() string {
	return p.port.String()
}

// NullOutput discards every message. Used when no port is configured.
type NullOutput struct{}

func (NullOutput) Send(gomidi.Message) error { return nil }
func (NullOutput) Close() error              { return nil }

// SendHit writes the hit's messages in order, stopping at the first failure
func SendHit(out Output, h Hit) error {
	for _, msg := range h.Messages() {
		if err := out.Send(msg); err != nil {
			return err
		}
	}
	return nil
}

func outPorts(ctx context.Context) ([]drivers.Out, error) {
	ch := make(chan []drivers.Out, 1)
	go func() {
		ch <- gomidi.GetOutPorts()
	}()

	ctx, cancel := context.WithTimeout(ctx, portTimeout)
	defer cancel()

	select {
	case ports := <-ch:
		return ports, nil
	case <-ctx.Done():
		return nil, fault.Wrap(ctx.Err(),
			fmsg.WithDesc("list output ports", "MIDI driver did not answer"),
			ftag.With("timeout"))
	}
}

func matchPort(ports []drivers.Out, name string) drivers.Out {
	for _, p := range ports {
		if p.String() == name {
			return p
		}
	}
	lower := strings.ToLower(name)
	for _, p := range ports {
		if strings.Contains(strings.ToLower(p.String()), lower) {
			return p
		}
	}
	return nil
}
