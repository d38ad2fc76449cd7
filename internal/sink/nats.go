package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/nats-io/nats.go"

	"github.com/signalnine/rabinstat/internal/config"
)

// NATS publishes the whole payload as JSON to one subject.
type NATS struct {
	nc      *nats.Conn
	subject string
}

func NewNATS(cfg config.NATS) (*NATS, error) {
	nc, err := nats.Connect(cfg.URL, nats.Name("rabinstat"))
	if err != nil {
		return nil, fmt.Errorf("connecting to nats %s: %w", cfg.URL, err)
	}
	log.Printf("connected to nats at %s", cfg.URL)
	return &NATS{nc: nc, subject: cfg.Subject}, nil
}

func (s *NATS) Name() string { return "nats" }

func newMessage(subject string, p *Payload) (*nats.Msg, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}
	msg := nats.NewMsg(subject)
	msg.Data = data
	msg.Header.Set("Content-Type", "application/json")
	// lets JetStream streams drop duplicate exports of a run
	msg.Header.Set(nats.MsgIdHdr, p.RunID)
	return msg, nil
}

func (s *NATS) Write(ctx context.Context, p *Payload) error {
	msg, err := newMessage(s.subject, p)
	if err != nil {
		return err
	}
	if err := s.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("publishing to %s: %w", s.subject, err)
	}
	return s.nc.FlushWithContext(ctx)
}

func (s *NATS) Close() error {
	return s.nc.Drain()
}
