package trigger

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/aws/aws-lambda-go/events"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/pkg/errors"

	"github.com/unkn0wn-root/seniority"
)

type NATSConfig struct {
	URL     string
	Stream  string // created when missing
	Subject string // "" => <Stream>.events
	Durable string // "" => "seniority"
}

// Consumer processes S3 event notifications published on a JetStream
// subject, one message at a time with explicit acks.
type Consumer struct {
	Processor *Processor
	Logger    seniority.Logger

	conn     *nats.Conn
	consumer jetstream.Consumer
}

// ackMsg is the part of jetstream.Msg the consumer uses.
type ackMsg interface {
	Data() []byte
	Ack() error
	Nak() error
	Term() error
}

// Dial connects and ensures the stream and durable consumer exist.
func Dial(ctx context.Context, cfg NATSConfig, p *Processor, logger seniority.Logger) (*Consumer, error) {
	if cfg.Subject == "" {
		cfg.Subject = cfg.Stream + ".events"
	}
	if cfg.Durable == "" {
		cfg.Durable = "seniority"
	}
	if logger == nil {
		logger = seniority.NopLogger{}
	}

	nc, err := nats.Connect(cfg.URL, nats.Name("seniority"))
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to %s", cfg.URL)
	}
	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, errors.Wrap(err, "creating jetstream context")
	}
	stream, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     cfg.Stream,
		Subjects: []string{cfg.Subject},
	})
	if err != nil {
		nc.Close()
		return nil, errors.Wrapf(err, "creating stream %s", cfg.Stream)
	}
	cons, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:       cfg.Durable,
		AckPolicy:     jetstream.AckExplicitPolicy,
		FilterSubject: cfg.Subject,
	})
	if err != nil {
		nc.Close()
		return nil, errors.Wrapf(err, "creating consumer %s", cfg.Durable)
	}
	return &Consumer{Processor: p, Logger: logger, conn: nc, consumer: cons}, nil
}

// Run consumes until ctx is done.
func (c *Consumer) Run(ctx context.Context) error {
	it, err := c.consumer.Messages()
	if err != nil {
		return errors.Wrap(err, "starting message iterator")
	}
	go func() {
		<-ctx.Done()
		it.Stop()
	}()
	for {
		msg, err := it.Next()
		if err != nil {
			if stderrors.Is(err, jetstream.ErrMsgIteratorClosed) {
				return ctx.Err()
			}
			return errors.Wrap(err, "fetching message")
		}
		c.handle(ctx, msg)
	}
}

func (c *Consumer) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}

// handle acks processed messages, terminates ones that can never succeed
// (bad payload, invalid records, protocol violation, missing object) and
// naks the rest for redelivery.
func (c *Consumer) handle(ctx context.Context, m ackMsg) {
	var ev events.S3Event
	if err := json.Unmarshal(m.Data(), &ev); err != nil {
		c.Logger.Error("dropping undecodable event", seniority.Fields{"err": err})
		_ = m.Term()
		return
	}

	err := c.Processor.HandleS3Event(ctx, ev)
	switch {
	case err == nil:
		if err := m.Ack(); err != nil {
			c.Logger.Warn("ack failed", seniority.Fields{"err": err})
		}
	case permanent(err):
		c.Logger.Error("event failed permanently", seniority.Fields{"err": err})
		_ = m.Term()
	default:
		c.Logger.Warn("event failed; requesting redelivery", seniority.Fields{"err": err})
		_ = m.Nak()
	}
}
