package trigger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/akolanti/JobMatch/internal/domain/matchModel"
	"github.com/akolanti/JobMatch/internal/worker"
	"github.com/akolanti/JobMatch/pkg/logger_i"
	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// TaskSubmitter queues ingestion work; *worker.Pool satisfies it.
type TaskSubmitter interface {
	Submit(ctx context.Context, task worker.Task) error
}

type ConsumerConfig struct {
	URL      string
	Queue    string
	Prefetch int
}

// Consumer reads object events from a durable AMQP queue. A delivery is
// acked once every object it names reaches Persisted or Skipped and is
// rejected without requeue otherwise, leaving retries to the broker's
// dead-letter policy.
type Consumer struct {
	cfg    ConsumerConfig
	pool   TaskSubmitter
	logger *logger_i.Logger
	wg     sync.WaitGroup
}

func NewConsumer(cfg ConsumerConfig, pool TaskSubmitter) *Consumer {
	return &Consumer{
		cfg:    cfg,
		pool:   pool,
		logger: logger_i.NewLogger("AMQPConsumer"),
	}
}

// Run connects and consumes until ctx is cancelled or the broker closes the
// channel. Deliveries still in the pool when Run returns are redelivered by
// the broker.
func (c *Consumer) Run(ctx context.Context) error {
	conn, err := amqp.Dial(c.cfg.URL)
	if err != nil {
		return fmt.Errorf("error dialling rabbitmq: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("error connecting to rabbitmq channel: %w", err)
	}
	defer ch.Close()

	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		return fmt.Errorf("setting prefetch: %w", err)
	}

	_, err = ch.QueueDeclare(
		c.cfg.Queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", c.cfg.Queue, err)
	}

	msgs, err := ch.Consume(
		c.cfg.Queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("error consuming rabbitmq messages: %w", err)
	}
	c.logger.Info("Consuming object events", "queue", c.cfg.Queue)

	return c.Consume(ctx, msgs)
}

// Consume handles deliveries from msgs until ctx ends or msgs is closed, then
// waits for the deliveries it already queued to settle.
func (c *Consumer) Consume(ctx context.Context, msgs <-chan amqp.Delivery) error {
	defer c.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("amqp delivery channel closed")
			}
			c.handleDelivery(ctx, msg)
		}
	}
}

func (c *Consumer) handleDelivery(ctx context.Context, msg amqp.Delivery) {
	traceId := msg.MessageId
	if traceId == "" {
		traceId = uuid.New().String()
	}
	log := c.logger.With("traceId", traceId, "deliveryTag", msg.DeliveryTag)

	refs, err := ParseS3Event(msg.Body)
	if err != nil {
		log.Error("Dropping undecodable delivery", "error", err)
		c.settle(log, msg, false, false)
		return
	}
	if len(refs) == 0 {
		log.Debug("Delivery names no created objects")
		c.settle(log, msg, true, false)
		return
	}

	tracker := &deliveryTracker{remaining: int32(len(refs))}
	c.wg.Add(1)
	tracker.onSettled = func(ok, requeue bool) {
		defer c.wg.Done()
		c.settle(log, msg, ok, requeue)
	}

	for i, ref := range refs {
		task := worker.Task{
			Ref:     ref,
			TraceId: traceId,
			Done: func(outcome matchModel.Outcome, err error) {
				tracker.record(err == nil && outcome.State.Terminal() && outcome.State != matchModel.StateFailed)
			},
		}
		if err := c.pool.Submit(ctx, task); err != nil {
			log.Warn("Could not queue object", "key", ref.Key, "error", err)
			// never processed, so hand it back to the broker
			tracker.requeue.Store(true)
			for range refs[i:] {
				tracker.record(false)
			}
			return
		}
	}
}

func (c *Consumer) settle(log *logger_i.Logger, msg amqp.Delivery, ok, requeue bool) {
	var err error
	if ok {
		err = msg.Ack(false)
	} else {
		err = msg.Nack(false, requeue)
	}
	if err != nil {
		log.Error("Failed to settle delivery", "ack", ok, "requeue", requeue, "error", err)
	}
}

// deliveryTracker settles a delivery after its last object reports.
type deliveryTracker struct {
	remaining int32
	failed    atomic.Bool
	requeue   atomic.Bool
	onSettled func(ok, requeue bool)
}

func (t *deliveryTracker) record(ok bool) {
	if !ok {
		t.failed.Store(true)
	}
	if atomic.AddInt32(&t.remaining, -1) == 0 {
		t.onSettled(!t.failed.Load(), t.requeue.Load())
	}
}
