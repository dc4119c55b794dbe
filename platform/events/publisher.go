package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	// DefaultQueueSize bounds the change events waiting for the broker.
	DefaultQueueSize = 1024
	maxBatch         = 100
	sendTimeout      = 30 * time.Second
)

var (
	// ErrQueueFull is returned by Publish when the broker cannot keep up.
	ErrQueueFull = errors.New("change feed queue full")
	// ErrPublisherClosed is returned by Publish after Close.
	ErrPublisherClosed = errors.New("change feed publisher closed")
)

// ChangeEvent is the change-feed message emitted for every committed write.
type ChangeEvent struct {
	Collection string    `json:"collection"`
	Action     string    `json:"action"`
	ID         string    `json:"id"`
	At         time.Time `json:"at"`
}

// messageWriter is the part of kafka.Writer the publisher drives.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher emits change events to Kafka. Publish only enqueues; one
// goroutine drains the queue in order, so broker latency never reaches the
// caller.
type Publisher struct {
	writer *kafka.Writer
	sink   messageWriter
	logger *zap.Logger

	mu     sync.Mutex
	closed bool
	queue  chan kafka.Message
	done   chan struct{}
}

// NewPublisher builds a publisher writing to topic on brokers and starts its
// delivery goroutine. Close stops it.
func NewPublisher(brokers []string, topic string, logger *zap.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
		BatchTimeout: 50 * time.Millisecond,
	}
	p := newPublisher(writer, logger, DefaultQueueSize)
	p.writer = writer
	return p
}

func newPublisher(sink messageWriter, logger *zap.Logger, size int) *Publisher {
	p := &Publisher{
		sink:   sink,
		logger: logger.With(zap.String("component", "change_feed")),
		queue:  make(chan kafka.Message, size),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish enqueues e keyed by the record identifier so that changes to one
// record stay ordered within a partition. It never blocks.
func (p *Publisher) Publish(_ context.Context, e ChangeEvent) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(e.Collection + "/" + e.ID),
		Value: value,
		Time:  e.At,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *Publisher) run() {
	defer close(p.done)
	for msg := range p.queue {
		batch := []kafka.Message{msg}
	fill:
		for len(batch) < maxBatch {
			select {
			case next, ok := <-p.queue:
				if !ok {
					break fill
				}
				batch = append(batch, next)
			default:
				break fill
			}
		}
		p.send(batch)
	}
}

func (p *Publisher) send(batch []kafka.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := p.sink.WriteMessages(ctx, batch...); err != nil {
		for _, msg := range batch {
			p.logger.Error("change event delivery failed",
				zap.ByteString("key", msg.Key),
				zap.Error(err),
			)
		}
		return
	}
	p.logger.Debug("change events delivered", zap.Int("count", len(batch)))
}

// Close stops accepting events, delivers what is queued and releases the
// writer. Later calls are no-ops.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
	return p.sink.Close()
}
