package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/canyon-lake-dashboard/internal/config"
	"github.com/couchcryptid/canyon-lake-dashboard/internal/domain"
	"github.com/couchcryptid/canyon-lake-dashboard/internal/observability"
)

// messageWriter is the slice of kafkago.Writer the publisher needs;
// tests substitute a stub.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// eventBufferSize bounds the in-flight queue between request handlers and
// the publish loop. When it fills, new events are dropped and counted;
// visit events are best-effort by contract.
const eventBufferSize = 1024

// Publisher streams classified visit events to a Kafka topic for the org's
// downstream analytics pipeline. Handlers enqueue without blocking; a
// background loop batches and writes.
type Publisher struct {
	writer        messageWriter
	topic         string
	events        chan domain.HitRecord
	batchSize     int
	flushInterval time.Duration
	logger        *slog.Logger
	metrics       *observability.Metrics
}

// NewPublisher creates a Kafka producer for the configured visits topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Publisher {
	w := &kafkago.Writer{
		Addr:     kafkago.TCP(cfg.KafkaBrokers...),
		Topic:    cfg.KafkaVisitsTopic,
		Balancer: &kafkago.LeastBytes{},
		// Visit events are lossy by design; one ack is plenty.
		RequiredAcks: kafkago.RequireOne,
	}
	return &Publisher{
		writer:        w,
		topic:         cfg.KafkaVisitsTopic,
		events:        make(chan domain.HitRecord, eventBufferSize),
		batchSize:     cfg.PublishBatchSize,
		flushInterval: cfg.PublishFlushInterval,
		logger:        logger,
		metrics:       metrics,
	}
}

// Enqueue implements hitlog.VisitSink. It never blocks: a full buffer drops
// the event and bumps a counter instead of stalling the request path.
func (p *Publisher) Enqueue(rec domain.HitRecord) {
	select {
	case p.events <- rec:
	default:
		p.metrics.VisitEventsDropped.Inc()
	}
}

// Run executes the batch publish loop until the context is cancelled,
// flushing on batch size or the flush interval, whichever comes first.
// A final drain flush runs on shutdown so queued events are not abandoned.
func (p *Publisher) Run(ctx context.Context) error {
	p.logger.Info("visit publisher started",
		"topic", p.topic, "batch_size", p.batchSize, "flush_interval", p.flushInterval)

	ticker := time.NewTicker(p.flushInterval)
	defer ticker.Stop()

	batch := make([]kafkago.Message, 0, p.batchSize)

	for {
		select {
		case <-ctx.Done():
			p.drain(&batch)
			p.flush(context.Background(), &batch)
			p.logger.Info("visit publisher stopping", "reason", ctx.Err())
			return nil

		case rec := <-p.events:
			msg, err := serializeVisit(rec)
			if err != nil {
				p.logger.Warn("serialize visit event failed", "error", err, "route", rec.Route)
				continue
			}
			batch = append(batch, msg)
			if len(batch) >= p.batchSize {
				p.flush(ctx, &batch)
			}

		case <-ticker.C:
			p.flush(ctx, &batch)
		}
	}
}

// Close releases the underlying Kafka writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// drain moves whatever is still queued into the batch without blocking.
func (p *Publisher) drain(batch *[]kafkago.Message) {
	for {
		select {
		case rec := <-p.events:
			msg, err := serializeVisit(rec)
			if err != nil {
				continue
			}
			*batch = append(*batch, msg)
		default:
			return
		}
	}
}

// flush writes the batch in one WriteMessages call. Failures are logged and
// counted, the batch is dropped either way: no retries, per the best-effort
// contract shared with hit log persistence.
func (p *Publisher) flush(ctx context.Context, batch *[]kafkago.Message) {
	if len(*batch) == 0 {
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, *batch...); err != nil {
		p.logger.Error("publish visit events failed", "error", err, "batch_size", len(*batch))
		p.metrics.PublishErrors.Inc()
	} else {
		p.metrics.VisitEventsPublished.Add(float64(len(*batch)))
	}
	*batch = (*batch)[:0]
}

// serializeVisit marshals a hit record into a Kafka message, keyed by
// visitor IP so one visitor's events stay ordered within a partition.
func serializeVisit(rec domain.HitRecord) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize visit event: %w", err)
	}
	headers := []kafkago.Header{
		{Key: "is_bot", Value: []byte(strconv.FormatBool(rec.IsBot))},
	}
	if rec.Category != "" {
		headers = append(headers, kafkago.Header{Key: "category", Value: []byte(rec.Category)})
	}
	return kafkago.Message{
		Key:     []byte(rec.IP),
		Value:   data,
		Headers: headers,
	}, nil
}
