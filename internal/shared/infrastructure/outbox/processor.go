package outbox

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/shared/application"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/eventbus"
	"github.com/Miiduoa/tired-sub002/internal/shared/infrastructure/metrics"
)

// ProcessorConfig tunes the relay loop.
type ProcessorConfig struct {
	PollInterval     time.Duration
	BatchSize        int
	MaxRetries       int
	RetryBackoffBase time.Duration
	RetryBackoffMax  time.Duration
	Retention        time.Duration
}

func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		PollInterval:     time.Second,
		BatchSize:        100,
		MaxRetries:       5,
		RetryBackoffBase: time.Second,
		RetryBackoffMax:  time.Minute,
		Retention:        7 * 24 * time.Hour,
	}
}

// Stats is a snapshot of the processor's counters.
type Stats struct {
	Running         bool
	Published       uint64
	Failed          uint64
	Dead            uint64
	Lag             time.Duration
	LastError       string
	LastProcessedAt time.Time
}

// Processor polls the outbox and publishes due messages.
type Processor struct {
	repo      Repository
	publisher eventbus.Publisher
	uow       application.UnitOfWork
	config    ProcessorConfig
	logger    *slog.Logger
	now       func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	stats  Stats
}

// NewProcessor builds a processor. uow may be nil; when set each batch runs
// in its own transaction.
func NewProcessor(repo Repository, publisher eventbus.Publisher, uow application.UnitOfWork, config ProcessorConfig, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultProcessorConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	return &Processor{
		repo:      repo,
		publisher: publisher,
		uow:       uow,
		config:    config,
		logger:    logger.With("component", "outbox"),
		now:       time.Now,
	}
}

// Start runs the poll loop until Stop is called or ctx ends. Calling Start
// on a running processor does nothing.
func (p *Processor) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.stats.Running = true

	go p.loop(ctx, p.done)
	p.logger.Info("outbox processor started",
		"poll_interval", p.config.PollInterval,
		"batch_size", p.config.BatchSize)
}

// Stop cancels the loop and waits for the current batch to finish.
func (p *Processor) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.stats.Running = false
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	p.logger.Info("outbox processor stopped")
}

func (p *Processor) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.ProcessOnce(ctx); err != nil && ctx.Err() == nil {
				p.logger.Error("outbox batch failed", "error", err)
			}
		}
	}
}

// ProcessOnce relays one batch synchronously.
func (p *Processor) ProcessOnce(ctx context.Context) error {
	if p.uow == nil {
		return p.processBatch(ctx)
	}
	return application.WithUnitOfWork(ctx, p.uow, p.processBatch)
}

func (p *Processor) processBatch(ctx context.Context) error {
	now := p.now()
	msgs, err := p.repo.Pending(ctx, now, p.config.BatchSize)
	if err != nil {
		p.setError(err)
		return err
	}
	p.observeLag(now, msgs)

	for _, msg := range msgs {
		if err := p.publisher.Publish(ctx, msg.RoutingKey, msg.Payload); err != nil {
			p.handleFailure(ctx, msg, err)
			continue
		}
		if err := p.repo.MarkPublished(ctx, msg.ID, p.now()); err != nil {
			p.logger.Error("mark published", "id", msg.ID, "event_id", msg.EventID, "error", err)
			continue
		}
		p.count(func(s *Stats) { s.Published++ })
		metrics.RecordOutbox("published")
	}

	if p.config.Retention > 0 {
		if n, err := p.repo.Purge(ctx, now.Add(-p.config.Retention)); err != nil {
			p.logger.Warn("purge outbox", "error", err)
		} else if n > 0 {
			p.logger.Debug("purged published messages", "count", n)
		}
	}
	return nil
}

func (p *Processor) handleFailure(ctx context.Context, msg *Message, cause error) {
	meta := msg.EventMetadata()
	p.logger.Warn("publish failed",
		"id", msg.ID,
		"routing_key", msg.RoutingKey,
		"event_id", msg.EventID,
		"correlation_id", meta.CorrelationID,
		"user_id", meta.UserID,
		"retry_count", msg.RetryCount,
		"error", cause)
	p.setError(cause)

	if msg.RetryCount+1 >= p.config.MaxRetries {
		if err := p.repo.MarkDead(ctx, msg.ID, cause.Error(), p.now()); err != nil {
			p.logger.Error("mark dead", "id", msg.ID, "error", err)
			return
		}
		p.count(func(s *Stats) { s.Dead++ })
		metrics.RecordOutbox("dead")
		return
	}

	next := p.now().Add(p.backoff(msg.RetryCount + 1))
	if err := p.repo.MarkFailed(ctx, msg.ID, cause.Error(), next); err != nil {
		p.logger.Error("mark failed", "id", msg.ID, "error", err)
		return
	}
	p.count(func(s *Stats) { s.Failed++ })
	metrics.RecordOutbox("failed")
}

// backoff doubles from RetryBackoffBase per attempt, capped at RetryBackoffMax.
func (p *Processor) backoff(attempt int) time.Duration {
	base, ceiling := p.config.RetryBackoffBase, p.config.RetryBackoffMax
	if base <= 0 {
		base = time.Second
	}
	if ceiling <= 0 {
		ceiling = time.Minute
	}
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= ceiling {
			return ceiling
		}
	}
	return min(d, ceiling)
}

func (p *Processor) observeLag(now time.Time, msgs []*Message) {
	var lag time.Duration
	if len(msgs) > 0 {
		lag = now.Sub(msgs[0].CreatedAt)
	}
	metrics.SetOutboxLag(lag)
	p.count(func(s *Stats) {
		s.Lag = lag
		s.LastProcessedAt = now
	})
}

func (p *Processor) setError(err error) {
	p.count(func(s *Stats) { s.LastError = err.Error() })
}

func (p *Processor) count(fn func(*Stats)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.stats)
}

// Stats returns a copy of the current counters.
func (p *Processor) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}
