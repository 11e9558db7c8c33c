package ranking

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/snacktrack/v2/internal/infrastructure/monitoring"
	"github.com/snacktrack/v2/internal/ports/outbound"
	"go.uber.org/zap"
)

// Trainer dispatches fire-and-forget retraining requests to the
// oracle. Requests go through a buffered channel consumed by a single
// worker, so callers never block on the oracle's latency and shutdown
// can drain what was accepted.
type Trainer struct {
	oracle  outbound.PreferenceOracle
	budget  outbound.RateBudget
	metrics *monitoring.Metrics
	logger  *zap.Logger

	requests chan uuid.UUID
	done     chan struct{}
	once     sync.Once

	mu     sync.RWMutex
	closed bool
}

// NewTrainer creates a trainer with the given queue capacity.
func NewTrainer(
	oracle outbound.PreferenceOracle,
	budget outbound.RateBudget,
	metrics *monitoring.Metrics,
	buffer int,
	logger *zap.Logger,
) *Trainer {
	if buffer < 1 {
		buffer = 1
	}
	return &Trainer{
		oracle:   oracle,
		budget:   budget,
		metrics:  metrics,
		logger:   logger.Named("trainer"),
		requests: make(chan uuid.UUID, buffer),
		done:     make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (t *Trainer) Start() {
	go t.run()
}

// Stop closes the queue and waits for the worker to drain it. The
// close happens under the write lock so an in-flight TrainAsync can
// never send on the closed channel.
func (t *Trainer) Stop() {
	t.once.Do(func() {
		t.mu.Lock()
		t.closed = true
		close(t.requests)
		t.mu.Unlock()
	})
	<-t.done
}

// TrainAsync enqueues a retraining request without blocking. When the
// queue is full, or the trainer has already been stopped, the request
// is dropped and logged; training is best-effort and the next accepted
// signal will cover the loss.
func (t *Trainer) TrainAsync(userID uuid.UUID) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.closed {
		t.logger.Warn("Training queue closed, dropping request",
			zap.String("operation", "train"),
			zap.String("user_id", userID.String()))
		return
	}

	select {
	case t.requests <- userID:
	default:
		t.logger.Warn("Training queue full, dropping request",
			zap.String("operation", "train"),
			zap.String("user_id", userID.String()))
	}
}

func (t *Trainer) run() {
	defer close(t.done)

	for userID := range t.requests {
		t.train(userID)
	}
}

// train calls the oracle with a fresh background context: training is
// detached from any request lifecycle and carries no cancellation
// beyond the client's own timeout.
func (t *Trainer) train(userID uuid.UUID) {
	ctx := context.Background()

	if !t.budget.TryConsume(ctx, "train") {
		t.metrics.RateBudgetDenials.Inc()
		t.logger.Warn("Training skipped: rate budget exhausted",
			zap.String("operation", "train"),
			zap.String("user_id", userID.String()))
		return
	}

	if err := t.oracle.Train(ctx, userID); err != nil {
		t.metrics.OracleFailures.WithLabelValues("train").Inc()
		t.logger.Error("Training call failed",
			zap.String("operation", "train"),
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}
}
