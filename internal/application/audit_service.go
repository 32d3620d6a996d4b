package application

import (
	"context"
	"sync"
	"time"

	"shopsight-gateway/internal/domain"
	"shopsight-gateway/internal/ports"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const auditWriteTimeout = 10 * time.Second

// AuditService records question/answer pairs best-effort. Writes run in
// their own goroutines with detached contexts, so a client disconnect never
// cancels a dispatched write and a storage failure never reaches the
// user-facing answer path. Failures feed an internal error channel that is
// drained only into a metric and a warning.
type AuditService struct {
	logs     ports.RequestLogRepository
	failures prometheus.Counter
	logger   zerolog.Logger
	errs     chan error

	// pending maps a correlation id to a channel closed once its insert
	// has committed. The attach write waits on it so a fast answer cannot
	// race past a slow insert.
	mu      sync.Mutex
	pending map[string]chan struct{}
}

// NewAuditService creates the service and starts its error drain.
func NewAuditService(logs ports.RequestLogRepository, failures prometheus.Counter, logger zerolog.Logger) *AuditService {
	s := &AuditService{
		logs:     logs,
		failures: failures,
		logger:   logger,
		errs:     make(chan error, 64),
		pending:  map[string]chan struct{}{},
	}
	go s.drain()
	return s
}

// RecordRequest creates an unanswered log entry and returns its correlation
// id immediately; the insert itself is fire-and-forget.
func (s *AuditService) RecordRequest(store *domain.Store, question, questionContext, ip, userAgent string) string {
	entry := &domain.RequestLog{
		ID:          uuid.NewString(),
		StoreDomain: store.Domain,
		Question:    question,
		Context:     questionContext,
		RequestIP:   ip,
		UserAgent:   userAgent,
		CreatedAt:   time.Now(),
	}

	inserted := make(chan struct{})
	s.mu.Lock()
	s.pending[entry.ID] = inserted
	s.mu.Unlock()

	go func() {
		defer close(inserted)
		ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
		defer cancel()
		if err := s.logs.Insert(ctx, entry); err != nil {
			s.report(err)
		}
	}()

	return entry.ID
}

// RecordResponse attaches a successful answer to the entry created by
// RecordRequest. Failed answers leave the entry unanswered. Every outcome,
// success or failure, must pass through here once so the pending insert
// bookkeeping is released.
func (s *AuditService) RecordResponse(id string, result *domain.AnswerResult) {
	inserted := s.takePending(id)
	if !result.OK {
		return
	}
	at := time.Now()

	go func() {
		if inserted != nil {
			select {
			case <-inserted:
			case <-time.After(auditWriteTimeout):
			}
		}
		ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
		defer cancel()
		if err := s.logs.AttachAnswer(ctx, id, result, at); err != nil {
			s.report(err)
		}
	}()
}

// RecentLogs retrieves a store's newest entries.
func (s *AuditService) RecentLogs(ctx context.Context, store *domain.Store, limit int64) ([]*domain.RequestLog, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.logs.ListRecent(ctx, store.Domain, limit)
}

func (s *AuditService) takePending(id string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	inserted := s.pending[id]
	delete(s.pending, id)
	return inserted
}

// report hands a write failure to the drain without ever blocking the
// answer path. A full channel drops the error; the counter still moves.
func (s *AuditService) report(err error) {
	select {
	case s.errs <- err:
	default:
		s.failures.Inc()
	}
}

func (s *AuditService) drain() {
	for err := range s.errs {
		s.failures.Inc()
		s.logger.Warn().Err(err).Msg("Audit log write failed")
	}
}
