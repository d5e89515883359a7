package event

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tamarind/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OutboxService is the operator view of the ledger outbox. Every receipt,
// supplier payment, sale and purchase write queues its events (ReceiptCreated,
// SupplierPaymentRecorded, CustomerBalanceChanged and so on) in the same
// transaction as the ledger rows; the relay delivers them afterwards. Entries
// whose handlers kept failing end up DEAD and wait here for a replay.
type OutboxService struct {
	repo   shared.OutboxRepository
	logger *zap.Logger
}

const (
	defaultDeadPageSize = 20
	maxDeadPageSize     = 100
)

func NewOutboxService(
	repo shared.OutboxRepository,
	logger *zap.Logger,
) *OutboxService {
	return &OutboxService{
		repo:   repo,
		logger: logger,
	}
}

// OutboxEntryDTO is one queued ledger event. AggregateType is the ledger
// record that raised it (Customer, Supplier, CustomerReceipt, Sale...).
type OutboxEntryDTO struct {
	ID            uuid.UUID  `json:"id"`
	EventID       uuid.UUID  `json:"event_id"`
	EventType     string     `json:"event_type"`
	AggregateID   uuid.UUID  `json:"aggregate_id"`
	AggregateType string     `json:"aggregate_type"`
	Status        string     `json:"status"`
	RetryCount    int        `json:"retry_count"`
	MaxRetries    int        `json:"max_retries"`
	LastError     string     `json:"last_error,omitempty"`
	NextRetryAt   *time.Time `json:"next_retry_at,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type OutboxFilter struct {
	Page     int `form:"page,omitempty" binding:"omitempty,min=1"`
	PageSize int `form:"page_size,omitempty" binding:"omitempty,min=1,max=100"`
}

type OutboxListResult struct {
	Entries    []OutboxEntryDTO `json:"entries"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// OutboxStatsDTO counts entries per relay status
type OutboxStatsDTO struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Sent       int64 `json:"sent"`
	Failed     int64 `json:"failed"`
	Dead       int64 `json:"dead"`
	Total      int64 `json:"total"`
}

// GetDeadLetterEntries lists ledger events the relay gave up on
func (s *OutboxService) GetDeadLetterEntries(ctx context.Context, filter OutboxFilter) (*OutboxListResult, error) {
	page, pageSize := deadPage(filter)

	entries, total, err := s.repo.FindDead(ctx, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to find dead letter entries", zap.Error(err))
		return nil, internalError("Failed to retrieve dead letter entries")
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	entryDTOs := make([]OutboxEntryDTO, len(entries))
	for i, entry := range entries {
		entryDTOs[i] = toOutboxEntryDTO(entry)
	}

	return &OutboxListResult{
		Entries:    entryDTOs,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *OutboxService) GetEntry(ctx context.Context, id uuid.UUID) (*OutboxEntryDTO, error) {
	entry, err := s.loadEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toOutboxEntryDTO(entry)
	return &dto, nil
}

// RetryDeadEntry puts one dead ledger event back in the relay queue with a
// fresh retry budget. Only DEAD entries can be replayed.
func (s *OutboxService) RetryDeadEntry(ctx context.Context, id uuid.UUID) (*OutboxEntryDTO, error) {
	entry, err := s.loadEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := entry.ResetForRetry(); err != nil {
		return nil, shared.NewDomainError(shared.CodeInvalidState, err.Error())
	}

	if err := s.repo.Update(ctx, entry); err != nil {
		s.logger.Error("Failed to update outbox entry", zap.Error(err), zap.String("id", id.String()))
		return nil, internalError("Failed to retry entry")
	}

	s.logger.Info("Dead letter entry reset for retry",
		zap.String("id", id.String()),
		zap.String("event_type", entry.EventType),
		zap.String("aggregate_type", entry.AggregateType),
		zap.String("aggregate_id", entry.AggregateID.String()),
	)

	dto := toOutboxEntryDTO(entry)
	return &dto, nil
}

// RetryAllDeadEntries replays every dead ledger event and returns how many
// were requeued. The dead set is read in full before any entry is reset, since
// resetting shrinks it and would shift later pages.
func (s *OutboxService) RetryAllDeadEntries(ctx context.Context) (int64, error) {
	var dead []*shared.OutboxEntry
	seen := make(map[uuid.UUID]struct{})
	for page := 1; ; page++ {
		entries, _, err := s.repo.FindDead(ctx, page, maxDeadPageSize)
		if err != nil {
			s.logger.Error("Failed to find dead letter entries", zap.Error(err))
			return 0, internalError("Failed to retrieve dead letter entries")
		}
		for _, entry := range entries {
			if _, dup := seen[entry.ID]; !dup {
				seen[entry.ID] = struct{}{}
				dead = append(dead, entry)
			}
		}
		if len(entries) < maxDeadPageSize {
			break
		}
	}

	var count int64
	byType := make(map[string]int)
	for _, entry := range dead {
		if err := entry.ResetForRetry(); err != nil {
			continue
		}
		if err := s.repo.Update(ctx, entry); err != nil {
			s.logger.Error("Failed to update outbox entry", zap.Error(err), zap.String("id", entry.ID.String()))
			continue
		}
		byType[entry.EventType]++
		count++
	}

	s.logger.Info("Retried dead letter entries",
		zap.Int64("count", count),
		zap.Any("by_event_type", byType),
	)

	return count, nil
}

// GetStats returns outbox statistics
func (s *OutboxService) GetStats(ctx context.Context) (*OutboxStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("Failed to get outbox stats", zap.Error(err))
		return nil, internalError("Failed to get outbox stats")
	}

	var total int64
	for _, count := range counts {
		total += count
	}

	return &OutboxStatsDTO{
		Pending:    counts[shared.OutboxStatusPending],
		Processing: counts[shared.OutboxStatusProcessing],
		Sent:       counts[shared.OutboxStatusSent],
		Failed:     counts[shared.OutboxStatusFailed],
		Dead:       counts[shared.OutboxStatusDead],
		Total:      total,
	}, nil
}

// Cleanup deletes relayed (SENT) entries older than retention and returns how
// many were removed. Pending, failed and dead entries are never touched.
func (s *OutboxService) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, shared.NewValidationError("Retention must be positive")
	}
	deleted, err := s.repo.DeleteOlderThan(ctx, time.Now().Add(-retention))
	if err != nil {
		s.logger.Error("Failed to clean up outbox", zap.Error(err))
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("Cleaned up sent outbox entries",
			zap.Int64("deleted", deleted),
			zap.Duration("retention", retention),
		)
	}
	return deleted, nil
}

func (s *OutboxService) loadEntry(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to find outbox entry", zap.Error(err), zap.String("id", id.String()))
		return nil, internalError("Failed to retrieve outbox entry")
	}
	if entry == nil {
		return nil, shared.NewNotFoundError("Outbox entry", id)
	}
	return entry, nil
}

func deadPage(filter OutboxFilter) (page, pageSize int) {
	page = max(filter.Page, 1)
	pageSize = filter.PageSize
	if pageSize < 1 {
		pageSize = defaultDeadPageSize
	}
	return page, min(pageSize, maxDeadPageSize)
}

func internalError(message string) error {
	return shared.NewDomainError(shared.CodeInternal, message)
}

func toOutboxEntryDTO(entry *shared.OutboxEntry) OutboxEntryDTO {
	return OutboxEntryDTO{
		ID:            entry.ID,
		EventID:       entry.EventID,
		EventType:     entry.EventType,
		AggregateID:   entry.AggregateID,
		AggregateType: entry.AggregateType,
		Status:        string(entry.Status),
		RetryCount:    entry.RetryCount,
		MaxRetries:    entry.MaxRetries,
		LastError:     entry.LastError,
		NextRetryAt:   entry.NextRetryAt,
		ProcessedAt:   entry.ProcessedAt,
		CreatedAt:     entry.CreatedAt,
		UpdatedAt:     entry.UpdatedAt,
	}
}
