package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/rotaworks/rota-api/internal/dto"
	"github.com/rotaworks/rota-api/internal/models"
	"github.com/rotaworks/rota-api/internal/sheet"
	appErrors "github.com/rotaworks/rota-api/pkg/errors"
)

type availabilityWorkerRepository interface {
	FindByName(ctx context.Context, name string) (*models.Worker, error)
	ReplaceAvailabilityBatch(ctx context.Context, updates map[int64]models.AvailabilityList) error
}

type availabilityCache interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// AvailabilityService reconciles extracted spreadsheet entries into each
// worker's stored availability list.
type AvailabilityService struct {
	repo      availabilityWorkerRepository
	cache     availabilityCache
	extractor *sheet.Extractor
	loc       *time.Location
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewAvailabilityService constructs the service. The timezone names the
// fixed reference zone availability timestamps are written in; it is
// independent of any display timezone configured elsewhere.
func NewAvailabilityService(repo availabilityWorkerRepository, cache availabilityCache, extractor *sheet.Extractor, timezone string, metrics *MetricsService, logger *zap.Logger) (*AvailabilityService, error) {
	if timezone == "" {
		timezone = "Europe/London"
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{
		repo:      repo,
		cache:     cache,
		extractor: extractor,
		loc:       loc,
		metrics:   metrics,
		logger:    logger,
	}, nil
}

// Ingest extracts every worksheet of the uploaded workbook and applies the
// results to the worker store with replace-on-date semantics: for each
// (worker, date) the new entry supersedes any stored entry on that date,
// and entries on other dates are left untouched. All mutations are
// committed once at the end of the batch.
func (s *AvailabilityService) Ingest(ctx context.Context, f *excelize.File) (*dto.UploadSummary, error) {
	batchID := uuid.NewString()
	entries := s.extractor.ExtractWorkbook(f)
	s.metrics.ObserveRowsParsed(len(entries))

	outcomes := make([]dto.RowOutcome, 0, len(entries))
	updates := make(map[int64]models.AvailabilityList)
	// Workers are cached per batch so that a later entry for the same worker
	// merges into the already-updated list rather than a stale copy; nil
	// marks a name already known to be absent from the store.
	workers := make(map[string]*models.Worker)
	updated := 0

	for _, entry := range entries {
		outcomes = append(outcomes, dto.RowOutcome{
			Sheet: entry.Sheet,
			Date:  entry.Date.Format("2006-01-02"),
			Name:  entry.Name,
			Time:  entry.Range.String(),
		})

		worker, seen := workers[entry.Name]
		if !seen {
			found, err := s.repo.FindByName(ctx, entry.Name)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					workers[entry.Name] = nil
					s.logger.Warn("worker not found",
						zap.String("batch_id", batchID),
						zap.String("name", entry.Name))
					s.metrics.ObserveRowSkipped("worker_not_found")
					continue
				}
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up worker")
			}
			worker = found
			workers[entry.Name] = worker
		}
		if worker == nil {
			s.metrics.ObserveRowSkipped("worker_not_found")
			continue
		}

		merged, ok := s.mergeEntry(batchID, worker, entry)
		if !ok {
			continue
		}
		worker.Availability = merged
		updates[worker.ID] = merged
		updated++
	}

	if err := s.repo.ReplaceAvailabilityBatch(ctx, updates); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit availability updates")
	}

	if s.cache != nil && len(updates) > 0 {
		if err := s.cache.DeleteByPattern(ctx, workersCachePattern); err != nil {
			s.logger.Warn("failed to invalidate worker cache", zap.String("batch_id", batchID), zap.Error(err))
		}
	}

	for _, outcome := range outcomes {
		s.logger.Info("parsed availability row",
			zap.String("batch_id", batchID),
			zap.String("sheet", outcome.Sheet),
			zap.String("date", outcome.Date),
			zap.String("name", outcome.Name),
			zap.String("time", outcome.Time))
	}
	s.logger.Info("availability upload processed",
		zap.String("batch_id", batchID),
		zap.Int("rows", len(outcomes)),
		zap.Int("updates", updated))
	s.metrics.ObserveUpdatesApplied(updated)

	return &dto.UploadSummary{Updates: updated, Entries: outcomes}, nil
}

// mergeEntry applies replace-on-date: every stored entry dated on the
// worksheet's anchor date is dropped and the new window appended. A stored
// entry whose start cannot be parsed poisons the merge for this row; the
// row is skipped with a warning, as the legacy system did.
func (s *AvailabilityService) mergeEntry(batchID string, worker *models.Worker, entry sheet.Entry) (models.AvailabilityList, bool) {
	start := entry.Range.Start.At(entry.Date, s.loc)
	end := entry.Range.End.At(entry.Date, s.loc)

	kept := make(models.AvailabilityList, 0, len(worker.Availability)+1)
	for _, existing := range worker.Availability {
		existingStart, err := time.Parse(time.RFC3339, existing.Start)
		if err != nil {
			s.logger.Warn("could not save availability: stored entry has malformed start",
				zap.String("batch_id", batchID),
				zap.String("name", worker.Name),
				zap.String("sheet", entry.Sheet),
				zap.String("start", existing.Start),
				zap.Error(err))
			s.metrics.ObserveRowSkipped("malformed_stored_entry")
			return nil, false
		}
		// The stored date is taken from the timestamp's own offset, not
		// re-interpreted in another zone.
		y1, m1, d1 := existingStart.Date()
		y2, m2, d2 := entry.Date.Date()
		if y1 == y2 && m1 == m2 && d1 == d2 {
			continue
		}
		kept = append(kept, existing)
	}

	kept = append(kept, models.AvailabilityEntry{
		Start: start.Format(time.RFC3339),
		End:   end.Format(time.RFC3339),
		Late:  false,
	})
	return kept, true
}

const workersCachePattern = "workers:*"
