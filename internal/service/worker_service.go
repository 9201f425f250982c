package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rotaworks/rota-api/internal/models"
	appErrors "github.com/rotaworks/rota-api/pkg/errors"
)

type workerRepository interface {
	List(ctx context.Context) ([]models.Worker, error)
	FindByID(ctx context.Context, id int64) (*models.Worker, error)
	Create(ctx context.Context, worker *models.Worker) error
	Update(ctx context.Context, worker *models.Worker) error
	Delete(ctx context.Context, id int64) error
}

type workerCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

const workersListCacheKey = "workers:list"

// CreateWorkerRequest represents payload for creating workers.
type CreateWorkerRequest struct {
	Name         string                     `json:"name" validate:"required"`
	Roles        []string                   `json:"roles"`
	Availability []models.AvailabilityEntry `json:"availability"`
}

// UpdateWorkerRequest represents payload for updating workers; absent
// fields keep their stored values.
type UpdateWorkerRequest struct {
	Name         *string                     `json:"name"`
	Roles        *[]string                   `json:"roles"`
	Availability *[]models.AvailabilityEntry `json:"availability"`
}

// WorkerService orchestrates worker operations.
type WorkerService struct {
	repo      workerRepository
	cache     workerCache
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewWorkerService constructs a WorkerService.
func NewWorkerService(repo workerRepository, cache workerCache, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *WorkerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkerService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns all workers, served from cache when possible.
func (s *WorkerService) List(ctx context.Context) ([]models.Worker, error) {
	if s.cache != nil {
		var cached []models.Worker
		if err := s.cache.Get(ctx, workersListCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	workers, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list workers")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, workersListCacheKey, workers, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache worker list", zap.Error(err))
		}
	}
	return workers, nil
}

// Create registers a new worker record.
func (s *WorkerService) Create(ctx context.Context, req CreateWorkerRequest) (*models.Worker, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid worker payload")
	}

	availability, err := normalizeAvailability(req.Availability)
	if err != nil {
		return nil, err
	}

	worker := &models.Worker{
		Name:         strings.TrimSpace(req.Name),
		Roles:        models.RoleList(req.Roles),
		Availability: availability,
	}
	if worker.Roles == nil {
		worker.Roles = models.RoleList{}
	}

	if err := s.repo.Create(ctx, worker); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create worker")
	}
	s.invalidate(ctx)
	return worker, nil
}

// Update modifies an existing worker.
func (s *WorkerService) Update(ctx context.Context, id int64, req UpdateWorkerRequest) (*models.Worker, error) {
	worker, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no worker found with ID %d", id))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load worker")
	}

	if req.Name != nil {
		worker.Name = strings.TrimSpace(*req.Name)
	}
	if req.Roles != nil {
		worker.Roles = models.RoleList(*req.Roles)
	}
	if req.Availability != nil {
		availability, err := normalizeAvailability(*req.Availability)
		if err != nil {
			return nil, err
		}
		worker.Availability = availability
	}

	if err := s.repo.Update(ctx, worker); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update worker")
	}
	s.invalidate(ctx)
	return worker, nil
}

// Delete removes a worker.
func (s *WorkerService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("worker with ID %d not found", id))
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load worker")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete worker")
	}
	s.invalidate(ctx)
	return nil
}

func (s *WorkerService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, workersCachePattern); err != nil {
		s.logger.Warn("failed to invalidate worker cache", zap.Error(err))
	}
}

// normalizeAvailability re-renders client-supplied timestamps as RFC3339 so
// stored entries always parse back during reconciliation.
func normalizeAvailability(entries []models.AvailabilityEntry) (models.AvailabilityList, error) {
	normalized := make(models.AvailabilityList, 0, len(entries))
	for _, entry := range entries {
		start, err := parseFlexibleTimestamp(entry.Start)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability start")
		}
		end, err := parseFlexibleTimestamp(entry.End)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability end")
		}
		normalized = append(normalized, models.AvailabilityEntry{
			Start: start.Format(time.RFC3339),
			End:   end.Format(time.RFC3339),
			Late:  entry.Late,
		})
	}
	return normalized, nil
}

func parseFlexibleTimestamp(raw string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", raw)
}
