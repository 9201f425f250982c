package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/rotaworks/rota-api/internal/models"
)

// WorkerRepository manages persistence for workers. The schema mirrors the
// legacy table: workers(id serial, name text, roles jsonb, availability
// jsonb).
type WorkerRepository struct {
	db *sqlx.DB
}

// NewWorkerRepository constructs a WorkerRepository.
func NewWorkerRepository(db *sqlx.DB) *WorkerRepository {
	return &WorkerRepository{db: db}
}

// List returns all workers ordered by id.
func (r *WorkerRepository) List(ctx context.Context) ([]models.Worker, error) {
	const query = `SELECT id, name, roles, availability FROM workers ORDER BY id`
	var workers []models.Worker
	if err := r.db.SelectContext(ctx, &workers, query); err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	return workers, nil
}

// FindByID fetches a worker by ID.
func (r *WorkerRepository) FindByID(ctx context.Context, id int64) (*models.Worker, error) {
	const query = `SELECT id, name, roles, availability FROM workers WHERE id = $1`
	var worker models.Worker
	if err := r.db.GetContext(ctx, &worker, query, id); err != nil {
		return nil, err
	}
	return &worker, nil
}

// FindByName fetches a worker by exact name. Identity is resolved by exact,
// case-sensitive string match; callers trim the name first.
func (r *WorkerRepository) FindByName(ctx context.Context, name string) (*models.Worker, error) {
	const query = `SELECT id, name, roles, availability FROM workers WHERE name = $1 LIMIT 1`
	var worker models.Worker
	if err := r.db.GetContext(ctx, &worker, query, name); err != nil {
		return nil, err
	}
	return &worker, nil
}

// Create inserts a new worker record and fills in its generated ID.
func (r *WorkerRepository) Create(ctx context.Context, worker *models.Worker) error {
	const query = `INSERT INTO workers (name, roles, availability) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, worker.Name, worker.Roles, worker.Availability).Scan(&worker.ID); err != nil {
		return fmt.Errorf("create worker: %w", err)
	}
	return nil
}

// Update rewrites an existing worker record.
func (r *WorkerRepository) Update(ctx context.Context, worker *models.Worker) error {
	const query = `UPDATE workers SET name = $2, roles = $3, availability = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, worker.ID, worker.Name, worker.Roles, worker.Availability); err != nil {
		return fmt.Errorf("update worker: %w", err)
	}
	return nil
}

// Delete removes a worker record.
func (r *WorkerRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM workers WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete worker: %w", err)
	}
	return nil
}

// ReplaceAvailabilityBatch rewrites the availability lists of the given
// workers in one transaction. This is the single durable commit at the end
// of an upload batch.
func (r *WorkerRepository) ReplaceAvailabilityBatch(ctx context.Context, updates map[int64]models.AvailabilityList) error {
	if len(updates) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(updates))
	for id := range updates {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin availability batch: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `UPDATE workers SET availability = $2 WHERE id = $1`
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, query, id, updates[id]); err != nil {
			return fmt.Errorf("replace availability for worker %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit availability batch: %w", err)
	}
	return nil
}
