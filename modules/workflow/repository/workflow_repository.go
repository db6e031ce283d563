package repository

import (
	"context"
	"database/sql"
	"errors"

	"bookly-api/core/database"
	"bookly-api/modules/workflow/entity"

	"github.com/google/uuid"
)

const workflowColumns = `id, host_id, name, trigger, actions, is_active, created_at, updated_at`

type WorkflowRepositoryInterface interface {
	Create(ctx context.Context, wf *entity.Workflow) (*entity.Workflow, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Workflow, error)
	ListByHost(ctx context.Context, hostID uuid.UUID) ([]entity.Workflow, error)
	ListActiveByTrigger(ctx context.Context, hostID uuid.UUID, trigger string) ([]entity.Workflow, error)
	Update(ctx context.Context, wf *entity.Workflow) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type WorkflowRepository struct {
	DB database.Database
}

func NewWorkflowRepository(db database.Database) *WorkflowRepository {
	return &WorkflowRepository{DB: db}
}

func (r *WorkflowRepository) Create(ctx context.Context, wf *entity.Workflow) (*entity.Workflow, error) {
	query := `
		INSERT INTO workflows (id, host_id, name, trigger, actions, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at`
	err := r.DB.GetContext(ctx, &wf.BaseEntity, query,
		wf.ID, wf.HostID, wf.Name, wf.Trigger, wf.Actions, wf.IsActive)
	if err != nil {
		return nil, err
	}
	return wf, nil
}

func (r *WorkflowRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Workflow, error) {
	var wf entity.Workflow
	query := `SELECT ` + workflowColumns + ` FROM workflows WHERE id = $1`
	err := r.DB.GetContext(ctx, &wf, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &wf, nil
}

func (r *WorkflowRepository) ListByHost(ctx context.Context, hostID uuid.UUID) ([]entity.Workflow, error) {
	var workflows []entity.Workflow
	query := `SELECT ` + workflowColumns + ` FROM workflows WHERE host_id = $1 ORDER BY created_at ASC`
	err := r.DB.SelectContext(ctx, &workflows, query, hostID)
	if err != nil {
		return nil, err
	}
	return workflows, nil
}

func (r *WorkflowRepository) ListActiveByTrigger(ctx context.Context, hostID uuid.UUID, trigger string) ([]entity.Workflow, error) {
	var workflows []entity.Workflow
	query := `SELECT ` + workflowColumns + ` FROM workflows WHERE host_id = $1 AND trigger = $2 AND is_active = TRUE`
	err := r.DB.SelectContext(ctx, &workflows, query, hostID, trigger)
	if err != nil {
		return nil, err
	}
	return workflows, nil
}

func (r *WorkflowRepository) Update(ctx context.Context, wf *entity.Workflow) error {
	query := `
		UPDATE workflows
		SET name = $2, trigger = $3, actions = $4, is_active = $5, updated_at = NOW()
		WHERE id = $1`
	return r.DB.ExecContext(ctx, query, wf.ID, wf.Name, wf.Trigger, wf.Actions, wf.IsActive)
}

func (r *WorkflowRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB.ExecContext(ctx, `DELETE FROM workflows WHERE id = $1`, id)
}
