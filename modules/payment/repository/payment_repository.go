package repository

import (
	"context"
	"database/sql"
	"errors"

	"bookly-api/core/database"
	"bookly-api/modules/payment/entity"

	"github.com/google/uuid"
)

type PaymentRepositoryInterface interface {
	UpsertConnection(ctx context.Context, conn *entity.PaymentConnection) error
	GetActiveConnection(ctx context.Context, hostID uuid.UUID) (*entity.PaymentConnection, error)
	DeactivateConnection(ctx context.Context, hostID uuid.UUID) error
}

type PaymentRepository struct {
	DB database.Database
}

func NewPaymentRepository(db database.Database) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func (r *PaymentRepository) UpsertConnection(ctx context.Context, conn *entity.PaymentConnection) error {
	query := `
		INSERT INTO payment_connections (host_id, provider, account_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, TRUE, NOW(), NOW())
		ON CONFLICT (host_id) DO UPDATE
		SET provider = EXCLUDED.provider,
		    account_id = EXCLUDED.account_id,
		    is_active = TRUE,
		    updated_at = NOW()`
	return r.DB.ExecContext(ctx, query, conn.HostID, conn.Provider, conn.AccountID)
}

func (r *PaymentRepository) GetActiveConnection(ctx context.Context, hostID uuid.UUID) (*entity.PaymentConnection, error) {
	var conn entity.PaymentConnection
	query := `
		SELECT host_id, provider, account_id, is_active, created_at, updated_at
		FROM payment_connections
		WHERE host_id = $1 AND is_active = TRUE`
	err := r.DB.GetContext(ctx, &conn, query, hostID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &conn, nil
}

func (r *PaymentRepository) DeactivateConnection(ctx context.Context, hostID uuid.UUID) error {
	query := `UPDATE payment_connections SET is_active = FALSE, updated_at = NOW() WHERE host_id = $1`
	return r.DB.ExecContext(ctx, query, hostID)
}
