package repository

import (
	"context"
	"time"

	"github.com/gaadilink/backend/internal/models"
	"github.com/jmoiron/sqlx"
)

type PushTokenRepository interface {
	Save(ctx context.Context, userID, token string) error
	Delete(ctx context.Context, userID string) error
	GetByUserIDs(ctx context.Context, userIDs []string) ([]*models.PushToken, error)
}

type pushTokenRepository struct {
	db *sqlx.DB
}

func NewPushTokenRepository(db *sqlx.DB) PushTokenRepository {
	return &pushTokenRepository{db: db}
}

func (r *pushTokenRepository) Save(ctx context.Context, userID, token string) error {
	query := `
		INSERT INTO push_notification_tokens (user_id, token, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET token = EXCLUDED.token, updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query, userID, token, time.Now())
	return err
}

func (r *pushTokenRepository) Delete(ctx context.Context, userID string) error {
	query := `DELETE FROM push_notification_tokens WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

func (r *pushTokenRepository) GetByUserIDs(ctx context.Context, userIDs []string) ([]*models.PushToken, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM push_notification_tokens WHERE user_id IN (?)`, userIDs)
	if err != nil {
		return nil, err
	}

	var tokens []*models.PushToken
	if err := r.db.SelectContext(ctx, &tokens, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return tokens, nil
}
