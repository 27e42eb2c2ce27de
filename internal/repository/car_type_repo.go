package repository

import (
	"context"
	"database/sql"

	"github.com/gaadilink/backend/internal/models"
	"github.com/jmoiron/sqlx"
)

type CarTypeRepository interface {
	// Resolve returns the car type when it exists and is active, nil otherwise.
	Resolve(ctx context.Context, id string) (*models.CarType, error)
	List(ctx context.Context) ([]*models.CarType, error)
}

type carTypeRepository struct {
	db *sqlx.DB
}

func NewCarTypeRepository(db *sqlx.DB) CarTypeRepository {
	return &carTypeRepository{db: db}
}

func (r *carTypeRepository) Resolve(ctx context.Context, id string) (*models.CarType, error) {
	var ct models.CarType
	query := `SELECT * FROM car_types WHERE id = $1 AND is_active = true`
	err := r.db.GetContext(ctx, &ct, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &ct, err
}

func (r *carTypeRepository) List(ctx context.Context) ([]*models.CarType, error) {
	var types []*models.CarType
	query := `SELECT * FROM car_types WHERE is_active = true ORDER BY name ASC`
	err := r.db.SelectContext(ctx, &types, query)
	return types, err
}
