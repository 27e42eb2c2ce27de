package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/gaadilink/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type BusinessCityRepository interface {
	Create(ctx context.Context, bc *models.BusinessCity) error
	Get(ctx context.Context, userID, cityName, state string) (*models.BusinessCity, error)
	SetActive(ctx context.Context, id string, active bool) error
	ActiveCitiesFor(ctx context.Context, userID string) ([]*models.BusinessCity, error)
	// UserIDsInCities is the reverse query feeding notification fan-out:
	// users with an active business city among the given names.
	UserIDsInCities(ctx context.Context, cityNames []string) ([]string, error)
}

type businessCityRepository struct {
	db *sqlx.DB
}

func NewBusinessCityRepository(db *sqlx.DB) BusinessCityRepository {
	return &businessCityRepository{db: db}
}

func (r *businessCityRepository) Create(ctx context.Context, bc *models.BusinessCity) error {
	if bc.ID == "" {
		bc.ID = uuid.New().String()
	}
	bc.IsActive = true
	bc.CreatedAt = time.Now()
	bc.UpdatedAt = time.Now()

	query := `
		INSERT INTO user_business_cities (id, user_id, city_name, state, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		bc.ID, bc.UserID, bc.CityName, bc.State, bc.IsActive, bc.CreatedAt, bc.UpdatedAt)
	return err
}

func (r *businessCityRepository) Get(ctx context.Context, userID, cityName, state string) (*models.BusinessCity, error) {
	var bc models.BusinessCity
	query := `
		SELECT * FROM user_business_cities
		WHERE user_id = $1 AND lower(trim(city_name)) = $2 AND lower(trim(state)) = $3
	`
	err := r.db.GetContext(ctx, &bc, query, userID, NormalizeCity(cityName), NormalizeCity(state))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &bc, err
}

func (r *businessCityRepository) SetActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE user_business_cities SET is_active = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, active, time.Now(), id)
	return err
}

func (r *businessCityRepository) ActiveCitiesFor(ctx context.Context, userID string) ([]*models.BusinessCity, error) {
	var cities []*models.BusinessCity
	query := `
		SELECT * FROM user_business_cities
		WHERE user_id = $1 AND is_active = true
		ORDER BY city_name ASC
	`
	err := r.db.SelectContext(ctx, &cities, query, userID)
	return cities, err
}

func (r *businessCityRepository) UserIDsInCities(ctx context.Context, cityNames []string) ([]string, error) {
	norm := NormalizeCities(cityNames)
	if len(norm) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT DISTINCT user_id FROM user_business_cities
		WHERE is_active = true AND lower(trim(city_name)) IN (?)
	`, norm)
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return ids, nil
}
