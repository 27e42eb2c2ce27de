package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gaadilink/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// RequirementUpdate carries a partial update; only non-nil fields are written.
type RequirementUpdate struct {
	FromCity     *string
	ToCity       *string
	PickupDate   *time.Time
	PickupTime   *string
	CarType      *string
	TripType     *string
	Budget       *float64
	OnlyVerified *bool
	Comment      *string
}

type RequirementRepository interface {
	Create(ctx context.Context, req *models.Requirement) error
	GetByID(ctx context.Context, id string) (*models.Requirement, error)
	// Confirm moves CREATED -> CONFIRMED as a single conditional update.
	// Returns false when no open row matched (missing, deleted, or already
	// transitioned by a concurrent caller).
	Confirm(ctx context.Context, id string) (bool, error)
	// Assign moves CREATED -> ASSIGNED and sets the assignee in one statement.
	Assign(ctx context.Context, id, assigneeID string) (bool, error)
	// UpdateOpen applies a partial edit, guarded on status = CREATED.
	UpdateOpen(ctx context.Context, id string, upd *RequirementUpdate) (bool, error)
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, f *RequirementFilter, orderBy string, page, limit int) ([]*models.Requirement, int, error)
	ListAll(ctx context.Context, f *RequirementFilter, orderBy string) ([]*models.Requirement, error)
}

type requirementRepository struct {
	db *sqlx.DB
}

func NewRequirementRepository(db *sqlx.DB) RequirementRepository {
	return &requirementRepository{db: db}
}

func (r *requirementRepository) Create(ctx context.Context, req *models.Requirement) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	req.CreatedAt = time.Now()
	req.UpdatedAt = time.Now()

	query := `
		INSERT INTO requirements (id, posted_by_id, assigned_to_id, from_city, to_city,
			pickup_date, pickup_time, car_type, trip_type, budget, only_verified, comment,
			status, is_deleted, is_return_trip, return_trip_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err := r.db.ExecContext(ctx, query,
		req.ID, req.PostedByID, req.AssignedToID, req.FromCity, req.ToCity,
		req.PickupDate, req.PickupTime, req.CarType, req.TripType, req.Budget, req.OnlyVerified, req.Comment,
		req.Status, req.IsDeleted, req.IsReturnTrip, req.ReturnTripID, req.CreatedAt, req.UpdatedAt)
	return err
}

func (r *requirementRepository) GetByID(ctx context.Context, id string) (*models.Requirement, error) {
	var req models.Requirement
	query := `SELECT * FROM requirements WHERE id = $1`
	err := r.db.GetContext(ctx, &req, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &req, err
}

func (r *requirementRepository) Confirm(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE requirements
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4 AND is_deleted = false
	`
	res, err := r.db.ExecContext(ctx, query, models.StatusConfirmed, time.Now(), id, models.StatusCreated)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *requirementRepository) Assign(ctx context.Context, id, assigneeID string) (bool, error) {
	query := `
		UPDATE requirements
		SET assigned_to_id = $1, status = $2, updated_at = $3
		WHERE id = $4 AND status = $5 AND is_deleted = false
	`
	res, err := r.db.ExecContext(ctx, query, assigneeID, models.StatusAssigned, time.Now(), id, models.StatusCreated)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *requirementRepository) UpdateOpen(ctx context.Context, id string, upd *RequirementUpdate) (bool, error) {
	sets := make([]string, 0, 10)
	args := make([]interface{}, 0, 12)
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.FromCity != nil {
		add("from_city", *upd.FromCity)
	}
	if upd.ToCity != nil {
		add("to_city", *upd.ToCity)
	}
	if upd.PickupDate != nil {
		add("pickup_date", *upd.PickupDate)
	}
	if upd.PickupTime != nil {
		add("pickup_time", *upd.PickupTime)
	}
	if upd.CarType != nil {
		add("car_type", *upd.CarType)
	}
	if upd.TripType != nil {
		add("trip_type", *upd.TripType)
	}
	if upd.Budget != nil {
		add("budget", *upd.Budget)
	}
	if upd.OnlyVerified != nil {
		add("only_verified", *upd.OnlyVerified)
	}
	if upd.Comment != nil {
		add("comment", *upd.Comment)
	}
	if len(sets) == 0 {
		return true, nil
	}
	add("updated_at", time.Now())

	args = append(args, id, models.StatusCreated)
	query := fmt.Sprintf(`
		UPDATE requirements
		SET %s
		WHERE id = $%d AND status = $%d AND is_deleted = false
	`, strings.Join(sets, ", "), len(args)-1, len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// SoftDelete is idempotent: deleting an already-deleted row is a no-op write.
func (r *requirementRepository) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE requirements SET is_deleted = true, updated_at = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

func (r *requirementRepository) List(ctx context.Context, f *RequirementFilter, orderBy string, page, limit int) ([]*models.Requirement, int, error) {
	where, args := f.Build()

	total, err := r.count(ctx, where, args)
	if err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf("SELECT * FROM requirements %s ORDER BY %s LIMIT ? OFFSET ?", where, orderBy)
	queryArgs := append(append([]interface{}{}, args...), limit, offset)

	expanded, expandedArgs, err := sqlx.In(query, queryArgs...)
	if err != nil {
		return nil, 0, err
	}

	var items []*models.Requirement
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(expanded), expandedArgs...); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *requirementRepository) ListAll(ctx context.Context, f *RequirementFilter, orderBy string) ([]*models.Requirement, error) {
	where, args := f.Build()
	query := fmt.Sprintf("SELECT * FROM requirements %s ORDER BY %s", where, orderBy)

	expanded, expandedArgs, err := sqlx.In(query, args...)
	if err != nil {
		return nil, err
	}

	var items []*models.Requirement
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(expanded), expandedArgs...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *requirementRepository) count(ctx context.Context, where string, args []interface{}) (int, error) {
	query := "SELECT COUNT(*) FROM requirements " + where
	expanded, expandedArgs, err := sqlx.In(query, args...)
	if err != nil {
		return 0, err
	}

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(expanded), expandedArgs...); err != nil {
		return 0, err
	}
	return total, nil
}
