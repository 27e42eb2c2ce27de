package repository

import (
	"strings"
	"time"
)

// Sort orders used by the requirement queries.
const (
	OrderInbox       = "status ASC, created_at DESC"
	OrderNewestFirst = "created_at DESC"
)

// RequirementFilter is built up incrementally by the service layer and
// compiled to a WHERE clause here. Slice predicates use the `?` bindvar form
// and are expanded with sqlx.In before rebinding for Postgres.
type RequirementFilter struct {
	IncludeDeleted      bool
	Statuses            []string
	ExcludePosterID     string
	InvolvedUserID      string
	CarTypes            []string
	CityNames           []string
	IsReturnTrip        *bool
	ExcludeOnlyVerified bool
	PickupDateFrom      *time.Time
	PickupDateTo        *time.Time
	CreatedFrom         *time.Time
	CreatedTo           *time.Time
}

// NormalizeCity folds a free-text city name for matching. City names are not
// normalized foreign keys, so comparisons trim and case-fold both sides.
func NormalizeCity(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func NormalizeCities(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if c := NormalizeCity(n); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Build compiles the filter into a WHERE clause and its arguments.
func (f *RequirementFilter) Build() (string, []interface{}) {
	conds := make([]string, 0, 8)
	args := make([]interface{}, 0, 8)

	if !f.IncludeDeleted {
		conds = append(conds, "is_deleted = false")
	}
	if len(f.Statuses) > 0 {
		conds = append(conds, "status IN (?)")
		args = append(args, f.Statuses)
	}
	if f.ExcludePosterID != "" {
		conds = append(conds, "posted_by_id <> ?")
		args = append(args, f.ExcludePosterID)
	}
	if f.InvolvedUserID != "" {
		conds = append(conds, "(posted_by_id = ? OR assigned_to_id = ?)")
		args = append(args, f.InvolvedUserID, f.InvolvedUserID)
	}
	if len(f.CarTypes) > 0 {
		conds = append(conds, "car_type IN (?)")
		args = append(args, f.CarTypes)
	}
	if len(f.CityNames) > 0 {
		norm := NormalizeCities(f.CityNames)
		conds = append(conds, "(lower(trim(from_city)) IN (?) OR lower(trim(to_city)) IN (?))")
		args = append(args, norm, norm)
	}
	if f.IsReturnTrip != nil {
		conds = append(conds, "is_return_trip = ?")
		args = append(args, *f.IsReturnTrip)
	}
	if f.ExcludeOnlyVerified {
		conds = append(conds, "only_verified = false")
	}
	if f.PickupDateFrom != nil {
		conds = append(conds, "pickup_date >= ?")
		args = append(args, *f.PickupDateFrom)
	}
	if f.PickupDateTo != nil {
		conds = append(conds, "pickup_date <= ?")
		args = append(args, *f.PickupDateTo)
	}
	if f.CreatedFrom != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		conds = append(conds, "created_at <= ?")
		args = append(args, *f.CreatedTo)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}
