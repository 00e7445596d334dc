package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/unpuzzledd/academy-api/internal/models"
)

// AcademyRepository provides persistence for academies.
type AcademyRepository struct {
	db *sqlx.DB
}

// NewAcademyRepository creates a new academy repository.
func NewAcademyRepository(db *sqlx.DB) *AcademyRepository {
	return &AcademyRepository{db: db}
}

const academyColumns = "id, name, owner_id, address, phone, status, created_at, updated_at"

// List returns academies with optional filtering and pagination.
func (r *AcademyRepository) List(ctx context.Context, filter models.AcademyFilter) ([]models.Academy, int, error) {
	base := "FROM academies WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.OwnerID != "" {
		conditions = append(conditions, fmt.Sprintf("owner_id = $%d", len(args)+1))
		args = append(args, filter.OwnerID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{"name": true, "status": true, "created_at": true}
	if !allowedSorts[sortBy] {
		sortBy = "name"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", academyColumns, base, sortBy, order, size, offset)
	var academies []models.Academy
	if err := r.db.SelectContext(ctx, &academies, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list academies: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count academies: %w", err)
	}

	return academies, total, nil
}

// FindByID loads an academy by id.
func (r *AcademyRepository) FindByID(ctx context.Context, id string) (*models.Academy, error) {
	query := fmt.Sprintf("SELECT %s FROM academies WHERE id = $1", academyColumns)
	var academy models.Academy
	if err := r.db.GetContext(ctx, &academy, query, id); err != nil {
		return nil, err
	}
	return &academy, nil
}

// Create stores a new academy record.
func (r *AcademyRepository) Create(ctx context.Context, academy *models.Academy) error {
	if academy.ID == "" {
		academy.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if academy.CreatedAt.IsZero() {
		academy.CreatedAt = now
	}
	academy.UpdatedAt = now

	const query = `INSERT INTO academies (id, name, owner_id, address, phone, status, created_at, updated_at) VALUES (:id, :name, :owner_id, :address, :phone, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, academy); err != nil {
		return fmt.Errorf("create academy: %w", err)
	}
	return nil
}

// Update modifies an academy record.
func (r *AcademyRepository) Update(ctx context.Context, academy *models.Academy) error {
	academy.UpdatedAt = time.Now().UTC()
	const query = `UPDATE academies SET name = :name, address = :address, phone = :phone, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, academy); err != nil {
		return fmt.Errorf("update academy: %w", err)
	}
	return nil
}

// Delete removes an academy by id.
func (r *AcademyRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM academies WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete academy: %w", err)
	}
	return nil
}
