package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/unpuzzledd/academy-api/internal/models"
	appErrors "github.com/unpuzzledd/academy-api/pkg/errors"
)

type academyRepository interface {
	List(ctx context.Context, filter models.AcademyFilter) ([]models.Academy, int, error)
	FindByID(ctx context.Context, id string) (*models.Academy, error)
	Create(ctx context.Context, academy *models.Academy) error
	Update(ctx context.Context, academy *models.Academy) error
	Delete(ctx context.Context, id string) error
}

// CreateAcademyRequest describes payload for creating an academy.
type CreateAcademyRequest struct {
	Name    string `json:"name" validate:"required"`
	OwnerID string `json:"owner_id" validate:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// UpdateAcademyRequest updates an existing academy.
type UpdateAcademyRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Status  string `json:"status" validate:"required,oneof=PENDING ACTIVE INACTIVE"`
}

// AcademyService coordinates academy lifecycle.
type AcademyService struct {
	repo      academyRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAcademyService instantiates AcademyService.
func NewAcademyService(repo academyRepository, validate *validator.Validate, logger *zap.Logger) *AcademyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AcademyService{repo: repo, validator: validate, logger: logger}
}

// List returns academies with pagination metadata.
func (s *AcademyService) List(ctx context.Context, filter models.AcademyFilter) ([]models.Academy, *models.Pagination, error) {
	academies, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list academies")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return academies, pagination, nil
}

// Get returns an academy by id.
func (s *AcademyService) Get(ctx context.Context, id string) (*models.Academy, error) {
	academy, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "academy not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load academy")
	}
	return academy, nil
}

// Create registers a new academy in pending state.
func (s *AcademyService) Create(ctx context.Context, req CreateAcademyRequest) (*models.Academy, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid academy payload")
	}

	academy := &models.Academy{
		Name:    req.Name,
		OwnerID: req.OwnerID,
		Address: req.Address,
		Phone:   req.Phone,
		Status:  models.AcademyStatusPending,
	}
	if err := s.repo.Create(ctx, academy); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create academy")
	}
	return academy, nil
}

// Update modifies an existing academy.
func (s *AcademyService) Update(ctx context.Context, id string, req UpdateAcademyRequest) (*models.Academy, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid academy payload")
	}

	academy, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	academy.Name = req.Name
	academy.Address = req.Address
	academy.Phone = req.Phone
	academy.Status = models.AcademyStatus(req.Status)

	if err := s.repo.Update(ctx, academy); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update academy")
	}
	return academy, nil
}

// Delete removes an academy.
func (s *AcademyService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete academy")
	}
	return nil
}
