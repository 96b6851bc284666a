package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mypostula/backend/internal/app/models"
	"github.com/mypostula/backend/internal/app/models/dto"
	"github.com/mypostula/backend/internal/pkg/apperrors"
	"github.com/mypostula/backend/internal/realtime"
)

// PostulationStore is the persistence surface the postulation service needs
type PostulationStore interface {
	ListByUser(ctx context.Context, userID int64) ([]models.PostulationRow, error)
	GetByID(ctx context.Context, id, userID int64) (*models.PostulationRow, error)
	Create(ctx context.Context, p *models.PostulationRow) (int64, error)
	Update(ctx context.Context, p *models.PostulationRow) error
	UpdateStatus(ctx context.Context, id, userID int64, status models.PostulationStatus) error
	Delete(ctx context.Context, id, userID int64) error
}

// PostulationService defines the interface for postulation operations.
// Every operation is scoped to the calling user, which is the only
// authorization layer for postulation data.
type PostulationService interface {
	List(ctx context.Context, userID int64) ([]models.Postulation, error)
	Get(ctx context.Context, userID, id int64) (*models.Postulation, error)
	Create(ctx context.Context, userID int64, req *dto.PostulationRequest) (*models.Postulation, error)
	Update(ctx context.Context, userID, id int64, req *dto.PostulationRequest) (*models.Postulation, error)
	UpdateStatus(ctx context.Context, userID, id int64, status models.PostulationStatus) error
	Delete(ctx context.Context, userID, id int64) error
}

// postulationServiceImpl implements the PostulationService interface
type postulationServiceImpl struct {
	postulationStore PostulationStore
	companyService   CompanyService
	currencyStore    CurrencyStore
	hub              *realtime.Hub
	logger           zerolog.Logger
}

// NewPostulationService creates a new postulation service instance
func NewPostulationService(
	postulationStore PostulationStore,
	companyService CompanyService,
	currencyStore CurrencyStore,
	hub *realtime.Hub,
	logger zerolog.Logger,
) PostulationService {
	return &postulationServiceImpl{
		postulationStore: postulationStore,
		companyService:   companyService,
		currencyStore:    currencyStore,
		hub:              hub,
		logger:           logger,
	}
}

// List returns all postulations of the user, newest first
func (s *postulationServiceImpl) List(ctx context.Context, userID int64) ([]models.Postulation, error) {
	rows, err := s.postulationStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return models.FormatPostulations(rows), nil
}

// Get returns a single postulation owned by the user
func (s *postulationServiceImpl) Get(ctx context.Context, userID, id int64) (*models.Postulation, error) {
	row, err := s.postulationStore.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	formatted := models.FormatPostulation(*row)
	return &formatted, nil
}

// Create validates and persists a new postulation
func (s *postulationServiceImpl) Create(ctx context.Context, userID int64, req *dto.PostulationRequest) (*models.Postulation, error) {
	row, err := s.buildRow(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	id, err := s.postulationStore.Create(ctx, row)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("postulationID", id).Int64("userID", userID).Msg("Postulation created")
	s.publishChange(realtime.EventInsert, id, userID)

	return s.Get(ctx, userID, id)
}

// Update validates and replaces the fields of an existing postulation
func (s *postulationServiceImpl) Update(ctx context.Context, userID, id int64, req *dto.PostulationRequest) (*models.Postulation, error) {
	row, err := s.buildRow(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	row.ID = id

	if err := s.postulationStore.Update(ctx, row); err != nil {
		return nil, err
	}

	s.publishChange(realtime.EventUpdate, id, userID)

	return s.Get(ctx, userID, id)
}

// UpdateStatus changes only the lifecycle status of a postulation
func (s *postulationServiceImpl) UpdateStatus(ctx context.Context, userID, id int64, status models.PostulationStatus) error {
	if !models.ValidStatus(status) {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidStatus, status)
	}

	if err := s.postulationStore.UpdateStatus(ctx, id, userID, status); err != nil {
		return err
	}

	s.publishChange(realtime.EventUpdate, id, userID)
	return nil
}

// Delete removes a postulation owned by the user
func (s *postulationServiceImpl) Delete(ctx context.Context, userID, id int64) error {
	if err := s.postulationStore.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.logger.Info().Int64("postulationID", id).Int64("userID", userID).Msg("Postulation deleted")
	s.publishChange(realtime.EventDelete, id, userID)
	return nil
}

// buildRow validates a request and coerces it into a storable row.
// Optional text fields are trimmed and collapse to null when empty, and
// the expected salary arrives already coerced to a number or null.
func (s *postulationServiceImpl) buildRow(ctx context.Context, userID int64, req *dto.PostulationRequest) (*models.PostulationRow, error) {
	if req == nil {
		return nil, apperrors.NewValidationError("request body is required")
	}

	position := dto.NormalizeOptionalString(req.Position)
	if position == nil {
		return nil, apperrors.NewValidationError("position cannot be empty")
	}

	status := req.Status
	if status == "" {
		status = models.StatusOpen
	}
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidStatus, status)
	}

	jobType := req.JobType
	if jobType == "" {
		jobType = models.JobTypeUndefined
	}
	if !models.ValidJobType(jobType) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid job type: %s", jobType))
	}

	frequency := req.SalaryFrequency
	if frequency == "" {
		frequency = models.FrequencyUndefined
	}
	if !models.ValidSalaryFrequency(frequency) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid salary frequency: %s", frequency))
	}

	applicationDate := time.Now().Truncate(24 * time.Hour)
	if trimmed := strings.TrimSpace(req.ApplicationDate); trimmed != "" {
		parsed, err := time.Parse("2006-01-02", trimmed)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid application date: %s", trimmed))
		}
		applicationDate = parsed
	}

	companyID, err := s.companyService.ResolveCompany(ctx, req.Company)
	if err != nil {
		return nil, err
	}

	var currencyID *int64
	if req.CurrencyID != nil {
		currency, err := s.currencyStore.GetCurrencyByID(ctx, *req.CurrencyID)
		if err != nil {
			return nil, err
		}
		currencyID = &currency.ID
	}

	return &models.PostulationRow{
		UserID:          userID,
		Position:        *position,
		Status:          status,
		JobType:         jobType,
		City:            dto.NormalizeOptionalString(req.City),
		Country:         dto.NormalizeOptionalString(req.Country),
		OfferURL:        dto.NormalizeOptionalString(req.OfferURL),
		ExpectedSalary:  req.ExpectedSalary.Value,
		Frequency:       frequency,
		ApplicationDate: applicationDate,
		CompanyID:       &companyID,
		CurrencyID:      currencyID,
	}, nil
}

func (s *postulationServiceImpl) publishChange(eventType string, recordID, userID int64) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(&realtime.Event{
		Table:    realtime.TablePostulations,
		Type:     eventType,
		RecordID: recordID,
		UserID:   userID,
	})
}
