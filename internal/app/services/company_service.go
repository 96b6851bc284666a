package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mypostula/backend/internal/app/models"
	"github.com/mypostula/backend/internal/app/models/dto"
	"github.com/mypostula/backend/internal/pkg/apperrors"
	"github.com/mypostula/backend/internal/realtime"
)

// CompanyStore is the persistence surface the company service needs
type CompanyStore interface {
	CreateCompany(ctx context.Context, name string) (*models.Company, error)
	GetCompanyByID(ctx context.Context, id int64) (*models.Company, error)
	GetCompanyByName(ctx context.Context, name string) (*models.Company, error)
	ListCompanies(ctx context.Context) ([]*models.Company, error)
}

// CompanyService defines the interface for company operations
type CompanyService interface {
	// ResolveCompany turns a selection into a company ID, creating the
	// company when the selection names one that does not exist yet.
	ResolveCompany(ctx context.Context, selection *dto.CompanySelection) (int64, error)
	CreateCompany(ctx context.Context, name string) (*models.Company, error)
	GetAllCompanies(ctx context.Context) ([]*models.Company, error)
}

// companyServiceImpl implements the CompanyService interface
type companyServiceImpl struct {
	companyStore CompanyStore
	hub          *realtime.Hub
	logger       zerolog.Logger
}

// NewCompanyService creates a new company service instance
func NewCompanyService(companyStore CompanyStore, hub *realtime.Hub, logger zerolog.Logger) CompanyService {
	return &companyServiceImpl{
		companyStore: companyStore,
		hub:          hub,
		logger:       logger,
	}
}

// ResolveCompany resolves a selection to an existing or newly created company.
// Looking up by name before inserting keeps the operation idempotent, so
// submitting the same name twice yields the same company.
func (s *companyServiceImpl) ResolveCompany(ctx context.Context, selection *dto.CompanySelection) (int64, error) {
	if selection == nil {
		return 0, apperrors.NewValidationError(apperrors.ErrCompanyNameEmpty.Error())
	}

	if selection.ID != nil && !selection.IsNew {
		company, err := s.companyStore.GetCompanyByID(ctx, *selection.ID)
		if err != nil {
			return 0, err
		}
		return company.ID, nil
	}

	name := strings.TrimSpace(selection.Label)
	if name == "" {
		return 0, apperrors.NewValidationError(apperrors.ErrCompanyNameEmpty.Error())
	}

	company, err := s.companyStore.GetCompanyByName(ctx, name)
	if err == nil {
		return company.ID, nil
	}
	if !errors.Is(err, apperrors.ErrCompanyNotFound) {
		return 0, fmt.Errorf("failed to look up company: %w", err)
	}

	created, err := s.companyStore.CreateCompany(ctx, name)
	if err != nil {
		return 0, err
	}

	s.logger.Info().Int64("companyID", created.ID).Str("name", name).Msg("Company created")
	s.publishChange(realtime.EventInsert, created.ID)

	return created.ID, nil
}

// CreateCompany adds a company to the catalog directly
func (s *companyServiceImpl) CreateCompany(ctx context.Context, name string) (*models.Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError(apperrors.ErrCompanyNameEmpty.Error())
	}

	if existing, err := s.companyStore.GetCompanyByName(ctx, name); err == nil {
		return existing, nil
	} else if !errors.Is(err, apperrors.ErrCompanyNotFound) {
		return nil, fmt.Errorf("failed to look up company: %w", err)
	}

	created, err := s.companyStore.CreateCompany(ctx, name)
	if err != nil {
		return nil, err
	}

	s.publishChange(realtime.EventInsert, created.ID)
	return created, nil
}

// GetAllCompanies returns the full company catalog
func (s *companyServiceImpl) GetAllCompanies(ctx context.Context) ([]*models.Company, error) {
	return s.companyStore.ListCompanies(ctx)
}

func (s *companyServiceImpl) publishChange(eventType string, recordID int64) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(&realtime.Event{
		Table:    realtime.TableCompanies,
		Type:     eventType,
		RecordID: recordID,
	})
}
