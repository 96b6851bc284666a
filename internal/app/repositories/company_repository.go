package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mypostula/backend/internal/app/models"
	"github.com/mypostula/backend/internal/pkg/apperrors"
	"github.com/mypostula/backend/internal/pkg/logger"
)

// CompanyRepository handles company database operations
type CompanyRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(db *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateCompany inserts a new company and returns it
func (r *CompanyRepository) CreateCompany(ctx context.Context, name string) (*models.Company, error) {
	sql, args, err := r.sb.Insert("companies").
		Columns("name").
		Values(name).
		Suffix("RETURNING id, name, created_at").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create company SQL")
		return nil, fmt.Errorf("failed to build create company query: %w", err)
	}

	company := &models.Company{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&company.ID, &company.Name, &company.CreatedAt)
	if err != nil {
		logger.Error().Err(err).Str("name", name).Msg("Error executing create company query")
		return nil, fmt.Errorf("error creating company: %w", err)
	}

	return company, nil
}

// GetCompanyByID retrieves a company by ID
func (r *CompanyRepository) GetCompanyByID(ctx context.Context, id int64) (*models.Company, error) {
	sql, args, err := r.sb.Select("id", "name", "created_at").
		From("companies").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get company by ID SQL")
		return nil, fmt.Errorf("failed to build get company query: %w", err)
	}

	company := &models.Company{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&company.ID, &company.Name, &company.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCompanyNotFound
		}
		logger.Error().Err(err).Int64("companyID", id).Msg("Error scanning company row")
		return nil, fmt.Errorf("error getting company by ID: %w", err)
	}

	return company, nil
}

// GetCompanyByName retrieves a company by exact name match
func (r *CompanyRepository) GetCompanyByName(ctx context.Context, name string) (*models.Company, error) {
	sql, args, err := r.sb.Select("id", "name", "created_at").
		From("companies").
		Where(squirrel.Eq{"name": name}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get company by name SQL")
		return nil, fmt.Errorf("failed to build get company query: %w", err)
	}

	company := &models.Company{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&company.ID, &company.Name, &company.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCompanyNotFound
		}
		logger.Error().Err(err).Str("name", name).Msg("Error scanning company row")
		return nil, fmt.Errorf("error getting company by name: %w", err)
	}

	return company, nil
}

// ListCompanies retrieves all companies ordered by name
func (r *CompanyRepository) ListCompanies(ctx context.Context) ([]*models.Company, error) {
	sql, args, err := r.sb.Select("id", "name", "created_at").
		From("companies").
		OrderBy("name ASC").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building list companies SQL")
		return nil, fmt.Errorf("failed to build list companies query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list companies query")
		return nil, fmt.Errorf("error querying companies: %w", err)
	}
	defer rows.Close()

	companies := []*models.Company{}
	for rows.Next() {
		company := &models.Company{}
		if err := rows.Scan(&company.ID, &company.Name, &company.CreatedAt); err != nil {
			logger.Error().Err(err).Msg("Error scanning company row")
			return nil, fmt.Errorf("error scanning company: %w", err)
		}
		companies = append(companies, company)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating company rows: %w", err)
	}

	return companies, nil
}
