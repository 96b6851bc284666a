package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mypostula/backend/internal/app/models"
	"github.com/mypostula/backend/internal/pkg/apperrors"
	"github.com/mypostula/backend/internal/pkg/logger"
)

// postulationColumns are the joined columns selected for every read
var postulationColumns = []string{
	"p.id", "p.user_id", "p.position", "p.status", "p.job_type",
	"p.city", "p.country", "p.offer_url", "p.expected_salary", "p.salary_frequency",
	"p.application_date", "p.company_id", "c.name", "p.currency_id", "cur.iso_code", "cur.symbol",
	"p.created_at", "p.updated_at",
}

// PostulationRepository handles postulation database operations
type PostulationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPostulationRepository creates a new PostulationRepository
func NewPostulationRepository(db *pgxpool.Pool) *PostulationRepository {
	return &PostulationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *PostulationRepository) selectBuilder() squirrel.SelectBuilder {
	return r.sb.Select(postulationColumns...).
		From("job_applications p").
		LeftJoin("companies c ON c.id = p.company_id").
		LeftJoin("currencies cur ON cur.id = p.currency_id")
}

func scanPostulationRow(row pgx.Row) (*models.PostulationRow, error) {
	p := &models.PostulationRow{}
	err := row.Scan(
		&p.ID, &p.UserID, &p.Position, &p.Status, &p.JobType,
		&p.City, &p.Country, &p.OfferURL, &p.ExpectedSalary, &p.Frequency,
		&p.ApplicationDate, &p.CompanyID, &p.CompanyName, &p.CurrencyID, &p.CurrencyCode, &p.CurrencySymbol,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListByUser retrieves all postulations of a user, most recent
// application first, creation time breaking ties
func (r *PostulationRepository) ListByUser(ctx context.Context, userID int64) ([]models.PostulationRow, error) {
	sql, args, err := r.selectBuilder().
		Where(squirrel.Eq{"p.user_id": userID}).
		OrderBy("p.application_date DESC", "p.created_at DESC").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building list postulations SQL")
		return nil, fmt.Errorf("failed to build list postulations query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing list postulations query")
		return nil, fmt.Errorf("error querying postulations: %w", err)
	}
	defer rows.Close()

	postulations := []models.PostulationRow{}
	for rows.Next() {
		p, err := scanPostulationRow(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning postulation row")
			return nil, fmt.Errorf("error scanning postulation: %w", err)
		}
		postulations = append(postulations, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating postulation rows: %w", err)
	}

	return postulations, nil
}

// GetByID retrieves a single postulation owned by the user
func (r *PostulationRepository) GetByID(ctx context.Context, id, userID int64) (*models.PostulationRow, error) {
	sql, args, err := r.selectBuilder().
		Where(squirrel.Eq{"p.id": id, "p.user_id": userID}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get postulation SQL")
		return nil, fmt.Errorf("failed to build get postulation query: %w", err)
	}

	p, err := scanPostulationRow(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPostulationNotFound
		}
		logger.Error().Err(err).Int64("postulationID", id).Msg("Error scanning postulation row")
		return nil, fmt.Errorf("error getting postulation: %w", err)
	}

	return p, nil
}

// Create inserts a new postulation and returns its ID
func (r *PostulationRepository) Create(ctx context.Context, p *models.PostulationRow) (int64, error) {
	now := time.Now()
	sql, args, err := r.sb.Insert("job_applications").
		Columns("user_id", "position", "status", "job_type", "city", "country",
			"offer_url", "expected_salary", "salary_frequency", "application_date",
			"company_id", "currency_id", "created_at", "updated_at").
		Values(p.UserID, p.Position, p.Status, p.JobType, p.City, p.Country,
			p.OfferURL, p.ExpectedSalary, p.Frequency, p.ApplicationDate,
			p.CompanyID, p.CurrencyID, now, now).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create postulation SQL")
		return 0, fmt.Errorf("failed to build create postulation query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		logger.Error().Err(err).Int64("userID", p.UserID).Msg("Error executing create postulation query")
		return 0, fmt.Errorf("error creating postulation: %w", err)
	}

	return id, nil
}

// Update replaces the mutable fields of a postulation owned by the user
func (r *PostulationRepository) Update(ctx context.Context, p *models.PostulationRow) error {
	sql, args, err := r.sb.Update("job_applications").
		Set("position", p.Position).
		Set("status", p.Status).
		Set("job_type", p.JobType).
		Set("city", p.City).
		Set("country", p.Country).
		Set("offer_url", p.OfferURL).
		Set("expected_salary", p.ExpectedSalary).
		Set("salary_frequency", p.Frequency).
		Set("application_date", p.ApplicationDate).
		Set("company_id", p.CompanyID).
		Set("currency_id", p.CurrencyID).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": p.ID, "user_id": p.UserID}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building update postulation SQL")
		return fmt.Errorf("failed to build update postulation query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("postulationID", p.ID).Msg("Error executing update postulation query")
		return fmt.Errorf("error updating postulation: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPostulationNotFound
	}

	return nil
}

// UpdateStatus changes only the status of a postulation owned by the user
func (r *PostulationRepository) UpdateStatus(ctx context.Context, id, userID int64, status models.PostulationStatus) error {
	sql, args, err := r.sb.Update("job_applications").
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building update status SQL")
		return fmt.Errorf("failed to build update status query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("postulationID", id).Msg("Error executing update status query")
		return fmt.Errorf("error updating postulation status: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPostulationNotFound
	}

	return nil
}

// Delete removes a postulation owned by the user
func (r *PostulationRepository) Delete(ctx context.Context, id, userID int64) error {
	sql, args, err := r.sb.Delete("job_applications").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building delete postulation SQL")
		return fmt.Errorf("failed to build delete postulation query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("postulationID", id).Msg("Error executing delete postulation query")
		return fmt.Errorf("error deleting postulation: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPostulationNotFound
	}

	return nil
}
