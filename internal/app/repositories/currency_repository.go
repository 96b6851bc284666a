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
	"github.com/mypostula/backend/internal/pkg/dberrors"
	"github.com/mypostula/backend/internal/pkg/logger"
)

// CurrencyRepository handles currency database operations
type CurrencyRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCurrencyRepository creates a new CurrencyRepository
func NewCurrencyRepository(db *pgxpool.Pool) *CurrencyRepository {
	return &CurrencyRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateCurrency inserts a new currency, ignoring duplicates by ISO code
func (r *CurrencyRepository) CreateCurrency(ctx context.Context, isoCode, symbol, name string) (int64, error) {
	sql, args, err := r.sb.Insert("currencies").
		Columns("iso_code", "symbol", "name").
		Values(isoCode, symbol, name).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create currency SQL")
		return 0, fmt.Errorf("failed to build create currency query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrResourceAlreadyExists
		}
		logger.Error().Err(err).Str("isoCode", isoCode).Msg("Error executing create currency query")
		return 0, fmt.Errorf("error creating currency: %w", err)
	}

	return id, nil
}

// GetCurrencyByID retrieves a currency by ID
func (r *CurrencyRepository) GetCurrencyByID(ctx context.Context, id int64) (*models.Currency, error) {
	sql, args, err := r.sb.Select("id", "iso_code", "symbol", "name").
		From("currencies").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get currency by ID SQL")
		return nil, fmt.Errorf("failed to build get currency query: %w", err)
	}

	currency := &models.Currency{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&currency.ID, &currency.ISOCode, &currency.Symbol, &currency.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCurrencyNotFound
		}
		logger.Error().Err(err).Int64("currencyID", id).Msg("Error scanning currency row")
		return nil, fmt.Errorf("error getting currency by ID: %w", err)
	}

	return currency, nil
}

// ListCurrencies retrieves all currencies ordered by ISO code
func (r *CurrencyRepository) ListCurrencies(ctx context.Context) ([]*models.Currency, error) {
	sql, args, err := r.sb.Select("id", "iso_code", "symbol", "name").
		From("currencies").
		OrderBy("iso_code ASC").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building list currencies SQL")
		return nil, fmt.Errorf("failed to build list currencies query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list currencies query")
		return nil, fmt.Errorf("error querying currencies: %w", err)
	}
	defer rows.Close()

	currencies := []*models.Currency{}
	for rows.Next() {
		currency := &models.Currency{}
		if err := rows.Scan(&currency.ID, &currency.ISOCode, &currency.Symbol, &currency.Name); err != nil {
			logger.Error().Err(err).Msg("Error scanning currency row")
			return nil, fmt.Errorf("error scanning currency: %w", err)
		}
		currencies = append(currencies, currency)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currency rows: %w", err)
	}

	return currencies, nil
}
