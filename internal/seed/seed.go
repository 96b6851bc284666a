package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appRepos "github.com/mypostula/backend/internal/app/repositories"
	"github.com/mypostula/backend/internal/pkg/apperrors"
)

// defaultCurrencies is the catalog offered in the salary picker
var defaultCurrencies = []struct {
	ISOCode string
	Symbol  string
	Name    string
}{
	{"USD", "$", "United States Dollar"},
	{"EUR", "€", "Euro"},
	{"GBP", "£", "British Pound"},
	{"CAD", "C$", "Canadian Dollar"},
	{"MXN", "MX$", "Mexican Peso"},
	{"ARS", "AR$", "Argentine Peso"},
	{"CLP", "CL$", "Chilean Peso"},
	{"COP", "CO$", "Colombian Peso"},
	{"BRL", "R$", "Brazilian Real"},
	{"PEN", "S/", "Peruvian Sol"},
}

// CreateDefaultData seeds the currency catalog if it is missing entries
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	currencyRepo := appRepos.NewCurrencyRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (Currencies)...")
	var finalErr error

	for _, c := range defaultCurrencies {
		_, err := currencyRepo.CreateCurrency(ctx, c.ISOCode, c.Symbol, c.Name)
		if err != nil && !errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			lgr.Error().Err(err).Str("isoCode", c.ISOCode).Msg("Error creating default currency")
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}
