package services

import (
	"context"

	"github.com/mypostula/backend/internal/app/models"
)

// CurrencyStore is the persistence surface the currency service needs
type CurrencyStore interface {
	GetCurrencyByID(ctx context.Context, id int64) (*models.Currency, error)
	ListCurrencies(ctx context.Context) ([]*models.Currency, error)
}

// CurrencyService defines the interface for currency catalog operations
type CurrencyService interface {
	GetAllCurrencies(ctx context.Context) ([]*models.Currency, error)
	GetCurrencyByID(ctx context.Context, id int64) (*models.Currency, error)
}

type currencyServiceImpl struct {
	currencyStore CurrencyStore
}

// NewCurrencyService creates a new currency service instance
func NewCurrencyService(currencyStore CurrencyStore) CurrencyService {
	return &currencyServiceImpl{currencyStore: currencyStore}
}

func (s *currencyServiceImpl) GetAllCurrencies(ctx context.Context) ([]*models.Currency, error) {
	return s.currencyStore.ListCurrencies(ctx)
}

func (s *currencyServiceImpl) GetCurrencyByID(ctx context.Context, id int64) (*models.Currency, error) {
	return s.currencyStore.GetCurrencyByID(ctx, id)
}
