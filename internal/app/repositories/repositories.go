package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository        *UserRepository
	TokenRepository       *TokenRepository
	PostulationRepository *PostulationRepository
	CompanyRepository     *CompanyRepository
	CurrencyRepository    *CurrencyRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:        NewUserRepository(db),
		TokenRepository:       NewTokenRepository(db),
		PostulationRepository: NewPostulationRepository(db),
		CompanyRepository:     NewCompanyRepository(db),
		CurrencyRepository:    NewCurrencyRepository(db),
	}
}
