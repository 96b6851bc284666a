package dto

// CreateCompanyRequest represents a request to add a company to the catalog
type CreateCompanyRequest struct {
	Name string `json:"name" binding:"required"`
}

// CompanyResponse represents a catalog company
type CompanyResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CurrencyResponse represents a catalog currency
type CurrencyResponse struct {
	ID      int64  `json:"id"`
	ISOCode string `json:"isoCode"`
	Symbol  string `json:"symbol"`
	Name    string `json:"name"`
}
