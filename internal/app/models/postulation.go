package models

import "time"

// PostulationRow is a postulation as it comes out of the database,
// joined with its optional company and currency rows.
type PostulationRow struct {
	ID              int64
	UserID          int64
	Position        string
	Status          PostulationStatus
	JobType         JobType
	City            *string
	Country         *string
	OfferURL        *string
	ExpectedSalary  *float64
	Frequency       SalaryFrequency
	ApplicationDate time.Time
	CompanyID       *int64
	CompanyName     *string
	CurrencyID      *int64
	CurrencyCode    *string
	CurrencySymbol  *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Postulation is the flattened view served to clients. Missing company
// and currency labels are replaced with a placeholder so every entry
// renders uniformly.
type Postulation struct {
	ID              int64             `json:"id"`
	UserID          int64             `json:"userId"`
	Position        string            `json:"position"`
	Status          PostulationStatus `json:"status"`
	JobType         JobType           `json:"jobType"`
	City            *string           `json:"city"`
	Country         *string           `json:"country"`
	OfferURL        *string           `json:"offerUrl"`
	ExpectedSalary  *float64          `json:"expectedSalary"`
	Frequency       SalaryFrequency   `json:"salaryFrequency"`
	ApplicationDate time.Time         `json:"applicationDate"`
	CompanyID       *int64            `json:"companyId"`
	CompanyName     string            `json:"companyName"`
	CurrencyID      *int64            `json:"currencyId"`
	CurrencyCode    string            `json:"currencyCode"`
	CurrencySymbol  *string           `json:"currencySymbol"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// MissingLabel replaces absent company and currency labels in formatted rows
const MissingLabel = "N/A"

// FormatPostulation flattens a joined row into the client-facing shape
func FormatPostulation(row PostulationRow) Postulation {
	companyName := MissingLabel
	if row.CompanyName != nil && *row.CompanyName != "" {
		companyName = *row.CompanyName
	}
	currencyCode := MissingLabel
	if row.CurrencyCode != nil && *row.CurrencyCode != "" {
		currencyCode = *row.CurrencyCode
	}
	return Postulation{
		ID:              row.ID,
		UserID:          row.UserID,
		Position:        row.Position,
		Status:          row.Status,
		JobType:         row.JobType,
		City:            row.City,
		Country:         row.Country,
		OfferURL:        row.OfferURL,
		ExpectedSalary:  row.ExpectedSalary,
		Frequency:       row.Frequency,
		ApplicationDate: row.ApplicationDate,
		CompanyID:       row.CompanyID,
		CompanyName:     companyName,
		CurrencyID:      row.CurrencyID,
		CurrencyCode:    currencyCode,
		CurrencySymbol:  row.CurrencySymbol,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

// FormatPostulations flattens every row, preserving order
func FormatPostulations(rows []PostulationRow) []Postulation {
	out := make([]Postulation, 0, len(rows))
	for _, row := range rows {
		out = append(out, FormatPostulation(row))
	}
	return out
}
