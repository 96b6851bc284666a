package dto

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mypostula/backend/internal/app/models"
)

// NullableFloat accepts a JSON number, a numeric string, an empty string
// or null. Anything that does not parse as a number becomes null instead
// of failing the request.
type NullableFloat struct {
	Value *float64
}

// UnmarshalJSON implements json.Unmarshaler
func (n *NullableFloat) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == `""` {
		n.Value = nil
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		n.Value = &num
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		parsed, perr := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if perr != nil {
			n.Value = nil
			return nil
		}
		n.Value = &parsed
		return nil
	}

	n.Value = nil
	return nil
}

// MarshalJSON implements json.Marshaler
func (n NullableFloat) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

// CompanySelection identifies either an existing company by ID or a new
// one to be created by name.
type CompanySelection struct {
	ID    *int64 `json:"id"`
	Label string `json:"label"`
	IsNew bool   `json:"isNew"`
}

// PostulationRequest represents postulation create and update payloads.
// ApplicationDate is a calendar date in "2006-01-02" form; when empty the
// server uses the current date.
type PostulationRequest struct {
	Position        string                   `json:"position" binding:"required"`
	Status          models.PostulationStatus `json:"status"`
	JobType         models.JobType           `json:"jobType"`
	City            string                   `json:"city"`
	Country         string                   `json:"country"`
	OfferURL        string                   `json:"offerUrl"`
	ExpectedSalary  NullableFloat            `json:"expectedSalary"`
	SalaryFrequency models.SalaryFrequency   `json:"salaryFrequency"`
	ApplicationDate string                   `json:"applicationDate"`
	CurrencyID      *int64                   `json:"currencyId"`
	Company         *CompanySelection        `json:"company"`
}

// UpdateStatusRequest changes only the lifecycle status of a postulation
type UpdateStatusRequest struct {
	Status models.PostulationStatus `json:"status" binding:"required"`
}

// PostulationListResponse wraps the full list together with derived counts
type PostulationListResponse struct {
	Postulations []models.Postulation `json:"postulations"`
	Counts       CountsResponse       `json:"counts"`
}

// CountsResponse carries the derived aggregate counts for a list
type CountsResponse struct {
	Open     int `json:"open"`
	Accepted int `json:"accepted"`
	Declined int `json:"declined"`
	Total    int `json:"total"`
}

// NormalizeOptionalString trims s and returns nil when nothing remains
func NormalizeOptionalString(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
