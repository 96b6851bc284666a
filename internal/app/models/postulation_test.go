package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestFormatPostulation_FlattensJoinedRow(t *testing.T) {
	companyID := int64(7)
	currencyID := int64(3)
	salary := 85000.0
	now := time.Now()

	row := PostulationRow{
		ID:             1,
		UserID:         42,
		Position:       "Backend Engineer",
		Status:         StatusInterview,
		JobType:        JobTypeRemote,
		City:           strPtr("Berlin"),
		Country:        strPtr("Germany"),
		ExpectedSalary: &salary,
		Frequency:      FrequencyYearly,
		CompanyID:      &companyID,
		CompanyName:    strPtr("Acme"),
		CurrencyID:     &currencyID,
		CurrencyCode:   strPtr("EUR"),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	p := FormatPostulation(row)

	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, "Acme", p.CompanyName)
	assert.Equal(t, "EUR", p.CurrencyCode)
	assert.Equal(t, StatusInterview, p.Status)
	require.NotNil(t, p.ExpectedSalary)
	assert.Equal(t, 85000.0, *p.ExpectedSalary)
}

func TestFormatPostulation_MissingLabelsFallBack(t *testing.T) {
	p := FormatPostulation(PostulationRow{ID: 2, Position: "Analyst", Status: StatusOpen})

	assert.Equal(t, MissingLabel, p.CompanyName)
	assert.Equal(t, MissingLabel, p.CurrencyCode)
	assert.Nil(t, p.ExpectedSalary)
}

func TestFormatPostulation_EmptyLabelTreatedAsMissing(t *testing.T) {
	row := PostulationRow{ID: 3, Position: "QA", CompanyName: strPtr(""), CurrencyCode: strPtr("")}

	p := FormatPostulation(row)

	assert.Equal(t, MissingLabel, p.CompanyName)
	assert.Equal(t, MissingLabel, p.CurrencyCode)
}

func TestFormatPostulations_PreservesOrder(t *testing.T) {
	rows := []PostulationRow{
		{ID: 3, Position: "Third"},
		{ID: 1, Position: "First"},
		{ID: 2, Position: "Second"},
	}

	out := FormatPostulations(rows)

	require.Len(t, out, 3)
	assert.Equal(t, int64(3), out[0].ID)
	assert.Equal(t, int64(1), out[1].ID)
	assert.Equal(t, int64(2), out[2].ID)
}

func TestFormatPostulations_EmptyInput(t *testing.T) {
	out := FormatPostulations(nil)

	require.NotNil(t, out)
	assert.Empty(t, out)
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusOpen))
	assert.True(t, ValidStatus(StatusInterview))
	assert.True(t, ValidStatus(StatusExpired))
	assert.False(t, ValidStatus("archived"))
	assert.False(t, ValidStatus(""))
}

func TestValidJobType(t *testing.T) {
	assert.True(t, ValidJobType(JobTypeUndefined))
	assert.True(t, ValidJobType(JobTypeHybrid))
	assert.False(t, ValidJobType("freelance"))
}

func TestValidSalaryFrequency(t *testing.T) {
	assert.True(t, ValidSalaryFrequency(FrequencyMonthly))
	assert.True(t, ValidSalaryFrequency(FrequencyUndefined))
	assert.False(t, ValidSalaryFrequency("daily"))
}
