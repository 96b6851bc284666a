package models

// PostulationStatus defines the lifecycle state of a postulation
type PostulationStatus string

const (
	StatusOpen      PostulationStatus = "open"
	StatusInterview PostulationStatus = "interview"
	StatusAccepted  PostulationStatus = "accepted"
	StatusDeclined  PostulationStatus = "declined"
	StatusExpired   PostulationStatus = "expired"
)

// ValidStatus reports whether s is one of the enumerated statuses
func ValidStatus(s PostulationStatus) bool {
	switch s {
	case StatusOpen, StatusInterview, StatusAccepted, StatusDeclined, StatusExpired:
		return true
	}
	return false
}

// JobType defines the work arrangement of a postulation
type JobType string

const (
	JobTypeUndefined JobType = "na"
	JobTypeHybrid    JobType = "hybrid"
	JobTypeRemote    JobType = "remote"
	JobTypeOnsite    JobType = "onsite"
)

// ValidJobType reports whether t is one of the enumerated job types
func ValidJobType(t JobType) bool {
	switch t {
	case JobTypeUndefined, JobTypeHybrid, JobTypeRemote, JobTypeOnsite:
		return true
	}
	return false
}

// SalaryFrequency defines how often the expected salary is paid
type SalaryFrequency string

const (
	FrequencyUndefined SalaryFrequency = "na"
	FrequencyMonthly   SalaryFrequency = "monthly"
	FrequencyYearly    SalaryFrequency = "yearly"
	FrequencyHourly    SalaryFrequency = "hourly"
	FrequencyWeekly    SalaryFrequency = "weekly"
)

// ValidSalaryFrequency reports whether f is one of the enumerated frequencies
func ValidSalaryFrequency(f SalaryFrequency) bool {
	switch f {
	case FrequencyUndefined, FrequencyMonthly, FrequencyYearly, FrequencyHourly, FrequencyWeekly:
		return true
	}
	return false
}
