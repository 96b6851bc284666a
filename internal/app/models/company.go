package models

import "time"

// Company is a shared catalog entry referenced by postulations
type Company struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Currency is a seeded catalog entry used to label expected salaries
type Currency struct {
	ID      int64  `json:"id"`
	ISOCode string `json:"isoCode"`
	Symbol  string `json:"symbol"`
	Name    string `json:"name"`
}
