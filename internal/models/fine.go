package models

import "time"

type FineRecord struct {
	ID             int64
	FirmIndividual string
	Amount         float64
	DateIssued     time.Time
	YearIssued     int
	BreachType     string
	NoticeURL      string
}

// LatestFine is the public projection of a FineRecord used by the homepage.
type LatestFine struct {
	Firm       string  `json:"firm"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"`
	BreachType string  `json:"breachType"`
	NoticeURL  string  `json:"noticeUrl"`
}

type FineTotals struct {
	Count        int64
	Amount       float64
	EarliestYear *int
	LatestYear   *int
}

type YearTotal struct {
	Year   int
	Count  int64
	Amount float64
}

type HomepageStats struct {
	TotalFines   int64        `json:"totalFines"`
	TotalAmount  float64      `json:"totalAmount"`
	YearsCovered *int         `json:"yearsCovered"`
	EarliestYear *int         `json:"earliestYear"`
	LatestYear   *int         `json:"latestYear"`
	YoYChange    *string      `json:"yoyChange"`
	LatestFines  []LatestFine `json:"latestFines"`
}
