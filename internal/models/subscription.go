package models

import "time"

type SubscriptionStatus string

const (
	StatusPending SubscriptionStatus = "pending"
	StatusActive  SubscriptionStatus = "active"
	StatusExpired SubscriptionStatus = "expired"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

type DigestSubscription struct {
	ID                  int64
	Email               string
	Frequency           Frequency
	Status              SubscriptionStatus
	EmailVerified       bool
	VerificationToken   *string
	VerificationExpires *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
