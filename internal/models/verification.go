package models

// VerificationOutcome is the user-facing result code of a digest
// verification attempt. Non-success values are sent as the error query
// parameter of the redirect.
type VerificationOutcome string

const (
	OutcomeVerified           VerificationOutcome = "verified"
	OutcomeInvalidToken       VerificationOutcome = "invalid_token"
	OutcomeInvalidOrExpired   VerificationOutcome = "invalid_or_expired_token"
	OutcomeTokenExpired       VerificationOutcome = "token_expired"
	OutcomeVerificationFailed VerificationOutcome = "verification_failed"
)

type VerificationResult struct {
	Outcome      VerificationOutcome
	Subscription DigestSubscription
}
