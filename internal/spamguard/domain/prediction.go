package domain

import "time"

const (
	ResultSpam    = "SPAM"
	ResultNotSpam = "NOT SPAM"
)

// Confidence levels.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// ExcerptLength is how many characters of the submitted text are kept in
// the prediction log.
const ExcerptLength = 50

type PredictionLog struct {
	ID              string
	Identity        string
	Excerpt         string
	Result          string
	Confidence      float64
	ConfidenceLevel string
	Origin          string
	Timestamp       time.Time
}

// Prediction is the outcome of a classification.
type Prediction struct {
	IsSpam          bool
	Result          string
	Confidence      float64
	ConfidenceLevel string
	Warning         string
}
