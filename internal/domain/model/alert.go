package model

import "time"

type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// Alert is an operator notification emitted by billing jobs; delivery
// is best-effort and never fails the run that produced it.
type Alert struct {
	Title    string
	Message  string
	Severity AlertSeverity
	Payload  map[string]string
	At       time.Time
}

func NewAlert(title, message string, sev AlertSeverity) Alert {
	return Alert{Title: title, Message: message, Severity: sev, At: time.Now()}
}
