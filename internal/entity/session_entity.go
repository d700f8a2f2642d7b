package entity

import "time"

// SessionPhase is the stage of the upload -> analyze -> review workflow.
// Exactly one phase is active per session.
type SessionPhase string

const (
	PhaseUpload    SessionPhase = "upload"
	PhaseDashboard SessionPhase = "dashboard"
	PhaseResults   SessionPhase = "results"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Notification is a transient user-facing toast. Each one expires on its own
// timer; dismissing or expiring one never affects the others.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}
