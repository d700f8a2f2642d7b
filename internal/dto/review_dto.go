package dto

import (
	"contract-review-fe/internal/entity"
)

// SessionStateResponse is the full render model for the presentation layer.
// Every field is a copy; the client owns nothing.
type SessionStateResponse struct {
	Phase               entity.SessionPhase       `json:"phase"`
	Document            *entity.DocumentMetadata  `json:"document"`
	Result              *entity.AnalysisResult    `json:"result"`
	Clauses             []entity.ClassifiedClause `json:"clauses"`
	RedlinedHTML        string                    `json:"redlined_html"`
	SelectedClauseIndex *int                      `json:"selected_clause_index"`
	SelectedClause      *entity.ClassifiedClause  `json:"selected_clause,omitempty"`
	Busy                bool                      `json:"busy"`
	Progress            int                       `json:"progress"`
	Notifications       []entity.Notification     `json:"notifications"`
}

type ClassifyTextRequest struct {
	Text string `json:"text" validate:"required"`
}

type ClassifyTextResponse struct {
	Classification entity.Classification `json:"classification"`
}

type SearchHit struct {
	Text     string                 `json:"text"`
	Metadata map[string]interface{} `json:"metadata"`
	Distance float64                `json:"distance"`
	ID       string                 `json:"id"`
}

type SearchResponse struct {
	Query   string      `json:"query"`
	Results []SearchHit `json:"results"`
}

type EmailExportRequest struct {
	To string `json:"to" validate:"required,email"`
}

// HealthResponse reports this service plus the analysis backend behind it.
type HealthResponse struct {
	Status       string          `json:"status"`
	Backend      string          `json:"backend"`
	ModelsLoaded map[string]bool `json:"models_loaded,omitempty"`
}
