package entity

// RiskLevel is the backend's three-tier clause severity.
type RiskLevel string

const (
	RiskRed   RiskLevel = "RED"
	RiskAmber RiskLevel = "AMBER"
	RiskGreen RiskLevel = "GREEN"
)

// DocumentMetadata describes an uploaded contract as reported by the
// analysis backend. Immutable once stored on a session.
type DocumentMetadata struct {
	DocID        string `json:"doc_id"`
	Filename     string `json:"filename"`
	TotalChunks  int    `json:"total_chunks"`
	TotalClauses int    `json:"total_clauses"`
	WordCount    int    `json:"word_count"`
}

type RiskCounts struct {
	Red   int `json:"RED"`
	Amber int `json:"AMBER"`
	Green int `json:"GREEN"`
}

func (c RiskCounts) Total() int {
	return c.Red + c.Amber + c.Green
}

type RiskShares struct {
	Red   float64 `json:"RED"`
	Amber float64 `json:"AMBER"`
	Green float64 `json:"GREEN"`
}

// AnalysisResult is the document-level verdict. Replaced wholesale on each
// analysis, never merged. Invariant: RiskSummary.Total() == TotalClauses.
type AnalysisResult struct {
	RiskSummary     RiskCounts `json:"risk_summary"`
	RiskPercentage  RiskShares `json:"risk_percentage"`
	OverallRisk     RiskLevel  `json:"overall_risk"`
	TotalClauses    int        `json:"total_clauses"`
	Recommendations []string   `json:"recommendations"`
}

func (r *AnalysisResult) Clone() *AnalysisResult {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Recommendations = append([]string(nil), r.Recommendations...)
	return &cp
}

// Classification carries the per-clause verdict. RuleBased and RagBased are
// opaque backend records; we store and re-serialize them untouched.
type Classification struct {
	RiskLevel       RiskLevel              `json:"risk_level"`
	Explanation     string                 `json:"explanation"`
	Confidence      float64                `json:"confidence"`
	RuleBased       map[string]interface{} `json:"rule_based,omitempty"`
	RagBased        map[string]interface{} `json:"rag_based,omitempty"`
	Recommendations []string               `json:"recommendations"`
}

// ClassifiedClause is one segmented unit of contract text. The order of the
// clause slice matches the data-clause-index markers in the redlined HTML;
// index i in the slice is marker i in the document. Never re-sorted.
type ClassifiedClause struct {
	Text           string         `json:"text"`
	Classification Classification `json:"classification"`
}

func (c ClassifiedClause) Clone() ClassifiedClause {
	cp := c
	cp.Classification.Recommendations = append([]string(nil), c.Classification.Recommendations...)
	cp.Classification.RuleBased = cloneRecord(c.Classification.RuleBased)
	cp.Classification.RagBased = cloneRecord(c.Classification.RagBased)
	return cp
}

func CloneClauses(clauses []ClassifiedClause) []ClassifiedClause {
	if clauses == nil {
		return nil
	}
	out := make([]ClassifiedClause, len(clauses))
	for i, c := range clauses {
		out[i] = c.Clone()
	}
	return out
}

// cloneRecord copies one level deep. Nested values inside the opaque records
// come straight from json.Unmarshal and are never mutated on our side.
func cloneRecord(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ExportArtifact is the downloadable snapshot of a finished review. It holds
// copies, not live references; later session mutations do not reach it.
type ExportArtifact struct {
	Document DocumentMetadata   `json:"document"`
	Analysis AnalysisResult     `json:"analysis"`
	Clauses  []ClassifiedClause `json:"clauses"`
}
