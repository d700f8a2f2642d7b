package mapper

import (
	"contract-review-fe/internal/dto"
	"contract-review-fe/internal/session"
)

// ToSessionStateResponse shapes a controller snapshot for the wire. The
// selected clause is resolved here so the client does not have to index
// into the clause slice itself.
func ToSessionStateResponse(s session.State) *dto.SessionStateResponse {
	res := &dto.SessionStateResponse{
		Phase:               s.Phase,
		Document:            s.Document,
		Result:              s.Result,
		Clauses:             s.Clauses,
		RedlinedHTML:        s.RedlinedHTML,
		SelectedClauseIndex: s.SelectedClauseIndex,
		Busy:                s.Busy,
		Progress:            s.Progress,
		Notifications:       s.Notifications,
	}
	if s.SelectedClauseIndex != nil && *s.SelectedClauseIndex < len(s.Clauses) {
		clause := s.Clauses[*s.SelectedClauseIndex]
		res.SelectedClause = &clause
	}
	return res
}
