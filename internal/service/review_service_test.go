package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"contract-review-fe/internal/entity"
	"contract-review-fe/internal/pkg/logger"
	"contract-review-fe/internal/repository/memory"
	"contract-review-fe/internal/session"
	"contract-review-fe/pkg/analyzer"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	analyzeErr error
}

func (s *stubBackend) Health(context.Context) (*analyzer.HealthStatus, error) {
	return &analyzer.HealthStatus{Status: "healthy", ModelsLoaded: map[string]bool{"classifier": true}}, nil
}

func (s *stubBackend) Upload(_ context.Context, filename string, _ io.Reader) (*analyzer.UploadResult, error) {
	return &analyzer.UploadResult{
		DocID: "doc-1",
		Metadata: entity.DocumentMetadata{
			DocID:        "doc-1",
			Filename:     filename,
			TotalClauses: 2,
			WordCount:    640,
		},
	}, nil
}

func (s *stubBackend) Analyze(_ context.Context, docID string) (*analyzer.AnalyzeResult, error) {
	if s.analyzeErr != nil {
		return nil, s.analyzeErr
	}
	return &analyzer.AnalyzeResult{
		DocID: docID,
		Analysis: entity.AnalysisResult{
			RiskSummary:  entity.RiskCounts{Red: 1, Green: 1},
			OverallRisk:  entity.RiskRed,
			TotalClauses: 2,
		},
		Clauses: []entity.ClassifiedClause{
			{Text: "first", Classification: entity.Classification{RiskLevel: entity.RiskRed}},
			{Text: "second", Classification: entity.Classification{RiskLevel: entity.RiskGreen}},
		},
		RedlinedHTML: `<span data-clause-index="0">first</span><span data-clause-index="1">second</span>`,
	}, nil
}

func (s *stubBackend) Search(_ context.Context, query string, _ int) (*analyzer.SearchResult, error) {
	return &analyzer.SearchResult{
		Query:   query,
		Results: []analyzer.SearchHit{{Text: "hit", Distance: 0.2, ID: "c-9"}},
	}, nil
}

func (s *stubBackend) ClassifyText(context.Context, string) (*entity.Classification, error) {
	return &entity.Classification{RiskLevel: entity.RiskAmber, Confidence: 0.7}, nil
}

func newTestService(backend analyzer.Client) IReviewService {
	repo := memory.NewSessionRepository(time.Minute)
	return NewReviewService(backend, repo, nil, nil, logger.Nop{}, time.Minute)
}

func TestFullReviewFlow(t *testing.T) {
	svc := newTestService(&stubBackend{})
	sid := uuid.New()
	ctx := context.Background()

	state := svc.State(sid)
	assert.Equal(t, entity.PhaseUpload, state.Phase)

	state, err := svc.Upload(ctx, sid, "msa.pdf", 2048, strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, entity.PhaseDashboard, state.Phase)
	require.NotNil(t, state.Document)

	state, err = svc.Analyze(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, entity.PhaseResults, state.Phase)
	assert.Len(t, state.Clauses, 2)

	state = svc.SelectClause(sid, 1)
	require.NotNil(t, state.SelectedClauseIndex)
	assert.Equal(t, 1, *state.SelectedClauseIndex)
	require.NotNil(t, state.SelectedClause)
	assert.Equal(t, "second", state.SelectedClause.Text)

	state = svc.CloseClause(sid)
	assert.Nil(t, state.SelectedClauseIndex)
	assert.Nil(t, state.SelectedClause)

	state = svc.Reset(sid)
	assert.Equal(t, entity.PhaseUpload, state.Phase)
	assert.Nil(t, state.Document)
}

func TestConcurrentFirstContactSharesOneController(t *testing.T) {
	svc := newTestService(&stubBackend{})
	sid := uuid.New()

	// Hammer first contact; every goroutine must land on the same controller.
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.State(sid)
		}()
	}
	wg.Wait()

	_, err := svc.Upload(context.Background(), sid, "shared.pdf", 100, strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, entity.PhaseDashboard, svc.State(sid).Phase)
}

func TestSessionsAreIsolated(t *testing.T) {
	svc := newTestService(&stubBackend{})
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	_, err := svc.Upload(ctx, a, "a.pdf", 100, strings.NewReader("%PDF"))
	require.NoError(t, err)

	assert.Equal(t, entity.PhaseDashboard, svc.State(a).Phase)
	assert.Equal(t, entity.PhaseUpload, svc.State(b).Phase, "one session's upload must not leak into another")
}

func TestExportIsDeterministicAndIndented(t *testing.T) {
	svc := newTestService(&stubBackend{})
	sid := uuid.New()
	ctx := context.Background()

	_, err := svc.Upload(ctx, sid, "master-services.pdf", 2048, strings.NewReader("%PDF"))
	require.NoError(t, err)
	_, err = svc.Analyze(ctx, sid)
	require.NoError(t, err)

	name1, payload1, err := svc.Export(sid)
	require.NoError(t, err)
	name2, payload2, err := svc.Export(sid)
	require.NoError(t, err)

	assert.Equal(t, "contract-analysis-master-services.json", name1)
	assert.Equal(t, name1, name2)
	assert.True(t, bytes.Equal(payload1, payload2), "repeated exports of unchanged state are identical")
	assert.True(t, bytes.HasPrefix(payload1, []byte("{\n  \"")), "export is two-space indented JSON")

	var artifact entity.ExportArtifact
	require.NoError(t, json.Unmarshal(payload1, &artifact))
	assert.Equal(t, "master-services.pdf", artifact.Document.Filename)
	assert.Len(t, artifact.Clauses, 2)
}

func TestExportBeforeAnalysisFails(t *testing.T) {
	svc := newTestService(&stubBackend{})

	_, _, err := svc.Export(uuid.New())
	require.ErrorIs(t, err, session.ErrNothingToExport)
}

func TestEmailExportWithoutMailer(t *testing.T) {
	svc := newTestService(&stubBackend{})
	err := svc.EmailExport(uuid.New(), "someone@example.com")
	require.ErrorIs(t, err, ErrMailNotConfigured)
}

func TestSearchProxiesBackend(t *testing.T) {
	svc := newTestService(&stubBackend{})

	res, err := svc.Search(context.Background(), "liability", 5)
	require.NoError(t, err)
	assert.Equal(t, "liability", res.Query)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "c-9", res.Results[0].ID)
}

func TestClassifyTextProxiesBackend(t *testing.T) {
	svc := newTestService(&stubBackend{})

	res, err := svc.ClassifyText(context.Background(), "some clause")
	require.NoError(t, err)
	assert.Equal(t, entity.RiskAmber, res.Classification.RiskLevel)
}

func TestHealthReportsBackend(t *testing.T) {
	svc := newTestService(&stubBackend{})

	res := svc.Health(context.Background())
	assert.Equal(t, "healthy", res.Status)
	assert.Equal(t, "healthy", res.Backend)
	assert.True(t, res.ModelsLoaded["classifier"])
}

type deadBackend struct{ *stubBackend }

func (deadBackend) Health(context.Context) (*analyzer.HealthStatus, error) {
	return nil, context.DeadlineExceeded
}

func TestHealthWithUnreachableBackend(t *testing.T) {
	svc := newTestService(deadBackend{&stubBackend{}})

	res := svc.Health(context.Background())
	assert.Equal(t, "healthy", res.Status, "this service is up even when the backend is not")
	assert.Equal(t, "unreachable", res.Backend)
}

func TestDismissNotification(t *testing.T) {
	svc := newTestService(&stubBackend{})
	sid := uuid.New()

	// A non-PDF upload plants an error toast we can dismiss.
	_, err := svc.Upload(context.Background(), sid, "contract.docx", 100, strings.NewReader("x"))
	require.ErrorIs(t, err, session.ErrInvalidFileType)

	state := svc.State(sid)
	require.NotEmpty(t, state.Notifications)
	id := state.Notifications[0].ID

	assert.True(t, svc.DismissNotification(sid, id))
	assert.False(t, svc.DismissNotification(sid, id))
}
