package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"contract-review-fe/internal/dto"
	"contract-review-fe/internal/mapper"
	"contract-review-fe/internal/pkg/logger"
	"contract-review-fe/internal/pkg/mailer"
	"contract-review-fe/internal/repository/memory"
	"contract-review-fe/internal/session"
	"contract-review-fe/pkg/analyzer"

	"github.com/google/uuid"
)

// ErrMailNotConfigured is returned when export-by-email is requested but no
// SMTP host was configured.
var ErrMailNotConfigured = errors.New("email delivery is not configured")

type IReviewService interface {
	State(sessionID uuid.UUID) *dto.SessionStateResponse
	Upload(ctx context.Context, sessionID uuid.UUID, filename string, sizeBytes int64, file io.Reader) (*dto.SessionStateResponse, error)
	Analyze(ctx context.Context, sessionID uuid.UUID) (*dto.SessionStateResponse, error)
	SelectClause(sessionID uuid.UUID, markerIndex int) *dto.SessionStateResponse
	CloseClause(sessionID uuid.UUID) *dto.SessionStateResponse
	Reset(sessionID uuid.UUID) *dto.SessionStateResponse
	DismissNotification(sessionID uuid.UUID, notificationID string) bool
	Export(sessionID uuid.UUID) (filename string, payload []byte, err error)
	EmailExport(sessionID uuid.UUID, toEmail string) error
	Search(ctx context.Context, query string, limit int) (*dto.SearchResponse, error)
	ClassifyText(ctx context.Context, text string) (*dto.ClassifyTextResponse, error)
	Health(ctx context.Context) *dto.HealthResponse
}

type reviewService struct {
	backend         analyzer.Client
	sessions        *memory.SessionRepository
	sink            session.NotificationSink
	email           mailer.IEmailService
	log             logger.ILogger
	notificationTTL time.Duration

	// createMu serializes first-contact controller creation so two
	// concurrent requests for the same new session id cannot each build a
	// controller and orphan the loser's timers.
	createMu sync.Mutex
}

func NewReviewService(
	backend analyzer.Client,
	sessions *memory.SessionRepository,
	sink session.NotificationSink,
	email mailer.IEmailService,
	log logger.ILogger,
	notificationTTL time.Duration,
) IReviewService {
	return &reviewService{
		backend:         backend,
		sessions:        sessions,
		sink:            sink,
		email:           email,
		log:             log,
		notificationTTL: notificationTTL,
	}
}

// controller returns the live controller for a session, creating one on
// first contact. New sessions run their backend health check off the
// request path so a slow backend never delays the first page load.
func (s *reviewService) controller(sessionID uuid.UUID) *session.Controller {
	if ctrl, ok := s.sessions.Get(sessionID); ok {
		s.sessions.Touch(sessionID)
		return ctrl
	}

	s.createMu.Lock()
	if ctrl, ok := s.sessions.Get(sessionID); ok {
		s.createMu.Unlock()
		s.sessions.Touch(sessionID)
		return ctrl
	}
	ctrl := session.NewController(sessionID, s.backend, s.log, s.sink,
		session.WithNotificationTTL(s.notificationTTL))
	s.sessions.Save(ctrl)
	s.createMu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		ctrl.Initialize(ctx)
	}()

	return ctrl
}

func (s *reviewService) State(sessionID uuid.UUID) *dto.SessionStateResponse {
	return mapper.ToSessionStateResponse(s.controller(sessionID).State())
}

func (s *reviewService) Upload(ctx context.Context, sessionID uuid.UUID, filename string, sizeBytes int64, file io.Reader) (*dto.SessionStateResponse, error) {
	ctrl := s.controller(sessionID)
	err := ctrl.SubmitUpload(ctx, file, filename, sizeBytes)
	return mapper.ToSessionStateResponse(ctrl.State()), err
}

func (s *reviewService) Analyze(ctx context.Context, sessionID uuid.UUID) (*dto.SessionStateResponse, error) {
	ctrl := s.controller(sessionID)
	err := ctrl.RunAnalysis(ctx)
	return mapper.ToSessionStateResponse(ctrl.State()), err
}

func (s *reviewService) SelectClause(sessionID uuid.UUID, markerIndex int) *dto.SessionStateResponse {
	ctrl := s.controller(sessionID)
	ctrl.SelectClauseByMarkerIndex(markerIndex)
	return mapper.ToSessionStateResponse(ctrl.State())
}

func (s *reviewService) CloseClause(sessionID uuid.UUID) *dto.SessionStateResponse {
	ctrl := s.controller(sessionID)
	ctrl.CloseClauseDetail()
	return mapper.ToSessionStateResponse(ctrl.State())
}

func (s *reviewService) Reset(sessionID uuid.UUID) *dto.SessionStateResponse {
	ctrl := s.controller(sessionID)
	ctrl.Reset()
	return mapper.ToSessionStateResponse(ctrl.State())
}

func (s *reviewService) DismissNotification(sessionID uuid.UUID, notificationID string) bool {
	return s.controller(sessionID).DismissNotification(notificationID)
}

func (s *reviewService) Export(sessionID uuid.UUID) (string, []byte, error) {
	ctrl := s.controller(sessionID)
	artifact, err := ctrl.ExportSnapshot()
	if err != nil {
		return "", nil, err
	}

	payload, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return "", nil, err
	}
	return session.ExportFilename(artifact.Document), payload, nil
}

func (s *reviewService) EmailExport(sessionID uuid.UUID, toEmail string) error {
	if s.email == nil {
		return ErrMailNotConfigured
	}

	filename, payload, err := s.Export(sessionID)
	if err != nil {
		return err
	}

	ctrl := s.controller(sessionID)
	doc := ctrl.State().Document
	docName := filename
	if doc != nil {
		docName = doc.Filename
	}

	if err := s.email.SendExportArtifact(toEmail, docName, filename, payload); err != nil {
		s.log.Error("Review", "Failed to email export artifact", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return err
	}

	s.log.Info("Review", "Export artifact emailed", map[string]interface{}{
		"session_id": sessionID,
		"to":         toEmail,
	})
	return nil
}

func (s *reviewService) Search(ctx context.Context, query string, limit int) (*dto.SearchResponse, error) {
	res, err := s.backend.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	hits := make([]dto.SearchHit, len(res.Results))
	for i, h := range res.Results {
		hits[i] = dto.SearchHit{
			Text:     h.Text,
			Metadata: h.Metadata,
			Distance: h.Distance,
			ID:       h.ID,
		}
	}
	return &dto.SearchResponse{Query: res.Query, Results: hits}, nil
}

func (s *reviewService) ClassifyText(ctx context.Context, text string) (*dto.ClassifyTextResponse, error) {
	classification, err := s.backend.ClassifyText(ctx, text)
	if err != nil {
		return nil, err
	}
	return &dto.ClassifyTextResponse{Classification: *classification}, nil
}

func (s *reviewService) Health(ctx context.Context) *dto.HealthResponse {
	res := &dto.HealthResponse{Status: "healthy"}

	health, err := s.backend.Health(ctx)
	if err != nil {
		res.Backend = "unreachable"
		return res
	}
	res.Backend = health.Status
	res.ModelsLoaded = health.ModelsLoaded
	return res
}
