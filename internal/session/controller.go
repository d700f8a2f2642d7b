// Package session holds the analysis session state machine: the one piece
// of the review frontend with a real contract. A Controller owns the
// current phase (upload -> dashboard -> results), the active document and
// its analysis, the clause selection, and the transient notifications.
// Everything else in this service is plumbing around it.
package session

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"contract-review-fe/internal/entity"
	"contract-review-fe/internal/pkg/logger"
	"contract-review-fe/pkg/analyzer"

	"github.com/google/uuid"
)

// MaxUploadBytes mirrors the backend's upload cap. Violations are rejected
// locally, before any network call.
const MaxUploadBytes = 10 * 1024 * 1024

// DefaultNotificationTTL is how long a toast stays up unless dismissed.
const DefaultNotificationTTL = 5 * time.Second

// Removal reasons reported through the NotificationSink.
const (
	RemovalExpired   = "expired"
	RemovalDismissed = "dismissed"
)

// NotificationSink observes notification lifecycle events so they can be
// fanned out (event bus, WebSocket) without the controller knowing about
// transports. Implementations must not call back into the Controller.
type NotificationSink interface {
	NotificationCreated(sessionID uuid.UUID, n entity.Notification)
	NotificationRemoved(sessionID uuid.UUID, notificationID, reason string)
}

// State is a deep-copied snapshot of the controller for rendering. The
// presentation layer must treat every field as read-only.
type State struct {
	Phase               entity.SessionPhase
	Document            *entity.DocumentMetadata
	Result              *entity.AnalysisResult
	Clauses             []entity.ClassifiedClause
	RedlinedHTML        string
	SelectedClauseIndex *int
	Busy                bool
	Progress            int
	Notifications       []entity.Notification
}

type Option func(*Controller)

// WithNotificationTTL overrides the toast display duration. Tests use it to
// avoid real five-second waits.
func WithNotificationTTL(ttl time.Duration) Option {
	return func(c *Controller) {
		c.notificationTTL = ttl
	}
}

// Controller is the session state machine. It is safe for concurrent use;
// the mutex is released across backend calls so the synchronous operations
// (select, close, reset, dismiss) stay live while an upload or analysis is
// in flight. The busy flag is the concurrency gate: a second upload or
// analysis while busy is rejected with ErrBusy, never queued.
type Controller struct {
	id      uuid.UUID
	backend analyzer.Client
	log     logger.ILogger
	sink    NotificationSink

	notificationTTL time.Duration

	mu            sync.Mutex
	phase         entity.SessionPhase
	document      *entity.DocumentMetadata
	result        *entity.AnalysisResult
	clauses       []entity.ClassifiedClause
	redlinedHTML  string
	selected      *int
	busy          bool
	progress      int
	generation    uint64
	notifications []entity.Notification
	timers        map[string]*time.Timer
	closed        bool
}

func NewController(id uuid.UUID, backend analyzer.Client, log logger.ILogger, sink NotificationSink, opts ...Option) *Controller {
	c := &Controller{
		id:              id,
		backend:         backend,
		log:             log,
		sink:            sink,
		notificationTTL: DefaultNotificationTTL,
		phase:           entity.PhaseUpload,
		timers:          make(map[string]*time.Timer),
	}
	if c.log == nil {
		c.log = logger.Nop{}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) ID() uuid.UUID {
	return c.id
}

// Initialize runs the startup health check. A failing check emits a warning
// toast and nothing else; the session starts regardless.
func (c *Controller) Initialize(ctx context.Context) {
	if _, err := c.backend.Health(ctx); err != nil {
		c.log.Warn("Session", "Backend health check failed", map[string]interface{}{
			"session_id": c.id,
			"error":      err.Error(),
		})
		c.Notify("System health check failed", entity.SeverityWarning)
		return
	}
	c.log.Debug("Session", "Backend healthy", map[string]interface{}{"session_id": c.id})
}

// SubmitUpload validates locally, then hands the file to the backend.
// Validation failures emit exactly one error toast and leave state
// untouched without any network call.
func (c *Controller) SubmitUpload(ctx context.Context, file io.Reader, filename string, sizeBytes int64) error {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		c.Notify("Please select a PDF file", entity.SeverityError)
		return ErrInvalidFileType
	}
	if sizeBytes > MaxUploadBytes {
		c.Notify("File size must be less than 10MB", entity.SeverityError)
		return ErrFileTooLarge
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.phase != entity.PhaseUpload {
		// A new document only enters through the upload phase; leaving
		// Dashboard or Results requires an explicit Reset. Otherwise a raw
		// request could pair a fresh document with a stale analysis.
		c.mu.Unlock()
		return ErrDocumentActive
	}
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.busy = true
	c.progress = 10
	gen := c.generation
	c.mu.Unlock()

	res, err := c.backend.Upload(ctx, filename, file)

	c.mu.Lock()
	c.busy = false
	if gen != c.generation {
		// Session was reset while the upload was in flight; the result
		// belongs to a torn-down session and is discarded on arrival.
		c.progress = 0
		c.mu.Unlock()
		c.log.Info("Session", "Discarding stale upload result", map[string]interface{}{"session_id": c.id})
		return nil
	}
	if err != nil {
		c.progress = 0
		c.mu.Unlock()
		msg := analyzer.FailureMessage(err)
		if msg == "" {
			msg = "Upload failed. Please try again."
		}
		c.Notify(msg, entity.SeverityError)
		c.log.Error("Session", "Upload failed", map[string]interface{}{
			"session_id": c.id,
			"filename":   filename,
			"error":      err.Error(),
		})
		return err
	}

	doc := res.Metadata
	c.document = &doc
	c.phase = entity.PhaseDashboard
	c.progress = 100
	c.mu.Unlock()

	c.log.Info("Session", "Document uploaded", map[string]interface{}{
		"session_id": c.id,
		"doc_id":     doc.DocID,
		"clauses":    doc.TotalClauses,
	})
	c.Notify("Document uploaded successfully!", entity.SeveritySuccess)
	return nil
}

// RunAnalysis asks the backend to analyze the current document. Result,
// clauses and redlined HTML are replaced together or not at all. A failed
// analysis keeps the document, so the user retries from the dashboard
// without re-uploading.
func (c *Controller) RunAnalysis(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.document == nil {
		c.mu.Unlock()
		c.log.Warn("Session", "RunAnalysis without a document", map[string]interface{}{"session_id": c.id})
		return ErrNoDocument
	}
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.busy = true
	gen := c.generation
	docID := c.document.DocID
	c.mu.Unlock()

	res, err := c.backend.Analyze(ctx, docID)

	c.mu.Lock()
	c.busy = false
	if gen != c.generation {
		c.mu.Unlock()
		c.log.Info("Session", "Discarding stale analysis result", map[string]interface{}{"session_id": c.id})
		return nil
	}
	if err != nil {
		c.mu.Unlock()
		msg := analyzer.FailureMessage(err)
		if msg == "" {
			msg = "Analysis failed. Please try again."
		}
		c.Notify(msg, entity.SeverityError)
		c.log.Error("Session", "Analysis failed", map[string]interface{}{
			"session_id": c.id,
			"doc_id":     docID,
			"error":      err.Error(),
		})
		return err
	}

	analysis := res.Analysis
	c.result = &analysis
	c.clauses = res.Clauses
	c.redlinedHTML = res.RedlinedHTML
	c.selected = nil
	c.phase = entity.PhaseResults
	c.mu.Unlock()

	c.log.Info("Session", "Analysis completed", map[string]interface{}{
		"session_id":   c.id,
		"doc_id":       docID,
		"overall_risk": analysis.OverallRisk,
	})
	c.Notify("Analysis completed!", entity.SeveritySuccess)
	return nil
}

// SelectClauseByMarkerIndex opens the detail view for the clause behind a
// data-clause-index marker. Marker values come from backend-generated HTML,
// so anything out of range is tolerated as a no-op.
func (c *Controller) SelectClauseByMarkerIndex(markerIndex int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if markerIndex < 0 || markerIndex >= len(c.clauses) {
		return false
	}
	idx := markerIndex
	c.selected = &idx
	return true
}

func (c *Controller) CloseClauseDetail() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = nil
}

// ExportSnapshot packages the current review into a standalone artifact.
// The artifact holds copies; later session mutations never reach it.
func (c *Controller) ExportSnapshot() (*entity.ExportArtifact, error) {
	c.mu.Lock()
	if c.document == nil || c.result == nil {
		c.mu.Unlock()
		c.Notify("Nothing to export yet", entity.SeverityWarning)
		return nil, ErrNothingToExport
	}
	artifact := &entity.ExportArtifact{
		Document: *c.document,
		Analysis: *c.result.Clone(),
		Clauses:  entity.CloneClauses(c.clauses),
	}
	c.mu.Unlock()

	c.Notify("Analysis exported successfully!", entity.SeveritySuccess)
	return artifact, nil
}

// ExportFilename derives the download name from the document's filename
// with its extension stripped.
func ExportFilename(doc entity.DocumentMetadata) string {
	name := doc.Filename
	if strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name = name[:len(name)-len(".pdf")]
	}
	return "contract-analysis-" + name + ".json"
}

// Reset returns the session to the upload phase. In-flight notifications
// keep their own lifecycle; a backend call still in flight has its result
// discarded on arrival via the generation guard.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.document = nil
	c.result = nil
	c.clauses = nil
	c.redlinedHTML = ""
	c.selected = nil
	c.progress = 0
	c.phase = entity.PhaseUpload
}

// Notify creates a toast with a unique id and schedules its own expiry.
// Safe to call from any goroutine; each toast is independent.
func (c *Controller) Notify(message string, severity entity.Severity) entity.Notification {
	n := entity.Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return n
	}
	c.notifications = append(c.notifications, n)
	c.timers[n.ID] = time.AfterFunc(c.notificationTTL, func() {
		c.expireNotification(n.ID)
	})
	c.mu.Unlock()

	if c.sink != nil {
		c.sink.NotificationCreated(c.id, n)
	}
	return n
}

// DismissNotification removes a toast ahead of its timer. Returns false if
// the id is unknown (already expired or dismissed).
func (c *Controller) DismissNotification(id string) bool {
	c.mu.Lock()
	removed := c.removeNotificationLocked(id)
	c.mu.Unlock()

	if removed && c.sink != nil {
		c.sink.NotificationRemoved(c.id, id, RemovalDismissed)
	}
	return removed
}

func (c *Controller) expireNotification(id string) {
	c.mu.Lock()
	removed := c.removeNotificationLocked(id)
	c.mu.Unlock()

	if removed && c.sink != nil {
		c.sink.NotificationRemoved(c.id, id, RemovalExpired)
	}
}

func (c *Controller) removeNotificationLocked(id string) bool {
	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
	for i, n := range c.notifications {
		if n.ID == id {
			c.notifications = append(c.notifications[:i], c.notifications[i+1:]...)
			return true
		}
	}
	return false
}

// Close cancels every pending expiry timer. Called when the session store
// evicts the controller so no dangling callback mutates a disposed session.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
}

// State returns a deep-copied snapshot for rendering.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{
		Phase:        c.phase,
		RedlinedHTML: c.redlinedHTML,
		Busy:         c.busy,
		Progress:     c.progress,
		Clauses:      entity.CloneClauses(c.clauses),
	}
	if c.document != nil {
		doc := *c.document
		s.Document = &doc
	}
	s.Result = c.result.Clone()
	if c.selected != nil {
		idx := *c.selected
		s.SelectedClauseIndex = &idx
	}
	s.Notifications = append([]entity.Notification(nil), c.notifications...)
	return s
}
