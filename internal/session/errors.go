package session

import "errors"

// Validation errors are detected locally and never reach the network.
var (
	ErrInvalidFileType = errors.New("session: only PDF files are supported")
	ErrFileTooLarge    = errors.New("session: file exceeds the 10MB limit")
)

// Precondition errors mark operations the presentation layer should have
// disabled. They are defensive no-ops, never crashes.
var (
	ErrBusy            = errors.New("session: an operation is already in flight")
	ErrNoDocument      = errors.New("session: no document uploaded")
	ErrDocumentActive  = errors.New("session: a document is already active, reset first")
	ErrNothingToExport = errors.New("session: nothing to export")
	ErrClosed          = errors.New("session: controller is closed")
)
