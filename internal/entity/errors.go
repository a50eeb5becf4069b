package entity

import "errors"

// ErrorKind is the closed taxonomy of core errors (§7 Error taxonomy). It is
// attached to every *CoreError so callers can branch on kind without string
// matching.
type ErrorKind string

const (
	KindNotFound        ErrorKind = "NotFound"
	KindMismatch        ErrorKind = "Mismatch"
	KindSavedSetWrite   ErrorKind = "SavedSetWrite"
	KindNoDraft         ErrorKind = "NoDraft"
	KindAlreadySaved    ErrorKind = "AlreadySaved"
	KindNotSaved        ErrorKind = "NotSaved"
	KindValidation      ErrorKind = "ValidationError"
	KindCorruptMapping  ErrorKind = "CorruptMapping"
	KindDataIntegrity   ErrorKind = "DataIntegrity"
	KindCancelled       ErrorKind = "Cancelled"
)

// CoreError is a structured error record (§7 "errors surface as structured
// records with code, human message, details map, and optional help").
type CoreError struct {
	Kind    ErrorKind
	Message string
	Details map[string]interface{}
	Help    string
}

// Error implements the error interface.
func (e *CoreError) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Message
}

// NewCoreError builds a CoreError of the given kind.
func NewCoreError(kind ErrorKind, message string) *CoreError {
	return &CoreError{Kind: kind, Message: message}
}

// WithDetails attaches structured detail fields and returns the receiver for
// chaining, matching the teacher's fluent-accumulator style.
func (e *CoreError) WithDetails(details map[string]interface{}) *CoreError {
	e.Details = details
	return e
}

// WithHelp attaches a help string and returns the receiver for chaining.
func (e *CoreError) WithHelp(help string) *CoreError {
	e.Help = help
	return e
}

// IsKind reports whether err is a *CoreError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	ce, ok := err.(*CoreError)
	return ok && ce.Kind == kind
}

// Sentinel convenience constructors, one per kind (§7).
func ErrNotFound(resourceType, id string) *CoreError {
	return NewCoreError(KindNotFound, resourceType+" not found: "+id).
		WithDetails(map[string]interface{}{"resourceType": resourceType, "id": id})
}

func ErrMismatch(message string) *CoreError {
	return NewCoreError(KindMismatch, message)
}

func ErrSavedSetWrite(ruleSetID string) *CoreError {
	return NewCoreError(KindSavedSetWrite, "rule set is saved and immutable: "+ruleSetID).
		WithDetails(map[string]interface{}{"ruleSetId": ruleSetID})
}

func ErrNoDraft(practiceID string) *CoreError {
	return NewCoreError(KindNoDraft, "practice has no draft rule set: "+practiceID)
}

func ErrAlreadySaved(ruleSetID string) *CoreError {
	return NewCoreError(KindAlreadySaved, "rule set is already saved: "+ruleSetID)
}

func ErrNotSaved(ruleSetID string) *CoreError {
	return NewCoreError(KindNotSaved, "rule set is not saved: "+ruleSetID)
}

func ErrCorruptMapping(message string) *CoreError {
	return NewCoreError(KindCorruptMapping, message).
		WithHelp("this indicates a prior bug in deep-copy or remapping; it should never occur on a consistent store")
}

func ErrDataIntegrity(message string) *CoreError {
	return NewCoreError(KindDataIntegrity, message)
}

func ErrCancelled() *CoreError {
	return NewCoreError(KindCancelled, "request cancelled")
}

// Legacy sentinel errors. No method in this package returns them; they are
// plain stdlib errors, and errors_test uses one to show that IsKind never
// matches an error that is not a CoreError.
var (
	ErrInvalidDateRange = errors.New("invalid date range: end date must be after start date")
)
