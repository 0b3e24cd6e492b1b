package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrConfig indicates missing or invalid configuration.
	// Fatal to the affected connector instance only.
	ErrConfig = errors.New("configuration error")

	// ErrAuth indicates credentials are missing, malformed, or were
	// rejected by the remote. Fatal to the affected instance only.
	ErrAuth = errors.New("authentication failed")

	// ErrRemoteUnavailable indicates a transient network or API
	// failure during enumerate/fetch. Retryable by a policy outside
	// the sync core; never swallowed.
	ErrRemoteUnavailable = errors.New("remote unavailable")

	// ErrNotFound indicates a requested entity does not exist.
	// During a sync pass this is an expected race between enumeration
	// and fetch and is skipped, not fatal.
	ErrNotFound = errors.New("not found")

	// ErrInvalidDocument indicates a connector produced a document
	// that does not satisfy the unified schema.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrConnectorClosed indicates the connector has been closed.
	ErrConnectorClosed = errors.New("connector closed")

	// ErrIndexClosed indicates the index store has been closed.
	ErrIndexClosed = errors.New("index closed")
)

// SchemaConflictError reports two connector kinds declaring the same
// field name with different types. Detected at schema-build time,
// before any indexing occurs.
type SchemaConflictError struct {
	// Field is the colliding field name.
	Field string

	// Kind declared the field with Declared.
	Kind     string
	Declared FieldSpec

	// ExistingKind already contributed the field as Existing.
	// Empty when the collision is with the common sub-schema.
	ExistingKind string
	Existing     FieldSpec
}

func (e *SchemaConflictError) Error() string {
	owner := e.ExistingKind
	if owner == "" {
		owner = "common schema"
	}
	return fmt.Sprintf("schema conflict on field %q: kind %q declares %s but %s already declares %s",
		e.Field, e.Kind, e.Declared, owner, e.Existing)
}

// SchemaMismatchError reports that an existing on-disk index was built
// against a different schema than the current unified schema.
// The index is never silently adapted.
type SchemaMismatchError struct {
	// Path is the index location.
	Path string

	// Want and Got are schema fingerprints.
	Want string
	Got  string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("index at %s was built with a different schema (have %s, want %s); rebuild the index",
		e.Path, e.Got, e.Want)
}

// UnknownDoctypeError reports a lookup for a kind label that was never
// registered. Known labels are included to aid diagnosis.
type UnknownDoctypeError struct {
	Kind  string
	Known []string
}

func (e *UnknownDoctypeError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown document kind %q (no kinds registered)", e.Kind)
	}
	return fmt.Sprintf("unknown document kind %q (known kinds: %s)", e.Kind, strings.Join(e.Known, ", "))
}

// IsSchemaConflict reports whether err is a SchemaConflictError.
func IsSchemaConflict(err error) bool {
	var conflict *SchemaConflictError
	return errors.As(err, &conflict)
}

// IsSchemaMismatch reports whether err is a SchemaMismatchError.
func IsSchemaMismatch(err error) bool {
	var mismatch *SchemaMismatchError
	return errors.As(err, &mismatch)
}

// IsUnknownDoctype reports whether err is an UnknownDoctypeError.
func IsUnknownDoctype(err error) bool {
	var unknown *UnknownDoctypeError
	return errors.As(err, &unknown)
}
