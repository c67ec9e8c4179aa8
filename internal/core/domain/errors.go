package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmailTaken is returned when a non-deleted account already uses the email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrFiscalIDTaken is returned when a non-deleted profile already uses the fiscal identifier.
	ErrFiscalIDTaken = errors.New("fiscal id already registered")
	// ErrRowNotFound is returned by lookups that matched no row.
	ErrRowNotFound = errors.New("row not found")
	// ErrIdentityExists is returned by the identity store on a duplicate principal.
	ErrIdentityExists = errors.New("identity already exists")
	// ErrEnrichmentUnavailable marks a failed or timed-out postal-code lookup.
	// It is always tolerated by the saga.
	ErrEnrichmentUnavailable = errors.New("address enrichment unavailable")
	// ErrBillingUnavailable marks a failed or timed-out billing call.
	// It is always tolerated by the saga.
	ErrBillingUnavailable = errors.New("billing service unavailable")
)

// ValidationError reports the mandatory fields that were empty after trimming.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}
