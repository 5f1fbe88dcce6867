// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the error taxonomy shared by stages and the orchestrator.
// Each fatal condition has its own type so callers can branch with errors.As.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyDestinationList is returned when a request lists no destinations.
var ErrEmptyDestinationList = errors.New("trip has no destinations")

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError is returned by intake when the request is malformed.
type ValidationError struct {
	Fields []FieldError
	causes []error
}

// NewValidationError builds a ValidationError. Causes are typed errors
// (ErrEmptyDestinationList, *InvalidPrimaryDestinationError) that callers may
// want to detect with errors.Is/As.
func NewValidationError(fields []FieldError, causes ...error) *ValidationError {
	return &ValidationError{Fields: fields, causes: causes}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Error())
	}
	return "invalid trip request: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() []error { return e.causes }

// InvalidPrimaryDestinationError is returned when the primary override names a
// country that is not on the destination list.
type InvalidPrimaryDestinationError struct {
	Country string
	Listed  []string
}

func (e *InvalidPrimaryDestinationError) Error() string {
	return fmt.Sprintf("primary destination %q is not one of the listed destinations (%s)", e.Country, strings.Join(e.Listed, ", "))
}

// GenerationUnavailableError is fatal: no text generation provider is
// configured, so no narrative content can be produced.
type GenerationUnavailableError struct {
	Stage StageName
	Err   error
}

func (e *GenerationUnavailableError) Error() string {
	if e.Stage == "" {
		return fmt.Sprintf("text generation unavailable: %v", e.Err)
	}
	return fmt.Sprintf("text generation unavailable for stage %s: %v", e.Stage, e.Err)
}

func (e *GenerationUnavailableError) Unwrap() error { return e.Err }

// ValidationFailedError is returned by the validation stage. It lists the
// violations and never carries a repaired pack.
type ValidationFailedError struct {
	Violations []string
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("pack validation failed: %s", strings.Join(e.Violations, "; "))
}

// BarrierViolationError signals that a stage observed an upstream stage still
// pending. It indicates an orchestration bug.
type BarrierViolationError struct {
	Stage    StageName
	Upstream StageName
}

func (e *BarrierViolationError) Error() string {
	return fmt.Sprintf("stage %s started before %s finished", e.Stage, e.Upstream)
}
