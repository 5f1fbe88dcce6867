// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the stage namespaces of the trip state and the status
// vocabulary for stages and for the finished pack.
package model

// StageName is both a stage's identity and the trip-state namespace it owns.
type StageName string

const (
	StageIntake     StageName = "intake"
	StageResolve    StageName = "resolved"
	StageFlights    StageName = "flights"
	StageHotels     StageName = "hotels"
	StageBudget     StageName = "budget"
	StageItinerary  StageName = "itinerary"
	StageVisa       StageName = "visa"
	StageDocuments  StageName = "documents"
	StageValidation StageName = "validation"
)

// StageStatus is the per-stage status recorded in the trip state.
type StageStatus string

const (
	StatusPending  StageStatus = "pending"
	StatusOK       StageStatus = "ok"
	StatusDegraded StageStatus = "degraded"
	StatusFailed   StageStatus = "failed"
)

// Terminal reports whether s is a final status.
func (s StageStatus) Terminal() bool {
	return s == StatusOK || s == StatusDegraded || s == StatusFailed
}

// PackStatus is the overall outcome of a run.
type PackStatus string

const (
	PackComplete         PackStatus = "complete"
	PackCompleteDegraded PackStatus = "complete_degraded"
	PackFailed           PackStatus = "failed"
)
