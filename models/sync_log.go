package models

import (
	"time"

	"github.com/google/uuid"
)

// SyncAction classifies one sync-log entry.
type SyncAction string

const (
	ActionPush             SyncAction = "push"
	ActionPullCreate       SyncAction = "pull_create"
	ActionPullUpdate       SyncAction = "pull_update"
	ActionConflictResolved SyncAction = "conflict_resolved"
	ActionError            SyncAction = "error"
)

// FieldConflict records one substantive field-level difference between the
// local contract and the registry's snapshot of it.
type FieldConflict struct {
	Field       string `json:"field"`
	LocalValue  string `json:"local_value"`
	RemoteValue string `json:"remote_value"`
}

// SyncLogEntry is the append-only audit record written once per sync
// attempt. Entries are never updated or deleted; the trail must stay
// reconstructable independently of the contract's current state.
type SyncLogEntry struct {
	ID         uuid.UUID       `json:"id"`
	ContractID uuid.UUID       `json:"contract_id"`
	Action     SyncAction      `json:"action"`
	Conflicts  []FieldConflict `json:"conflicts,omitempty"`
	Message    string          `json:"message"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// PullResult aggregates the outcome of one best-effort pull batch.
// Created+Updated+Errors always equals the number of remote records the
// batch contained.
type PullResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
}
