package models

import (
	"time"

	"github.com/google/uuid"
)

// SyncStatus describes where a contract stands in its reconciliation
// lifecycle with the remote registry.
type SyncStatus string

const (
	// SyncPending marks a contract that has local changes never confirmed
	// by the registry. Freshly created contracts start here.
	SyncPending SyncStatus = "pending"

	// SyncSynced marks a contract whose last reconciliation with the
	// registry succeeded. RemoteID is guaranteed to be set.
	SyncSynced SyncStatus = "synced"

	// SyncError marks a contract whose last push or pull reconciliation
	// failed. SyncErrorMessage carries the human-readable cause.
	SyncError SyncStatus = "error"

	// SyncConflict marks a contract whose last reconciliation detected
	// concurrent local and remote edits. The resolution is recorded in the
	// sync log.
	SyncConflict SyncStatus = "conflict"
)

// Contract is the locally owned business record synchronized against the
// national procurement registry.
//
// Business fields (number, object, value, dates, parties, status) are owned
// by the drafting layer; the sync-specific fields (RemoteID, SyncStatus,
// SyncedAt, SyncErrorMessage) are mutated exclusively by the sync engine.
// UpdatedAt is bumped by every local mutation and is the signal the
// last-write-wins resolution reads.
type Contract struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`

	// ContractNumber is the natural key, unique within an organization
	// (e.g. "CT-2026/0042").
	ContractNumber string `json:"contract_number"`

	Object       string     `json:"object"`
	Value        float64    `json:"value"`
	Status       string     `json:"status"`
	SignDate     *time.Time `json:"sign_date,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	SupplierName string     `json:"supplier_name"`

	// SupplierRole is free text entered by the drafting layer; it must
	// contain the supplier tax id (CNPJ) somewhere in its 14 digits, e.g.
	// "Contratada: ACME Ltda (12.345.678/0001-95)".
	SupplierRole string `json:"supplier_role"`

	RemoteID         *string    `json:"remote_id,omitempty"`
	SyncStatus       SyncStatus `json:"sync_status"`
	SyncedAt         *time.Time `json:"synced_at,omitempty"`
	SyncErrorMessage *string    `json:"sync_error_message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
}

// HasUnsyncedLocalEdits reports whether the contract carries local
// mutations newer than the last confirmed reconciliation. A contract that
// has never synced counts as locally edited.
func (c Contract) HasUnsyncedLocalEdits() bool {
	if c.SyncedAt == nil {
		return true
	}
	return c.UpdatedAt.After(*c.SyncedAt)
}
