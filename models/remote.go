package models

import "time"

// RemoteSnapshot is the transient, in-memory projection of the registry's
// view of one contract, produced by the wire translation layer and consumed
// immediately by conflict detection. It is never persisted.
type RemoteSnapshot struct {
	RemoteID       string
	ContractNumber string
	Object         string
	Value          float64
	Status         string
	SignDate       *time.Time
	StartDate      *time.Time
	EndDate        *time.Time
	SupplierName   string
	SupplierTaxID  string

	// UpdatedAt is the registry's own last-modification instant
	// (dataAtualizacao). Informational; the LWW decision reads the local
	// contract's timestamps.
	UpdatedAt time.Time
}
