// SPDX-License-Identifier: Apache-2.0

package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrContractNotFound is returned when a query targets a contract that
	// does not exist in the database.
	ErrContractNotFound = errors.New("contract was not found")

	// ErrContractNumberTaken is returned when an INSERT violates the unique
	// (organization_id, contract_number) constraint.
	ErrContractNumberTaken = errors.New("contract number already exists for organization")

	// ErrStaleContract is returned when an optimistic-locking check fails:
	// the version supplied by the caller no longer matches the stored row,
	// meaning another writer updated the contract in between.
	ErrStaleContract = errors.New("contract version conflict occurred")

	// ErrStorageUnavailable wraps driver errors the classifier deems
	// transient (connection loss, deadlock rollback). Callers holding a
	// work item may re-enqueue it when they see this sentinel.
	ErrStorageUnavailable = errors.New("storage temporarily unavailable")
)

// Low-level database operation errors, wrapped around the driver error when
// a SQL-level operation fails before any domain logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRow is returned when scanning column values from a result
	// row fails.
	ErrScanningRow = errors.New("failed to scan row")
)
