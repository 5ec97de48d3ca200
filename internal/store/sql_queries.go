// SPDX-License-Identifier: Apache-2.0

package store

import (
	sq "github.com/Masterminds/squirrel"
)

const contractColumns = `id, organization_id, contract_number, object, value, status,
		sign_date, start_date, end_date, supplier_name, supplier_role,
		remote_id, sync_status, synced_at, sync_error_message,
		created_at, updated_at, version`

const (
	saveContract = `INSERT INTO contracts (
			organization_id,
			contract_number,
			object,
			value,
			status,
			sign_date,
			start_date,
			end_date,
			supplier_name,
			supplier_role,
			sync_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + contractColumns + `;`

	getContractByID = `SELECT ` + contractColumns + `
		FROM contracts
		WHERE id = $1;`

	getContractByNumber = `SELECT ` + contractColumns + `
		FROM contracts
		WHERE organization_id = $1 AND contract_number = $2;`

	markContractSynced = `UPDATE contracts
		SET remote_id = $2,
			sync_status = 'synced',
			synced_at = $3,
			sync_error_message = NULL
		WHERE id = $1
		RETURNING ` + contractColumns + `;`

	markContractSyncError = `UPDATE contracts
		SET sync_status = 'error',
			sync_error_message = $2
		WHERE id = $1;`

	reconcileContract = `UPDATE contracts
		SET object = $2,
			value = $3,
			status = $4,
			sign_date = $5,
			start_date = $6,
			end_date = $7,
			supplier_name = $8,
			supplier_role = $9,
			remote_id = $10,
			sync_status = $11,
			synced_at = $12,
			sync_error_message = $13,
			updated_at = $14,
			version = version + 1
		WHERE id = $1 AND version = $15
		RETURNING ` + contractColumns + `;`

	appendSyncLog = `INSERT INTO sync_log (contract_id, action, conflicts, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, contract_id, action, conflicts, message, occurred_at;`

	listSyncLogByContract = `SELECT id, contract_id, action, conflicts, message, occurred_at
		FROM sync_log
		WHERE contract_id = $1
		ORDER BY occurred_at, id;`
)

// buildListQuery assembles the filtered contract listing dynamically; only
// non-nil filter fields become WHERE clauses.
func buildListQuery(filter ContractFilter) (string, []any, error) {
	builder := sq.
		Select("id", "organization_id", "contract_number", "object", "value", "status",
			"sign_date", "start_date", "end_date", "supplier_name", "supplier_role",
			"remote_id", "sync_status", "synced_at", "sync_error_message",
			"created_at", "updated_at", "version").
		From("contracts").
		OrderBy("updated_at DESC").
		PlaceholderFormat(sq.Dollar)

	if filter.OrganizationID != nil {
		builder = builder.Where(sq.Eq{"organization_id": *filter.OrganizationID})
	}
	if filter.SyncStatus != nil {
		builder = builder.Where(sq.Eq{"sync_status": string(*filter.SyncStatus)})
	}
	if filter.UpdatedSince != nil {
		builder = builder.Where(sq.GtOrEq{"updated_at": *filter.UpdatedSince})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	return builder.ToSql()
}
