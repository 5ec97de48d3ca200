// SPDX-License-Identifier: Apache-2.0

package service

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/contratoflow/sync-engine/models"
)

// Field names reported in [models.FieldConflict] entries.
const (
	conflictFieldObject       = "object"
	conflictFieldValue        = "value"
	conflictFieldStatus       = "status"
	conflictFieldSignDate     = "sign_date"
	conflictFieldStartDate    = "start_date"
	conflictFieldEndDate      = "end_date"
	conflictFieldSupplierName = "supplier_name"
)

// DetectConflicts compares the substantive business fields of a local
// contract against the registry's snapshot and returns one entry per
// genuine difference. Comparison is normalized so that formatting noise
// never produces a conflict: strings are trimmed, monetary values compared
// at cent precision, and dates by instant.
func DetectConflicts(local models.Contract, remote models.RemoteSnapshot) []models.FieldConflict {
	var conflicts []models.FieldConflict

	if !equalText(local.Object, remote.Object) {
		conflicts = append(conflicts, models.FieldConflict{
			Field:       conflictFieldObject,
			LocalValue:  strings.TrimSpace(local.Object),
			RemoteValue: strings.TrimSpace(remote.Object),
		})
	}
	if !equalMoney(local.Value, remote.Value) {
		conflicts = append(conflicts, models.FieldConflict{
			Field:       conflictFieldValue,
			LocalValue:  formatMoney(local.Value),
			RemoteValue: formatMoney(remote.Value),
		})
	}
	if !equalFold(local.Status, remote.Status) {
		conflicts = append(conflicts, models.FieldConflict{
			Field:       conflictFieldStatus,
			LocalValue:  strings.TrimSpace(local.Status),
			RemoteValue: strings.TrimSpace(remote.Status),
		})
	}
	if !equalDate(local.SignDate, remote.SignDate) {
		conflicts = append(conflicts, models.FieldConflict{
			Field:       conflictFieldSignDate,
			LocalValue:  formatDate(local.SignDate),
			RemoteValue: formatDate(remote.SignDate),
		})
	}
	if !equalDate(local.StartDate, remote.StartDate) {
		conflicts = append(conflicts, models.FieldConflict{
			Field:       conflictFieldStartDate,
			LocalValue:  formatDate(local.StartDate),
			RemoteValue: formatDate(remote.StartDate),
		})
	}
	if !equalDate(local.EndDate, remote.EndDate) {
		conflicts = append(conflicts, models.FieldConflict{
			Field:       conflictFieldEndDate,
			LocalValue:  formatDate(local.EndDate),
			RemoteValue: formatDate(remote.EndDate),
		})
	}
	if !equalText(local.SupplierName, remote.SupplierName) {
		conflicts = append(conflicts, models.FieldConflict{
			Field:       conflictFieldSupplierName,
			LocalValue:  strings.TrimSpace(local.SupplierName),
			RemoteValue: strings.TrimSpace(remote.SupplierName),
		})
	}

	return conflicts
}

// LocalWins decides the last-write-wins direction for a detected conflict:
// the local record wins only when it carries edits newer than its last
// confirmed sync, meaning the local side changed after the registry state
// was last known. A record that was never synced always wins; an exact tie
// goes to the registry, which is the system of record.
func LocalWins(local models.Contract) bool {
	if local.SyncedAt == nil {
		return true
	}
	return local.UpdatedAt.After(*local.SyncedAt)
}

// applyRemote overwrites the contract's business fields with the snapshot
// and stamps it as synced. UpdatedAt is aligned with the registry's
// timestamp so a subsequent pull of the same snapshot detects no edits.
func applyRemote(local models.Contract, remote models.RemoteSnapshot, syncedAt time.Time) models.Contract {
	merged := local
	merged.Object = remote.Object
	merged.Value = remote.Value
	merged.Status = remote.Status
	merged.SignDate = remote.SignDate
	merged.StartDate = remote.StartDate
	merged.EndDate = remote.EndDate
	merged.SupplierName = remote.SupplierName

	remoteID := remote.RemoteID
	merged.RemoteID = &remoteID
	merged.SyncStatus = models.SyncSynced
	merged.SyncedAt = &syncedAt
	merged.SyncErrorMessage = nil

	// the registry may omit dataAtualizacao; the sync instant keeps the
	// record ordered instead of a zero timestamp
	merged.UpdatedAt = remote.UpdatedAt
	if remote.UpdatedAt.IsZero() {
		merged.UpdatedAt = syncedAt
	}

	return merged
}

// keepLocal adopts the registry's identity onto the locally winning record
// without touching its business fields. The contract is marked conflicted
// until the next push republishes the local version.
func keepLocal(local models.Contract, remote models.RemoteSnapshot) models.Contract {
	merged := local

	remoteID := remote.RemoteID
	merged.RemoteID = &remoteID
	merged.SyncStatus = models.SyncConflict

	return merged
}

func equalText(a, b string) bool {
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func equalMoney(a, b float64) bool {
	return math.Round(a*100) == math.Round(b*100)
}

func equalDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format("2006-01-02")
}
