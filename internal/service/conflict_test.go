// SPDX-License-Identifier: Apache-2.0

package service

import (
	"testing"
	"time"

	"github.com/contratoflow/sync-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseLocal() models.Contract {
	sign := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	return models.Contract{
		ContractNumber: "CT-2026/0042",
		Object:         "Aquisição de material de expediente",
		Value:          150000.50,
		Status:         "ativo",
		SignDate:       &sign,
		SupplierName:   "ACME Ltda",
		UpdatedAt:      time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func baseRemote() models.RemoteSnapshot {
	sign := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	return models.RemoteSnapshot{
		RemoteID:       "pncp-778",
		ContractNumber: "CT-2026/0042",
		Object:         "Aquisição de material de expediente",
		Value:          150000.50,
		Status:         "ativo",
		SignDate:       &sign,
		SupplierName:   "ACME Ltda",
		UpdatedAt:      time.Date(2026, 5, 1, 11, 0, 0, 0, time.UTC),
	}
}

func TestDetectConflicts_IdenticalRecords(t *testing.T) {
	assert.Empty(t, DetectConflicts(baseLocal(), baseRemote()))
}

func TestDetectConflicts_NormalizationAvoidsFalseConflicts(t *testing.T) {
	tests := []struct {
		name   string
		local  func(*models.Contract)
		remote func(*models.RemoteSnapshot)
	}{
		{
			name:  "surrounding whitespace on object",
			local: func(c *models.Contract) { c.Object = "  Aquisição de material de expediente  " },
		},
		{
			name:   "status casing",
			remote: func(r *models.RemoteSnapshot) { r.Status = "ATIVO" },
		},
		{
			name:  "sub-cent monetary noise",
			local: func(c *models.Contract) { c.Value = 150000.5000001 },
		},
		{
			name: "same date in a different location",
			remote: func(r *models.RemoteSnapshot) {
				loc := time.FixedZone("BRT", -3*3600)
				d := time.Date(2026, 3, 9, 21, 0, 0, 0, loc) // same instant as 2026-03-10 UTC
				r.SignDate = &d
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := baseLocal()
			remote := baseRemote()
			if tt.local != nil {
				tt.local(&local)
			}
			if tt.remote != nil {
				tt.remote(&remote)
			}

			assert.Empty(t, DetectConflicts(local, remote))
		})
	}
}

func TestDetectConflicts_SubstantiveDifferences(t *testing.T) {
	tests := []struct {
		name      string
		local     func(*models.Contract)
		remote    func(*models.RemoteSnapshot)
		wantField string
	}{
		{
			name:      "object reworded",
			remote:    func(r *models.RemoteSnapshot) { r.Object = "Aquisição de mobiliário" },
			wantField: "object",
		},
		{
			name:      "value moved by one cent",
			remote:    func(r *models.RemoteSnapshot) { r.Value = 150000.51 },
			wantField: "value",
		},
		{
			name:      "status changed",
			local:     func(c *models.Contract) { c.Status = "encerrado" },
			wantField: "status",
		},
		{
			name:      "sign date present only remotely",
			local:     func(c *models.Contract) { c.SignDate = nil },
			wantField: "sign_date",
		},
		{
			name: "end date differs",
			local: func(c *models.Contract) {
				d := time.Date(2027, 3, 31, 0, 0, 0, 0, time.UTC)
				c.EndDate = &d
			},
			wantField: "end_date",
		},
		{
			name:      "supplier renamed",
			remote:    func(r *models.RemoteSnapshot) { r.SupplierName = "ACME Comércio Ltda" },
			wantField: "supplier_name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := baseLocal()
			remote := baseRemote()
			if tt.local != nil {
				tt.local(&local)
			}
			if tt.remote != nil {
				tt.remote(&remote)
			}

			conflicts := DetectConflicts(local, remote)
			require.Len(t, conflicts, 1)
			assert.Equal(t, tt.wantField, conflicts[0].Field)
		})
	}
}

func TestLocalWins(t *testing.T) {
	local := baseLocal()
	syncedAt := local.UpdatedAt.Add(-time.Hour)
	local.SyncedAt = &syncedAt

	// edited after the last confirmed sync
	assert.True(t, LocalWins(local))

	// untouched since the last sync
	local.UpdatedAt = syncedAt.Add(-time.Minute)
	assert.False(t, LocalWins(local))

	// exact tie goes to the registry
	local.UpdatedAt = syncedAt
	assert.False(t, LocalWins(local))

	// never synced: any local state counts as an unsynced edit
	local.SyncedAt = nil
	assert.True(t, LocalWins(local))
}

func TestApplyRemote(t *testing.T) {
	local := baseLocal()
	local.SyncStatus = models.SyncPending
	errMsg := "previous failure"
	local.SyncErrorMessage = &errMsg

	remote := baseRemote()
	remote.Object = "Aquisição de mobiliário"
	syncedAt := time.Now()

	merged := applyRemote(local, remote, syncedAt)

	assert.Equal(t, "Aquisição de mobiliário", merged.Object)
	require.NotNil(t, merged.RemoteID)
	assert.Equal(t, "pncp-778", *merged.RemoteID)
	assert.Equal(t, models.SyncSynced, merged.SyncStatus)
	require.NotNil(t, merged.SyncedAt)
	assert.True(t, merged.SyncedAt.Equal(syncedAt))
	assert.Nil(t, merged.SyncErrorMessage)
	assert.True(t, merged.UpdatedAt.Equal(remote.UpdatedAt), "updated_at must follow the registry so the next pull is a no-op")
	assert.Equal(t, local.ContractNumber, merged.ContractNumber)
}

func TestApplyRemote_MissingRegistryTimestamp(t *testing.T) {
	local := baseLocal()
	remote := baseRemote()
	remote.UpdatedAt = time.Time{}
	syncedAt := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	merged := applyRemote(local, remote, syncedAt)

	assert.True(t, merged.UpdatedAt.Equal(syncedAt),
		"a registry record without dataAtualizacao must not zero updated_at")
}

func TestKeepLocal(t *testing.T) {
	local := baseLocal()
	local.SyncStatus = models.SyncPending
	remote := baseRemote()
	remote.Object = "Aquisição de mobiliário"

	merged := keepLocal(local, remote)

	assert.Equal(t, local.Object, merged.Object, "business fields stay local")
	require.NotNil(t, merged.RemoteID)
	assert.Equal(t, "pncp-778", *merged.RemoteID)
	assert.Equal(t, models.SyncConflict, merged.SyncStatus)
	assert.Equal(t, local.UpdatedAt, merged.UpdatedAt)
}
