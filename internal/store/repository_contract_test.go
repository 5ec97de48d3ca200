// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/contratoflow/sync-engine/internal/logger"
	"github.com/contratoflow/sync-engine/models"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var contractTestColumns = []string{
	"id", "organization_id", "contract_number", "object", "value", "status",
	"sign_date", "start_date", "end_date", "supplier_name", "supplier_role",
	"remote_id", "sync_status", "synced_at", "sync_error_message",
	"created_at", "updated_at", "version",
}

func newTestContractRepo(t *testing.T) (*contractRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &contractRepository{
		db:     &DB{DB: db, logger: l, errorClassifier: NewPostgresErrorClassifier()},
		logger: l,
	}
	return repo, mock, db
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func contractRow(contract models.Contract) *sqlmock.Rows {
	return sqlmock.NewRows(contractTestColumns).AddRow(
		contract.ID, contract.OrganizationID, contract.ContractNumber,
		contract.Object, contract.Value, contract.Status,
		contract.SignDate, contract.StartDate, contract.EndDate,
		contract.SupplierName, contract.SupplierRole,
		contract.RemoteID, string(contract.SyncStatus), contract.SyncedAt, contract.SyncErrorMessage,
		contract.CreatedAt, contract.UpdatedAt, contract.Version,
	)
}

func storedContract() models.Contract {
	now := time.Now()
	return models.Contract{
		ID:             uuid.New(),
		OrganizationID: uuid.New(),
		ContractNumber: "CT-2026/0042",
		Object:         "Serviços de limpeza",
		Value:          120000,
		Status:         "ativo",
		SupplierName:   "ACME Ltda",
		SupplierRole:   "Contratada: ACME Ltda (12.345.678/0001-95)",
		SyncStatus:     models.SyncPending,
		CreatedAt:      now,
		UpdatedAt:      now,
		Version:        1,
	}
}

func TestContractSave_Success(t *testing.T) {
	repo, mock, db := newTestContractRepo(t)
	defer db.Close()

	contract := storedContract()

	mock.ExpectQuery("INSERT INTO contracts").
		WithArgs(contract.OrganizationID, contract.ContractNumber, contract.Object,
			contract.Value, contract.Status, contract.SignDate, contract.StartDate,
			contract.EndDate, contract.SupplierName, contract.SupplierRole,
			string(models.SyncPending)).
		WillReturnRows(contractRow(contract))

	saved, err := repo.Save(context.Background(), contract)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.ID != contract.ID {
		t.Errorf("expected id %s, got %s", contract.ID, saved.ID)
	}
	if saved.SyncStatus != models.SyncPending {
		t.Errorf("expected pending sync status, got %s", saved.SyncStatus)
	}
}

func TestContractSave_UniqueViolation(t *testing.T) {
	repo, mock, db := newTestContractRepo(t)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO contracts").
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.Save(context.Background(), storedContract())
	if !errors.Is(err, ErrContractNumberTaken) {
		t.Fatalf("expected ErrContractNumberTaken, got %v", err)
	}
}

func TestContractSave_TransientDriverError(t *testing.T) {
	repo, mock, db := newTestContractRepo(t)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO contracts").
		WillReturnError(pgError(pgerrcode.ConnectionFailure))

	_, err := repo.Save(context.Background(), storedContract())
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestContractGetByID_NotFound(t *testing.T) {
	repo, mock, db := newTestContractRepo(t)
	defer db.Close()

	id := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM contracts").
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), id)
	if !errors.Is(err, ErrContractNotFound) {
		t.Fatalf("expected ErrContractNotFound, got %v", err)
	}
}

func TestContractGetByNumber_Success(t *testing.T) {
	repo, mock, db := newTestContractRepo(t)
	defer db.Close()

	contract := storedContract()

	mock.ExpectQuery("SELECT (.+) FROM contracts").
		WithArgs(contract.OrganizationID, contract.ContractNumber).
		WillReturnRows(contractRow(contract))

	found, err := repo.GetByNumber(context.Background(), contract.OrganizationID, contract.ContractNumber)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.ContractNumber != contract.ContractNumber {
		t.Errorf("expected number %s, got %s", contract.ContractNumber, found.ContractNumber)
	}
}

func TestContractList_AppliesFilter(t *testing.T) {
	repo, mock, db := newTestContractRepo(t)
	defer db.Close()

	first := storedContract()
	second := storedContract()
	orgID := first.OrganizationID
	status := models.SyncPending

	mock.ExpectQuery("SELECT (.+) FROM contracts WHERE organization_id = (.+) AND sync_status = (.+) ORDER BY updated_at DESC").
		WithArgs(orgID, string(status)).
		WillReturnRows(contractRow(first).AddRow(
			second.ID, second.OrganizationID, second.ContractNumber,
			second.Object, second.Value, second.Status,
			second.SignDate, second.StartDate, second.EndDate,
			second.SupplierName, second.SupplierRole,
			second.RemoteID, string(second.SyncStatus), second.SyncedAt, second.SyncErrorMessage,
			second.CreatedAt, second.UpdatedAt, second.Version,
		))

	contracts, err := repo.List(context.Background(), ContractFilter{
		OrganizationID: &orgID,
		SyncStatus:     &status,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contracts) != 2 {
		t.Fatalf("expected 2 contracts, got %d", len(contracts))
	}
}

func TestContractMarkSynced_OneAtomicWrite(t *testing.T) {
	repo, mock, db := newTestContractRepo(t)
	defer db.Close()

	contract := storedContract()
	remoteID := "pncp-778"
	syncedAt := time.Now()
	contract.RemoteID = &remoteID
	contract.SyncStatus = models.SyncSynced
	contract.SyncedAt = &syncedAt

	mock.ExpectQuery("UPDATE contracts").
		WithArgs(contract.ID, remoteID, syncedAt).
		WillReturnRows(contractRow(contract))

	updated, err := repo.MarkSynced(context.Background(), contract.ID, remoteID, syncedAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.RemoteID == nil || *updated.RemoteID != remoteID {
		t.Errorf("expected remote id %s, got %v", remoteID, updated.RemoteID)
	}
	if updated.SyncStatus != models.SyncSynced {
		t.Errorf("expected synced status, got %s", updated.SyncStatus)
	}
}

func TestContractMarkSyncError_NotFound(t *testing.T) {
	repo, mock, db := newTestContractRepo(t)
	defer db.Close()

	id := uuid.New()
	mock.ExpectExec("UPDATE contracts").
		WithArgs(id, "registry rejected payload").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkSyncError(context.Background(), id, "registry rejected payload")
	if !errors.Is(err, ErrContractNotFound) {
		t.Fatalf("expected ErrContractNotFound, got %v", err)
	}
}

func TestContractReconcile_StaleVersion(t *testing.T) {
	repo, mock, db := newTestContractRepo(t)
	defer db.Close()

	contract := storedContract()

	// the guarded UPDATE matches nothing because version moved
	mock.ExpectQuery("UPDATE contracts").
		WillReturnError(sql.ErrNoRows)
	// the disambiguating re-read still finds the row
	mock.ExpectQuery("SELECT (.+) FROM contracts").
		WithArgs(contract.ID).
		WillReturnRows(contractRow(contract))

	_, err := repo.Reconcile(context.Background(), contract)
	if !errors.Is(err, ErrStaleContract) {
		t.Fatalf("expected ErrStaleContract, got %v", err)
	}
}
