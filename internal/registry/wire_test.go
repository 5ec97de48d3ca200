// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"testing"
	"time"

	"github.com/contratoflow/sync-engine/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCNPJ(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		want    string
		wantErr bool
	}{
		{
			name: "formatted CNPJ inside free text",
			role: "Contratada: ACME Ltda (12.345.678/0001-95)",
			want: "12345678000195",
		},
		{
			name: "bare 14-digit run",
			role: "fornecedor 12345678000195 - responsável técnico",
			want: "12345678000195",
		},
		{
			name:    "no CNPJ present",
			role:    "Contratada: ACME Ltda",
			wantErr: true,
		},
		{
			name:    "too few digits",
			role:    "processo 12345/2026",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractCNPJ(tt.role)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMissingCNPJ)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToWire(t *testing.T) {
	sign := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	orgID := uuid.New()

	contract := models.Contract{
		OrganizationID: orgID,
		ContractNumber: "CT-2026/0042",
		Object:         "Aquisição de material de expediente",
		Value:          150000.50,
		Status:         "ativo",
		SignDate:       &sign,
		SupplierName:   "ACME Ltda",
		SupplierRole:   "Contratada: ACME Ltda (12.345.678/0001-95)",
	}

	payload, err := toWire(contract)

	require.NoError(t, err)
	assert.Equal(t, "CT-2026/0042", payload.NumeroContrato)
	assert.Equal(t, "Aquisição de material de expediente", payload.ObjetoContrato)
	assert.Equal(t, 150000.50, payload.ValorGlobal)
	assert.Equal(t, "ativo", payload.SituacaoContrato)
	assert.Equal(t, "2026-03-10", payload.DataAssinatura)
	assert.Empty(t, payload.DataVigenciaInicio)
	assert.Equal(t, "12345678000195", payload.NiFornecedor)
	assert.Equal(t, orgID.String(), payload.OrgaoID)
}

func TestToWire_MissingCNPJ(t *testing.T) {
	_, err := toWire(models.Contract{SupplierRole: "sem identificação"})
	require.ErrorIs(t, err, ErrMissingCNPJ)
}

func TestFromWire(t *testing.T) {
	record := contractRecord{
		ID:                 "pncp-778",
		NumeroContrato:     "CT-2026/0042",
		ObjetoContrato:     "Aquisição de material de expediente",
		ValorGlobal:        150000.50,
		SituacaoContrato:   "ativo",
		DataAssinatura:     "2026-03-10",
		DataVigenciaInicio: "2026-04-01",
		DataVigenciaFim:    "2027-03-31",
		NomeFornecedor:     "ACME Ltda",
		NiFornecedor:       "12345678000195",
		DataAtualizacao:    "2026-05-02T10:30:00Z",
	}

	snap, err := fromWire(record)

	require.NoError(t, err)
	assert.Equal(t, "pncp-778", snap.RemoteID)
	assert.Equal(t, "CT-2026/0042", snap.ContractNumber)
	assert.Equal(t, 150000.50, snap.Value)
	require.NotNil(t, snap.SignDate)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), *snap.SignDate)
	require.NotNil(t, snap.EndDate)
	assert.Equal(t, time.Date(2027, 3, 31, 0, 0, 0, 0, time.UTC), *snap.EndDate)
	assert.Equal(t, time.Date(2026, 5, 2, 10, 30, 0, 0, time.UTC), snap.UpdatedAt)
}

func TestFromWire_TranslationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*contractRecord)
	}{
		{name: "missing id", mutate: func(r *contractRecord) { r.ID = "" }},
		{name: "missing contract number", mutate: func(r *contractRecord) { r.NumeroContrato = "" }},
		{name: "garbage sign date", mutate: func(r *contractRecord) { r.DataAssinatura = "10/03/2026" }},
		{name: "garbage updated at", mutate: func(r *contractRecord) { r.DataAtualizacao = "yesterday" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := contractRecord{
				ID:             "pncp-778",
				NumeroContrato: "CT-2026/0042",
			}
			tt.mutate(&record)

			_, err := fromWire(record)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrTranslation)
		})
	}
}

func TestWireDate_RoundTrip(t *testing.T) {
	d := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	formatted := formatWireDate(&d)
	parsed, err := parseWireDate(formatted)

	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.True(t, parsed.Equal(d))

	assert.Empty(t, formatWireDate(nil))
	empty, err := parseWireDate("")
	require.NoError(t, err)
	assert.Nil(t, empty)
}
