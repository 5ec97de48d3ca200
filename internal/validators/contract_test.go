// SPDX-License-Identifier: Apache-2.0

package validators

import (
	"context"
	"testing"
	"time"

	"github.com/contratoflow/sync-engine/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validContract() models.Contract {
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2027, 3, 31, 0, 0, 0, 0, time.UTC)
	return models.Contract{
		OrganizationID: uuid.New(),
		ContractNumber: "CT-2026/0042",
		Object:         "Serviços de vigilância patrimonial",
		Value:          250000,
		StartDate:      &start,
		EndDate:        &end,
		SupplierName:   "ACME Ltda",
		SupplierRole:   "Contratada: ACME Ltda (12.345.678/0001-95)",
	}
}

func TestContractValidator_Validate(t *testing.T) {
	validator := NewContractValidator()
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*models.Contract)
		wantErr error
	}{
		{
			name:   "publishable contract",
			mutate: func(*models.Contract) {},
		},
		{
			name:    "missing organization",
			mutate:  func(c *models.Contract) { c.OrganizationID = uuid.Nil },
			wantErr: ErrInvalidOrganizationID,
		},
		{
			name:    "blank contract number",
			mutate:  func(c *models.Contract) { c.ContractNumber = "   " },
			wantErr: ErrEmptyContractNumber,
		},
		{
			name:    "empty object",
			mutate:  func(c *models.Contract) { c.Object = "" },
			wantErr: ErrEmptyObject,
		},
		{
			name:    "zero value",
			mutate:  func(c *models.Contract) { c.Value = 0 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "negative value",
			mutate:  func(c *models.Contract) { c.Value = -10 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "empty supplier name",
			mutate:  func(c *models.Contract) { c.SupplierName = "" },
			wantErr: ErrEmptySupplierName,
		},
		{
			name:    "supplier role without CNPJ",
			mutate:  func(c *models.Contract) { c.SupplierRole = "Contratada: ACME Ltda" },
			wantErr: ErrMissingSupplierTaxID,
		},
		{
			name: "inverted vigency",
			mutate: func(c *models.Contract) {
				c.StartDate, c.EndDate = c.EndDate, c.StartDate
			},
			wantErr: ErrInvalidVigency,
		},
		{
			name: "open-ended vigency is fine",
			mutate: func(c *models.Contract) {
				c.EndDate = nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contract := validContract()
			tt.mutate(&contract)

			err := validator.Validate(ctx, contract)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestContractValidator_FieldScoping(t *testing.T) {
	validator := NewContractValidator()
	ctx := context.Background()

	contract := validContract()
	contract.Value = 0

	// only the scoped field is checked
	require.NoError(t, validator.Validate(ctx, contract, FieldContractNumber))
	assert.ErrorIs(t, validator.Validate(ctx, contract, FieldValue), ErrInvalidValue)
	assert.ErrorIs(t, validator.Validate(ctx, contract, "no_such_field"), ErrUnknownField)
}

func TestContractValidator_PointerAndUnsupported(t *testing.T) {
	validator := NewContractValidator()
	ctx := context.Background()

	contract := validContract()
	require.NoError(t, validator.Validate(ctx, &contract))
	assert.ErrorIs(t, validator.Validate(ctx, "not a contract"), ErrUnsupportedType)
}
