// SPDX-License-Identifier: Apache-2.0

package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/contratoflow/sync-engine/internal/registry"
	"github.com/contratoflow/sync-engine/models"
	"github.com/google/uuid"
)

// Field name constants used to specify which fields should be validated.
// These constants are passed to Validate to restrict validation to a subset
// of fields (field-level scoping).
const (
	// FieldOrganizationID targets the owning organization identifier.
	FieldOrganizationID = "organization_id"

	// FieldContractNumber targets the natural key of the contract.
	FieldContractNumber = "contract_number"

	// FieldObject targets the contract object description.
	FieldObject = "object"

	// FieldValue targets the global monetary value.
	FieldValue = "value"

	// FieldSupplierName targets the supplier's legal name.
	FieldSupplierName = "supplier_name"

	// FieldSupplierRole targets the free-text supplier role, which must
	// carry the supplier's CNPJ for the registry payload to be buildable.
	FieldSupplierRole = "supplier_role"

	// FieldVigency targets the start/end date pair of the contract term.
	FieldVigency = "vigency"
)

// defaultContractFields is validated when no field scoping is given. It is
// exactly the set a publish to the registry requires.
var defaultContractFields = []string{
	FieldOrganizationID,
	FieldContractNumber,
	FieldObject,
	FieldValue,
	FieldSupplierName,
	FieldSupplierRole,
	FieldVigency,
}

// ContractValidator implements the Validator interface for
// models.Contract. It encodes the publishability rules: a contract that
// passes full validation can always be translated into a registry payload.
type ContractValidator struct {
}

// NewContractValidator constructs a new ContractValidator and returns it as
// the Validator interface.
func NewContractValidator() Validator {
	return &ContractValidator{}
}

// Validate dispatches validation based on the dynamic type of obj. Both
// value and pointer forms of models.Contract are accepted. Returns
// ErrUnsupportedType for anything else.
func (v *ContractValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Contract:
		return v.validateContract(ctx, value, fields...)
	case *models.Contract:
		return v.validateContract(ctx, *value, fields...)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, obj)
	}
}

func (v *ContractValidator) validateContract(_ context.Context, contract models.Contract, fields ...string) error {
	if len(fields) == 0 {
		fields = defaultContractFields
	}

	for _, field := range fields {
		switch field {
		case FieldOrganizationID:
			if contract.OrganizationID == uuid.Nil {
				return ErrInvalidOrganizationID
			}
		case FieldContractNumber:
			if strings.TrimSpace(contract.ContractNumber) == "" {
				return ErrEmptyContractNumber
			}
		case FieldObject:
			if strings.TrimSpace(contract.Object) == "" {
				return ErrEmptyObject
			}
		case FieldValue:
			if contract.Value <= 0 {
				return ErrInvalidValue
			}
		case FieldSupplierName:
			if strings.TrimSpace(contract.SupplierName) == "" {
				return ErrEmptySupplierName
			}
		case FieldSupplierRole:
			if _, err := registry.ExtractCNPJ(contract.SupplierRole); err != nil {
				return fmt.Errorf("%w: %w", ErrMissingSupplierTaxID, err)
			}
		case FieldVigency:
			if contract.StartDate != nil && contract.EndDate != nil &&
				contract.StartDate.After(*contract.EndDate) {
				return ErrInvalidVigency
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}

	return nil
}
