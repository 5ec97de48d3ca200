// SPDX-License-Identifier: Apache-2.0

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidOrganizationID = errors.New("invalid organization ID")
	ErrEmptyContractNumber   = errors.New("contract number is required")
	ErrEmptyObject           = errors.New("contract object is required")
	ErrInvalidValue          = errors.New("contract value must be positive")
	ErrEmptySupplierName     = errors.New("supplier name is required")
	ErrMissingSupplierTaxID  = errors.New("supplier role must contain a CNPJ")
	ErrInvalidVigency        = errors.New("vigency start date must not follow its end date")
)
