package registry

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/contratoflow/sync-engine/models"
)

// The registry speaks its own field naming (Portuguese, PNCP-style); the
// local Contract does not. Translation lives here so neither the engine nor
// the store ever sees wire shapes.

const wireDateLayout = "2006-01-02"

type contractPayload struct {
	NumeroContrato     string  `json:"numeroContrato"`
	ObjetoContrato     string  `json:"objetoContrato"`
	ValorGlobal        float64 `json:"valorGlobal"`
	SituacaoContrato   string  `json:"situacaoContrato"`
	DataAssinatura     string  `json:"dataAssinatura,omitempty"`
	DataVigenciaInicio string  `json:"dataVigenciaInicio,omitempty"`
	DataVigenciaFim    string  `json:"dataVigenciaFim,omitempty"`
	NomeFornecedor     string  `json:"nomeRazaoSocialFornecedor"`
	NiFornecedor       string  `json:"niFornecedor"`
	OrgaoID            string  `json:"orgaoId"`
}

type contractRecord struct {
	ID                 string  `json:"id"`
	NumeroContrato     string  `json:"numeroContrato"`
	ObjetoContrato     string  `json:"objetoContrato"`
	ValorGlobal        float64 `json:"valorGlobal"`
	SituacaoContrato   string  `json:"situacaoContrato"`
	DataAssinatura     string  `json:"dataAssinatura"`
	DataVigenciaInicio string  `json:"dataVigenciaInicio"`
	DataVigenciaFim    string  `json:"dataVigenciaFim"`
	NomeFornecedor     string  `json:"nomeRazaoSocialFornecedor"`
	NiFornecedor       string  `json:"niFornecedor"`
	DataAtualizacao    string  `json:"dataAtualizacao"`
}

type publishResponse struct {
	ID string `json:"id"`
}

type listResponse struct {
	Data []contractRecord `json:"data"`
}

// cnpjPattern matches a CNPJ either formatted (12.345.678/0001-95) or as a
// bare 14-digit run inside free text.
var cnpjPattern = regexp.MustCompile(`\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}|\d{14}`)

var nonDigits = regexp.MustCompile(`\D`)

// ExtractCNPJ derives the supplier tax id from the free-text role field the
// drafting layer stores (e.g. "Contratada: ACME Ltda (12.345.678/0001-95)").
// Returns the 14 digits without punctuation, or ErrMissingCNPJ.
func ExtractCNPJ(role string) (string, error) {
	match := cnpjPattern.FindString(role)
	if match == "" {
		return "", fmt.Errorf("%w: %q", ErrMissingCNPJ, strings.TrimSpace(role))
	}
	return nonDigits.ReplaceAllString(match, ""), nil
}

func toWire(contract models.Contract) (contractPayload, error) {
	cnpj, err := ExtractCNPJ(contract.SupplierRole)
	if err != nil {
		return contractPayload{}, err
	}

	return contractPayload{
		NumeroContrato:     contract.ContractNumber,
		ObjetoContrato:     contract.Object,
		ValorGlobal:        contract.Value,
		SituacaoContrato:   contract.Status,
		DataAssinatura:     formatWireDate(contract.SignDate),
		DataVigenciaInicio: formatWireDate(contract.StartDate),
		DataVigenciaFim:    formatWireDate(contract.EndDate),
		NomeFornecedor:     contract.SupplierName,
		NiFornecedor:       cnpj,
		OrgaoID:            contract.OrganizationID.String(),
	}, nil
}

func fromWire(record contractRecord) (models.RemoteSnapshot, error) {
	if record.ID == "" || record.NumeroContrato == "" {
		return models.RemoteSnapshot{}, fmt.Errorf("%w: missing id or numeroContrato", ErrTranslation)
	}

	signDate, err := parseWireDate(record.DataAssinatura)
	if err != nil {
		return models.RemoteSnapshot{}, fmt.Errorf("%w: dataAssinatura: %v", ErrTranslation, err)
	}
	startDate, err := parseWireDate(record.DataVigenciaInicio)
	if err != nil {
		return models.RemoteSnapshot{}, fmt.Errorf("%w: dataVigenciaInicio: %v", ErrTranslation, err)
	}
	endDate, err := parseWireDate(record.DataVigenciaFim)
	if err != nil {
		return models.RemoteSnapshot{}, fmt.Errorf("%w: dataVigenciaFim: %v", ErrTranslation, err)
	}

	updatedAt := time.Time{}
	if record.DataAtualizacao != "" {
		updatedAt, err = time.Parse(time.RFC3339, record.DataAtualizacao)
		if err != nil {
			return models.RemoteSnapshot{}, fmt.Errorf("%w: dataAtualizacao: %v", ErrTranslation, err)
		}
	}

	return models.RemoteSnapshot{
		RemoteID:       record.ID,
		ContractNumber: record.NumeroContrato,
		Object:         record.ObjetoContrato,
		Value:          record.ValorGlobal,
		Status:         record.SituacaoContrato,
		SignDate:       signDate,
		StartDate:      startDate,
		EndDate:        endDate,
		SupplierName:   record.NomeFornecedor,
		SupplierTaxID:  record.NiFornecedor,
		UpdatedAt:      updatedAt,
	}, nil
}

func formatWireDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(wireDateLayout)
}

func parseWireDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(wireDateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
