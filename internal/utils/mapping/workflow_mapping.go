package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/company_register_app/internal/core/domain"
	"github.com/SscSPs/company_register_app/internal/models"
)

// ToModelWorkflow converts a domain AddressChangeWorkflow to a model, encoding its documents as JSON.
func ToModelWorkflow(d domain.AddressChangeWorkflow) (models.AddressChangeWorkflow, error) {
	m := models.AddressChangeWorkflow{
		WorkflowID:      d.WorkflowID,
		CompanyID:       d.CompanyID,
		AddressType:     string(d.AddressType),
		EffectiveDate:   domain.DateOf(d.EffectiveDate),
		Status:          string(d.Status),
		RequestedBy:     d.RequestedBy,
		RequestedAt:     d.RequestedAt,
		ApprovedAt:      d.ApprovedAt,
		ApprovedBy:      d.ApprovedBy,
		RejectedAt:      d.RejectedAt,
		RejectedBy:      d.RejectedBy,
		RejectionReason: d.RejectionReason,
	}

	var err error
	if m.ProposedAddress, err = json.Marshal(d.ProposedAddress); err != nil {
		return m, fmt.Errorf("encode proposed address: %w", err)
	}
	if m.ValidationResult, err = json.Marshal(d.ValidationResult); err != nil {
		return m, fmt.Errorf("encode validation result: %w", err)
	}
	if d.CurrentAddress != nil {
		if m.CurrentAddress, err = json.Marshal(d.CurrentAddress); err != nil {
			return m, fmt.Errorf("encode current address: %w", err)
		}
	}
	if d.ExecutedAddress != nil {
		if m.ExecutedAddress, err = json.Marshal(d.ExecutedAddress); err != nil {
			return m, fmt.Errorf("encode executed address: %w", err)
		}
	}
	return m, nil
}

// ToDomainWorkflow converts a model AddressChangeWorkflow back to the domain type.
func ToDomainWorkflow(m models.AddressChangeWorkflow) (domain.AddressChangeWorkflow, error) {
	d := domain.AddressChangeWorkflow{
		WorkflowID:      m.WorkflowID,
		CompanyID:       m.CompanyID,
		AddressType:     domain.AddressType(m.AddressType),
		EffectiveDate:   domain.DateOf(m.EffectiveDate),
		Status:          domain.WorkflowStatus(m.Status),
		RequestedBy:     m.RequestedBy,
		RequestedAt:     m.RequestedAt,
		ApprovedAt:      m.ApprovedAt,
		ApprovedBy:      m.ApprovedBy,
		RejectedAt:      m.RejectedAt,
		RejectedBy:      m.RejectedBy,
		RejectionReason: m.RejectionReason,
	}

	if err := json.Unmarshal(m.ProposedAddress, &d.ProposedAddress); err != nil {
		return d, fmt.Errorf("decode proposed address: %w", err)
	}
	if err := json.Unmarshal(m.ValidationResult, &d.ValidationResult); err != nil {
		return d, fmt.Errorf("decode validation result: %w", err)
	}
	if len(m.CurrentAddress) > 0 {
		if err := json.Unmarshal(m.CurrentAddress, &d.CurrentAddress); err != nil {
			return d, fmt.Errorf("decode current address: %w", err)
		}
	}
	if len(m.ExecutedAddress) > 0 {
		if err := json.Unmarshal(m.ExecutedAddress, &d.ExecutedAddress); err != nil {
			return d, fmt.Errorf("decode executed address: %w", err)
		}
	}
	return d, nil
}
