package dto

import (
	"time"

	"github.com/SscSPs/company_register_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SnapshotResponse lists the addresses in force on one day, keyed by address type.
type SnapshotResponse struct {
	CompanyID string                     `json:"companyID"`
	Date      string                     `json:"date"`
	Complete  bool                       `json:"complete"`
	Addresses map[string]AddressResponse `json:"addresses"`
}

// ChangeEventResponse is one classified transition.
type ChangeEventResponse struct {
	AddressType   string           `json:"addressType"`
	ChangeType    string           `json:"changeType"`
	EffectiveDate string           `json:"effectiveDate"`
	Previous      *AddressResponse `json:"previous"`
	Address       AddressResponse  `json:"address"`
}

// HistoryReportResponse bundles the analysis of a company's address timeline.
type HistoryReportResponse struct {
	CompanyID      string                   `json:"companyID"`
	GeneratedAt    time.Time                `json:"generatedAt"`
	TotalChanges   int                      `json:"totalChanges"`
	StabilityScore decimal.Decimal          `json:"stabilityScore" swaggertype:"string" example:"50.96"`
	Changes        []ChangeEventResponse    `json:"changes"`
	Validation     domain.HistoryValidation `json:"validation"`
}

// ToSnapshotResponse converts a domain.AddressSnapshot.
func ToSnapshotResponse(s *domain.AddressSnapshot) SnapshotResponse {
	res := SnapshotResponse{
		CompanyID: s.CompanyID,
		Date:      formatDate(s.Date),
		Complete:  s.Complete,
		Addresses: make(map[string]AddressResponse, len(s.Addresses)),
	}
	for t, a := range s.Addresses {
		res.Addresses[string(t)] = ToAddressResponse(&a)
	}
	return res
}

// ToChangeEventResponses converts classified transitions.
func ToChangeEventResponses(events []domain.AddressChangeEvent) []ChangeEventResponse {
	res := make([]ChangeEventResponse, len(events))
	for i, e := range events {
		res[i] = ChangeEventResponse{
			AddressType:   string(e.AddressType),
			ChangeType:    string(e.ChangeType),
			EffectiveDate: formatDate(e.EffectiveDate),
			Address:       ToAddressResponse(&events[i].Address),
		}
		if e.Previous != nil {
			prev := ToAddressResponse(e.Previous)
			res[i].Previous = &prev
		}
	}
	return res
}

// ToHistoryReportResponse converts a domain.HistoryReport.
func ToHistoryReportResponse(r *domain.HistoryReport) HistoryReportResponse {
	return HistoryReportResponse{
		CompanyID:      r.CompanyID,
		GeneratedAt:    r.GeneratedAt,
		TotalChanges:   r.TotalChanges,
		StabilityScore: r.StabilityScore,
		Changes:        ToChangeEventResponses(r.Changes),
		Validation:     r.Validation,
	}
}
