package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// AddressType identifies the purpose an address serves for a company.
type AddressType string

const (
	Registered    AddressType = "REGISTERED"
	Service       AddressType = "SERVICE"
	Communication AddressType = "COMMUNICATION"
)

// AddressTypes lists every address type in a stable order.
var AddressTypes = []AddressType{Registered, Service, Communication}

// IsValid reports whether t is one of the known address types.
func (t AddressType) IsValid() bool {
	switch t {
	case Registered, Service, Communication:
		return true
	}
	return false
}

// ParseAddressType parses a case-insensitive address type.
func ParseAddressType(s string) (AddressType, error) {
	t := AddressType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("unknown address type %q", s)
	}
	return t, nil
}

// Address is a time-sliced fact about where a company can be reached for one purpose.
// EffectiveTo is the last day the address is in force; nil means it is the current address.
type Address struct {
	AddressID     string      `json:"addressID"` // Primary Key (UUID), assigned on persistence
	CompanyID     string      `json:"companyID"` // FK -> companies.company_id
	AddressType   AddressType `json:"addressType"`
	Line1         string      `json:"line1"`
	Line2         string      `json:"line2"`
	City          string      `json:"city"`
	Region        string      `json:"region"`
	Postcode      string      `json:"postcode"`
	Country       string      `json:"country"` // ISO 3166-1 alpha-2
	Email         string      `json:"email"`
	Phone         string      `json:"phone"`
	EffectiveFrom time.Time   `json:"effectiveFrom"`
	EffectiveTo   *time.Time  `json:"effectiveTo"`
	AuditFields
}

// IsCurrent reports whether the address is open-ended.
func (a Address) IsCurrent() bool {
	return a.EffectiveTo == nil
}

// Interval returns the day range the address covers.
func (a Address) Interval() Interval {
	return NewInterval(a.EffectiveFrom, a.EffectiveTo)
}

// ActiveOn reports whether the address is in force on the given day.
func (a Address) ActiveOn(day time.Time) bool {
	return a.Interval().Contains(day)
}

// SameLocation reports whether two addresses describe the same place and contact details,
// ignoring identity, dates and audit data. Comparison is case and whitespace insensitive.
func (a Address) SameLocation(other Address) bool {
	return norm(a.Line1) == norm(other.Line1) &&
		norm(a.Line2) == norm(other.Line2) &&
		norm(a.City) == norm(other.City) &&
		norm(a.Region) == norm(other.Region) &&
		norm(a.Postcode) == norm(other.Postcode) &&
		norm(a.Country) == norm(other.Country) &&
		norm(a.Email) == norm(other.Email) &&
		norm(a.Phone) == norm(other.Phone)
}

// ClosedAt returns a copy of the address ending on lastDay.
func (a Address) ClosedAt(lastDay time.Time, actor string, now time.Time) Address {
	closed := a
	end := DateOf(lastDay)
	closed.EffectiveTo = &end
	closed.LastUpdatedAt = now
	closed.LastUpdatedBy = actor
	return closed
}

// Normalized returns a copy with trimmed fields, an upper-case country and dates truncated to days.
func (a Address) Normalized() Address {
	n := a
	n.Line1 = strings.TrimSpace(a.Line1)
	n.Line2 = strings.TrimSpace(a.Line2)
	n.City = strings.TrimSpace(a.City)
	n.Region = strings.TrimSpace(a.Region)
	n.Postcode = strings.TrimSpace(a.Postcode)
	n.Country = strings.ToUpper(strings.TrimSpace(a.Country))
	n.Email = strings.TrimSpace(a.Email)
	n.Phone = strings.TrimSpace(a.Phone)
	if !a.EffectiveFrom.IsZero() {
		n.EffectiveFrom = DateOf(a.EffectiveFrom)
	}
	if a.EffectiveTo != nil {
		to := DateOf(*a.EffectiveTo)
		n.EffectiveTo = &to
	}
	return n
}

// OneLine renders the address for notifications and logs.
func (a Address) OneLine() string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.Line1, a.Line2, a.City, a.Region, a.Postcode, a.Country} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, ", ")
}

func norm(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Rank orders address types REGISTERED, SERVICE, COMMUNICATION.
func (t AddressType) Rank() int {
	for i, known := range AddressTypes {
		if t == known {
			return i
		}
	}
	return len(AddressTypes)
}

// SortHistory orders addresses by type rank and then EffectiveFrom.
func SortHistory(addresses []Address) {
	sort.SliceStable(addresses, func(i, j int) bool {
		a, b := addresses[i], addresses[j]
		if a.AddressType != b.AddressType {
			return a.AddressType.Rank() < b.AddressType.Rank()
		}
		return a.EffectiveFrom.Before(b.EffectiveFrom)
	})
}
