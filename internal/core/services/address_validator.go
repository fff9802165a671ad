package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SscSPs/company_register_app/internal/core/domain"
	portssvc "github.com/SscSPs/company_register_app/internal/core/ports/services"
	"github.com/SscSPs/company_register_app/internal/utils/fuzzy"
	"github.com/go-playground/validator/v10"
)

const (
	maxLineLength     = 255
	maxCityLength     = 100
	maxRegionLength   = 100
	maxPostcodeLength = 10
)

// Messages of the warnings that force manual approval.
const (
	msgCountryChange = "different country may have legal implications"
	msgRegionChange  = "different region may affect court jurisdiction"
)

// addressValidator runs every validation stage against one accumulator, so callers see all problems at once.
type addressValidator struct {
	BaseService
	validate *validator.Validate
	lookup   portssvc.PostalReferenceLookup
}

// NewAddressValidator creates the validation pipeline. lookup may be nil, in which case the
// postal reference cross-check is skipped.
func NewAddressValidator(lookup portssvc.PostalReferenceLookup, opts ...Option) portssvc.AddressValidatorSvc {
	return &addressValidator{
		BaseService: newBaseService(opts),
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		lookup:      lookup,
	}
}

var _ portssvc.AddressValidatorSvc = (*addressValidator)(nil)

// Validate checks a standalone address.
func (v *addressValidator) Validate(ctx context.Context, address domain.Address) domain.ValidationResult {
	a := address.Normalized()
	result := domain.NewValidationResult()

	v.checkStructure(a, &result)
	v.checkBusinessRules(a, &result)
	v.checkCountryRules(ctx, a, &result)
	v.checkAddressTypeRules(a, &result)
	v.checkCrossField(a, &result)

	v.Metrics.IncrementValidation(string(a.AddressType), result.IsValid())
	v.LogDebug(ctx, "Address validated",
		slog.String("company_id", a.CompanyID),
		slog.String("address_type", string(a.AddressType)),
		slog.Int("errors", len(result.Errors)),
		slog.Int("warnings", len(result.Warnings)))
	return result
}

// ValidateUpdate checks proposed as a replacement of current from effectiveDate on.
func (v *addressValidator) ValidateUpdate(ctx context.Context, current, proposed domain.Address, effectiveDate time.Time) domain.ValidationResult {
	effective := domain.DateOf(effectiveDate)
	proposed.EffectiveFrom = effective
	proposed.EffectiveTo = nil

	result := v.Validate(ctx, proposed)
	p := proposed.Normalized()
	c := current.Normalized()

	if effective.Before(v.Today()) {
		result.AddError("effectiveDate", "no_backdating", "effective date cannot be in the past")
	}
	if !effective.After(c.EffectiveFrom) {
		result.AddError("effectiveDate", "after_current",
			fmt.Sprintf("effective date must be after the current address's effective from date %s", c.EffectiveFrom.Format(time.DateOnly)))
	}
	if p.SameLocation(c) {
		result.AddWarning(domain.WarningIdenticalAddress, "address", "new address is identical to the current address")
	}
	if p.AddressType == domain.Registered {
		if p.Country != c.Country {
			result.AddWarning(domain.WarningCountryChange, "country", msgCountryChange)
		} else if p.Country == "NZ" && fuzzy.Fold(p.Region) != fuzzy.Fold(c.Region) {
			result.AddWarning(domain.WarningRegionChange, "region", msgRegionChange)
		}
	}
	return result
}

func (v *addressValidator) checkStructure(a domain.Address, r *domain.ValidationResult) {
	if !a.AddressType.IsValid() {
		r.AddError("addressType", "enum", fmt.Sprintf("address type %q is not one of REGISTERED, SERVICE, COMMUNICATION", a.AddressType))
	}
	if a.CompanyID == "" {
		r.AddError("companyID", "required", "company is required")
	}
	if a.Line1 == "" {
		r.AddError("line1", "required", "address line 1 is required")
	}
	if a.City == "" {
		r.AddError("city", "required", "city is required")
	}
	checkLength(r, "line1", a.Line1, maxLineLength)
	checkLength(r, "line2", a.Line2, maxLineLength)
	checkLength(r, "city", a.City, maxCityLength)
	checkLength(r, "region", a.Region, maxRegionLength)
	checkLength(r, "postcode", a.Postcode, maxPostcodeLength)

	if err := v.validate.Var(a.Country, "required,len=2,alpha"); err != nil {
		r.AddError("country", "iso_alpha2", "country must be a two-letter code")
	}
	if a.Email != "" {
		if err := v.validate.Var(a.Email, "email"); err != nil {
			r.AddError("email", "email", "email address is not valid")
		}
	}
	if a.Phone != "" && !genericPhonePattern.MatchString(a.Phone) {
		r.AddError("phone", "phone", "phone number is not valid")
	}
	if a.EffectiveFrom.IsZero() {
		r.AddError("effectiveFrom", "required", "effective from date is required")
	}
}

func checkLength(r *domain.ValidationResult, field, value string, limit int) {
	if utf8.RuneCountInString(value) > limit {
		r.AddError(field, "max_length", fmt.Sprintf("%s must be at most %d characters", field, limit))
	}
}

func (v *addressValidator) checkBusinessRules(a domain.Address, r *domain.ValidationResult) {
	if a.EffectiveTo != nil && !a.EffectiveFrom.IsZero() && !a.EffectiveFrom.Before(*a.EffectiveTo) {
		r.AddError("effectiveTo", "after_from", "effective to date must be after the effective from date")
	}
	if a.EffectiveFrom.After(v.Today().AddDate(1, 0, 0)) {
		r.AddWarning(domain.WarningFutureEffective, "effectiveFrom", "effective from date is more than one year in the future")
	}
}

func (v *addressValidator) checkCountryRules(ctx context.Context, a domain.Address, r *domain.ValidationResult) {
	rule, ok := countryRules[a.Country]
	if !ok {
		v.checkInternational(a, r)
		return
	}

	if a.Postcode == "" {
		r.AddWarning(domain.WarningPostcodeMissing, "postcode", fmt.Sprintf("postcode is missing for a %s address", rule.name))
	} else if !rule.postcodeValid(a.Postcode) {
		r.AddError("postcode", "postcode_format",
			fmt.Sprintf("%s postcode must be 4 digits between %04d and %d", rule.name, rule.postcodeMin, rule.postcodeMax))
	}

	if a.Phone != "" && !rule.phoneValid(a.Phone) {
		r.AddError("phone", "phone_format", fmt.Sprintf("phone number is not a valid %s number", rule.name))
	}

	if a.Region != "" {
		if canonical, known := rule.canonicalRegion(a.Region); !known {
			r.AddWarning(domain.WarningRegionUnknown, "region", fmt.Sprintf("%q is not a recognised %s region", a.Region, rule.name))
			for _, s := range rule.regionSuggestions(a.Region) {
				r.AddSuggestion("region: " + s)
			}
		} else if canonical != a.Region {
			r.AddSuggestion("region: " + canonical)
		}
	}

	v.crossCheckPostal(ctx, a, r)
}

func (v *addressValidator) checkInternational(a domain.Address, r *domain.ValidationResult) {
	if len(a.Country) == 2 {
		if _, ok := isoCountry(a.Country); !ok {
			r.AddError("country", "iso3166", fmt.Sprintf("%q is not an ISO 3166-1 country code", a.Country))
		}
	}
	if a.Postcode == "" {
		r.AddWarning(domain.WarningPostcodeMissing, "postcode", "postcode is missing")
	}
	if a.Region == "" {
		r.AddWarning(domain.WarningRegionMissing, "region", "region is missing")
	}
}

// crossCheckPostal consults the postal reference. It can only ever add warnings and suggestions.
func (v *addressValidator) crossCheckPostal(ctx context.Context, a domain.Address, r *domain.ValidationResult) {
	if v.lookup == nil {
		return
	}
	res, err := v.lookup.Validate(ctx, a.Line1, a.Line2, a.City, a.Postcode)
	if err != nil {
		v.LogError(ctx, err, "Postal reference lookup failed", slog.String("city", a.City), slog.String("postcode", a.Postcode))
		r.AddWarning(domain.WarningPostalLookupFailed, "address", "postal reference lookup was unavailable")
		return
	}
	if !res.IsValid {
		r.AddWarning(domain.WarningPostalLookupUnknown, "city", "city and postcode were not found in the postal reference")
	}
	for _, s := range res.Suggestions {
		r.AddSuggestion(s)
	}
	if res.StandardizedForm != "" && !strings.EqualFold(res.StandardizedForm, a.OneLine()) {
		r.AddSuggestion("standardised: " + res.StandardizedForm)
	}
}

func (v *addressValidator) checkAddressTypeRules(a domain.Address, r *domain.ValidationResult) {
	hasContact := a.Email != "" || a.Phone != ""
	switch a.AddressType {
	case domain.Registered:
		if a.Country == "NZ" && a.Postcode == "" {
			r.AddError("postcode", "required", "a registered New Zealand address requires a postcode")
		}
		if looksLikePOBox(a.Line1, a.Line2) {
			r.AddError("line1", "physical_address", "a registered address must be a physical address, not a PO Box or Private Bag")
		}
	case domain.Service:
		if !hasContact {
			r.AddWarning(domain.WarningContactMissing, "email", "a service address should have an email or phone")
		}
	case domain.Communication:
		if !hasContact {
			r.AddError("email", "contact_required", "a communication address must have an email or phone")
		}
	}
}

func (v *addressValidator) checkCrossField(a domain.Address, r *domain.ValidationResult) {
	if a.Email != "" && a.AddressType != domain.Communication && isPersonalEmail(a.Email) {
		r.AddWarning(domain.WarningPersonalEmail, "email", "personal email domain used for a business address")
	}
	if a.Phone == "" {
		return
	}
	if country, ok := isoCountry(a.Country); ok && !phoneMatchesCountry(a.Phone, country) {
		r.AddWarning(domain.WarningPhoneCountry, "phone", fmt.Sprintf("phone number country code does not match country %s", a.Country))
	}
}
