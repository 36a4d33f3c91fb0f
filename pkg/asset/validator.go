package asset

import (
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

const (
	msgRequired       = "Name, URL, and Short summary are required."
	msgInvalidBU      = "Primary BU is invalid."
	msgInvalidType    = "Asset type is invalid."
	msgInvalidLicense = "License flag is invalid."
)

// MinScore and MaxScore bound every score.
const (
	MinScore = 0
	MaxScore = 5
)

// Validator checks create and update payloads against a Vocabulary.
type Validator struct {
	vocabulary    Vocabulary
	businessUnits mapset.Set[string]
	assetTypes    mapset.Set[string]
	licenseFlags  mapset.Set[string]
}

// NewValidator creates a Validator. Empty lists in v fall back to
// DefaultVocabulary.
func NewValidator(v Vocabulary) *Validator {
	v = v.withDefaults()
	return &Validator{
		vocabulary:    v,
		businessUnits: mapset.NewThreadUnsafeSet(v.BusinessUnits...),
		assetTypes:    mapset.NewThreadUnsafeSet(v.AssetTypes...),
		licenseFlags:  mapset.NewThreadUnsafeSet(v.LicenseFlags...),
	}
}

// Vocabulary returns the option lists the validator accepts.
func (v *Validator) Vocabulary() Vocabulary {
	return v.vocabulary
}

// Validate returns nil when p is acceptable, otherwise a *ValidationError for
// the first violated rule. Rules run in a fixed order: required text fields,
// primary BU, asset type, license flag, then the three scores.
func (v *Validator) Validate(p Payload) error {
	if strings.TrimSpace(p.Name) == "" ||
		strings.TrimSpace(p.URL) == "" ||
		strings.TrimSpace(p.ShortSummary) == "" {
		return invalid(msgRequired)
	}
	if !v.businessUnits.Contains(p.PrimaryBU) {
		return invalid(msgInvalidBU)
	}
	if !v.assetTypes.Contains(p.AssetType) {
		return invalid(msgInvalidType)
	}
	if !v.licenseFlags.Contains(p.LicenseFlag) {
		return invalid(msgInvalidLicense)
	}

	scores := []struct {
		field string
		value Score
	}{
		{"readiness_score", p.ReadinessScore},
		{"engineering_score", p.EngineeringScore},
		{"maintenance_score", p.MaintenanceScore},
	}
	for _, s := range scores {
		// Non-numeric and out-of-range scores share one message.
		n, err := s.value.Int()
		if err != nil || n < MinScore || n > MaxScore {
			return invalid(fmt.Sprintf("%s must be a number between %d and %d.", s.field, MinScore, MaxScore))
		}
	}
	return nil
}
