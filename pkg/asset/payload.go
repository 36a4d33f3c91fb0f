package asset

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultScore is used when a submission leaves a score blank.
const defaultScore = "3"

// Score is a score exactly as submitted. It is kept as text until validation
// so that non-numeric input is reported by the Validator rather than
// rejected while decoding. JSON and YAML accept numbers or strings.
type Score string

// ScoreOf returns the Score for n.
func ScoreOf(n int) Score {
	return Score(strconv.Itoa(n))
}

// Int parses the score.
func (s Score) Int() (int, error) {
	return strconv.Atoi(strings.TrimSpace(string(s)))
}

// UnmarshalJSON accepts a JSON number, a string or null.
func (s *Score) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*s = ""
	case strings.HasPrefix(raw, `"`):
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Score(str)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("score must be a number or a string: %w", err)
		}
		*s = Score(integral(n.String()))
	}
	return nil
}

// integral rewrites a number with no fractional part, such as 3.0 or 4e0,
// as a plain integer. Anything else is returned unchanged.
func integral(num string) string {
	if _, err := strconv.ParseInt(num, 10, 64); err == nil {
		return num
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return num
	}
	return strconv.FormatInt(int64(f), 10)
}

// MarshalJSON emits a number when the score parses, a string otherwise.
func (s Score) MarshalJSON() ([]byte, error) {
	if n, err := s.Int(); err == nil {
		return []byte(strconv.Itoa(n)), nil
	}
	return json.Marshal(string(s))
}

// UnmarshalYAML accepts any scalar. Floats are treated like JSON numbers.
func (s *Score) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: score must be a scalar", node.Line)
	}
	if node.ShortTag() == "!!float" {
		*s = Score(integral(node.Value))
		return nil
	}
	*s = Score(node.Value)
	return nil
}

// Payload is a create or update submission. Every field of Asset except the
// id is present; optional fields default to their zero value.
type Payload struct {
	Name             string   `json:"name" yaml:"name"`
	URL              string   `json:"url" yaml:"url"`
	ShortSummary     string   `json:"short_summary" yaml:"short_summary"`
	PrimaryBU        string   `json:"primary_bu" yaml:"primary_bu"`
	SecondaryBUs     []string `json:"secondary_bus,omitempty" yaml:"secondary_bus,omitempty"`
	UseCases         []string `json:"use_cases,omitempty" yaml:"use_cases,omitempty"`
	AssetType        string   `json:"asset_type" yaml:"asset_type"`
	LicenseFlag      string   `json:"license_flag" yaml:"license_flag"`
	LicenseNotes     string   `json:"license_notes,omitempty" yaml:"license_notes,omitempty"`
	ReadinessScore   Score    `json:"readiness_score" yaml:"readiness_score"`
	EngineeringScore Score    `json:"engineering_score" yaml:"engineering_score"`
	MaintenanceScore Score    `json:"maintenance_score" yaml:"maintenance_score"`
	LastValidatedOn  string   `json:"last_validated_on,omitempty" yaml:"last_validated_on,omitempty"`
	Owner            string   `json:"owner,omitempty" yaml:"owner,omitempty"`
	ExcelraLeverage  string   `json:"excelra_leverage,omitempty" yaml:"excelra_leverage,omitempty"`
	Notes            string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// PayloadFromForm maps submitted form values onto a Payload. Multi-valued
// fields are read from repeated keys.
func PayloadFromForm(form url.Values) Payload {
	get := func(key string) string {
		return strings.TrimSpace(form.Get(key))
	}
	return Payload{
		Name:             get("name"),
		URL:              get("url"),
		ShortSummary:     get("short_summary"),
		PrimaryBU:        get("primary_bu"),
		SecondaryBUs:     form["secondary_bus"],
		UseCases:         form["use_cases"],
		AssetType:        get("asset_type"),
		LicenseFlag:      get("license_flag"),
		LicenseNotes:     get("license_notes"),
		ReadinessScore:   Score(get("readiness_score")),
		EngineeringScore: Score(get("engineering_score")),
		MaintenanceScore: Score(get("maintenance_score")),
		LastValidatedOn:  get("last_validated_on"),
		Owner:            get("owner"),
		ExcelraLeverage:  get("excelra_leverage"),
		Notes:            get("notes"),
	}
}

// PayloadFromAsset returns the payload that would recreate a.
func PayloadFromAsset(a *Asset) Payload {
	return Payload{
		Name:             a.Name,
		URL:              a.URL,
		ShortSummary:     a.ShortSummary,
		PrimaryBU:        a.PrimaryBU,
		SecondaryBUs:     append([]string(nil), a.SecondaryBUs...),
		UseCases:         append([]string(nil), a.UseCases...),
		AssetType:        a.AssetType,
		LicenseFlag:      a.LicenseFlag,
		LicenseNotes:     a.LicenseNotes,
		ReadinessScore:   ScoreOf(a.ReadinessScore),
		EngineeringScore: ScoreOf(a.EngineeringScore),
		MaintenanceScore: ScoreOf(a.MaintenanceScore),
		LastValidatedOn:  a.LastValidatedOn,
		Owner:            a.Owner,
		ExcelraLeverage:  a.ExcelraLeverage,
		Notes:            a.Notes,
	}
}

// Normalize trims every text field, drops blank tags and substitutes the
// default score for blank scores.
func (p Payload) Normalize() Payload {
	trim := strings.TrimSpace
	score := func(s Score) Score {
		if v := trim(string(s)); v != "" {
			return Score(v)
		}
		return defaultScore
	}
	return Payload{
		Name:             trim(p.Name),
		URL:              trim(p.URL),
		ShortSummary:     trim(p.ShortSummary),
		PrimaryBU:        trim(p.PrimaryBU),
		SecondaryBUs:     NewTagList(p.SecondaryBUs...),
		UseCases:         NewTagList(p.UseCases...),
		AssetType:        trim(p.AssetType),
		LicenseFlag:      trim(p.LicenseFlag),
		LicenseNotes:     trim(p.LicenseNotes),
		ReadinessScore:   score(p.ReadinessScore),
		EngineeringScore: score(p.EngineeringScore),
		MaintenanceScore: score(p.MaintenanceScore),
		LastValidatedOn:  trim(p.LastValidatedOn),
		Owner:            trim(p.Owner),
		ExcelraLeverage:  trim(p.ExcelraLeverage),
		Notes:            trim(p.Notes),
	}
}

// toAsset converts a validated payload. Scores that do not parse become
// zero, so callers must validate first.
func (p Payload) toAsset() *Asset {
	readiness, _ := p.ReadinessScore.Int()
	engineering, _ := p.EngineeringScore.Int()
	maintenance, _ := p.MaintenanceScore.Int()
	return &Asset{
		Name:             p.Name,
		URL:              p.URL,
		ShortSummary:     p.ShortSummary,
		PrimaryBU:        p.PrimaryBU,
		SecondaryBUs:     NewTagList(p.SecondaryBUs...),
		UseCases:         NewTagList(p.UseCases...),
		AssetType:        p.AssetType,
		LicenseFlag:      p.LicenseFlag,
		LicenseNotes:     p.LicenseNotes,
		ReadinessScore:   readiness,
		EngineeringScore: engineering,
		MaintenanceScore: maintenance,
		LastValidatedOn:  p.LastValidatedOn,
		Owner:            p.Owner,
		ExcelraLeverage:  p.ExcelraLeverage,
		Notes:            p.Notes,
	}
}
