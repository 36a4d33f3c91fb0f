package asset

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Query parameter names understood by FilterFromValues.
const (
	ParamText         = "q"
	ParamPrimaryBU    = "primary_bu"
	ParamAssetType    = "asset_type"
	ParamLicenseFlag  = "license_flag"
	ParamUseCase      = "use_case"
	ParamMinReadiness = "min_ready"
)

// Filter selects the assets shown in the browse view. All fields are
// optional and combine with AND; the zero Filter matches everything.
type Filter struct {
	// Text is matched case-insensitively against the searchable text of an
	// asset (see searchText).
	Text string `json:"q,omitempty"`

	PrimaryBU   string `json:"primary_bu,omitempty"`
	AssetType   string `json:"asset_type,omitempty"`
	LicenseFlag string `json:"license_flag,omitempty"`

	// UseCase matches when any use case contains it, case-insensitively.
	UseCase string `json:"use_case,omitempty"`

	MinReadiness int `json:"min_ready,omitempty"`

	// minReadinessSet records an explicit min_ready, zero included, so it
	// can override a filter query in Merge.
	minReadinessSet bool
}

// FilterFromValues reads a Filter from query parameters. A min_ready that is
// not an integer is a *ValidationError.
func FilterFromValues(q url.Values) (Filter, error) {
	get := func(key string) string {
		return strings.TrimSpace(q.Get(key))
	}
	f := Filter{
		Text:        get(ParamText),
		PrimaryBU:   get(ParamPrimaryBU),
		AssetType:   get(ParamAssetType),
		LicenseFlag: get(ParamLicenseFlag),
		UseCase:     get(ParamUseCase),
	}
	if v := get(ParamMinReadiness); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Filter{}, invalid("min_ready must be an integer.")
		}
		f.MinReadiness = n
		f.minReadinessSet = true
	}
	return f, nil
}

// Values encodes f as query parameters, omitting empty fields.
func (f Filter) Values() url.Values {
	q := url.Values{}
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	set(ParamText, f.Text)
	set(ParamPrimaryBU, f.PrimaryBU)
	set(ParamAssetType, f.AssetType)
	set(ParamLicenseFlag, f.LicenseFlag)
	set(ParamUseCase, f.UseCase)
	if f.MinReadiness != 0 || f.minReadinessSet {
		q.Set(ParamMinReadiness, strconv.Itoa(f.MinReadiness))
	}
	return q
}

// Merge returns f with every non-empty field of override applied on top. An
// explicitly given min_ready in override wins even when it is zero.
func (f Filter) Merge(override Filter) Filter {
	pick := func(base, over string) string {
		if over != "" {
			return over
		}
		return base
	}
	f.Text = pick(f.Text, override.Text)
	f.PrimaryBU = pick(f.PrimaryBU, override.PrimaryBU)
	f.AssetType = pick(f.AssetType, override.AssetType)
	f.LicenseFlag = pick(f.LicenseFlag, override.LicenseFlag)
	f.UseCase = pick(f.UseCase, override.UseCase)
	if override.MinReadiness != 0 || override.minReadinessSet {
		f.MinReadiness = override.MinReadiness
		f.minReadinessSet = f.minReadinessSet || override.minReadinessSet
	}
	return f
}

type predicate func(a *Asset) bool

// predicates returns one predicate per set field, in the order the stages
// run. The order does not change the result.
func (f Filter) predicates() []predicate {
	var preds []predicate
	if f.Text != "" {
		needle := strings.ToLower(f.Text)
		preds = append(preds, func(a *Asset) bool {
			return strings.Contains(strings.ToLower(searchText(a)), needle)
		})
	}
	if f.PrimaryBU != "" {
		preds = append(preds, func(a *Asset) bool { return a.PrimaryBU == f.PrimaryBU })
	}
	if f.AssetType != "" {
		preds = append(preds, func(a *Asset) bool { return a.AssetType == f.AssetType })
	}
	if f.LicenseFlag != "" {
		preds = append(preds, func(a *Asset) bool { return a.LicenseFlag == f.LicenseFlag })
	}
	preds = append(preds, func(a *Asset) bool { return a.ReadinessScore >= f.MinReadiness })
	if f.UseCase != "" {
		needle := strings.ToLower(f.UseCase)
		preds = append(preds, func(a *Asset) bool {
			for _, uc := range a.UseCases {
				if strings.Contains(strings.ToLower(uc), needle) {
					return true
				}
			}
			return false
		})
	}
	return preds
}

// Matches reports whether a satisfies every predicate of f.
func (f Filter) Matches(a *Asset) bool {
	for _, p := range f.predicates() {
		if !p(a) {
			return false
		}
	}
	return true
}

// searchText is the text the free-text query is matched against: name,
// summary, url, primary BU, secondary BUs, use cases, leverage and notes,
// joined by single spaces.
func searchText(a *Asset) string {
	return strings.Join([]string{
		a.Name,
		a.ShortSummary,
		a.URL,
		a.PrimaryBU,
		strings.Join(a.SecondaryBUs, " "),
		strings.Join(a.UseCases, " "),
		a.ExcelraLeverage,
		a.Notes,
	}, " ")
}

// Apply returns the browse view of records: the records matching f, ordered
// by readiness, then engineering, then maintenance score, all descending.
// Records that tie on all three scores keep their input order. The input
// slice is not modified and the result is never nil.
func Apply(records []Asset, f Filter) []Asset {
	items := make([]Asset, len(records))
	copy(items, records)

	for _, keep := range f.predicates() {
		narrowed := items[:0]
		for i := range items {
			if keep(&items[i]) {
				narrowed = append(narrowed, items[i])
			}
		}
		items = narrowed
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].scoreKey(), items[j].scoreKey()
		for k := range a {
			if a[k] != b[k] {
				return a[k] > b[k]
			}
		}
		return false
	})
	return items
}
