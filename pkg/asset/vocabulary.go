package asset

// Vocabulary holds the option lists a catalog accepts. It is configuration,
// passed to the Validator at construction time.
type Vocabulary struct {
	BusinessUnits []string `mapstructure:"business_units" json:"business_units" yaml:"business_units"`
	AssetTypes    []string `mapstructure:"asset_types" json:"asset_types" yaml:"asset_types"`
	LicenseFlags  []string `mapstructure:"license_flags" json:"license_flags" yaml:"license_flags"`

	// UseCases are suggestions for form builders. Use cases are free-form and
	// never validated against this list.
	UseCases []string `mapstructure:"use_cases" json:"use_cases" yaml:"use_cases"`
}

// License flags.
const (
	LicenseGreen  = "Green"
	LicenseYellow = "Yellow"
	LicenseRed    = "Red"
)

// DefaultVocabulary returns the stock business units, asset types, license
// flags and use-case suggestions.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		BusinessUnits: []string{
			"Chemistry Services",
			"ClinPharma Services",
			"Bioinformatics Services",
			"Scientific Products",
			"Cross-BU",
		},
		AssetTypes: []string{
			"Dataset",
			"Model",
			"Pipeline",
			"Library",
			"App/UI",
			"Benchmark",
			"Ontology",
			"Paper/Reference",
		},
		LicenseFlags: []string{LicenseGreen, LicenseYellow, LicenseRed},
		UseCases: []string{
			"ADMET / Property prediction",
			"Bioactivity curation",
			"Target identification",
			"Target-disease evidence",
			"Virtual screening / Docking",
			"Retrosynthesis / Reaction prediction",
			"Biomedical NLP / NER",
			"RAG / Search",
			"Knowledge graph",
			"Benchmarking",
			"Data standardization",
			"Clinical trials / RWD",
			"PK/PD",
		},
	}
}

// withDefaults fills every empty list from DefaultVocabulary.
func (v Vocabulary) withDefaults() Vocabulary {
	d := DefaultVocabulary()
	if len(v.BusinessUnits) == 0 {
		v.BusinessUnits = d.BusinessUnits
	}
	if len(v.AssetTypes) == 0 {
		v.AssetTypes = d.AssetTypes
	}
	if len(v.LicenseFlags) == 0 {
		v.LicenseFlags = d.LicenseFlags
	}
	if len(v.UseCases) == 0 {
		v.UseCases = d.UseCases
	}
	return v
}
