// Package asset implements the asset catalog core: the record store, the
// payload validator, the query engine that builds the browse view, and the
// service that composes them for the HTTP API and the seeder.
package asset

// Asset is a catalogued internal resource (dataset, model, pipeline, ...).
// It is the only entity persisted by the catalog.
type Asset struct {
	ID               int64   `gorm:"primaryKey;autoIncrement;column:id" json:"id" yaml:"id"`
	Name             string  `gorm:"column:name;not null" json:"name" yaml:"name"`
	URL              string  `gorm:"column:url;not null" json:"url" yaml:"url"`
	ShortSummary     string  `gorm:"column:short_summary;not null" json:"short_summary" yaml:"short_summary"`
	PrimaryBU        string  `gorm:"column:primary_bu;not null" json:"primary_bu" yaml:"primary_bu"`
	SecondaryBUs     TagList `gorm:"column:secondary_bus;type:text;not null" json:"secondary_bus" yaml:"secondary_bus"`
	UseCases         TagList `gorm:"column:use_cases;type:text;not null" json:"use_cases" yaml:"use_cases"`
	AssetType        string  `gorm:"column:asset_type;not null" json:"asset_type" yaml:"asset_type"`
	LicenseFlag      string  `gorm:"column:license_flag;not null" json:"license_flag" yaml:"license_flag"`
	LicenseNotes     string  `gorm:"column:license_notes;not null" json:"license_notes" yaml:"license_notes"`
	ReadinessScore   int     `gorm:"column:readiness_score;not null" json:"readiness_score" yaml:"readiness_score"`
	EngineeringScore int     `gorm:"column:engineering_score;not null" json:"engineering_score" yaml:"engineering_score"`
	MaintenanceScore int     `gorm:"column:maintenance_score;not null" json:"maintenance_score" yaml:"maintenance_score"`
	LastValidatedOn  string  `gorm:"column:last_validated_on;not null" json:"last_validated_on" yaml:"last_validated_on"`
	Owner            string  `gorm:"column:owner;not null" json:"owner" yaml:"owner"`
	ExcelraLeverage  string  `gorm:"column:excelra_leverage;not null" json:"excelra_leverage" yaml:"excelra_leverage"`
	Notes            string  `gorm:"column:notes;not null" json:"notes" yaml:"notes"`
}

// TableName returns the GORM table name.
func (Asset) TableName() string { return "assets" }

// scoreKey is the default sort key of the browse view.
func (a *Asset) scoreKey() [3]int {
	return [3]int{a.ReadinessScore, a.EngineeringScore, a.MaintenanceScore}
}
