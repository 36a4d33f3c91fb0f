// Package seed loads the bootstrap record set used to populate an empty
// catalog.
package seed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/excelra/asset-scout/pkg/asset"
)

// defaultScore is assigned to scores a seed record leaves out.
const defaultScore = 3

// record is one entry of a seed file. Only name, url, short_summary,
// primary_bu, asset_type and license_flag are expected to be present;
// everything else has a default.
type record struct {
	Name             string   `yaml:"name"`
	URL              string   `yaml:"url"`
	ShortSummary     string   `yaml:"short_summary"`
	PrimaryBU        string   `yaml:"primary_bu"`
	SecondaryBUs     []string `yaml:"secondary_bus"`
	UseCases         []string `yaml:"use_cases"`
	AssetType        string   `yaml:"asset_type"`
	LicenseFlag      string   `yaml:"license_flag"`
	LicenseNotes     string   `yaml:"license_notes"`
	ReadinessScore   *int     `yaml:"readiness_score"`
	EngineeringScore *int     `yaml:"engineering_score"`
	MaintenanceScore *int     `yaml:"maintenance_score"`
	LastValidatedOn  *string  `yaml:"last_validated_on"`
	Owner            string   `yaml:"owner"`
	ExcelraLeverage  string   `yaml:"excelra_leverage"`
	Notes            string   `yaml:"notes"`
}

func (r record) toAsset(today string) asset.Asset {
	score := func(v *int) int {
		if v == nil {
			return defaultScore
		}
		return *v
	}
	validated := today
	if r.LastValidatedOn != nil {
		validated = *r.LastValidatedOn
	}
	return asset.Asset{
		Name:             r.Name,
		URL:              r.URL,
		ShortSummary:     r.ShortSummary,
		PrimaryBU:        r.PrimaryBU,
		SecondaryBUs:     asset.NewTagList(r.SecondaryBUs...),
		UseCases:         asset.NewTagList(r.UseCases...),
		AssetType:        r.AssetType,
		LicenseFlag:      r.LicenseFlag,
		LicenseNotes:     r.LicenseNotes,
		ReadinessScore:   score(r.ReadinessScore),
		EngineeringScore: score(r.EngineeringScore),
		MaintenanceScore: score(r.MaintenanceScore),
		LastValidatedOn:  validated,
		Owner:            r.Owner,
		ExcelraLeverage:  r.ExcelraLeverage,
		Notes:            r.Notes,
	}
}

// Decode reads a seed document: a YAML or JSON sequence of asset records.
// Missing optional fields take their defaults, and a missing
// last_validated_on becomes today. Records are not validated.
func Decode(r io.Reader, today time.Time) ([]asset.Asset, error) {
	var records []record
	if err := yaml.NewDecoder(r).Decode(&records); err != nil {
		if err == io.EOF {
			return []asset.Asset{}, nil
		}
		return nil, fmt.Errorf("parse seed records: %w", err)
	}

	day := today.Format(asset.DateLayout)
	assets := make([]asset.Asset, 0, len(records))
	for _, rec := range records {
		assets = append(assets, rec.toAsset(day))
	}
	return assets, nil
}

// FileSource is an asset.SeedSource backed by a seed file on disk. The file
// is read on every call to Records.
type FileSource struct {
	path   string
	logger *slog.Logger
	now    func() time.Time
}

var _ asset.SeedSource = (*FileSource)(nil)

// NewFileSource creates a new FileSource.
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{path: path, logger: logger, now: time.Now}
}

// Records returns the seed records. A missing or unconfigured file yields no
// records and a warning rather than an error.
func (s *FileSource) Records(_ context.Context) ([]asset.Asset, error) {
	if s.path == "" {
		return nil, nil
	}
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("seed file not found, catalog stays empty", "path", s.path)
			return nil, nil
		}
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	assets, err := Decode(f, s.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	s.logger.Debug("loaded seed records", "path", s.path, "records", len(assets))
	return assets, nil
}
