// Package viewmodel materializes renderer-agnostic view models from the
// aggregation index, driven entirely by declarative section
// configuration. The six section types form a closed set; every KPI view
// is just an ordered list of SectionConfig entries, so adding a KPI
// touches configuration only, never this package's code.
package viewmodel

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hrpulse/hrpulse/pkg/aggindex"
	"github.com/hrpulse/hrpulse/pkg/kpi"
)

// SectionType tags one renderable unit.
type SectionType string

// The closed set of section types.
const (
	SectionStatSummary     SectionType = "stat_summary"
	SectionTrendChart      SectionType = "trend_chart"
	SectionComparisonChart SectionType = "comparison_chart"
	SectionEmployeeTable   SectionType = "employee_table"
	SectionTimeline        SectionType = "timeline"
	SectionHeatmap         SectionType = "heatmap"
)

// SectionOptions hold per-section display options. Pure data.
type SectionOptions struct {
	// Team restricts table, timeline and filter sections to one
	// canonical team.
	Team string `json:"team,omitempty" yaml:"team,omitempty"`
	// Tier restricts employee tables to one award tier.
	Tier string `json:"tier,omitempty" yaml:"tier,omitempty"`
	// RiskBand restricts employee tables to one risk band.
	RiskBand string `json:"risk_band,omitempty" yaml:"risk_band,omitempty"`
	// ShowTiers adds award-tier counts to a stat summary.
	ShowTiers bool `json:"show_tiers,omitempty" yaml:"show_tiers,omitempty"`
	// Limit caps the number of rows or series. Zero means no cap.
	Limit int `json:"limit,omitempty" yaml:"limit,omitempty"`
}

// SectionConfig describes one renderable unit. Pure data, never
// executable; Metric names the month-snapshot metric for summary and
// trend sections, EmployeeMetric names the per-employee metric for
// comparison, table, timeline and heatmap sections.
type SectionConfig struct {
	Type           SectionType    `json:"type"                      yaml:"type"`
	Title          string         `json:"title"                     yaml:"title"`
	Metric         string         `json:"metric,omitempty"          yaml:"metric,omitempty"`
	Metrics        []string       `json:"metrics,omitempty"         yaml:"metrics,omitempty"`
	EmployeeMetric string         `json:"employee_metric,omitempty" yaml:"employee_metric,omitempty"`
	Options        SectionOptions `json:"options,omitempty"         yaml:"options,omitempty"`
}

// KPIConfig is one KPI view: an identifier, a display title and an
// ordered list of sections. The table of KPIConfigs is the only place a
// new KPI or section is added.
type KPIConfig struct {
	ID       string          `json:"id"       yaml:"id"`
	Title    string          `json:"title"    yaml:"title"`
	Sections []SectionConfig `json:"sections" yaml:"sections"`
}

// ConfigurationError reports an invalid SectionConfig. It is raised at
// factory construction, before any rendering begins, and identifies the
// offending KPI and section index.
type ConfigurationError struct {
	KPI     string
	Section int
	Reason  string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: kpi %q section %d: %s", e.KPI, e.Section, e.Reason)
}

// LoadTable reads a KPI configuration table from a YAML file.
func LoadTable(path string) ([]KPIConfig, error) {
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return nil, fmt.Errorf("read kpi table: %w", readErr)
	}

	var table []KPIConfig

	decodeErr := yaml.Unmarshal(data, &table)
	if decodeErr != nil {
		return nil, fmt.Errorf("decode kpi table: %w", decodeErr)
	}

	return table, nil
}

// validate checks one section against the closed type set and the metric
// schemas. Returns nil or a *ConfigurationError.
func validate(kpiID string, idx int, cfg SectionConfig, known map[SectionType]handler) error {
	fail := func(reason string) error {
		return &ConfigurationError{KPI: kpiID, Section: idx, Reason: reason}
	}

	if _, ok := known[cfg.Type]; !ok {
		return fail(fmt.Sprintf("unknown section type %q", cfg.Type))
	}

	for _, name := range snapshotMetrics(cfg) {
		if !kpi.KnownMetric(name) {
			return fail(fmt.Sprintf("unknown metric %q", name))
		}
	}

	switch cfg.Type {
	case SectionStatSummary, SectionTrendChart:
		if len(snapshotMetrics(cfg)) == 0 {
			return fail("missing metric key")
		}
	case SectionComparisonChart, SectionTimeline, SectionHeatmap:
		if !aggindex.KnownEmployeeMetric(cfg.EmployeeMetric) {
			return fail(fmt.Sprintf("unknown employee metric %q", cfg.EmployeeMetric))
		}
	case SectionEmployeeTable:
		if cfg.EmployeeMetric != "" && !aggindex.KnownEmployeeMetric(cfg.EmployeeMetric) {
			return fail(fmt.Sprintf("unknown employee metric %q", cfg.EmployeeMetric))
		}
	}

	if cfg.Options.Tier != "" && !knownTier(cfg.Options.Tier) {
		return fail(fmt.Sprintf("unknown tier %q", cfg.Options.Tier))
	}

	if cfg.Options.RiskBand != "" && !knownRiskBand(cfg.Options.RiskBand) {
		return fail(fmt.Sprintf("unknown risk band %q", cfg.Options.RiskBand))
	}

	return nil
}

// snapshotMetrics returns the month-snapshot metric names a summary or
// trend section references, merging the single and plural forms.
func snapshotMetrics(cfg SectionConfig) []string {
	if cfg.Type != SectionStatSummary && cfg.Type != SectionTrendChart {
		return nil
	}

	var names []string

	if cfg.Metric != "" {
		names = append(names, cfg.Metric)
	}

	return append(names, cfg.Metrics...)
}

func knownTier(raw string) bool {
	if aggindex.Tier(raw) == aggindex.TierNone {
		return true
	}

	for _, tier := range aggindex.Tiers() {
		if aggindex.Tier(raw) == tier {
			return true
		}
	}

	return false
}

func knownRiskBand(raw string) bool {
	switch aggindex.RiskBand(raw) {
	case aggindex.RiskBandHigh, aggindex.RiskBandMedium, aggindex.RiskBandLow:
		return true
	default:
		return false
	}
}
