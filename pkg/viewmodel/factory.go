package viewmodel

import (
	"fmt"

	"github.com/hrpulse/hrpulse/pkg/aggindex"
	"github.com/hrpulse/hrpulse/pkg/monthkey"
)

// handler is one pure section materializer. Every section type maps to
// exactly one handler; no handler may depend on which KPI invoked it.
type handler func(cfg SectionConfig, index *aggindex.Index, target monthkey.Key) ViewModel

// Factory materializes view models for a validated KPI table. Stateless
// after construction; safe to call concurrently per section.
type Factory struct {
	table    []KPIConfig
	handlers map[SectionType]handler
}

// NewFactory validates the whole KPI table against the closed section
// type set and returns a factory. Any invalid section fails construction
// with a *ConfigurationError, so misconfiguration is never discovered
// mid-render.
func NewFactory(table []KPIConfig) (*Factory, error) {
	handlers := map[SectionType]handler{
		SectionStatSummary:     materializeStatSummary,
		SectionTrendChart:      materializeTrendChart,
		SectionComparisonChart: materializeComparisonChart,
		SectionEmployeeTable:   materializeEmployeeTable,
		SectionTimeline:        materializeTimeline,
		SectionHeatmap:         materializeHeatmap,
	}

	for _, entry := range table {
		for idx, section := range entry.Sections {
			err := validate(entry.ID, idx, section, handlers)
			if err != nil {
				return nil, err
			}
		}
	}

	return &Factory{table: table, handlers: handlers}, nil
}

// KPIs returns the configured KPI entries in table order.
func (f *Factory) KPIs() []KPIConfig {
	return f.table
}

// Materialize produces the view model for one validated section.
func (f *Factory) Materialize(cfg SectionConfig, index *aggindex.Index, target monthkey.Key) (ViewModel, error) {
	materialize, ok := f.handlers[cfg.Type]
	if !ok {
		// Unreachable for sections that passed construction.
		return ViewModel{}, fmt.Errorf("no handler for section type %q", cfg.Type)
	}

	return materialize(cfg, index, target), nil
}

// MaterializeKPI produces the ordered view models of one KPI entry.
func (f *Factory) MaterializeKPI(kpiID string, index *aggindex.Index, target monthkey.Key) ([]ViewModel, error) {
	entry, found := f.lookup(kpiID)
	if !found {
		return nil, fmt.Errorf("unknown kpi %q", kpiID)
	}

	models := make([]ViewModel, 0, len(entry.Sections))

	for _, section := range entry.Sections {
		model, err := f.Materialize(section, index, target)
		if err != nil {
			return nil, err
		}

		models = append(models, model)
	}

	return models, nil
}

func (f *Factory) lookup(kpiID string) (KPIConfig, bool) {
	for _, entry := range f.table {
		if entry.ID == kpiID {
			return entry, true
		}
	}

	return KPIConfig{}, false
}
