package config

import "fmt"

// exporterSection is the config section holding exporter settings.
const exporterSection = "exporter"

// Defaults for the exporter section.
const (
	DefaultSourcePlatform = "chatgpt"
	DefaultPackFileName   = "context_pack.json"
	DefaultLedgerFileName = "version_history.json"
)

// ExporterSettings controls the incremental update pipeline: where packs and
// the version ledger are written, and how packs are labeled.
type ExporterSettings struct {
	SourcePlatform string
	OutputDir      string
	PackFileName   string
	LedgerFileName string
}

// DefaultExporterSettings returns the exporter defaults with the given
// output directory.
func DefaultExporterSettings(outputDir string) ExporterSettings {
	return ExporterSettings{
		SourcePlatform: DefaultSourcePlatform,
		OutputDir:      outputDir,
		PackFileName:   DefaultPackFileName,
		LedgerFileName: DefaultLedgerFileName,
	}
}

// LoadExporterSettings reads the exporter section from the store, filling
// any unset field with its default.
func LoadExporterSettings(store Store) (ExporterSettings, error) {
	section, err := store.GetSection(exporterSection)
	if err != nil {
		return ExporterSettings{}, fmt.Errorf("config: load exporter section: %w", err)
	}

	settings := DefaultExporterSettings("")
	if v, ok := section["source_platform"].(string); ok && v != "" {
		settings.SourcePlatform = v
	}
	if v, ok := section["output_dir"].(string); ok {
		settings.OutputDir = v
	}
	if v, ok := section["pack_file_name"].(string); ok && v != "" {
		settings.PackFileName = v
	}
	if v, ok := section["ledger_file_name"].(string); ok && v != "" {
		settings.LedgerFileName = v
	}
	return settings, nil
}

// SaveExporterSettings writes the exporter section to the store and persists
// it to disk.
func SaveExporterSettings(store Store, settings ExporterSettings) error {
	section := map[string]interface{}{
		"source_platform":  settings.SourcePlatform,
		"output_dir":       settings.OutputDir,
		"pack_file_name":   settings.PackFileName,
		"ledger_file_name": settings.LedgerFileName,
	}
	if err := store.SetSection(exporterSection, section); err != nil {
		return fmt.Errorf("config: set exporter section: %w", err)
	}
	if err := store.Save(); err != nil {
		return fmt.Errorf("config: save exporter settings: %w", err)
	}
	return nil
}
