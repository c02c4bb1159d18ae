package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/phrazzld/smartflash/internal/domain"
	"gopkg.in/yaml.v3"
)

// ExportFormat names a deck export encoding.
type ExportFormat string

// Supported export formats. JSON exports use the persisted layout, so an
// exported file can be loaded as a slot or imported back.
const (
	FormatJSON ExportFormat = "json"
	FormatYAML ExportFormat = "yaml"
)

// ErrUnknownFormat is returned for an export format other than json or yaml.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseExportFormat converts a format name; an empty name means JSON.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath picks the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) ExportFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ContentType returns the MIME type of the format.
func (f ExportFormat) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Extension returns the file extension of the format, without the dot.
func (f ExportFormat) Extension() string {
	return string(f)
}

// ExportDecks encodes decks as a list in the given format.
func ExportDecks(decks []domain.Deck, format ExportFormat) ([]byte, error) {
	records := ToRecords(decks)
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode json export: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(records)
		if err != nil {
			return nil, fmt.Errorf("failed to encode yaml export: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// DecodeExport parses an export produced by ExportDecks, or the browser
// app's stored JSON, with the same tolerance as DecodeDecks.
func DecodeExport(data []byte, format ExportFormat) (DecodeResult, error) {
	switch format {
	case FormatJSON:
		return DecodeDecks(data)
	case FormatYAML:
		var records []DeckRecord
		if err := yaml.Unmarshal(data, &records); err != nil {
			return DecodeResult{}, fmt.Errorf("%w: %v", ErrMalformedData, err)
		}
		asJSON, err := json.Marshal(records)
		if err != nil {
			return DecodeResult{}, fmt.Errorf("%w: %v", ErrMalformedData, err)
		}
		return DecodeDecks(asJSON)
	default:
		return DecodeResult{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
