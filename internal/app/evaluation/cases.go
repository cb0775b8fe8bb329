package evaluation

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tutu-network/reimburse/internal/domain"
)

// Format is the encoding of a cases file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension; anything that is
// not .yaml/.yml is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadCases reads a cases file from disk.
func LoadCases(path string) ([]domain.Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cases: %w", err)
	}
	defer f.Close()

	return DecodeCases(f, FormatFromPath(path))
}

// DecodeCases decodes a list of cases. An empty list is ErrNoCases.
func DecodeCases(r io.Reader, format Format) ([]domain.Case, error) {
	var cases []domain.Case

	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&cases); err != nil && err != io.EOF {
			return nil, fmt.Errorf("%w: %v", domain.ErrCasesFormat, err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&cases); err != nil && err != io.EOF {
			return nil, fmt.Errorf("%w: %v", domain.ErrCasesFormat, err)
		}
	}

	if len(cases) == 0 {
		return nil, domain.ErrNoCases
	}
	return cases, nil
}
