package output

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rpgo/retirement-runway/internal/domain"
)

// ErrUnsupportedFormat is returned for format names no formatter answers to.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// GenerateReport writes the result through the named formatter into dir and
// returns the file paths written. "all" writes the verbose console report and
// the monthly CSV.
func GenerateReport(result *domain.SimulationResult, format, dir string) ([]string, error) {
	if f := GetFormatterByName(format); f != nil {
		path, err := WriteFormatted(f, result, dir, extensionFor(f.Name()))
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	}
	if strings.EqualFold(strings.TrimSpace(format), "all") {
		var paths []string
		for _, f := range []Formatter{ConsoleVerboseFormatter{}, CSVDetailedExporter{}} {
			path, err := WriteFormatted(f, result, dir, extensionFor(f.Name()))
			if err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
		return paths, nil
	}
	// enrich error with available formatters and aliases
	return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}
