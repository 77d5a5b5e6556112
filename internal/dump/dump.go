// Package dump serializes intermediate run data to local files for
// debugging and offline use.
package dump

import (
	"encoding/json"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// Format is a supported dump serialization.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// UnsupportedFormatError reports a dump format outside the supported set.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported dump format %q, supported formats: json, yaml", e.Format)
}

func ParseFormat(s string) (Format, error) {
	switch s {
	case "json":
		return FormatJSON, nil
	case "yaml":
		return FormatYAML, nil
	default:
		return 0, &UnsupportedFormatError{Format: s}
	}
}

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// Stage identifies which intermediate representation gets dumped: the raw
// fetched results or the translated records.
type Stage string

const (
	StageSource      Stage = "source"
	StageDestination Stage = "destination"
)

func ParseStage(s string) (Stage, error) {
	switch Stage(s) {
	case StageSource, StageDestination:
		return Stage(s), nil
	default:
		return "", fmt.Errorf("unsupported dump stage %q, supported stages: %s, %s", s, StageSource, StageDestination)
	}
}

// Write serializes v to "<stage>.<format>" in the current directory and
// returns the file name. JSON output is pretty-printed with 4-space
// indentation.
func Write(stage Stage, format Format, v interface{}) (string, error) {
	var (
		buf []byte
		err error
	)
	switch format {
	case FormatJSON:
		buf, err = json.MarshalIndent(v, "", "    ")
	case FormatYAML:
		buf, err = yaml.Marshal(v)
	default:
		return "", &UnsupportedFormatError{Format: format.String()}
	}
	if err != nil {
		return "", fmt.Errorf("failed to serialize %s dump: %w", stage, err)
	}

	fileName := fmt.Sprintf("%s.%s", stage, format)
	if err := os.WriteFile(fileName, buf, 0o644); err != nil {
		return "", err
	}
	return fileName, nil
}
