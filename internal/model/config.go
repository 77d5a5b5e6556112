package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v2"
)

// Config is the importer settings file, loaded once per run and immutable
// afterwards.
type Config struct {
	URL       string   `yaml:"url" json:"url" validate:"required"`
	AWSRegion string   `yaml:"aws-region" json:"aws-region" validate:"required"`
	Namespace string   `yaml:"namespace" json:"namespace" validate:"required"`
	Metrics   []string `yaml:"metrics" json:"metrics" validate:"required,min=1,dive,required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report the file field names, not the Go struct field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// LoadConfig reads and validates the configuration file. The parser is
// selected by file extension (.yaml, .yml or .json).
func LoadConfig(configFile string) (*Config, error) {
	buf, err := os.ReadFile(configFile)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(buf)) == 0 {
		return nil, fmt.Errorf("config file %q is empty", configFile)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(configFile)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(buf, &cfg)
	case ".json":
		err = json.Unmarshal(buf, &cfg)
	default:
		return nil, fmt.Errorf("config file %q has unsupported extension %q, expected .yaml, .yml or .json", configFile, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", configFile, err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config file %q: %w", configFile, err)
	}

	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %q is required", fe.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("field %q must not be empty", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %q is invalid", fe.Field()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
