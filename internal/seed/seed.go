// Package seed holds the data a fresh tenant starts from.
package seed

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/SscSPs/building_ledger/internal/core/domain"
	"gopkg.in/yaml.v3"
)

//go:embed chart_of_accounts.yaml
var chartYAML []byte

//go:embed classification_fallbacks.yaml
var fallbacksYAML []byte

// ChartAccount is one row of the default chart. Parent refers to another row's code.
type ChartAccount struct {
	Code   string             `yaml:"code"`
	Name   string             `yaml:"name"`
	Type   domain.AccountType `yaml:"type"`
	Parent string             `yaml:"parent"`
}

type chartFile struct {
	Accounts []ChartAccount `yaml:"accounts"`
}

type fallbackFile struct {
	Fallbacks []domain.FallbackRule `yaml:"fallbacks"`
}

// DefaultChart returns the default chart with parents listed before their children.
func DefaultChart() ([]ChartAccount, error) {
	var f chartFile
	if err := decodeStrict(chartYAML, &f); err != nil {
		return nil, fmt.Errorf("decode default chart: %w", err)
	}
	seen := make(map[string]bool, len(f.Accounts))
	for _, a := range f.Accounts {
		if err := domain.ValidateCode(a.Code, a.Type); err != nil {
			return nil, fmt.Errorf("default chart: %w", err)
		}
		if a.Parent != "" && !seen[a.Parent] {
			return nil, fmt.Errorf("default chart: parent %s of %s must come first", a.Parent, a.Code)
		}
		seen[a.Code] = true
	}
	return f.Accounts, nil
}

// DefaultFallbacks returns the ordered (direction, category) -> account code table.
func DefaultFallbacks() ([]domain.FallbackRule, error) {
	return ParseFallbacks(fallbacksYAML)
}

// ParseFallbacks decodes a fallback table in the embedded file's format.
func ParseFallbacks(data []byte) ([]domain.FallbackRule, error) {
	var f fallbackFile
	if err := decodeStrict(data, &f); err != nil {
		return nil, fmt.Errorf("decode fallback table: %w", err)
	}
	for i, fb := range f.Fallbacks {
		if fb.AccountCode == "" || len(fb.Categories) == 0 {
			return nil, fmt.Errorf("fallback %d needs an account code and at least one category", i)
		}
	}
	return f.Fallbacks, nil
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}
