// ABOUTME: YAML dive plan files for the decoplan CLI and TUI
// ABOUTME: Absent fields take planner defaults; depths may be written in feet

package diveplan

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/arthurportas/tech-diving-app/backend/models"
	"github.com/arthurportas/tech-diving-app/backend/services"
	"github.com/arthurportas/tech-diving-app/cli/internal/units"
)

// Plan is a named set of dive parameters as stored on disk. Depths and rates
// are in Units, which defaults to metric.
type Plan struct {
	Name                  string `yaml:"name,omitempty"`
	Units                 string `yaml:"units,omitempty"`
	models.DiveParameters `yaml:",inline"`
}

// New returns a plan holding the planner defaults.
func New(name string) *Plan {
	return &Plan{Name: name, DiveParameters: models.DefaultDiveParameters()}
}

// Load reads and validates the plan file at path.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan file: %w", err)
	}
	plan, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return plan, nil
}

// Parse decodes a YAML plan onto the planner defaults and validates it.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func Parse(data []byte) (*Plan, error) {
	plan := New("")

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(plan); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("plan file is empty")
		}
		return nil, fmt.Errorf("parsing plan: %w", err)
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

// System returns the unit system the plan is written in.
func (p *Plan) System() (units.System, error) {
	return units.Parse(p.Units)
}

// Metric returns the plan's dive parameters converted to metres.
func (p *Plan) Metric() (models.DiveParameters, error) {
	sys, err := p.System()
	if err != nil {
		return models.DiveParameters{}, err
	}
	return sys.ParamsToMetres(p.DiveParameters), nil
}

// Validate checks the plan with the same rules the planner applies.
func (p *Plan) Validate() error {
	if p.Depth <= 0 {
		return errors.New("depth is required and must be positive")
	}
	if p.BottomTime <= 0 {
		return errors.New("bottom_time is required and must be positive")
	}
	params, err := p.Metric()
	if err != nil {
		return err
	}
	return services.ValidateDiveParameters(params)
}

// Save writes the plan to path, creating parent directories as needed.
func Save(path string, p *Plan) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating plan directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing plan file: %w", err)
	}
	return nil
}
