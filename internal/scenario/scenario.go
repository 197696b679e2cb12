package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/andresuchdata/safetystock-sim/internal/domain"
	"github.com/andresuchdata/safetystock-sim/internal/simulation"
	"gopkg.in/yaml.v3"
)

// File is a what-if scenario for the CLI. Omitted fields keep the holder's defaults.
type File struct {
	Name             string `yaml:"name,omitempty"`
	WeeklyDemand     *int   `yaml:"weekly_demand,omitempty"`
	SafetyStockWeeks *int   `yaml:"safety_stock_weeks,omitempty"`
	InitialStock     *int   `yaml:"initial_stock,omitempty"`
	WeeklyReceiving  []int  `yaml:"weekly_receiving,omitempty"`
	ReceivingAll     *int   `yaml:"receiving_all,omitempty"`
}

// Load reads a scenario from a YAML file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes a scenario, rejecting unknown keys.
func Parse(data []byte) (*File, error) {
	f := &File{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: parse scenario: %v", domain.ErrMalformedInput, err)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks the scenario is internally consistent. Range checks are left to the holder.
func (f *File) Validate() error {
	if f.ReceivingAll != nil && f.WeeklyReceiving != nil {
		return fmt.Errorf("%w: receiving_all and weekly_receiving are mutually exclusive", domain.ErrMalformedInput)
	}
	return nil
}

// Apply writes the scenario into h through its bounded setters.
func (f *File) Apply(h *simulation.Holder) error {
	if err := f.Validate(); err != nil {
		return err
	}

	if f.WeeklyDemand != nil {
		h.SetWeeklyDemand(*f.WeeklyDemand)
	}
	if f.SafetyStockWeeks != nil {
		h.SetSafetyStockWeeks(*f.SafetyStockWeeks)
	}
	if f.InitialStock != nil {
		h.SetInitialStock(*f.InitialStock)
	}
	if f.ReceivingAll != nil {
		h.SetAllReceiving(*f.ReceivingAll)
	}

	if f.WeeklyReceiving != nil {
		weeks := h.Limits().Weeks
		if len(f.WeeklyReceiving) != weeks {
			return fmt.Errorf("%w: weekly_receiving has %d entries, want %d",
				domain.ErrMalformedInput, len(f.WeeklyReceiving), weeks)
		}
		for week, v := range f.WeeklyReceiving {
			if _, err := h.SetReceiving(week, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// Template builds a fully populated scenario from a set of inputs.
func Template(name string, in domain.SimulationInputs) *File {
	demand := in.WeeklyDemand
	weeks := in.SafetyStockWeeks
	initial := in.InitialStock

	return &File{
		Name:             name,
		WeeklyDemand:     &demand,
		SafetyStockWeeks: &weeks,
		InitialStock:     &initial,
		WeeklyReceiving:  append([]int(nil), in.WeeklyReceiving...),
	}
}

// Write encodes f as YAML.
func Write(w io.Writer, f *File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode scenario: %w", err)
	}
	return enc.Close()
}
