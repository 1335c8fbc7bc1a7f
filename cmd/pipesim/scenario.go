package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// A scenario is a run description loaded from a YAML file. Fields that are
// left out keep the values of the matching command-line flags.
type scenario struct {
	FreqMHz     float64 `yaml:"freq_mhz"`
	LFPSFreqMHz float64 `yaml:"lfps_freq_mhz"`
	DurationUS  float64 `yaml:"duration_us"`
	RepeatCount int     `yaml:"repeat_count"`

	LinkConfig *scenarioLinkConfig `yaml:"link_config"`
}

// scenarioLinkConfig is the link configuration section of a scenario file.
// When present, it replaces the link-config flags as a whole.
type scenarioLinkConfig struct {
	Reset      bool `yaml:"reset"`
	Loopback   bool `yaml:"loopback"`
	Scrambling bool `yaml:"scrambling"`
}

// loadScenario reads the scenario file named by the --scenario flag. A run
// without the flag gets an empty scenario.
func loadScenario(cmd *cobra.Command) (scenario, error) {
	var s scenario

	path, _ := cmd.Flags().GetString("scenario")
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read scenario: %w", err)
	}

	err = yaml.Unmarshal(data, &s)
	if err != nil {
		return s, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	return s, nil
}
