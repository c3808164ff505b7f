// Package stimulus replays timed switch traces against a simulated board.
package stimulus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/marcozac/go-jsonc"
	"gopkg.in/yaml.v3"

	"github.com/dohr-michael/pioboard/internal/channels"
	"github.com/dohr-michael/pioboard/internal/config"
)

// ErrInvalidStep is returned for steps that are out of order or name an unknown channel.
var ErrInvalidStep = errors.New("invalid trace step")

// Trace is an ordered list of switch changes.
//
//	{
//	  "name": "double press",
//	  "steps": [
//	    { "at": "0s",    "press":   [2] },
//	    { "at": "200ms", "release": [2] },
//	    { "at": "400ms", "press":   [2] }
//	  ]
//	}
//
// Files ending in .yaml or .yml use the same fields in YAML.
type Trace struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Steps []Step `json:"steps" yaml:"steps"`
	// Hold keeps the last state for this long after the final step.
	Hold config.Duration `json:"hold,omitempty" yaml:"hold,omitempty"`
}

// Step presses and releases switches at an offset from the start of the trace.
type Step struct {
	At      config.Duration `json:"at" yaml:"at"`
	Press   []int           `json:"press,omitempty" yaml:"press,omitempty"`
	Release []int           `json:"release,omitempty" yaml:"release,omitempty"`
}

// Load reads and validates a trace file. The format follows the extension:
// YAML for .yaml and .yml, JSONC otherwise.
func Load(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	parse := Parse
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parse = ParseYAML
	}
	tr, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tr, nil
}

// Parse decodes and validates JSONC trace data.
func Parse(data []byte) (*Trace, error) {
	var tr Trace
	if err := jsonc.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("unmarshal trace: %w", err)
	}
	if err := tr.Validate(); err != nil {
		return nil, err
	}
	return &tr, nil
}

// ParseYAML decodes and validates YAML trace data.
func ParseYAML(data []byte) (*Trace, error) {
	var tr Trace
	if err := yaml.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("unmarshal trace: %w", err)
	}
	if err := tr.Validate(); err != nil {
		return nil, err
	}
	return &tr, nil
}

// Validate checks that steps are in time order, name valid channels and
// never press and release the same channel at once.
func (tr *Trace) Validate() error {
	var last time.Duration
	for i, s := range tr.Steps {
		at := s.At.Duration()
		if at < 0 || at < last {
			return fmt.Errorf("%w: step %d at %s precedes %s", ErrInvalidStep, i, at, last)
		}
		last = at

		touched := make(map[int]bool, len(s.Press)+len(s.Release))
		for _, n := range s.Press {
			if _, err := channels.Parse(n); err != nil {
				return fmt.Errorf("%w: step %d: %v", ErrInvalidStep, i, err)
			}
			touched[n] = true
		}
		for _, n := range s.Release {
			if _, err := channels.Parse(n); err != nil {
				return fmt.Errorf("%w: step %d: %v", ErrInvalidStep, i, err)
			}
			if touched[n] {
				return fmt.Errorf("%w: step %d presses and releases channel %d", ErrInvalidStep, i, n)
			}
		}
	}
	return nil
}

// Duration is the offset of the last step plus the final hold.
func (tr *Trace) Duration() time.Duration {
	var d time.Duration
	if n := len(tr.Steps); n > 0 {
		d = tr.Steps[n-1].At.Duration()
	}
	return d + tr.Hold.Duration()
}
