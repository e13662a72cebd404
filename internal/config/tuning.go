// Package config loads the closed set of pathfinder configuration
// parameters from spec §6, mirroring the teacher's JSON tuning-config
// pattern (a defaults file merged with an optional override file).
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultConfigPath is the canonical defaults file for pathfinder tuning.
const DefaultConfigPath = "config/pathfinder.defaults.json"

// PathfinderConfig holds every parameter in spec §6's "Configuration
// parameters (closed set)". Pointer fields distinguish "not set" (take
// the built-in default) from an explicit zero value, mirroring the
// teacher's TuningConfig.
type PathfinderConfig struct {
	ReflexionOrder               *int     `json:"reflexion_order,omitempty"`
	DiffractionOrder             *int     `json:"diffraction_order,omitempty"`
	ComputeHorizontalDiffraction *bool    `json:"compute_horizontal_diffraction,omitempty"`
	ComputeVerticalDiffraction   *bool    `json:"compute_vertical_diffraction,omitempty"`
	MaxSrcDist                   *float64 `json:"max_src_dist,omitempty"`
	MaxRefDist                   *float64 `json:"max_ref_dist,omitempty"`
	MinRecDist                   *float64 `json:"min_rec_dist,omitempty"`
	GS                           *float64 `json:"g_s,omitempty"`
	MaximumError                 *float64 `json:"maximum_error,omitempty"`
	ThreadCount                  *int     `json:"thread_count,omitempty"`
	FreqLvl                      []int    `json:"freq_lvl,omitempty"`
	Temperature                  *float64 `json:"temperature,omitempty"`
	Pressure                     *float64 `json:"pressure,omitempty"`
	Humidity                     *float64 `json:"humidity,omitempty"`
	Celerity                     *float64 `json:"celerity,omitempty"`
}

// Resolved is the fully-populated, non-pointer view of PathfinderConfig
// consumed by the rest of the pathfinder. Call Resolve after Load.
type Resolved struct {
	ReflexionOrder               int
	DiffractionOrder             int
	ComputeHorizontalDiffraction bool
	ComputeVerticalDiffraction   bool
	MaxSrcDist                   float64
	MaxRefDist                   float64
	MinRecDist                   float64
	GS                           float64
	MaximumError                 float64
	ThreadCount                  int
	FreqLvl                      []int
	Temperature                  float64
	Pressure                     float64
	Humidity                     float64
	Celerity                     float64
}

// Defaults returns the built-in production defaults.
func Defaults() *PathfinderConfig {
	return &PathfinderConfig{
		ReflexionOrder:               ptrInt(1),
		DiffractionOrder:             ptrInt(1),
		ComputeHorizontalDiffraction: ptrBool(true),
		ComputeVerticalDiffraction:   ptrBool(true),
		MaxSrcDist:                   ptrFloat(250),
		MaxRefDist:                   ptrFloat(50),
		MinRecDist:                   ptrFloat(1),
		GS:                           ptrFloat(0),
		MaximumError:                 ptrFloat(0.1),
		ThreadCount:                  ptrInt(0), // 0 => number of CPU cores, resolved by Scheduler.Run
		FreqLvl:                      []int{63, 125, 250, 500, 1000, 2000, 4000, 8000},
		Temperature:                  ptrFloat(15),
		Pressure:                     ptrFloat(101325),
		Humidity:                     ptrFloat(70),
		Celerity:                     ptrFloat(340),
	}
}

// Load reads a JSON configuration file and merges it over Defaults(). A
// missing file is not an error: Defaults() alone is returned.
func Load(path string) (*PathfinderConfig, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var override PathfinderConfig
	if err := json.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.merge(&override)
	return cfg, nil
}

func (c *PathfinderConfig) merge(o *PathfinderConfig) {
	if o.ReflexionOrder != nil {
		c.ReflexionOrder = o.ReflexionOrder
	}
	if o.DiffractionOrder != nil {
		c.DiffractionOrder = o.DiffractionOrder
	}
	if o.ComputeHorizontalDiffraction != nil {
		c.ComputeHorizontalDiffraction = o.ComputeHorizontalDiffraction
	}
	if o.ComputeVerticalDiffraction != nil {
		c.ComputeVerticalDiffraction = o.ComputeVerticalDiffraction
	}
	if o.MaxSrcDist != nil {
		c.MaxSrcDist = o.MaxSrcDist
	}
	if o.MaxRefDist != nil {
		c.MaxRefDist = o.MaxRefDist
	}
	if o.MinRecDist != nil {
		c.MinRecDist = o.MinRecDist
	}
	if o.GS != nil {
		c.GS = o.GS
	}
	if o.MaximumError != nil {
		c.MaximumError = o.MaximumError
	}
	if o.ThreadCount != nil {
		c.ThreadCount = o.ThreadCount
	}
	if len(o.FreqLvl) > 0 {
		c.FreqLvl = o.FreqLvl
	}
	if o.Temperature != nil {
		c.Temperature = o.Temperature
	}
	if o.Pressure != nil {
		c.Pressure = o.Pressure
	}
	if o.Humidity != nil {
		c.Humidity = o.Humidity
	}
	if o.Celerity != nil {
		c.Celerity = o.Celerity
	}
}

// Resolve validates the configuration and returns the fully-populated,
// non-pointer view used by the rest of the pathfinder.
func (c *PathfinderConfig) Resolve() (*Resolved, error) {
	r := &Resolved{
		ReflexionOrder:               deref(c.ReflexionOrder),
		DiffractionOrder:             deref(c.DiffractionOrder),
		ComputeHorizontalDiffraction: c.ComputeHorizontalDiffraction != nil && *c.ComputeHorizontalDiffraction,
		ComputeVerticalDiffraction:   c.ComputeVerticalDiffraction != nil && *c.ComputeVerticalDiffraction,
		MaxSrcDist:                  derefF(c.MaxSrcDist),
		MaxRefDist:                  derefF(c.MaxRefDist),
		MinRecDist:                  derefF(c.MinRecDist),
		GS:                          derefF(c.GS),
		MaximumError:                derefF(c.MaximumError),
		ThreadCount:                 deref(c.ThreadCount),
		FreqLvl:                     c.FreqLvl,
		Temperature:                 derefF(c.Temperature),
		Pressure:                    derefF(c.Pressure),
		Humidity:                    derefF(c.Humidity),
		Celerity:                    derefF(c.Celerity),
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate enforces the documented ranges of the orders, g_s, humidity,
// thread_count and the three distances. temperature, pressure, celerity,
// maximum_error and freq_lvl are not checked.
func (r *Resolved) Validate() error {
	if r.ReflexionOrder < 0 {
		return fmt.Errorf("config: reflexion_order must be >= 0, got %d", r.ReflexionOrder)
	}
	if r.DiffractionOrder < 0 {
		return fmt.Errorf("config: diffraction_order must be >= 0, got %d", r.DiffractionOrder)
	}
	if r.GS < 0 || r.GS > 1 {
		return fmt.Errorf("config: g_s must be in [0,1], got %v", r.GS)
	}
	if r.Humidity < 0 || r.Humidity > 100 {
		return fmt.Errorf("config: humidity must be in [0,100], got %v", r.Humidity)
	}
	if r.ThreadCount < 0 {
		return fmt.Errorf("config: thread_count must be >= 1 (or 0 for auto), got %d", r.ThreadCount)
	}
	if r.MaxSrcDist <= 0 {
		return fmt.Errorf("config: max_src_dist must be > 0, got %v", r.MaxSrcDist)
	}
	if r.MaxRefDist < 0 {
		return fmt.Errorf("config: max_ref_dist must be >= 0, got %v", r.MaxRefDist)
	}
	if r.MinRecDist < 0 {
		return fmt.Errorf("config: min_rec_dist must be >= 0, got %v", r.MinRecDist)
	}
	return nil
}

func ptrInt(v int) *int         { return &v }
func ptrFloat(v float64) *float64 { return &v }
func ptrBool(v bool) *bool      { return &v }

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefF(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
