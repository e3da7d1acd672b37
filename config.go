package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// runConfig is the content of a YAML run file (option -config).
// Options given on the command line take precedence.
type runConfig struct {
	MzColumn    string    `yaml:"mz_column"`
	RTColumn    string    `yaml:"rt_column"`
	AltMzColumn string    `yaml:"alt_mz_column"`
	AltRTColumn string    `yaml:"alt_rt_column"`
	MzTols      []float64 `yaml:"mz_tols"`
	RTTols      []float64 `yaml:"rt_tols"`
	Prefix      string    `yaml:"prefix"`
	OutDir      string    `yaml:"out_dir"`
	Workers     int       `yaml:"workers"`
	RTUnit      string    `yaml:"rt_unit"`
	Strategy    string    `yaml:"strategy"`
	Charset     string    `yaml:"charset"`
}

func readRunConfig(fn string) (runConfig, error) {
	var cfg runConfig
	f, err := os.Open(fn)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	d := yaml.NewDecoder(f)
	d.KnownFields(true)
	if err := d.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", fn, err)
	}
	return cfg, nil
}

// applyRunConfig copies values from the run file into par, except for
// options in explicit (the flags that were set on the command line)
func applyRunConfig(par *params, cfg runConfig, explicit map[string]bool) {
	setString := func(flagName string, dst *string, v string) {
		if v != `` && !explicit[flagName] {
			*dst = v
		}
	}
	setString(`mzcol`, &par.mzCol, cfg.MzColumn)
	setString(`rtcol`, &par.rtCol, cfg.RTColumn)
	setString(`altmzcol`, &par.altMzCol, cfg.AltMzColumn)
	setString(`altrtcol`, &par.altRTCol, cfg.AltRTColumn)
	setString(`prefix`, &par.prefix, cfg.Prefix)
	setString(`o`, &par.outDir, cfg.OutDir)
	setString(`rtunit`, &par.rtUnit, cfg.RTUnit)
	setString(`strategy`, &par.strategy, cfg.Strategy)
	setString(`charset`, &par.charset, cfg.Charset)
	if len(cfg.MzTols) > 0 && !explicit[`mztol`] {
		par.mzTols = cfg.MzTols
	}
	if len(cfg.RTTols) > 0 && !explicit[`rttol`] {
		par.rtTols = cfg.RTTols
	}
	if cfg.Workers != 0 && !explicit[`workers`] {
		par.workers = cfg.Workers
	}
}
