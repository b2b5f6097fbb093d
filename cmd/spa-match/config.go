// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/someonegg/spamatch/expertise"
)

// programConfig tunes bachelor-program inference: the known program
// tags, plus per-student overrides for ids the prefix rule misreads.
type programConfig struct {
	Programs  []string          `yaml:"programs"`
	Overrides map[string]string `yaml:"overrides"`
}

func loadInferrer(file string) (expertise.Inferrer, error) {
	programs := expertise.DefaultPrograms
	var overrides map[string]string

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("load config file failed: %w", err)
		}
		var cfg programConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file failed: %w", err)
		}
		if len(cfg.Programs) > 0 {
			programs = cfg.Programs
		}
		overrides = cfg.Overrides
	}

	var inf expertise.Inferrer = expertise.NewPrefixInferrer(programs)
	if len(overrides) > 0 {
		ids := make([]string, 0, len(overrides))
		for id := range overrides {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		records := make([]expertise.OverrideRecord, 0, len(ids))
		for _, id := range ids {
			records = append(records, expertise.OverrideRecord{Student: id, Program: overrides[id]})
		}
		inf = expertise.NewOverrideInferrer(inf, records)
	}
	return inf, nil
}
