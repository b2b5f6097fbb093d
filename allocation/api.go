// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package allocation matches students to capstone topics owned by
// supervisors, using the spamatch round engine over expertise-derived
// ownership.
package allocation

import (
	"go.uber.org/zap"

	"github.com/someonegg/spamatch/expertise"
)

// Student record, immutable after parse. Program is inferred from the
// id at parse time.
type Student struct {
	ID      string   `json:"id"`
	Program string   `json:"program"`
	Prefs   []string `json:"prefs" validate:"min=1,max=5,unique"`
}

// Topic record. Area is informational only; it never influences the
// matching.
type Topic struct {
	ID   string `json:"id"`
	Area string `json:"area"`
}

// Supervisor record with its global capacity and expertise entries.
type Supervisor struct {
	ID       string            `json:"id"`
	Capacity int               `json:"capacity" validate:"min=1,max=10"`
	Entries  []expertise.Entry `json:"entries" validate:"min=1"`
}

// RequiredPrefs is the preference-list length strict mode enforces.
const RequiredPrefs = 5

// Matcher carries the session options. The zero value matches with
// defaults: prefix inference over expertise.DefaultPrograms, tolerant
// preference counts, no logging.
type Matcher struct {
	// Strict requires exactly RequiredPrefs preferences per student
	// at validation time.
	Strict bool

	// Inferrer resolves student ids to bachelor programs. Nil means
	// prefix inference over expertise.DefaultPrograms.
	Inferrer expertise.Inferrer

	Logger *zap.Logger
}

// Diagnostic reason codes attached to the report.
const (
	ReasonNoSupervisor = "NoSupervisorForCombination"
	ReasonAtCapacity   = "AllSupervisorsAtCapacity"
	ReasonEvicted      = "EvictedInRound"
	ReasonMixed        = "MixedPreferenceFailures"
)

// Row is one line of the assignment table. Topic, Supervisor, Area,
// Level, Rank and Round are empty for unmatched students.
type Row struct {
	Student    string `json:"student"`
	Program    string `json:"program"`
	Topic      string `json:"topic,omitempty"`
	Area       string `json:"area,omitempty"`
	Supervisor string `json:"supervisor,omitempty"`
	Level      string `json:"level,omitempty"`
	Rank       int    `json:"rank,omitempty"` // 1-based
	Round      int    `json:"round,omitempty"`
}

// Diagnostic is one non-fatal event recorded during the run.
type Diagnostic struct {
	Student string `json:"student"`
	Reason  string `json:"reason"`
	Topic   string `json:"topic"`
	Round   int    `json:"round,omitempty"`
}

// Unmatched classifies one unmatched student by primary failure
// cause, with per-preference details.
type Unmatched struct {
	Student string   `json:"student"`
	Program string   `json:"program"`
	Reason  string   `json:"reason"`
	Details []string `json:"details"`
}

// Round is one entry of the round log.
type Round struct {
	Round      int `json:"round"`
	Newly      int `json:"newly_matched"`
	Cumulative int `json:"cumulative_matched"`
	Evictions  int `json:"evictions"`
}

// Utilization of one supervisor at the end of the run.
type Utilization struct {
	Supervisor string  `json:"supervisor"`
	Load       int     `json:"load"`
	Capacity   int     `json:"capacity"`
	Ratio      float64 `json:"ratio"`
}

// RankStats summarizes the 1-based ranks of matched students.
type RankStats struct {
	Average float64 `json:"average"`
	Median  float64 `json:"median"`
	Min     int     `json:"min"`
	Max     int     `json:"max"`
	StdDev  float64 `json:"std_dev"`
}

// ProgramStats breaks match quality down by bachelor program.
type ProgramStats struct {
	Program     string  `json:"program"`
	Students    int     `json:"students"`
	Matched     int     `json:"matched"`
	MatchRate   float64 `json:"match_rate"`
	AverageRank float64 `json:"average_rank,omitempty"`
}

// Metrics is the evaluation block of the report.
type Metrics struct {
	Students         int            `json:"students"`
	Matched          int            `json:"matched"`
	MatchRate        float64        `json:"match_rate"`
	RankHistogram    []int          `json:"rank_histogram"` // index 0 = rank 1
	Ranks            *RankStats     `json:"ranks,omitempty"`
	Utilization      []Utilization  `json:"utilization"`
	MeanUtilization  float64        `json:"mean_utilization"`
	Gini             float64        `json:"gini"`
	Programs         []ProgramStats `json:"programs"`
	Areas            map[string]int `json:"areas,omitempty"`
	UnmatchedReasons map[string]int `json:"unmatched_reasons,omitempty"`
	Violations       []string       `json:"violations,omitempty"`
}

// Pair is a student-topic blocking pair.
type Pair struct {
	Student string `json:"student"`
	Topic   string `json:"topic"`
}

// Report is the structured payload consumed by external tooling.
type Report struct {
	Rows          []Row        `json:"assignment"`
	Diagnostics   []Diagnostic `json:"diagnostics"`
	Unmatched     []Unmatched  `json:"unmatched"`
	Rounds        []Round      `json:"rounds"`
	BlockingPairs []Pair       `json:"blocking_pairs,omitempty"`
	Stable        bool         `json:"stable"`
	Metrics       Metrics      `json:"metrics"`
}

// Summary condenses one run for progress output.
type Summary struct {
	Students      int  `json:"students"`
	Topics        int  `json:"topics"`
	Supervisors   int  `json:"supervisors"`
	TotalCapacity int  `json:"total_capacity"`
	Matched       int  `json:"matched"`
	Unmatched     int  `json:"unmatched"`
	Rounds        int  `json:"rounds"`
	Stable        bool `json:"stable"`
}
