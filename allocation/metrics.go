// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package allocation

import (
	"fmt"
	"math"
	"sort"

	"github.com/someonegg/spamatch"
)

func computeMetrics(inst *instance, res *spamatch.Result, unmatched []Unmatched) Metrics {
	m := Metrics{
		Students:      len(inst.students),
		RankHistogram: make([]int, RequiredPrefs),
	}

	var ranks []int
	scores := make([]float64, len(inst.students))
	areas := make(map[string]int)

	for i := range inst.students {
		if res.Status[i] != spamatch.Matched {
			continue
		}
		m.Matched++
		rank := res.Rank[i] + 1
		if rank <= len(m.RankHistogram) {
			m.RankHistogram[rank-1]++
		}
		ranks = append(ranks, rank)
		scores[i] = float64(len(inst.students[i].Prefs) - rank + 1)
		areas[inst.topics[res.Assigned[i]].Area]++
	}

	if m.Students > 0 {
		m.MatchRate = float64(m.Matched) / float64(m.Students)
	}
	if len(ranks) > 0 {
		m.Ranks = rankStats(ranks)
	}
	if len(areas) > 0 {
		m.Areas = areas
	}

	for i, v := range inst.supervisors {
		ratio := float64(res.Load[i]) / float64(v.Capacity)
		m.Utilization = append(m.Utilization, Utilization{
			Supervisor: v.ID,
			Load:       res.Load[i],
			Capacity:   v.Capacity,
			Ratio:      ratio,
		})
		m.MeanUtilization += ratio
	}
	if len(inst.supervisors) > 0 {
		m.MeanUtilization /= float64(len(inst.supervisors))
	}

	m.Gini = gini(scores)
	m.Programs = programStats(inst, res)

	if len(unmatched) > 0 {
		m.UnmatchedReasons = make(map[string]int)
		for _, u := range unmatched {
			m.UnmatchedReasons[u.Reason]++
		}
	}

	m.Violations = verifyConstraints(inst, res)

	return m
}

func rankStats(ranks []int) *RankStats {
	sorted := append([]int(nil), ranks...)
	sort.Ints(sorted)

	s := &RankStats{
		Min: sorted[0],
		Max: sorted[len(sorted)-1],
	}

	sum := 0
	for _, r := range sorted {
		sum += r
	}
	s.Average = float64(sum) / float64(len(sorted))

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		s.Median = float64(sorted[mid])
	} else {
		s.Median = float64(sorted[mid-1]+sorted[mid]) / 2
	}

	variance := 0.0
	for _, r := range sorted {
		d := float64(r) - s.Average
		variance += d * d
	}
	s.StdDev = math.Sqrt(variance / float64(len(sorted)))

	return s
}

// gini computes the Gini coefficient over per-student satisfaction
// scores; 0 is perfect equality.
func gini(scores []float64) float64 {
	n := len(scores)
	if n == 0 {
		return 0
	}
	mean := 0.0
	for _, x := range scores {
		mean += x
	}
	mean /= float64(n)
	if mean == 0 {
		return 0
	}

	diff := 0.0
	for _, a := range scores {
		for _, b := range scores {
			diff += math.Abs(a - b)
		}
	}
	return diff / (2 * float64(n) * float64(n) * mean)
}

func programStats(inst *instance, res *spamatch.Result) []ProgramStats {
	byProgram := make(map[string]*ProgramStats)
	var programs []string

	for i, s := range inst.students {
		ps, ok := byProgram[s.Program]
		if !ok {
			ps = &ProgramStats{Program: s.Program}
			byProgram[s.Program] = ps
			programs = append(programs, s.Program)
		}
		ps.Students++
		if res.Status[i] == spamatch.Matched {
			ps.Matched++
			ps.AverageRank += float64(res.Rank[i] + 1)
		}
	}

	sort.Strings(programs)
	out := make([]ProgramStats, 0, len(programs))
	for _, p := range programs {
		ps := byProgram[p]
		if ps.Matched > 0 {
			ps.AverageRank /= float64(ps.Matched)
		}
		ps.MatchRate = float64(ps.Matched) / float64(ps.Students)
		out = append(out, *ps)
	}
	return out
}

// verifyConstraints re-checks the core invariants on the final state.
// A non-empty return means an engine bug, not an input problem.
func verifyConstraints(inst *instance, res *spamatch.Result) []string {
	var violations []string

	for i, v := range inst.supervisors {
		if res.Load[i] > v.Capacity {
			violations = append(violations,
				fmt.Sprintf("supervisor %s over capacity: %d > %d", v.ID, res.Load[i], v.Capacity))
		}
	}

	for i, s := range inst.students {
		if res.Status[i] != spamatch.Matched {
			continue
		}
		t := res.Assigned[i]
		found := false
		for _, p := range s.Prefs {
			if p == inst.topics[t].ID {
				found = true
				break
			}
		}
		if !found {
			violations = append(violations,
				fmt.Sprintf("student %s assigned %s outside preferences", s.ID, inst.topics[t].ID))
		}
	}

	return violations
}
