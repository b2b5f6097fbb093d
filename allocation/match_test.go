// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package allocation

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/someonegg/spamatch/expertise"
)

// runMatch parses the three literal streams and runs one session.
func runMatch(t *testing.T, m *Matcher, students, topics, supervisors string) (*Report, Summary) {
	t.Helper()
	ss, ts, vs, errs := m.Parse(
		strings.NewReader(students),
		strings.NewReader(topics),
		strings.NewReader(supervisors))
	require.Empty(t, errs)
	report, summ := m.Match(ss, ts, vs)
	return report, summ
}

func rowOf(report *Report, student string) Row {
	for _, row := range report.Rows {
		if row.Student == student {
			return row
		}
	}
	return Row{}
}

const fiveTopics = "T1: A\nT2: A\nT3: A\nT4: A\nT5: A\n"

func TestMatchTrivial(t *testing.T) {
	// Single student, first preference free.
	m := &Matcher{
		Inferrer: expertise.NewOverrideInferrer(
			expertise.NewPrefixInferrer(expertise.DefaultPrograms),
			[]expertise.OverrideRecord{{Student: "S1", Program: "BDBA"}}),
	}

	report, summ := runMatch(t, m,
		"S1: T1, T2, T3, T4, T5\n",
		fiveTopics,
		"V1: 1, BDBA:T1:Expert\n")

	row := rowOf(report, "S1")
	assert.Equal(t, "T1", row.Topic)
	assert.Equal(t, "V1", row.Supervisor)
	assert.Equal(t, "Expert", row.Level)
	assert.Equal(t, 1, row.Rank)
	assert.Equal(t, 1, row.Round)

	assert.True(t, report.Stable)
	assert.Empty(t, report.Diagnostics)
	assert.Empty(t, report.Unmatched)
	assert.Equal(t, 1.0, report.Metrics.MatchRate)
	assert.Equal(t, Summary{
		Students: 1, Topics: 5, Supervisors: 1, TotalCapacity: 1,
		Matched: 1, Unmatched: 0, Rounds: 1, Stable: true,
	}, summ)
}

func TestMatchEvictionByExpertise(t *testing.T) {
	// BCSAI1 proposes first (smaller id) and takes T1 from V1, then
	// BDBA1's Expert grade evicts it; BCSAI1 lands on T2 next round.
	m := &Matcher{}

	report, _ := runMatch(t, m,
		"BDBA1: T1, T2, T3, T4, T5\nBCSAI1: T1, T2, T3, T4, T5\n",
		fiveTopics,
		"V1: 1, BDBA:T1:Expert, BCSAI:T1:Beginner\nV2: 1, BCSAI:T2:Advanced\n")

	bdba := rowOf(report, "BDBA1")
	assert.Equal(t, "T1", bdba.Topic)
	assert.Equal(t, "V1", bdba.Supervisor)
	assert.Equal(t, 1, bdba.Rank)

	bcsai := rowOf(report, "BCSAI1")
	assert.Equal(t, "T2", bcsai.Topic)
	assert.Equal(t, "V2", bcsai.Supervisor)
	assert.Equal(t, 2, bcsai.Rank)
	assert.Equal(t, 2, bcsai.Round)

	assert.True(t, report.Stable)

	evicted := 0
	for _, d := range report.Diagnostics {
		if d.Reason == ReasonEvicted {
			evicted++
			assert.Equal(t, "BCSAI1", d.Student)
			assert.Equal(t, "T1", d.Topic)
			assert.Equal(t, 1, d.Round)
		}
	}
	assert.Equal(t, 1, evicted)
}

func TestMatchNoOwnerSkipsWithinRound(t *testing.T) {
	// V1 covers T1 for BDBA only; the BCSAI student burns T1 and
	// matches T2 in the same round.
	m := &Matcher{}

	report, _ := runMatch(t, m,
		"BCSAI1: T1, T2, T3, T4, T5\n",
		fiveTopics,
		"V1: 1, BDBA:T1:Expert\nV2: 1, BCSAI:T2:Advanced\n")

	row := rowOf(report, "BCSAI1")
	assert.Equal(t, "T2", row.Topic)
	assert.Equal(t, 2, row.Rank)
	assert.Equal(t, 1, row.Round)

	require.NotEmpty(t, report.Diagnostics)
	first := report.Diagnostics[0]
	assert.Equal(t, ReasonNoSupervisor, first.Reason)
	assert.Equal(t, "BCSAI1", first.Student)
	assert.Equal(t, "T1", first.Topic)
}

func TestMatchTiedExpertiseOwner(t *testing.T) {
	// Two Expert declarations for (T1, BDBA): lexicographically
	// smaller supervisor id owns the combination.
	m := &Matcher{}

	report, _ := runMatch(t, m,
		"BDBA1: T1\n",
		"T1: A\n",
		"V2: 1, BDBA:T1:Expert\nV1: 1, BDBA:T1:Expert\n")

	row := rowOf(report, "BDBA1")
	assert.Equal(t, "V1", row.Supervisor)
}

func TestMatchCapacitySaturation(t *testing.T) {
	// Capacity 2, three takers for the single covered topic. The two
	// best under the derived order stay; the third exhausts.
	m := &Matcher{}

	report, summ := runMatch(t, m,
		"BDBA1: T1, T2, T3, T4, T5\nBDBA2: T1, T2, T3, T4, T5\nBDBA3: T1, T2, T3, T4, T5\n",
		fiveTopics,
		"V1: 2, BDBA:T1:Expert\n")

	assert.Equal(t, 2, summ.Matched)
	assert.Equal(t, 1, summ.Unmatched)

	// Full tie on grade and rank: the largest id loses.
	assert.Equal(t, "T1", rowOf(report, "BDBA1").Topic)
	assert.Equal(t, "T1", rowOf(report, "BDBA2").Topic)
	assert.Equal(t, "", rowOf(report, "BDBA3").Topic)

	require.Len(t, report.Unmatched, 1)
	u := report.Unmatched[0]
	assert.Equal(t, "BDBA3", u.Student)
	assert.Equal(t, ReasonAtCapacity, u.Reason)
	assert.Len(t, u.Details, 5)

	assert.Equal(t, map[string]int{ReasonAtCapacity: 1}, report.Metrics.UnmatchedReasons)
	assert.True(t, report.Stable)
}

func TestMatchFullCascadeToExhaustion(t *testing.T) {
	// No preference has an owner for this program.
	m := &Matcher{}

	report, summ := runMatch(t, m,
		"BCSAI1: T1, T2, T3, T4, T5\n",
		fiveTopics,
		"V1: 5, BDBA:T1:Expert, BDBA:T2:Expert, BDBA:T3:Expert, BDBA:T4:Expert, BDBA:T5:Expert\n")

	assert.Equal(t, 0, summ.Matched)

	row := rowOf(report, "BCSAI1")
	assert.Equal(t, "", row.Topic)
	assert.Equal(t, 0, row.Rank)

	require.Len(t, report.Unmatched, 1)
	assert.Equal(t, ReasonNoSupervisor, report.Unmatched[0].Reason)

	noOwner := 0
	for _, d := range report.Diagnostics {
		if d.Reason == ReasonNoSupervisor {
			noOwner++
		}
	}
	assert.Equal(t, 5, noOwner)
	assert.True(t, report.Stable)
}

func TestMatchClassificationWithInfeasibleTail(t *testing.T) {
	// A feasible-but-full first preference followed by uncovered
	// ones still classifies as a capacity failure.
	m := &Matcher{}

	report, _ := runMatch(t, m,
		"BDBA1: T1, T2\nBDBA2: T1, T3\n",
		fiveTopics,
		"V1: 1, BDBA:T1:Expert\n")

	require.Len(t, report.Unmatched, 1)
	u := report.Unmatched[0]
	assert.Equal(t, "BDBA2", u.Student)
	assert.Equal(t, ReasonAtCapacity, u.Reason)
}

func TestMatchEmptyStudents(t *testing.T) {
	m := &Matcher{}

	report, summ := runMatch(t, m,
		"# nobody enrolled\n",
		"T1: A\n",
		"V1: 1, BDBA:T1:Expert\n")

	assert.Empty(t, report.Rows)
	assert.Empty(t, report.Unmatched)
	assert.True(t, report.Stable)
	assert.Equal(t, 0, summ.Matched)
	assert.Equal(t, 0, summ.Rounds)
}

func TestMatchDeterminism(t *testing.T) {
	students := "BDBA1: T1, T2, T3\nBDBA2: T1, T3, T2\nBCSAI1: T1, T2, T3\nBCSAI2: T3, T2, T1\n"
	topics := "T1: A\nT2: B\nT3: B\n"
	supervisors := "V1: 1, BDBA:T1:Expert, BCSAI:T1:Advanced, BDBA:T2:Intermediate\n" +
		"V2: 2, BCSAI:T2:Expert, BDBA:T3:Advanced, BCSAI:T3:Beginner\n"

	m := &Matcher{}
	a, asum := runMatch(t, m, students, topics, supervisors)
	b, bsum := runMatch(t, m, students, topics, supervisors)

	assert.True(t, reflect.DeepEqual(a, b), "reports differ across runs")
	assert.Equal(t, asum, bsum)
	assert.True(t, a.Stable)
	assert.Empty(t, a.Metrics.Violations)
}

func TestMatchMetrics(t *testing.T) {
	m := &Matcher{}

	report, _ := runMatch(t, m,
		"BDBA1: T1, T2\nBDBA2: T1, T2\nBDBA3: T3\n",
		"T1: Data Science\nT2: Robotics\nT3: Robotics\n",
		"V1: 1, BDBA:T1:Expert\nV2: 1, BDBA:T2:Advanced\nV3: 2, BDBA:T3:Advanced\n")

	met := report.Metrics
	assert.Equal(t, 3, met.Students)
	assert.Equal(t, 3, met.Matched)
	assert.Equal(t, 1.0, met.MatchRate)

	// BDBA1 rank 1, BDBA2 rank 2, BDBA3 rank 1.
	assert.Equal(t, []int{2, 1, 0, 0, 0}, met.RankHistogram)
	require.NotNil(t, met.Ranks)
	assert.InDelta(t, 4.0/3.0, met.Ranks.Average, 1e-9)
	assert.Equal(t, 1.0, met.Ranks.Median)
	assert.Equal(t, 1, met.Ranks.Min)
	assert.Equal(t, 2, met.Ranks.Max)

	assert.Equal(t, map[string]int{"Data Science": 1, "Robotics": 2}, met.Areas)

	require.Len(t, met.Utilization, 3)
	assert.Equal(t, 1.0, met.Utilization[0].Ratio)
	assert.Equal(t, 0.5, met.Utilization[2].Ratio)
	assert.InDelta(t, (1.0+1.0+0.5)/3.0, met.MeanUtilization, 1e-9)

	require.Len(t, met.Programs, 1)
	assert.Equal(t, "BDBA", met.Programs[0].Program)
	assert.Equal(t, 3, met.Programs[0].Students)
	assert.Equal(t, 1.0, met.Programs[0].MatchRate)

	assert.Empty(t, met.Violations)
}

func TestGini(t *testing.T) {
	t.Run("PerfectEquality", func(t *testing.T) {
		assert.Equal(t, 0.0, gini([]float64{3, 3, 3}))
	})

	t.Run("AllZero", func(t *testing.T) {
		assert.Equal(t, 0.0, gini([]float64{0, 0}))
	})

	t.Run("MaximalSpread", func(t *testing.T) {
		// One student holds all satisfaction: G = (n-1)/n.
		assert.InDelta(t, 0.75, gini([]float64{4, 0, 0, 0}), 1e-9)
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, 0.0, gini(nil))
	})
}

func TestRankStats(t *testing.T) {
	s := rankStats([]int{1, 2, 2, 5})
	assert.Equal(t, 2.5, s.Average)
	assert.Equal(t, 2.0, s.Median)
	assert.Equal(t, 1, s.Min)
	assert.Equal(t, 5, s.Max)
	assert.InDelta(t, 1.5, s.StdDev, 1e-9)
}
