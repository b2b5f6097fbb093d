// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spamatch

import (
	"sort"

	"go.uber.org/zap"
)

type roundMatcher struct {
	logger *zap.Logger
}

// RoundMatcher returns the iterated deferred-acceptance matcher. Each
// round walks the unmatched students in ascending id order; a student
// burns infeasible preferences within its turn and places at most one
// feasible proposal per round. A supervisor at capacity keeps its best
// students under the derived order (grade, then the student's own rank
// of the held topic, then id) and evicts the worst. Evicted students
// re-propose in the next round from where their cursor left off; a
// used preference is never retried.
//
// The matcher is deterministic: identical input produces an identical
// Result. A nil logger disables round logging.
func RoundMatcher(logger *zap.Logger) Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return roundMatcher{logger}
}

// proposal identity of a student at a topic, under the owning
// supervisor's derived preference order: higher grade, then lower
// rank, then smaller id is better (see worseThan).
type proposalKey struct {
	grade int
	rank  int
	id    string
}

func worseThan(a, b proposalKey) bool {
	if a.grade != b.grade {
		return a.grade < b.grade
	}
	if a.rank != b.rank {
		return a.rank > b.rank
	}
	return a.id > b.id
}

func (m roundMatcher) Match(students []Student, supervisors []Supervisor, ranks RankTable) *Result {
	n, v := len(students), len(supervisors)

	r := &Result{
		Assigned:  make([]int32, n),
		Holder:    make([]int32, n),
		Rank:      make([]int, n),
		MatchedIn: make([]int, n),
		Cursor:    make([]int, n),
		Status:    make([]Status, n),
		Load:      make([]int, v),
	}
	for i := 0; i < n; i++ {
		r.Assigned[i] = Unassigned
		r.Holder[i] = NoOwner
		r.Rank[i] = -1
	}

	order := make([]int32, n)
	for i := range order {
		order[i] = int32(i)
	}
	sort.Slice(order, func(i, j int) bool {
		return students[order[i]].ID < students[order[j]].ID
	})

	held := make([][]int32, v)

	accept := func(s, t, sup int32, rank, round int) {
		r.Assigned[s] = t
		r.Holder[s] = sup
		r.Rank[s] = rank
		r.MatchedIn[s] = round
		r.Status[s] = Matched
		r.Load[sup]++
		held[sup] = append(held[sup], s)
	}

	evict := func(s, sup int32) {
		hs := held[sup]
		for i, h := range hs {
			if h == s {
				held[sup] = append(hs[:i], hs[i+1:]...)
				break
			}
		}
		r.Load[sup]--
		r.Assigned[s] = Unassigned
		r.Holder[s] = NoOwner
		r.Rank[s] = -1
		r.MatchedIn[s] = 0
		r.Status[s] = Unproposed
	}

	for round := 1; ; round++ {
		var proposers []int32
		for _, s := range order {
			if r.Status[s] != Matched && r.Status[s] != Exhausted {
				proposers = append(proposers, s)
			}
		}
		if len(proposers) == 0 {
			break
		}

		stat := RoundStat{Round: round}

		for _, s := range proposers {
			prefs := students[s].Prefs
			for {
				k := r.Cursor[s]
				if k == len(prefs) {
					r.Status[s] = Exhausted
					break
				}
				t := prefs[k]
				r.Cursor[s] = k + 1

				sup := ranks.Owner(s, t)
				if sup == NoOwner {
					r.Events = append(r.Events, Event{EventNoOwner, s, t, round})
					continue
				}

				if r.Load[sup] < supervisors[sup].Cap {
					accept(s, t, sup, k, round)
					stat.Newly++
					break
				}

				worst := s
				worstKey := proposalKey{ranks.Grade(s, t), k, students[s].ID}
				for _, h := range held[sup] {
					hk := proposalKey{ranks.Grade(h, r.Assigned[h]), r.Rank[h], students[h].ID}
					if worseThan(hk, worstKey) {
						worst, worstKey = h, hk
					}
				}

				if worst == s {
					r.Events = append(r.Events, Event{EventAtCapacity, s, t, round})
					break
				}

				r.Events = append(r.Events, Event{EventEvicted, worst, r.Assigned[worst], round})
				evict(worst, sup)
				accept(s, t, sup, k, round)
				stat.Newly++
				stat.Evictions++
				break
			}
		}

		stat.Cumulative = r.MatchedCount()
		r.Rounds = append(r.Rounds, stat)

		m.logger.Debug("round complete",
			zap.Int("round", round),
			zap.Int("newly_matched", stat.Newly),
			zap.Int("cumulative_matched", stat.Cumulative),
			zap.Int("evictions", stat.Evictions))

		r.assertInvariants(students, supervisors, ranks)
	}

	return r
}
