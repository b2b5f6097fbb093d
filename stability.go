// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spamatch

import "sort"

// BlockingPair is a (student, topic) pair that would rationally defect
// from a matching: the student strictly prefers the topic to its
// assignment (or is unmatched), the combination has an owner, and that
// owner has room or holds a student it likes less.
type BlockingPair struct {
	Student int32
	Topic   int32
}

// BlockingPairs enumerates all blocking pairs of a result, scanning
// each student's preference prefix up to its assignment. An empty
// return means the matching is stable. Enumeration order is ascending
// student id, then preference order.
func BlockingPairs(students []Student, supervisors []Supervisor, ranks RankTable, r *Result) []BlockingPair {
	order := make([]int32, len(students))
	for i := range order {
		order[i] = int32(i)
	}
	sort.Slice(order, func(i, j int) bool {
		return students[order[i]].ID < students[order[j]].ID
	})

	held := make([][]int32, len(supervisors))
	for s := range students {
		if sup := r.Holder[s]; sup != NoOwner {
			held[sup] = append(held[sup], int32(s))
		}
	}

	var pairs []BlockingPair

	for _, s := range order {
		prefs := students[s].Prefs
		limit := len(prefs)
		if r.Status[s] == Matched {
			limit = r.Rank[s]
		}
		for k := 0; k < limit; k++ {
			t := prefs[k]
			sup := ranks.Owner(s, t)
			if sup == NoOwner {
				continue
			}
			if r.Load[sup] < supervisors[sup].Cap {
				pairs = append(pairs, BlockingPair{s, t})
				continue
			}
			key := proposalKey{ranks.Grade(s, t), k, students[s].ID}
			for _, h := range held[sup] {
				hk := proposalKey{ranks.Grade(h, r.Assigned[h]), r.Rank[h], students[h].ID}
				if worseThan(hk, key) {
					pairs = append(pairs, BlockingPair{s, t})
					break
				}
			}
		}
	}

	return pairs
}
