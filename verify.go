// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spamatch

import "fmt"

// assertInvariants panics when the matching state is structurally
// broken. A violation is a programmer error, never an input error.
func (r *Result) assertInvariants(students []Student, supervisors []Supervisor, ranks RankTable) {
	load := make([]int, len(supervisors))

	for s := range students {
		switch r.Status[s] {
		case Matched:
			t := r.Assigned[s]
			if t == Unassigned {
				panic(fmt.Sprintf("spamatch: student %s matched without a topic", students[s].ID))
			}
			k := r.Rank[s]
			if k < 0 || k >= len(students[s].Prefs) || students[s].Prefs[k] != t {
				panic(fmt.Sprintf("spamatch: student %s assigned outside its preferences", students[s].ID))
			}
			sup := r.Holder[s]
			if sup == NoOwner || sup != ranks.Owner(int32(s), t) {
				panic(fmt.Sprintf("spamatch: student %s held by a supervisor that does not own the topic", students[s].ID))
			}
			load[sup]++
		case Exhausted:
			if r.Cursor[s] != len(students[s].Prefs) {
				panic(fmt.Sprintf("spamatch: student %s exhausted with preferences left", students[s].ID))
			}
			fallthrough
		default:
			if r.Assigned[s] != Unassigned {
				panic(fmt.Sprintf("spamatch: unmatched student %s has a topic", students[s].ID))
			}
		}
		if r.Cursor[s] > len(students[s].Prefs) {
			panic(fmt.Sprintf("spamatch: student %s cursor out of range", students[s].ID))
		}
	}

	for sup := range supervisors {
		if load[sup] != r.Load[sup] {
			panic(fmt.Sprintf("spamatch: supervisor %s load out of sync", supervisors[sup].ID))
		}
		if r.Load[sup] > supervisors[sup].Cap {
			panic(fmt.Sprintf("spamatch: supervisor %s over capacity", supervisors[sup].ID))
		}
	}
}
