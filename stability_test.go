// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spamatch

import "testing"

// 1. Engine output is always stable
func TestBlockingPairs_EngineOutput(t *testing.T) {
	students := []Student{
		makeStudent("s1", 0, 1, 2),
		makeStudent("s2", 0, 1, 2),
		makeStudent("s3", 0, 2, 1),
		makeStudent("s4", 1, 0, 2),
	}
	supervisors := []Supervisor{
		makeSupervisor("v1", 1),
		makeSupervisor("v2", 2),
	}
	ranks := newMockRanks()
	for s := int32(0); s < 4; s++ {
		ranks.set(s, 0, 0, int(3-s))
		ranks.set(s, 1, 1, 2)
		ranks.set(s, 2, 1, int(s))
	}

	r := RoundMatcher(nil).Match(students, supervisors, ranks)

	if pairs := BlockingPairs(students, supervisors, ranks, r); len(pairs) != 0 {
		t.Errorf("Expected stable matching, got blocking pairs %v", pairs)
	}
}

// 2. Detection on hand-built states
func TestBlockingPairs_Detection(t *testing.T) {
	students := []Student{
		makeStudent("s1", 0, 1),
		makeStudent("s2", 1),
	}
	supervisors := []Supervisor{
		makeSupervisor("v1", 1),
		makeSupervisor("v2", 1),
	}
	ranks := newMockRanks()
	ranks.set(0, 0, 0, 1)
	ranks.set(0, 1, 1, 3)
	ranks.set(1, 1, 1, 1)

	t.Run("FreeCapacity", func(t *testing.T) {
		// s1 sits on its second choice while v1 has a free slot for
		// its first.
		r := &Result{
			Assigned: []int32{1, Unassigned},
			Holder:   []int32{1, NoOwner},
			Rank:     []int{1, -1},
			Status:   []Status{Matched, Exhausted},
			Load:     []int{0, 1},
		}

		pairs := BlockingPairs(students, supervisors, ranks, r)
		if len(pairs) != 1 {
			t.Fatalf("Expected 1 blocking pair, got %d", len(pairs))
		}
		if pairs[0].Student != 0 || pairs[0].Topic != 0 {
			t.Errorf("Expected (s1, topic 0), got (%d, %d)", pairs[0].Student, pairs[0].Topic)
		}
	})

	t.Run("PreferredOverHeldStudent", func(t *testing.T) {
		// v2 is full with s2 (grade 1) while the unmatched s1 grades 3
		// on v2's topic 1.
		r := &Result{
			Assigned: []int32{Unassigned, 1},
			Holder:   []int32{NoOwner, 1},
			Rank:     []int{-1, 0},
			Status:   []Status{Exhausted, Matched},
			Load:     []int{1, 1},
		}
		// Pretend v1 is full so topic 0 cannot block.
		r.Load[0] = 1

		pairs := BlockingPairs(students, supervisors, ranks, r)
		if len(pairs) != 1 {
			t.Fatalf("Expected 1 blocking pair, got %d", len(pairs))
		}
		if pairs[0].Student != 0 || pairs[0].Topic != 1 {
			t.Errorf("Expected (s1, topic 1), got (%d, %d)", pairs[0].Student, pairs[0].Topic)
		}
	})

	t.Run("NoOwnerNeverBlocks", func(t *testing.T) {
		empty := newMockRanks()
		r := &Result{
			Assigned: []int32{Unassigned, Unassigned},
			Holder:   []int32{NoOwner, NoOwner},
			Rank:     []int{-1, -1},
			Status:   []Status{Exhausted, Exhausted},
			Load:     []int{0, 0},
		}

		if pairs := BlockingPairs(students, supervisors, empty, r); len(pairs) != 0 {
			t.Errorf("Expected no blocking pairs, got %d", len(pairs))
		}
	})
}
