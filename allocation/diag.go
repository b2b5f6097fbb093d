// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package allocation

import (
	"fmt"

	"github.com/someonegg/spamatch"
)

// classifyUnmatched assigns every unmatched student a primary failure
// cause: no supervisor covers any preferred combination, every
// feasible preference's supervisor ended the run full (uncovered
// preferences do not change this), or otherwise the mixed reason,
// when some feasible preference's supervisor still had room. Details
// carry the per-preference reasons.
func classifyUnmatched(inst *instance, res *spamatch.Result) []Unmatched {
	var out []Unmatched

	for i, s := range inst.students {
		if res.Status[i] == spamatch.Matched {
			continue
		}

		feasible, atCapacity := 0, 0
		details := make([]string, 0, len(s.Prefs))
		for _, topic := range s.Prefs {
			owner, ok := inst.catalog.Owner(topic, s.Program)
			if !ok {
				details = append(details, fmt.Sprintf("%s: no supervisor for %s", topic, s.Program))
				continue
			}
			feasible++
			sup := inst.supIdx[owner]
			load, capacity := res.Load[sup], inst.supervisors[sup].Capacity
			if load >= capacity {
				atCapacity++
				details = append(details, fmt.Sprintf("%s: supervisor %s at capacity (%d/%d)", topic, owner, load, capacity))
			} else {
				details = append(details, fmt.Sprintf("%s: supervisor %s had capacity left (%d/%d)", topic, owner, load, capacity))
			}
		}

		reason := ReasonMixed
		switch {
		case feasible == 0:
			reason = ReasonNoSupervisor
		case atCapacity == feasible:
			reason = ReasonAtCapacity
		}

		out = append(out, Unmatched{
			Student: s.ID,
			Program: s.Program,
			Reason:  reason,
			Details: details,
		})
	}

	return out
}
