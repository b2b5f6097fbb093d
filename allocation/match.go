// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package allocation

import (
	"sort"

	"go.uber.org/zap"

	"github.com/someonegg/spamatch"
	"github.com/someonegg/spamatch/expertise"
)

// instance interns the validated records into dense handles for the
// engine. Students, topics and supervisors are sorted by id so that
// handles, proposal order and output order coincide.
type instance struct {
	students    []Student
	topics      []Topic
	supervisors []Supervisor

	supIdx  map[string]int32
	catalog *expertise.Catalog

	engStudents    []spamatch.Student
	engSupervisors []spamatch.Supervisor
}

func newInstance(students []Student, topics []Topic, supervisors []Supervisor) *instance {
	inst := &instance{
		students:    append([]Student(nil), students...),
		topics:      append([]Topic(nil), topics...),
		supervisors: append([]Supervisor(nil), supervisors...),
	}
	sort.Slice(inst.students, func(i, j int) bool { return inst.students[i].ID < inst.students[j].ID })
	sort.Slice(inst.topics, func(i, j int) bool { return inst.topics[i].ID < inst.topics[j].ID })
	sort.Slice(inst.supervisors, func(i, j int) bool { return inst.supervisors[i].ID < inst.supervisors[j].ID })

	topicIdx := make(map[string]int32, len(inst.topics))
	for i, t := range inst.topics {
		topicIdx[t.ID] = int32(i)
	}
	inst.supIdx = make(map[string]int32, len(inst.supervisors))

	var entries []expertise.Entry
	inst.engSupervisors = make([]spamatch.Supervisor, len(inst.supervisors))
	for i, v := range inst.supervisors {
		inst.supIdx[v.ID] = int32(i)
		inst.engSupervisors[i] = spamatch.Supervisor{ID: v.ID, Cap: v.Capacity}
		entries = append(entries, v.Entries...)
	}
	inst.catalog = expertise.NewCatalog(entries)

	inst.engStudents = make([]spamatch.Student, len(inst.students))
	for i, s := range inst.students {
		prefs := make([]int32, len(s.Prefs))
		for j, t := range s.Prefs {
			prefs[j] = topicIdx[t]
		}
		inst.engStudents[i] = spamatch.Student{ID: s.ID, Prefs: prefs}
	}

	return inst
}

// rankTable adapts the expertise catalog to the engine: the owner of a
// proposal is the catalog owner of (topic, student's program), and the
// grade is that owner's declared level.
type rankTable struct {
	inst *instance
}

func (r rankTable) Owner(student, topic int32) int32 {
	inst := r.inst
	id, ok := inst.catalog.Owner(inst.topics[topic].ID, inst.students[student].Program)
	if !ok {
		return spamatch.NoOwner
	}
	sup, ok := inst.supIdx[id]
	if !ok {
		return spamatch.NoOwner
	}
	return sup
}

func (r rankTable) Grade(student, topic int32) int {
	inst := r.inst
	level, ok := inst.catalog.Grade(inst.topics[topic].ID, inst.students[student].Program)
	if !ok {
		return -1
	}
	return int(level)
}

// Match runs one allocation session over validated records and builds
// the report. It never fails: unmatched students surface as classified
// diagnostics, not errors.
func (m *Matcher) Match(students []Student, topics []Topic, supervisors []Supervisor) (*Report, Summary) {
	logger := m.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	inst := newInstance(students, topics, supervisors)
	ranks := rankTable{inst}

	res := spamatch.RoundMatcher(logger).Match(inst.engStudents, inst.engSupervisors, ranks)
	pairs := spamatch.BlockingPairs(inst.engStudents, inst.engSupervisors, ranks, res)

	report := buildReport(inst, res, pairs)

	summ := Summary{
		Students:    len(inst.students),
		Topics:      len(inst.topics),
		Supervisors: len(inst.supervisors),
		Matched:     report.Metrics.Matched,
		Unmatched:   len(inst.students) - report.Metrics.Matched,
		Rounds:      len(report.Rounds),
		Stable:      report.Stable,
	}
	for _, v := range inst.supervisors {
		summ.TotalCapacity += v.Capacity
	}

	logger.Info("matching complete",
		zap.Int("students", summ.Students),
		zap.Int("matched", summ.Matched),
		zap.Int("rounds", summ.Rounds),
		zap.Bool("stable", summ.Stable))

	return report, summ
}

func buildReport(inst *instance, res *spamatch.Result, pairs []spamatch.BlockingPair) *Report {
	report := &Report{Stable: len(pairs) == 0}

	for i, s := range inst.students {
		row := Row{Student: s.ID, Program: s.Program}
		if res.Status[i] == spamatch.Matched {
			topic := inst.topics[res.Assigned[i]]
			row.Topic = topic.ID
			row.Area = topic.Area
			row.Supervisor = inst.supervisors[res.Holder[i]].ID
			if level, ok := inst.catalog.Grade(topic.ID, s.Program); ok {
				row.Level = level.String()
			}
			row.Rank = res.Rank[i] + 1
			row.Round = res.MatchedIn[i]
		}
		report.Rows = append(report.Rows, row)
	}

	for _, ev := range res.Events {
		d := Diagnostic{
			Student: inst.students[ev.Student].ID,
			Topic:   inst.topics[ev.Topic].ID,
			Round:   ev.Round,
		}
		switch ev.Kind {
		case spamatch.EventNoOwner:
			d.Reason = ReasonNoSupervisor
		case spamatch.EventAtCapacity:
			d.Reason = ReasonAtCapacity
		case spamatch.EventEvicted:
			d.Reason = ReasonEvicted
		}
		report.Diagnostics = append(report.Diagnostics, d)
	}

	for _, stat := range res.Rounds {
		report.Rounds = append(report.Rounds, Round{
			Round:      stat.Round,
			Newly:      stat.Newly,
			Cumulative: stat.Cumulative,
			Evictions:  stat.Evictions,
		})
	}

	for _, p := range pairs {
		report.BlockingPairs = append(report.BlockingPairs, Pair{
			Student: inst.students[p.Student].ID,
			Topic:   inst.topics[p.Topic].ID,
		})
	}

	report.Unmatched = classifyUnmatched(inst, res)
	report.Metrics = computeMetrics(inst, res, report.Unmatched)

	return report
}
