// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expertise

import "sort"

// DefaultPrograms are the program tags recognized out of the box.
// Prefix inference tries longer tags first, so joint-program ids
// resolve to BBA+BDBA rather than to its BBA prefix.
var DefaultPrograms = []string{"BBA+BDBA", "BCSAI", "BDBA", "BBA"}

// PrefixInferrer infers a student's program from the leading portion
// of its id. Known tags are tried longest first; when none matches,
// the leading run of letters and connectors is taken as the program.
type PrefixInferrer struct {
	prefixes []string
}

func NewPrefixInferrer(programs []string) *PrefixInferrer {
	prefixes := make([]string, len(programs))
	for i, p := range programs {
		prefixes[i] = NormalizeProgram(p)
	}
	sort.Slice(prefixes, func(i, j int) bool {
		if len(prefixes[i]) != len(prefixes[j]) {
			return len(prefixes[i]) > len(prefixes[j])
		}
		return prefixes[i] < prefixes[j]
	})
	return &PrefixInferrer{prefixes}
}

func (p *PrefixInferrer) Infer(studentID string) (string, bool) {
	id := NormalizeProgram(studentID)
	for _, prefix := range p.prefixes {
		if len(id) >= len(prefix) && id[:len(prefix)] == prefix {
			return prefix, true
		}
	}
	run := leadingRun(id)
	if run == "" {
		return "", false
	}
	return run, true
}

func leadingRun(id string) string {
	for i := 0; i < len(id); i++ {
		c := id[i]
		alpha := c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c == '+'
		if !alpha {
			return id[:i]
		}
	}
	return id
}

// OverrideRecord pins one student id to a program, bypassing prefix
// inference.
type OverrideRecord struct {
	Student string
	Program string
}

type overrideInferrer struct {
	orig Inferrer
	recs map[string]string
}

// NewOverrideInferrer decorates an inferrer with a table of explicit
// per-student programs.
func NewOverrideInferrer(orig Inferrer, records []OverrideRecord) Inferrer {
	recs := make(map[string]string)
	for _, rec := range records {
		recs[rec.Student] = NormalizeProgram(rec.Program)
	}
	return &overrideInferrer{
		orig: orig,
		recs: recs,
	}
}

func (o *overrideInferrer) Infer(studentID string) (string, bool) {
	if program, ok := o.recs[studentID]; ok {
		return program, true
	}
	return o.orig.Infer(studentID)
}
