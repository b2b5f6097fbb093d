// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package allocation

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/someonegg/spamatch/expertise"
)

var validate = validator.New()

// record is one non-comment input line, split at the first colon.
type record struct {
	line int
	lhs  string
	rhs  string
}

func scanRecords(r io.Reader, errs *ErrorList) []record {
	var recs []record

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	num := 0
	for scanner.Scan() {
		num++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		i := strings.IndexByte(text, ':')
		if i < 0 {
			errs.add(num, KindMalformedLine, "missing colon in %q", text)
			continue
		}
		lhs := strings.TrimSpace(text[:i])
		if !isIdent(lhs) {
			errs.add(num, KindMalformedLine, "invalid identifier %q", lhs)
			continue
		}
		recs = append(recs, record{num, lhs, strings.TrimSpace(text[i+1:])})
	}

	return recs
}

// Identifiers are non-empty runs of ASCII alphanumerics and the
// connectors + and _.
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		ok := c >= '0' && c <= '9' || c >= 'A' && c <= 'Z' ||
			c >= 'a' && c <= 'z' || c == '+' || c == '_'
		if !ok {
			return false
		}
	}
	return true
}

func splitFields(rhs string) []string {
	if rhs == "" {
		return nil
	}
	fields := strings.Split(rhs, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

// ParseTopics reads the topics stream: one "TopicId: Area" per line.
func ParseTopics(r io.Reader) ([]Topic, ErrorList) {
	var errs ErrorList
	var topics []Topic
	seen := make(map[string]bool)

	for _, rec := range scanRecords(r, &errs) {
		if seen[rec.lhs] {
			errs.add(rec.line, KindDuplicateTopic, "topic %s declared twice", rec.lhs)
			continue
		}
		if rec.rhs == "" {
			errs.add(rec.line, KindMissingArea, "topic %s has no area", rec.lhs)
			continue
		}
		seen[rec.lhs] = true
		topics = append(topics, Topic{ID: rec.lhs, Area: rec.rhs})
	}

	return topics, errs
}

// ParseStudents reads the students stream and validates every
// preference against the topic catalog. The bachelor program is
// inferred from the student id. Strict mode requires exactly
// RequiredPrefs preferences.
func ParseStudents(r io.Reader, topics []Topic, inf expertise.Inferrer, strict bool) ([]Student, ErrorList) {
	var errs ErrorList

	known := make(map[string]bool, len(topics))
	for _, t := range topics {
		known[t.ID] = true
	}

	var students []Student
	index := make(map[string]int)

	for _, rec := range scanRecords(r, &errs) {
		var prefs []string
		bad := false
		for _, tok := range splitFields(rec.rhs) {
			if !isIdent(tok) {
				errs.add(rec.line, KindMalformedLine, "student %s: invalid topic token %q", rec.lhs, tok)
				bad = true
				continue
			}
			if !known[tok] {
				errs.add(rec.line, KindUnknownTopic, "student %s prefers unknown topic %s", rec.lhs, tok)
				bad = true
				continue
			}
			prefs = append(prefs, tok)
		}

		if bad {
			continue
		}

		s := Student{ID: rec.lhs, Prefs: prefs}
		if program, ok := inf.Infer(rec.lhs); ok {
			s.Program = program
		}

		if err := validate.Struct(s); err != nil {
			for _, fe := range err.(validator.ValidationErrors) {
				switch fe.Tag() {
				case "unique":
					errs.add(rec.line, KindDuplicatePreference, "student %s repeats a preference", rec.lhs)
				default:
					errs.add(rec.line, KindPreferenceCount, "student %s has %d preferences, want 1..%d", rec.lhs, len(prefs), RequiredPrefs)
				}
			}
			continue
		}
		if strict && len(prefs) != RequiredPrefs {
			errs.add(rec.line, KindPreferenceCount, "student %s has %d preferences, strict mode wants exactly %d", rec.lhs, len(prefs), RequiredPrefs)
			continue
		}

		// A repeated student id replaces the earlier record.
		if i, ok := index[rec.lhs]; ok {
			students[i] = s
		} else {
			index[rec.lhs] = len(students)
			students = append(students, s)
		}
	}

	return students, errs
}

// ParseSupervisors reads the supervisors stream: capacity followed by
// at least one Bachelor:Topic:Level entry.
func ParseSupervisors(r io.Reader, topics []Topic) ([]Supervisor, ErrorList) {
	var errs ErrorList

	known := make(map[string]bool, len(topics))
	for _, t := range topics {
		known[t.ID] = true
	}

	var supervisors []Supervisor
	index := make(map[string]int)

	for _, rec := range scanRecords(r, &errs) {
		fields := splitFields(rec.rhs)
		if len(fields) == 0 {
			errs.add(rec.line, KindMalformedLine, "supervisor %s has no payload", rec.lhs)
			continue
		}

		capacity, err := strconv.Atoi(fields[0])
		if err != nil {
			errs.add(rec.line, KindBadInteger, "supervisor %s capacity %q is not an integer", rec.lhs, fields[0])
			continue
		}

		v := Supervisor{ID: rec.lhs, Capacity: capacity}
		seen := make(map[[2]string]bool)
		bad := false
		for _, field := range fields[1:] {
			parts := strings.Split(field, ":")
			if len(parts) != 3 {
				errs.add(rec.line, KindMalformedLine, "supervisor %s: entry %q is not Bachelor:Topic:Level", rec.lhs, field)
				bad = true
				continue
			}
			program := expertise.NormalizeProgram(strings.TrimSpace(parts[0]))
			topic := strings.TrimSpace(parts[1])
			levelTok := strings.TrimSpace(parts[2])

			if !isIdent(program) || !isIdent(topic) {
				errs.add(rec.line, KindMalformedLine, "supervisor %s: entry %q has an invalid identifier", rec.lhs, field)
				bad = true
				continue
			}
			if !known[topic] {
				errs.add(rec.line, KindUnknownTopic, "supervisor %s declares unknown topic %s", rec.lhs, topic)
				bad = true
				continue
			}
			level, ok := expertise.ParseLevel(levelTok)
			if !ok {
				errs.add(rec.line, KindInvalidLevel, "supervisor %s: level %q is not one of Expert, Advanced, Intermediate, Beginner", rec.lhs, levelTok)
				bad = true
				continue
			}
			key := [2]string{program, topic}
			if seen[key] {
				errs.add(rec.line, KindDuplicateEntry, "supervisor %s repeats entry %s:%s", rec.lhs, program, topic)
				bad = true
				continue
			}
			seen[key] = true
			v.Entries = append(v.Entries, expertise.Entry{
				Supervisor: rec.lhs,
				Program:    program,
				Topic:      topic,
				Level:      level,
			})
		}

		if bad {
			continue
		}

		if err := validate.Struct(v); err != nil {
			for _, fe := range err.(validator.ValidationErrors) {
				switch fe.StructField() {
				case "Capacity":
					errs.add(rec.line, KindCapacityOutOfRange, "supervisor %s capacity %d outside [1,%d]", rec.lhs, capacity, maxCapacity)
				case "Entries":
					errs.add(rec.line, KindEmptyEntries, "supervisor %s declares no expertise entries", rec.lhs)
				}
			}
			continue
		}

		if i, ok := index[rec.lhs]; ok {
			supervisors[i] = v
		} else {
			index[rec.lhs] = len(supervisors)
			supervisors = append(supervisors, v)
		}
	}

	return supervisors, errs
}

const maxCapacity = 10

// Parse loads the three input streams with the matcher's options.
// All validation errors accumulate into a single list; the matching
// engine must not run when the list is non-empty.
func (m *Matcher) Parse(students, topics, supervisors io.Reader) ([]Student, []Topic, []Supervisor, ErrorList) {
	inf := m.Inferrer
	if inf == nil {
		inf = expertise.NewPrefixInferrer(expertise.DefaultPrograms)
	}

	ts, errs := ParseTopics(topics)
	ss, serrs := ParseStudents(students, ts, inf, m.Strict)
	vs, verrs := ParseSupervisors(supervisors, ts)

	errs = append(errs, serrs...)
	errs = append(errs, verrs...)
	return ss, ts, vs, errs
}
