// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package expertise derives supervisor ownership of (topic, bachelor
// program) combinations from declared expertise levels.
package expertise

import "strings"

// Level is a supervisor's declared expertise for one combination.
// Levels are totally ordered: Expert > Advanced > Intermediate >
// Beginner.
type Level int8

const (
	Beginner Level = iota
	Intermediate
	Advanced
	Expert
)

var levelNames = [...]string{"Beginner", "Intermediate", "Advanced", "Expert"}

func (l Level) String() string {
	if l < Beginner || l > Expert {
		return "Unknown"
	}
	return levelNames[l]
}

// ParseLevel recognizes the four level tokens, case-sensitively.
func ParseLevel(s string) (Level, bool) {
	for i, name := range levelNames {
		if s == name {
			return Level(i), true
		}
	}
	return 0, false
}

// Entry is one immutable expertise declaration.
type Entry struct {
	Supervisor string `json:"supervisor"`
	Program    string `json:"program"`
	Topic      string `json:"topic"`
	Level      Level  `json:"level"`
}

// Inferrer maps a student id to its bachelor program.
type Inferrer interface {
	Infer(studentID string) (program string, ok bool)
}

// NormalizeProgram unifies program tags across input streams: an
// underscore connector is equivalent to a plus (BBA_BDBA == BBA+BDBA).
func NormalizeProgram(tag string) string {
	return strings.ReplaceAll(tag, "_", "+")
}
