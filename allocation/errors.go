// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package allocation

import (
	"fmt"
	"strings"
)

// Kind identifies one validation failure class.
type Kind string

// Syntax kinds.
const (
	KindMalformedLine Kind = "MalformedLine"
	KindBadInteger    Kind = "BadInteger"
	KindInvalidLevel  Kind = "InvalidLevel"
)

// Semantic kinds.
const (
	KindUnknownTopic        Kind = "UnknownTopic"
	KindDuplicateTopic      Kind = "DuplicateTopic"
	KindMissingArea         Kind = "MissingArea"
	KindDuplicateEntry      Kind = "DuplicateEntry"
	KindCapacityOutOfRange  Kind = "CapacityOutOfRange"
	KindEmptyEntries        Kind = "EmptySupervisorEntries"
	KindPreferenceCount     Kind = "PreferenceCountOutOfRange"
	KindDuplicatePreference Kind = "DuplicatePreference"
)

// Error is one validation failure, located by input line.
type Error struct {
	Line int
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Kind, e.Msg)
}

// ErrorList accumulates validation failures so a caller sees every
// problem of an input at once. A nil or empty list is success.
type ErrorList []*Error

func (l ErrorList) Error() string {
	var b strings.Builder
	for i, e := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Error())
	}
	return b.String()
}

// Err returns the list as an error, or nil when it is empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l *ErrorList) add(line int, kind Kind, format string, args ...interface{}) {
	*l = append(*l, &Error{line, kind, fmt.Sprintf(format, args...)})
}
