// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expertise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixInferrer(t *testing.T) {
	inf := NewPrefixInferrer(DefaultPrograms)

	cases := map[string]string{
		"BDBA001":     "BDBA",
		"BCSAI042":    "BCSAI",
		"BBA007":      "BBA",
		"BBA_BDBA003": "BBA+BDBA", // joint tag beats its BBA prefix
		"BBA+BDBA004": "BBA+BDBA",
	}
	for id, want := range cases {
		got, ok := inf.Infer(id)
		require.True(t, ok, id)
		assert.Equal(t, want, got, id)
	}

	t.Run("LeadingRunFallback", func(t *testing.T) {
		got, ok := inf.Infer("MBA123")
		require.True(t, ok)
		assert.Equal(t, "MBA", got)
	})

	t.Run("NoAlphabeticLead", func(t *testing.T) {
		_, ok := inf.Infer("123")
		assert.False(t, ok)
	})
}

func TestOverrideInferrer(t *testing.T) {
	inf := NewOverrideInferrer(NewPrefixInferrer(DefaultPrograms), []OverrideRecord{
		{Student: "EXC001", Program: "BCSAI"},
		{Student: "BDBA999", Program: "BBA_BDBA"},
	})

	got, ok := inf.Infer("EXC001")
	require.True(t, ok)
	assert.Equal(t, "BCSAI", got)

	// Overrides are normalized like everything else.
	got, ok = inf.Infer("BDBA999")
	require.True(t, ok)
	assert.Equal(t, "BBA+BDBA", got)

	// Everyone else falls through to the prefix rule.
	got, ok = inf.Infer("BDBA001")
	require.True(t, ok)
	assert.Equal(t, "BDBA", got)
}
