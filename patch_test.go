package diffmatchpatch

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchString(t *testing.T) {
	p := Patch{
		Start1: 20, Start2: 21, Length1: 19, Length2: 20,
		Diffs: []Diff{
			{OpEqual, "jump"}, {OpDelete, "s over "}, {OpInsert, "ed over "}, {OpEqual, "the lazy"},
		},
	}
	assert.Equal(t, "@@ -21,19 +22,20 @@\n jump\n-s over \n+ed over \n the lazy\n", p.String())
}

func TestPatchToTextAndFromText(t *testing.T) {
	c := NewDefaultConfig()

	strs := []string{
		"@@ -21,19 +22,20 @@\n jump\n-s over \n+ed over \n the lazy\n",
		"@@ -1,9 +1,9 @@\n-f\n+F\n oo+fooba\n@@ -7,9 +7,9 @@\n obar\n-,\n+.\n  tes\n",
	}
	for _, s := range strs {
		patches, err := c.PatchFromText(s)
		require.NoError(t, err)
		assert.Equal(t, s, c.PatchToText(patches))
	}

	_, err := c.PatchFromText("")
	require.NoError(t, err)
}

func TestPatchFromTextErrors(t *testing.T) {
	c := NewDefaultConfig()

	_, err := c.PatchFromText("Bad\nPatch\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPatch)

	// Header claims a length the diff lines don't actually total.
	_, err = c.PatchFromText("@@ -1,5 +1,5 @@\n-abc\n+abc\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPatch)
}

func TestPatchMakeFromTexts(t *testing.T) {
	c := NewDefaultConfig()

	assert.Empty(t, c.PatchMakeFromTexts("", ""))

	text1 := "The quick brown fox jumps over the lazy dog."
	text2 := "That quick brown fox jumped over a lazy dog."
	patches := c.PatchMakeFromTexts(text1, text2)
	require.NotEmpty(t, patches)

	result, applied := c.PatchApply(patches, text1)
	assert.Equal(t, text2, result)
	for _, ok := range applied {
		assert.True(t, ok)
	}
}

func TestPatchMakeFromDiffs(t *testing.T) {
	c := NewDefaultConfig()
	diffs := c.Diff("abcdef", "xyz", false)
	patches := c.PatchMakeFromDiffs(diffs)
	result, applied := c.PatchApply(patches, "abcdef")
	assert.Equal(t, "xyz", result)
	for _, ok := range applied {
		assert.True(t, ok)
	}
}

func TestPatchMakeFromTextsAndDiffsMatchesFromDiffs(t *testing.T) {
	c := NewDefaultConfig()
	diffs := c.Diff("abcdef", "xyz", false)
	viaDiffs := c.PatchMakeFromDiffs(diffs)
	viaTextAndDiffs := c.PatchMakeFromTextsAndDiffs("abcdef", diffs)
	assert.Equal(t, c.PatchToText(viaDiffs), c.PatchToText(viaTextAndDiffs))
}

func TestPatchSplitMax(t *testing.T) {
	c := NewDefaultConfig()

	tests := []struct {
		Text1, Text2 string
	}{
		{
			"abcdefghijklmnopqrstuvwxyz01234567890123456789012345678901234567890123456789012345678901234567890123456789012345678901234567890",
			"abcdefghijklmnopqrstuvwxyz1234567890123456789012345678901234567890123456789012345678901234567890123456789012345678901234567890",
		},
		{
			"1234567890123456789012345678901234567890123456789012345678901234567890",
			"abc",
		},
		{
			"abcdefghij , h : 0 , t : 1 abcdefghij , h : 0 , t : 1 abcdefghij , h : 0 , t : 1",
			"abcdefghij , h : 1 , t : 1 abcdefghij , h : 1 , t : 1 abcdefghij , h : 0 , t : 1",
		},
	}
	for i, test := range tests {
		patches := c.PatchMakeFromTexts(test.Text1, test.Text2)
		patches = c.PatchSplitMax(patches)
		result, applied := c.PatchApply(patches, test.Text1)
		assert.Equal(t, test.Text2, result, fmt.Sprintf("Test case #%d", i))
		for _, ok := range applied {
			assert.True(t, ok, fmt.Sprintf("Test case #%d", i))
		}
	}
}

func TestPatchAddPadding(t *testing.T) {
	c := NewDefaultConfig()

	patches := c.PatchMakeFromTexts("", "test")
	before := c.PatchToText(patches)
	padding := c.PatchAddPadding(patches)
	assert.Equal(t, "\x01\x02\x03\x04", padding)
	after := c.PatchToText(patches)
	assert.NotEqual(t, before, after)
	assert.Contains(t, after, "%01%02%03%04")
}

func TestPatchApply(t *testing.T) {
	c := NewDefaultConfig()
	c.MatchDistance = 1000
	c.MatchThreshold = 0.5
	c.PatchDeleteThreshold = 0.5

	// No patches.
	result, applied := c.PatchApply(nil, "Hello world.")
	assert.Equal(t, "Hello world.", result)
	assert.Empty(t, applied)

	// Exact match.
	patches := c.PatchMakeFromTexts("The quick brown fox jumps over the lazy dog.", "That quick brown fox jumped over a lazy dog.")
	result, applied = c.PatchApply(patches, "The quick brown fox jumps over the lazy dog.")
	assert.Equal(t, "That quick brown fox jumped over a lazy dog.", result)
	assert.Equal(t, []bool{true, true}, applied)

	// Partial match: fuzzy-anchored against drifted text. Per the design's
	// own rules the exact merged text is implementation-stable but not a
	// portable invariant; only the anchoring outcome is asserted here.
	result, applied = c.PatchApply(patches, "The quick red rabbit jumps over the tired tiger.")
	assert.NotEqual(t, "The quick red rabbit jumps over the tired tiger.", result)
	assert.Equal(t, []bool{true, true}, applied)

	// Failed match: wildly different text.
	patches = c.PatchMakeFromTexts("The quick brown fox jumps over the lazy dog.", "That quick brown fox jumped over a lazy dog.")
	result, applied = c.PatchApply(patches, "I am the very model of a modern major general.")
	assert.Equal(t, "I am the very model of a modern major general.", result)
	assert.Equal(t, []bool{false, false}, applied)

	// Simple replace, from the spec's worked scenario.
	patches = c.PatchMakeFromTexts("abcdef", "xyz")
	result, applied = c.PatchApply(patches, "abcdef")
	assert.Equal(t, "xyz", result)
	assert.Equal(t, []bool{true}, applied)
}

func TestPatchApplyDeleteThreshold(t *testing.T) {
	text1 := "x1234567890123456789012345678901234567890123456789012345678901234567890y"
	text2 := "xabcy"
	textBase := "x12345678901234567890---------------++++++++++---------------12345678901234567890y"

	// Big delete, big diff: content drift too large at threshold 0.5, the
	// oversized patch is rejected and left unapplied.
	c := NewDefaultConfig()
	c.MatchDistance = 1000
	c.MatchThreshold = 0.5
	c.PatchDeleteThreshold = 0.5
	patches := c.PatchMakeFromTexts(text1, text2)
	result, applied := c.PatchApply(patches, textBase)
	assert.Equal(t, "xabc12345678901234567890---------------++++++++++---------------12345678901234567890y", result)
	assert.Equal(t, []bool{false, true}, applied)

	// Same inputs, looser threshold 0.6: the same oversized patch is now
	// accepted, flipping the outcome for the same drifted text.
	c.PatchDeleteThreshold = 0.6
	patches = c.PatchMakeFromTexts(text1, text2)
	result, applied = c.PatchApply(patches, textBase)
	assert.Equal(t, "xabcy", result)
	assert.Equal(t, []bool{true, true}, applied)
}

func TestPatchDeepCopy(t *testing.T) {
	c := NewDefaultConfig()
	patches := c.PatchMakeFromTexts("abc", "xyz")
	clone := c.PatchDeepCopy(patches)
	clone[0].Diffs[0].Text = "mutated"
	assert.NotEqual(t, patches[0].Diffs[0].Text, clone[0].Diffs[0].Text)
}
