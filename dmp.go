// Package diffmatchpatch computes, represents, and applies textual
// differences between two strings.
//
// It offers three tightly coupled capabilities: Diff produces an edit
// script transforming one string into another, Match locates an
// approximate occurrence of a pattern in text near an expected location,
// and Patch packages edits as self-describing, position-tolerant bundles
// that can be re-applied to a possibly drifted text.
//
// All string positions and lengths are expressed in UTF-16 code units,
// the indexing unit of the reference ports of this algorithm, so that
// delta and patch text produced here interoperate with other
// implementations. A surrogate pair counts as two positions.
package diffmatchpatch

import "time"

// Config holds the tunable parameters shared by the diff, match, and
// patch engines. A zero Config is not usable; start from
// NewDefaultConfig and override individual fields.
type Config struct {
	// DiffTimeout bounds how long Diff may spend bisecting before it
	// falls back to a trivial delete+insert diff. Zero means unbounded.
	DiffTimeout time.Duration
	// DiffEditCost is the cost, in edit characters, of an empty edit
	// operation; it governs DiffCleanupEfficiency.
	DiffEditCost int

	// MatchThreshold is the highest combined error/distance score, in
	// [0,1], still considered a match (0 = perfect, 1 = anything).
	MatchThreshold float64
	// MatchDistance is how far (in code units) a match may be from the
	// expected location before the location penalty reaches 1.0.
	MatchDistance int
	// MatchMaxBits is the ceiling on pattern length handed to the Bitap
	// matcher; it must fit in one machine word of that many bits.
	MatchMaxBits int

	// PatchDeleteThreshold is how closely the contents of a deleted
	// block must match for a patch to be considered applicable.
	PatchDeleteThreshold float64
	// PatchMargin is the amount of context, in code units, kept on each
	// side of a patch's edits.
	PatchMargin int
}

// NewDefaultConfig returns a Config with the reference parameters: a
// one second diff timeout, an edit cost of 4, a match threshold of 0.5
// over a distance of 1000, 32-bit Bitap patterns, a patch delete
// threshold of 0.5, and a patch margin of 4.
func NewDefaultConfig() *Config {
	return &Config{
		DiffTimeout:          time.Second,
		DiffEditCost:         4,
		MatchThreshold:       0.5,
		MatchDistance:        1000,
		MatchMaxBits:         32,
		PatchDeleteThreshold: 0.5,
		PatchMargin:          4,
	}
}
