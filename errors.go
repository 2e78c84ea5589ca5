package diffmatchpatch

import "errors"

// Sentinel errors identifying the three malformed-input failure modes
// this package reports. All other failure modes (a diff that hit its
// deadline, a patch that failed to anchor) are expressed as in-band
// sentinel values or boolean outcomes, never as errors.
var (
	// ErrInvalidDelta is returned by DiffFromDelta when the delta text
	// does not describe a valid sequence of operations against the
	// supplied source text.
	ErrInvalidDelta = errors.New("diffmatchpatch: invalid delta")
	// ErrInvalidPatch is returned by PatchFromText when the patch text
	// does not parse as a well-formed patch bundle.
	ErrInvalidPatch = errors.New("diffmatchpatch: invalid patch")
	// ErrPatternTooLong is returned by MatchBitap when the pattern
	// exceeds Config.MatchMaxBits code units.
	ErrPatternTooLong = errors.New("diffmatchpatch: pattern too long for match")
)
