package diffmatchpatch

import "math"

// Match locates the best occurrence of pattern in text near loc,
// using fuzzy matching. It returns -1 if no match meets
// Config.MatchThreshold, including when pattern exceeds
// Config.MatchMaxBits code units.
func (c *Config) Match(text, pattern string, loc int) int {
	textUnits := toUnits(text)
	patternUnits := toUnits(pattern)
	loc = clampInt(loc, 0, len(textUnits))
	switch {
	case unitsEqual(textUnits, patternUnits):
		return 0
	case len(textUnits) == 0:
		return -1
	case loc+len(patternUnits) <= len(textUnits) && unitsEqual(textUnits[loc:loc+len(patternUnits)], patternUnits):
		return loc
	default:
		idx, err := c.matchBitap(textUnits, patternUnits, loc)
		if err != nil {
			return -1
		}
		return idx
	}
}

// MatchBitap runs the Baeza-Yates/Gonnet fuzzy-matching algorithm
// directly, returning ErrPatternTooLong if pattern is longer than
// Config.MatchMaxBits code units. Most callers want Match, which folds
// this error into its -1 not-found sentinel; MatchBitap is exposed for
// callers that need to distinguish "pattern too long" from "no match."
func (c *Config) MatchBitap(text, pattern string, loc int) (int, error) {
	return c.matchBitap(toUnits(text), toUnits(pattern), loc)
}

func (c *Config) matchBitap(text, pattern []uint16, loc int) (int, error) {
	if c.MatchMaxBits != 0 && len(pattern) > c.MatchMaxBits {
		return -1, ErrPatternTooLong
	}
	alphabet := matchAlphabet(pattern)
	scoreThreshold := c.MatchThreshold
	bestLoc := unitsIndexFrom(text, pattern, loc)
	if bestLoc != -1 {
		scoreThreshold = math.Min(c.matchBitapScore(0, bestLoc, loc, pattern), scoreThreshold)
		if bestLoc = unitsLastIndexBefore(text, pattern, min(loc+len(pattern), len(text))+len(pattern)); bestLoc != -1 {
			scoreThreshold = math.Min(c.matchBitapScore(0, bestLoc, loc, pattern), scoreThreshold)
		}
	}
	matchmask := 1 << uint(len(pattern)-1)
	bestLoc = -1
	var binMin, binMid int
	binMax := len(pattern) + len(text)
	lastRd := []int{}
	for d := 0; d < len(pattern); d++ {
		binMin = 0
		binMid = binMax
		for binMin < binMid {
			if c.matchBitapScore(d, loc+binMid, loc, pattern) <= scoreThreshold {
				binMin = binMid
			} else {
				binMax = binMid
			}
			binMid = (binMax-binMin)/2 + binMin
		}
		binMax = binMid
		start := max(1, loc-binMid+1)
		finish := min(loc+binMid, len(text)) + len(pattern)
		rd := make([]int, finish+2)
		rd[finish+1] = (1 << uint(d)) - 1
		for j := finish; j >= start; j-- {
			var charMatch int
			if len(text) <= j-1 {
				charMatch = 0
			} else if m, ok := alphabet[text[j-1]]; ok {
				charMatch = m
			}
			if d == 0 {
				rd[j] = ((rd[j+1] << 1) | 1) & charMatch
			} else {
				rd[j] = (((rd[j+1] << 1) | 1) & charMatch) | (((lastRd[j+1] | lastRd[j]) << 1) | 1) | lastRd[j+1]
			}
			if rd[j]&matchmask != 0 {
				score := c.matchBitapScore(d, j-1, loc, pattern)
				if score <= scoreThreshold {
					scoreThreshold = score
					bestLoc = j - 1
					if bestLoc > loc {
						start = max(1, 2*loc-bestLoc)
					} else {
						break
					}
				}
			}
		}
		if c.matchBitapScore(d+1, loc, loc, pattern) > scoreThreshold {
			break
		}
		lastRd = rd
	}
	if bestLoc < 0 {
		return -1, nil
	}
	return bestLoc, nil
}

// matchBitapScore computes an error score, 0 (perfect) to 1
// (mismatch), combining the number of edits e at position x against
// the expected location loc.
func (c *Config) matchBitapScore(e, x, loc int, pattern []uint16) float64 {
	accuracy := float64(e) / float64(len(pattern))
	proximity := math.Abs(float64(loc - x))
	if c.MatchDistance == 0 {
		if proximity == 0 {
			return accuracy
		}
		return 1.0
	}
	return accuracy + proximity/float64(c.MatchDistance)
}

// MatchAlphabet returns a map from each distinct code unit in pattern
// to a bitmask of the positions at which it occurs, the "alphabet"
// used internally by the Bitap search. It returns ErrPatternTooLong if
// pattern exceeds Config.MatchMaxBits code units.
func (c *Config) MatchAlphabet(pattern string) (map[uint16]int, error) {
	units := toUnits(pattern)
	if c.MatchMaxBits != 0 && len(units) > c.MatchMaxBits {
		return nil, ErrPatternTooLong
	}
	return matchAlphabet(units), nil
}

func matchAlphabet(pattern []uint16) map[uint16]int {
	alphabet := map[uint16]int{}
	for _, u := range pattern {
		alphabet[u] = 0
	}
	for i, u := range pattern {
		alphabet[u] |= 1 << uint(len(pattern)-i-1)
	}
	return alphabet
}
