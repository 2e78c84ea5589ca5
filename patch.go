package diffmatchpatch

import (
	"fmt"
	"strconv"
	"strings"
)

// Patch is a single hunk in a patch bundle: a list of diffs plus the
// start positions and lengths, in code units, of the regions it
// touches in the source (Start1/Length1) and destination
// (Start2/Length2) texts.
type Patch struct {
	Diffs  []Diff
	Start1 int
	Start2 int
	Length1 int
	Length2 int
}

// String renders a patch in the same unified-diff-like format
// PatchToText produces for a single patch. Line bodies are
// percent-encoded like delta insert text, except that spaces are
// written literally.
func (p *Patch) String() string {
	var coords1, coords2 string
	switch {
	case p.Length1 == 0:
		coords1 = strconv.Itoa(p.Start1) + ",0"
	case p.Length1 == 1:
		coords1 = strconv.Itoa(p.Start1 + 1)
	default:
		coords1 = strconv.Itoa(p.Start1+1) + "," + strconv.Itoa(p.Length1)
	}
	switch {
	case p.Length2 == 0:
		coords2 = strconv.Itoa(p.Start2) + ",0"
	case p.Length2 == 1:
		coords2 = strconv.Itoa(p.Start2 + 1)
	default:
		coords2 = strconv.Itoa(p.Start2+1) + "," + strconv.Itoa(p.Length2)
	}
	var b strings.Builder
	b.WriteString("@@ -")
	b.WriteString(coords1)
	b.WriteString(" +")
	b.WriteString(coords2)
	b.WriteString(" @@\n")
	for _, d := range p.Diffs {
		var sign string
		switch d.Op {
		case OpInsert:
			sign = "+"
		case OpDelete:
			sign = "-"
		case OpEqual:
			sign = " "
		}
		b.WriteString(sign)
		b.WriteString(strings.ReplaceAll(percentEncodeText(d.Text), "%20", " "))
		b.WriteString("\n")
	}
	return b.String()
}

// PatchDeepCopy returns a deep copy of patches, safe to mutate
// (PatchAddPadding mutates its argument in place) without affecting
// the original slice.
func (c *Config) PatchDeepCopy(patches []Patch) []Patch {
	out := make([]Patch, len(patches))
	for i, p := range patches {
		cp := p
		cp.Diffs = append([]Diff(nil), p.Diffs...)
		out[i] = cp
	}
	return out
}

// PatchMakeFromDiffs builds a patch bundle directly from a precomputed
// diff.
func (c *Config) PatchMakeFromDiffs(diffs []Diff) []Patch {
	text1 := c.DiffText1(diffs)
	return c.patchMake(text1, diffs)
}

// PatchMakeFromTexts diffs text1 against text2 (with semantic cleanup)
// and builds a patch bundle from the result.
func (c *Config) PatchMakeFromTexts(text1, text2 string) []Patch {
	diffs := text1Diffs(c, text1, text2)
	return c.patchMake(text1, diffs)
}

// PatchMakeFromTextsAndDiffs builds a patch bundle from text1 and a
// diff already computed between text1 and text2. Use this to avoid
// recomputing the diff when the caller already has one; the texts
// must agree with the diff or the resulting patch will not apply
// cleanly.
func (c *Config) PatchMakeFromTextsAndDiffs(text1 string, diffs []Diff) []Patch {
	return c.patchMake(text1, diffs)
}

func text1Diffs(c *Config, text1, text2 string) []Diff {
	diffs := c.Diff(text1, text2, true)
	if len(diffs) > 2 {
		diffs = c.DiffCleanupSemantic(diffs)
		diffs = c.DiffCleanupEfficiency(diffs)
	}
	return diffs
}

func (c *Config) patchMake(text1 string, diffs []Diff) []Patch {
	if len(diffs) == 0 {
		return nil
	}
	var patches []Patch
	var patch Patch
	char1, char2 := 0, 0
	prepatchText := text1
	postpatchText := text1
	for i, d := range diffs {
		if len(patch.Diffs) == 0 && d.Op != OpEqual {
			patch.Start1 = char1
			patch.Start2 = char2
		}
		switch d.Op {
		case OpInsert:
			patch.Diffs = append(patch.Diffs, d)
			patch.Length2 += utf16Len(d.Text)
			postpatchText = spliceString(postpatchText, char2, 0, d.Text)
		case OpDelete:
			patch.Length1 += utf16Len(d.Text)
			patch.Diffs = append(patch.Diffs, d)
			postpatchText = spliceString(postpatchText, char2, utf16Len(d.Text), "")
		case OpEqual:
			if utf16Len(d.Text) <= 2*c.PatchMargin && len(patch.Diffs) != 0 && i != len(diffs)-1 {
				patch.Diffs = append(patch.Diffs, d)
				patch.Length1 += utf16Len(d.Text)
				patch.Length2 += utf16Len(d.Text)
			} else if utf16Len(d.Text) >= 2*c.PatchMargin && len(patch.Diffs) != 0 {
				c.patchAddContext(&patch, prepatchText)
				patches = append(patches, patch)
				patch = Patch{}
				prepatchText = postpatchText
				char1 = char2
			}
		}
		if d.Op != OpInsert {
			char1 += utf16Len(d.Text)
		}
		if d.Op != OpDelete {
			char2 += utf16Len(d.Text)
		}
	}
	if len(patch.Diffs) != 0 {
		c.patchAddContext(&patch, prepatchText)
		patches = append(patches, patch)
	}
	return patches
}

func spliceString(s string, index, amount int, insert string) string {
	units := toUnits(s)
	units = spliceUnits(units, index, amount, toUnits(insert)...)
	return unitsToString(units)
}

// patchAddContext extends a patch's diff list on both ends with
// surrounding context from text, capped so the pattern handed to
// Match stays within Config.MatchMaxBits.
func (c *Config) patchAddContext(patch *Patch, text string) {
	if text == "" {
		return
	}
	units := toUnits(text)
	pattern := units[patch.Start2 : patch.Start2+patch.Length1]
	padding := 0
	maxPatternLen := c.MatchMaxBits - 2*c.PatchMargin
	for unitsLastIndex(units, pattern) != unitsIndex(units, pattern) && (c.MatchMaxBits == 0 || len(pattern) < maxPatternLen) {
		padding += c.PatchMargin
		lo := max(0, patch.Start2-padding)
		hi := min(len(units), patch.Start2+patch.Length1+padding)
		pattern = units[lo:hi]
	}
	padding += c.PatchMargin
	prefixStart := max(0, patch.Start2-padding)
	prefix := units[prefixStart:patch.Start2]
	if len(prefix) != 0 {
		patch.Diffs = append([]Diff{{OpEqual, unitsToString(prefix)}}, patch.Diffs...)
	}
	suffixEnd := min(len(units), patch.Start2+patch.Length1+padding)
	suffix := units[patch.Start2+patch.Length1 : suffixEnd]
	if len(suffix) != 0 {
		patch.Diffs = append(patch.Diffs, Diff{OpEqual, unitsToString(suffix)})
	}
	patch.Start1 -= len(prefix)
	patch.Start2 -= len(prefix)
	patch.Length1 += len(prefix) + len(suffix)
	patch.Length2 += len(prefix) + len(suffix)
}

// PatchSplitMax breaks any patch whose pattern would exceed
// Config.MatchMaxBits code units into several smaller patches, each
// still carrying Config.PatchMargin of surrounding context.
func (c *Config) PatchSplitMax(patches []Patch) []Patch {
	patchSize := c.MatchMaxBits
	if patchSize == 0 {
		return patches
	}
	var out []Patch
	for _, bigpatch := range patches {
		if bigpatch.Length1 <= patchSize {
			out = append(out, bigpatch)
			continue
		}
		start1 := bigpatch.Start1
		start2 := bigpatch.Start2
		var precontext string
		diffs := append([]Diff(nil), bigpatch.Diffs...)
		for len(diffs) != 0 {
			patch := Patch{Start1: start1 - utf16Len(precontext), Start2: start2 - utf16Len(precontext)}
			empty := true
			if precontext != "" {
				patch.Length1 = utf16Len(precontext)
				patch.Length2 = utf16Len(precontext)
				patch.Diffs = append(patch.Diffs, Diff{OpEqual, precontext})
			}
			for len(diffs) != 0 && patch.Length1 < patchSize-c.PatchMargin {
				diffType := diffs[0].Op
				diffText := diffs[0].Text
				if diffType == OpInsert {
					patch.Length2 += utf16Len(diffText)
					start2 += utf16Len(diffText)
					patch.Diffs = append(patch.Diffs, diffs[0])
					diffs = diffs[1:]
					empty = false
				} else if diffType == OpDelete && len(patch.Diffs) == 1 && patch.Diffs[0].Op == OpEqual && utf16Len(diffText) > 2*patchSize {
					patchDiffLen := utf16Len(diffText)
					patch.Length1 += patchDiffLen
					start1 += patchDiffLen
					empty = false
					patch.Diffs = append(patch.Diffs, Diff{diffType, diffText})
					diffs = diffs[1:]
				} else {
					diffText = unitsToString(toUnits(diffText)[:clampInt(patchSize-patch.Length1-c.PatchMargin, 0, utf16Len(diffText))])
					patch.Length1 += utf16Len(diffText)
					start1 += utf16Len(diffText)
					if diffType == OpEqual {
						patch.Length2 += utf16Len(diffText)
						start2 += utf16Len(diffText)
					} else {
						empty = false
					}
					if diffText == diffs[0].Text {
						diffs = diffs[1:]
					} else {
						diffs[0].Text = unitsToString(toUnits(diffs[0].Text)[utf16Len(diffText):])
					}
					if diffText != "" {
						patch.Diffs = append(patch.Diffs, Diff{diffType, diffText})
					}
				}
			}
			precontext = unitsToString(lastUnits(toUnits(c.DiffText2(patch.Diffs)), c.PatchMargin))
			var postcontext string
			if len(diffs) != 0 {
				postcontext = unitsToString(firstUnits(toUnits(c.DiffText1(diffs)), c.PatchMargin))
			}
			if postcontext != "" {
				patch.Length1 += utf16Len(postcontext)
				patch.Length2 += utf16Len(postcontext)
				if len(patch.Diffs) != 0 && patch.Diffs[len(patch.Diffs)-1].Op == OpEqual {
					patch.Diffs[len(patch.Diffs)-1].Text += postcontext
				} else {
					patch.Diffs = append(patch.Diffs, Diff{OpEqual, postcontext})
				}
			}
			if !empty {
				out = append(out, patch)
			}
		}
	}
	return out
}

func lastUnits(u []uint16, n int) []uint16 {
	if len(u) <= n {
		return u
	}
	return u[len(u)-n:]
}

func firstUnits(u []uint16, n int) []uint16 {
	if len(u) <= n {
		return u
	}
	return u[:n]
}

// PatchAddPadding surrounds every patch's edits with a synthetic
// padding string (repeated control characters U+0001..U+Config.PatchMargin,
// none of which legitimately occur in real text) so that PatchApply
// can safely extend context at the very start or end of a document.
// It returns the padding string, which must be stripped back off the
// result text after applying.
func (c *Config) PatchAddPadding(patches []Patch) string {
	paddingLength := c.PatchMargin
	var b strings.Builder
	for x := 1; x <= paddingLength; x++ {
		b.WriteRune(rune(x))
	}
	paddingText := b.String()
	for i := range patches {
		patches[i].Start1 += paddingLength
		patches[i].Start2 += paddingLength
	}
	first := &patches[0]
	if len(first.Diffs) == 0 || first.Diffs[0].Op != OpEqual {
		first.Diffs = append([]Diff{{OpEqual, paddingText}}, first.Diffs...)
		first.Start1 -= paddingLength
		first.Start2 -= paddingLength
		first.Length1 += paddingLength
		first.Length2 += paddingLength
	} else if paddingLength > utf16Len(first.Diffs[0].Text) {
		extraLength := paddingLength - utf16Len(first.Diffs[0].Text)
		first.Diffs[0].Text = paddingText[utf16Len(first.Diffs[0].Text):] + first.Diffs[0].Text
		first.Start1 -= extraLength
		first.Start2 -= extraLength
		first.Length1 += extraLength
		first.Length2 += extraLength
	}
	last := &patches[len(patches)-1]
	if len(last.Diffs) == 0 || last.Diffs[len(last.Diffs)-1].Op != OpEqual {
		last.Diffs = append(last.Diffs, Diff{OpEqual, paddingText})
		last.Length1 += paddingLength
		last.Length2 += paddingLength
	} else if paddingLength > utf16Len(last.Diffs[len(last.Diffs)-1].Text) {
		extraLength := paddingLength - utf16Len(last.Diffs[len(last.Diffs)-1].Text)
		last.Diffs[len(last.Diffs)-1].Text += paddingText[:extraLength]
		last.Length1 += extraLength
		last.Length2 += extraLength
	}
	return paddingText
}

// PatchApply tries to apply patches to text, returning the resulting
// text and, for each patch, whether it applied. A patch anchors via
// Match near its recorded position; if the region it would replace
// has drifted too far from what the patch expects (per
// Config.PatchDeleteThreshold), it is skipped and left unapplied.
func (c *Config) PatchApply(patches []Patch, text string) (string, []bool) {
	if len(patches) == 0 {
		return text, nil
	}
	patches = c.PatchDeepCopy(patches)
	nullPadding := c.PatchAddPadding(patches)
	text = nullPadding + text + nullPadding
	patches = c.PatchSplitMax(patches)
	units := toUnits(text)
	delta := 0
	results := make([]bool, len(patches))
	for x, p := range patches {
		expectedLoc := p.Start2 + delta
		text1 := c.DiffText1(p.Diffs)
		text1Units := toUnits(text1)
		textStr := unitsToString(units)
		var startLoc int
		endLoc := -1
		if len(text1Units) > c.MatchMaxBits && c.MatchMaxBits != 0 {
			startLoc = c.Match(textStr, unitsToString(text1Units[:c.MatchMaxBits]), expectedLoc)
			if startLoc != -1 {
				endLoc = c.Match(textStr, unitsToString(text1Units[len(text1Units)-c.MatchMaxBits:]), expectedLoc+len(text1Units)-c.MatchMaxBits)
				if endLoc == -1 || startLoc >= endLoc {
					startLoc = -1
				}
			}
		} else {
			startLoc = c.Match(textStr, text1, expectedLoc)
		}
		if startLoc == -1 {
			results[x] = false
			delta -= p.Length2 - p.Length1
			continue
		}
		results[x] = true
		delta = startLoc - expectedLoc
		var text2 string
		if endLoc == -1 {
			text2 = unitsToString(sliceUnits(units, startLoc, min(startLoc+utf16Len(text1), len(units))))
		} else {
			text2 = unitsToString(sliceUnits(units, startLoc, min(endLoc+c.MatchMaxBits, len(units))))
		}
		if text1 == text2 {
			units = spliceUnits(units, startLoc, utf16Len(text1), toUnits(c.DiffText2(p.Diffs))...)
		} else {
			diffs := c.Diff(text1, text2, false)
			if float64(c.DiffLevenshtein(diffs))/float64(utf16Len(text1)) > c.PatchDeleteThreshold {
				// Mismatch so great it isn't worth a character-level
				// fixup; treat as unapplied.
				results[x] = false
				continue
			}
			diffs = c.DiffCleanupSemanticLossless(diffs)
			index1 := 0
			for _, d := range p.Diffs {
				if d.Op != OpEqual {
					index2 := c.DiffXIndex(diffs, index1)
					if d.Op == OpInsert {
						units = spliceUnits(units, startLoc+index2, 0, toUnits(d.Text)...)
					} else if d.Op == OpDelete {
						delEnd := c.DiffXIndex(diffs, index1+utf16Len(d.Text))
						units = spliceUnits(units, startLoc+index2, delEnd-index2)
					}
				}
				if d.Op != OpDelete {
					index1 += utf16Len(d.Text)
				}
			}
		}
	}
	padLen := utf16Len(nullPadding)
	result := unitsToString(sliceUnits(units, padLen, len(units)-padLen))
	return result, results
}

func sliceUnits(u []uint16, lo, hi int) []uint16 {
	lo = clampInt(lo, 0, len(u))
	hi = clampInt(hi, 0, len(u))
	if hi < lo {
		hi = lo
	}
	return u[lo:hi]
}

// PatchToText renders a patch bundle in the textual format consumed
// by PatchFromText.
func (c *Config) PatchToText(patches []Patch) string {
	var b strings.Builder
	for _, p := range patches {
		b.WriteString(p.String())
	}
	return b.String()
}

// PatchFromText parses a patch bundle produced by PatchToText,
// returning ErrInvalidPatch if the text is malformed or if a hunk's
// diff lines don't total the lengths declared in its header.
func (c *Config) PatchFromText(text string) ([]Patch, error) {
	if text == "" {
		return nil, nil
	}
	var patches []Patch
	lines := strings.Split(text, "\n")
	i := 0
	for i < len(lines) {
		if lines[i] == "" {
			i++
			continue
		}
		header, err := parsePatchHeader(lines[i])
		if err != nil {
			return nil, err
		}
		patch := header
		i++
		for i < len(lines) {
			if lines[i] == "" {
				i++
				continue
			}
			sign := lines[i][0]
			if sign != '+' && sign != '-' && sign != ' ' && sign != '@' {
				return nil, fmt.Errorf("%w: invalid diff line %q", ErrInvalidPatch, lines[i])
			}
			if sign == '@' {
				break
			}
			line, err := percentDecodeText(lines[i][1:])
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
			}
			switch sign {
			case '+':
				patch.Diffs = append(patch.Diffs, Diff{OpInsert, line})
			case '-':
				patch.Diffs = append(patch.Diffs, Diff{OpDelete, line})
			case ' ':
				patch.Diffs = append(patch.Diffs, Diff{OpEqual, line})
			}
			i++
		}
		if err := validatePatchLengths(patch); err != nil {
			return nil, err
		}
		patches = append(patches, patch)
	}
	return patches, nil
}

func validatePatchLengths(p Patch) error {
	var len1, len2 int
	for _, d := range p.Diffs {
		if d.Op != OpInsert {
			len1 += utf16Len(d.Text)
		}
		if d.Op != OpDelete {
			len2 += utf16Len(d.Text)
		}
	}
	if len1 != p.Length1 || len2 != p.Length2 {
		return fmt.Errorf("%w: header declared lengths %d,%d but diff totals %d,%d", ErrInvalidPatch, p.Length1, p.Length2, len1, len2)
	}
	return nil
}

func parsePatchHeader(line string) (Patch, error) {
	if !strings.HasPrefix(line, "@@ -") {
		return Patch{}, fmt.Errorf("%w: bad patch header %q", ErrInvalidPatch, line)
	}
	var m1, m2 string
	n, err := fmt.Sscanf(line, "@@ -%s +%s @@", &m1, &m2)
	if err != nil || n != 2 {
		return Patch{}, fmt.Errorf("%w: bad patch header %q", ErrInvalidPatch, line)
	}
	m2 = strings.TrimSuffix(m2, "@@")
	m2 = strings.TrimSpace(m2)
	start1, len1, err := parseCoords(m1)
	if err != nil {
		return Patch{}, err
	}
	start2, len2, err := parseCoords(m2)
	if err != nil {
		return Patch{}, err
	}
	return Patch{Start1: start1, Length1: len1, Start2: start2, Length2: len2}, nil
}

func parseCoords(s string) (start, length int, err error) {
	if !strings.Contains(s, ",") {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: bad coordinate %q", ErrInvalidPatch, s)
		}
		return n - 1, 1, nil
	}
	parts := strings.SplitN(s, ",", 2)
	start, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad coordinate %q", ErrInvalidPatch, s)
	}
	length, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad coordinate %q", ErrInvalidPatch, s)
	}
	if length == 0 {
		return start, 0, nil
	}
	return start - 1, length, nil
}
