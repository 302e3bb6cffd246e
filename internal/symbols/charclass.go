package symbols

import "sort"

// CharacterClass is a uniform membership test over runes, per spec.md §4.D.
// It is produced from either a CGT "C" (enumerated) or "c" (range) record
// and used only for its Contains method; callers never need to know which
// concrete shape backs a given class.
type CharacterClass interface {
	Contains(c rune) bool
}

// EnumeratedClass is a character class whose members are listed explicitly,
// one rune per member, as produced by a CGT v1 "C" record.
type EnumeratedClass struct {
	members map[rune]bool
}

// NewEnumeratedClass builds an EnumeratedClass from the characters of s,
// each of which becomes a member.
func NewEnumeratedClass(s string) *EnumeratedClass {
	ec := &EnumeratedClass{members: make(map[rune]bool, len(s))}
	for _, r := range s {
		ec.members[r] = true
	}
	return ec
}

// Contains reports whether c is one of the class's enumerated members.
func (ec *EnumeratedClass) Contains(c rune) bool {
	return ec.members[c]
}

// Members reconstructs a string containing exactly the class's member
// runes, suitable for round-tripping through NewEnumeratedClass. Order is
// not meaningful and is not preserved.
func (ec *EnumeratedClass) Members() string {
	runes := make([]rune, 0, len(ec.members))
	for r := range ec.members {
		runes = append(runes, r)
	}
	return string(runes)
}

// CodepointRange is one inclusive [Start,End] range of a RangeClass.
type CodepointRange struct {
	Start rune
	End   rune
}

// RangeClass is a character class backed by a list of inclusive codepoint
// ranges, as produced by a CGT v5 "c" record. Codepage is retained for
// fidelity with the source record but is decorative metadata per spec.md
// §4.D: membership never depends on it.
type RangeClass struct {
	Codepage uint16
	Ranges   []CodepointRange
}

// NewRangeClass builds a RangeClass from the given codepage tag and ranges.
func NewRangeClass(codepage uint16, ranges []CodepointRange) *RangeClass {
	rc := &RangeClass{Codepage: codepage, Ranges: make([]CodepointRange, len(ranges))}
	copy(rc.Ranges, ranges)
	sort.Slice(rc.Ranges, func(i, j int) bool { return rc.Ranges[i].Start < rc.Ranges[j].Start })
	return rc
}

// Contains walks the inclusive ranges looking for one that bounds c.
func (rc *RangeClass) Contains(c rune) bool {
	for _, r := range rc.Ranges {
		if c >= r.Start && c <= r.End {
			return true
		}
	}
	return false
}
