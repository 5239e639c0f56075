package nace

import "strings"

const (
	// MinLevel is the broadest level kept in the dataset. Level 1 (sections) is dropped at parse time.
	MinLevel = 2
	// MaxLevel is the most specific level.
	MaxLevel = 5

	// separatorOffset is the byte position of the dot in every code of level 3 and deeper.
	separatorOffset = 2
)

// levelLayout describes the dotted code format of one level.
type levelLayout struct {
	codeLen   int // length of the dotted code
	parentLen int // length of the parent's dotted code, 0 for the top level
}

// levelLayouts is keyed by level. Changing the code format means changing this table only.
var levelLayouts = map[int]levelLayout{
	2: {codeLen: 2, parentLen: 0},
	3: {codeLen: 4, parentLen: 2},
	4: {codeLen: 5, parentLen: 4},
	5: {codeLen: 6, parentLen: 5},
}

// ValidLevel reports whether level is a level kept in the dataset.
func ValidLevel(level int) bool {
	_, ok := levelLayouts[level]
	return ok
}

// ClampLevel forces level into [MinLevel, MaxLevel].
func ClampLevel(level int) int {
	return max(MinLevel, min(level, MaxLevel))
}

// LevelOfCode derives the level from the shape of a dotted code.
// Returns 0 when the code does not fit any level.
func LevelOfCode(code string) int {
	for level, l := range levelLayouts {
		if len(code) != l.codeLen {
			continue
		}
		if level == MinLevel {
			if !strings.Contains(code, ".") {
				return level
			}
			continue
		}
		if code[separatorOffset] == '.' && strings.Count(code, ".") == 1 {
			return level
		}
	}
	return 0
}

// ParentCode returns the dotted code of the direct parent.
// The second result is false for top-level codes and for codes that do not
// match the layout of their level.
func ParentCode(code string, level int) (string, bool) {
	l, ok := levelLayouts[level]
	if !ok || l.parentLen == 0 || len(code) != l.codeLen {
		return "", false
	}
	return code[:l.parentLen], true
}

// IDWithoutDots strips every dot from a dotted code.
func IDWithoutDots(code string) string {
	return strings.ReplaceAll(code, ".", "")
}

// CodeFromID rebuilds the dotted code from an identifier without dots.
// Returns false if the identifier length does not belong to any level.
func CodeFromID(id string) (string, bool) {
	if strings.Contains(id, ".") {
		return "", false
	}
	for level, l := range levelLayouts {
		if level == MinLevel {
			if len(id) == l.codeLen {
				return id, true
			}
			continue
		}
		if len(id) == l.codeLen-1 {
			return id[:separatorOffset] + "." + id[separatorOffset:], true
		}
	}
	return "", false
}
