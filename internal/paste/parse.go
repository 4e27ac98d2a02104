// Package paste turns freeform pasted roster text (spreadsheet or
// word-processor table copies) into ordered student drafts. The input
// layout is auto-detected; there is no configuration flag. Parsing is pure
// and deterministic, and malformed lines are dropped silently: the caller
// only sees the aggregate result.
package paste

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/dayoon-dev/homeroom-api/internal/models"
)

// Parse extracts drafts from text. The decision procedure is:
//
//  1. split into trimmed, non-empty lines;
//  2. detect the alternating number/name layout and, if detected, pair the
//     whole input without consulting the delimiter rules;
//  3. otherwise parse each line on tabs (falling back to whitespace runs);
//  4. drop drafts whose name is empty or purely numeric;
//  5. stable-sort ascending by number, preserving input order on ties.
func Parse(text string) []models.StudentDraft {
	lines := splitLines(text)
	if len(lines) == 0 {
		return []models.StudentDraft{}
	}

	var drafts []models.StudentDraft
	if detectAlternating(lines) {
		drafts = extractAlternating(lines)
	} else {
		drafts = extractDelimited(lines)
	}

	kept := make([]models.StudentDraft, 0, len(drafts))
	for _, d := range drafts {
		if d.Name == "" || isDigits(d.Name) {
			continue
		}
		kept = append(kept, d)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Number < kept[j].Number
	})
	return kept
}

// Renumber drops blank-name drafts and reassigns numbers to a dense 1..N
// sequence in number order. Used to normalize a manually edited list.
func Renumber(drafts []models.StudentDraft) []models.StudentDraft {
	kept := make([]models.StudentDraft, 0, len(drafts))
	for _, d := range drafts {
		if strings.TrimSpace(d.Name) == "" {
			continue
		}
		kept = append(kept, d)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Number < kept[j].Number
	})
	for i := range kept {
		kept[i].Number = i + 1
	}
	return kept
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// detectAlternating reports whether the input is a strict number/name
// alternation. With at least 4 lines, the first 3 (odd,even) pairs are
// inspected; a pair matches when the first line is purely digits and the
// second contains at least one letter without being purely numeric. Two
// matching pairs commit the whole input to the alternating layout.
func detectAlternating(lines []string) bool {
	if len(lines) < 4 {
		return false
	}
	matches := 0
	for i := 0; i+1 < len(lines) && i < 6; i += 2 {
		if isDigits(lines[i]) && hasLetter(lines[i+1]) && !isDigits(lines[i+1]) {
			matches++
		}
	}
	return matches >= 2
}

func extractAlternating(lines []string) []models.StudentDraft {
	var drafts []models.StudentDraft
	for i := 0; i+1 < len(lines); i += 2 {
		number, err := strconv.Atoi(lines[i])
		if err != nil {
			continue
		}
		name := lines[i+1]
		if name == "" || isDigits(name) {
			continue
		}
		drafts = append(drafts, models.StudentDraft{Number: number, Name: name, Gender: models.GenderUnknown})
	}
	return drafts
}

func extractDelimited(lines []string) []models.StudentDraft {
	var drafts []models.StudentDraft
	auto := 1
	for _, line := range lines {
		tokens := splitTokens(line)
		if len(tokens) == 0 {
			continue
		}

		var draft models.StudentDraft
		if len(tokens) >= 2 {
			if number, ok := rosterNumber(tokens[0]); ok {
				draft.Number = number
				draft.Name = tokens[1]
				if len(tokens) >= 3 {
					draft.Gender = genderOf(tokens[2])
				}
			} else {
				draft.Number = auto
				auto++
				if g := genderOf(tokens[1]); g != models.GenderUnknown {
					draft.Name = tokens[0]
					draft.Gender = g
				} else {
					draft.Name = strings.Join(tokens, " ")
				}
			}
		} else {
			// A lone in-range number is a stray: a roster position whose
			// name line never arrived.
			if _, ok := rosterNumber(tokens[0]); ok {
				continue
			}
			draft.Number = auto
			auto++
			draft.Name = tokens[0]
		}
		drafts = append(drafts, draft)
	}
	return drafts
}

// splitTokens splits on tabs first; a line with no tabs is re-split on
// whitespace runs instead.
func splitTokens(line string) []string {
	var tokens []string
	for _, tok := range strings.Split(line, "\t") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) == 1 {
		tokens = strings.Fields(line)
	}
	return tokens
}

// rosterNumber parses an explicit roster position, valid in 1..99.
func rosterNumber(token string) (int, bool) {
	n, err := strconv.Atoi(token)
	if err != nil || n <= 0 || n > 99 {
		return 0, false
	}
	return n, true
}

func genderOf(token string) string {
	switch strings.ToUpper(token) {
	case "M", "남", "남자":
		return models.GenderMale
	case "F", "여", "여자":
		return models.GenderFemale
	default:
		return models.GenderUnknown
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
