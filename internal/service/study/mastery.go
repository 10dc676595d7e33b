package study

import "github.com/nursewise/nursewise-backend/internal/domain"

// ClassifyMastery maps a correct-answer streak and recent rating history to
// a mastery level 0..5. Rules are evaluated highest level first; the first
// match wins.
//
// The recency bonus lets a strong recent run promote one tier early: it is
// granted when at least 3 of the last domain.QualityWindow ratings are
// perfect (quality 5). The window is fixed; older history never counts.
//
// Levels only move as the streak and history move, so a single lapse (which
// zeroes the streak) drops the level on the next classification.
func ClassifyMastery(consecutiveCorrect int, recentQualities []int) int {
	bonus := recencyBonus(recentQualities)

	switch {
	case consecutiveCorrect >= 8 || (consecutiveCorrect >= 6 && bonus):
		return 5
	case consecutiveCorrect >= 6 || (consecutiveCorrect >= 5 && bonus):
		return 4
	case consecutiveCorrect >= 4 || (consecutiveCorrect >= 3 && bonus):
		return 3
	case consecutiveCorrect >= 3:
		return 2
	case consecutiveCorrect >= 2:
		return 1
	default:
		return 0
	}
}

func recencyBonus(qualities []int) bool {
	if len(qualities) > domain.QualityWindow {
		qualities = qualities[len(qualities)-domain.QualityWindow:]
	}

	perfect := 0
	for _, q := range qualities {
		if q == 5 {
			perfect++
		}
	}
	return perfect >= 3
}
