// Package ranking assigns competition ranks ("1224") to leaderboard rows.
package ranking

import "referral_leaderboard/internal/model"

// Assign ranks entries that are already ordered by referral count, highest
// first. Tied counts share a rank and the next distinct count resumes at its
// 1-based position, so [10, 10, 5] ranks as [1, 1, 3].
func Assign(entries []model.Entry) []model.RankedEntry {
	ranked := make([]model.RankedEntry, len(entries))

	currentRank := 0
	prevCount := -1
	for i, entry := range entries {
		if entry.ReferralCount != prevCount {
			currentRank = i + 1
		}
		ranked[i] = model.RankedEntry{Entry: entry, Rank: currentRank}
		prevCount = entry.ReferralCount
	}

	return ranked
}

// Rerank discards existing ranks and assigns them again.
func Rerank(entries []model.RankedEntry) []model.RankedEntry {
	raw := make([]model.Entry, len(entries))
	for i, e := range entries {
		raw[i] = e.Entry
	}
	return Assign(raw)
}
