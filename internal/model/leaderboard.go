package model

import "time"

type Entry struct {
	ID            string
	UserID        string
	ReferralCount int
}

// RankedEntry is an Entry annotated with its position in a fetched snapshot.
// Rank is never stored.
type RankedEntry struct {
	Entry
	Rank int
}

type Snapshot struct {
	Entries   []RankedEntry
	FetchedAt time.Time
}

func (s Snapshot) Find(id string) (RankedEntry, bool) {
	for _, e := range s.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return RankedEntry{}, false
}

func (s Snapshot) Len() int {
	return len(s.Entries)
}
