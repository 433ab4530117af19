package standings

import (
	"championship/internal/domain"
	"cmp"
	"slices"
	"strings"
)

// Key is what the ranker compares. ID only separates entries whose points,
// wins and names are all equal.
type Key struct {
	Points int
	Wins   int
	Name   string
	ID     int64
}

func DriverKey(s domain.DriverSummary) Key {
	return Key{Points: s.TotalPoints, Wins: s.Wins, Name: s.Name, ID: s.DriverID}
}

func TeamKey(s domain.TeamSummary) Key {
	return Key{Points: s.TotalPoints, Wins: s.Wins, Name: s.Name, ID: s.TeamID}
}

// Rank orders summaries by points desc, wins desc, then name asc ignoring
// case, and numbers them 1..n. The input slice is left untouched.
func Rank[T any](summaries []T, key func(T) Key) []domain.StandingsEntry[T] {
	items := make([]keyed[T], len(summaries))
	for i, s := range summaries {
		items[i] = keyed[T]{key: key(s), summary: s}
	}

	slices.SortFunc(items, func(a, b keyed[T]) int {
		return compareKeys(a.key, b.key)
	})

	entries := make([]domain.StandingsEntry[T], len(items))
	for i, item := range items {
		entries[i] = domain.StandingsEntry[T]{Rank: i + 1, Summary: item.summary}
	}
	return entries
}

type keyed[T any] struct {
	key     Key
	summary T
}

func compareKeys(a, b Key) int {
	if c := cmp.Compare(b.Points, a.Points); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
		return c
	}
	if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
