package standings

import (
	"championship/internal/domain"
	"cmp"
	"slices"
)

// FoldTeams sums driver summaries into their current team. DriverCount is the
// number of distinct drivers either assigned to the team or scoring for it.
// Teams with no drivers and no points are dropped.
func FoldTeams(summaries []domain.DriverSummary, rosters []domain.TeamRoster) []domain.TeamSummary {
	teams := make(map[int64]*domain.TeamSummary)
	members := make(map[int64]map[int64]struct{})

	team := func(id int64, name string) *domain.TeamSummary {
		t, ok := teams[id]
		if !ok {
			t = &domain.TeamSummary{TeamID: id, Name: name}
			teams[id] = t
			members[id] = make(map[int64]struct{})
		}
		return t
	}

	for _, r := range rosters {
		team(r.Team.ID, r.Team.Name)
		for _, driverID := range r.DriverIDs {
			members[r.Team.ID][driverID] = struct{}{}
		}
	}

	for _, s := range summaries {
		if s.TeamID == nil {
			continue
		}
		name := ""
		if s.TeamName != nil {
			name = *s.TeamName
		}
		t := team(*s.TeamID, name)
		t.TotalPoints += s.TotalPoints
		t.Wins += s.Wins
		t.Poles += s.Poles
		t.FastestLaps += s.FastestLaps
		members[*s.TeamID][s.DriverID] = struct{}{}
	}

	out := make([]domain.TeamSummary, 0, len(teams))
	for id, t := range teams {
		t.DriverCount = len(members[id])
		if t.DriverCount == 0 && t.TotalPoints == 0 {
			continue
		}
		out = append(out, *t)
	}
	slices.SortFunc(out, func(a, b domain.TeamSummary) int {
		return cmp.Compare(a.TeamID, b.TeamID)
	})
	return out
}
