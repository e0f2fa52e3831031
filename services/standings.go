package services

import (
	"sort"

	"github.com/gobanhq/tournament-server/models"
)

// ComputeStandings builds the standings table from decided matches. One
// game point per won game (byes included once a result is recorded).
// Ordering: game points, then wins, then the externally maintained player
// score, then name for a stable table. Pure — safe to call on any snapshot.
func ComputeStandings(players []models.Player, rounds []models.Round) []models.StandingRow {
	index := make(map[int]*models.StandingRow, len(players))
	for i := range players {
		index[players[i].ID] = &models.StandingRow{
			Player: players[i],
			Score:  players[i].Score,
		}
	}

	for _, round := range rounds {
		for _, match := range round.Matches {
			if match.WinnerID == nil {
				continue
			}
			winner := index[*match.WinnerID]
			if winner == nil {
				continue
			}
			winner.Wins++
			winner.GamePoints++
			for _, id := range match.Participants() {
				if id == *match.WinnerID {
					continue
				}
				if loser := index[id]; loser != nil {
					loser.Losses++
				}
			}
		}
	}

	rows := make([]models.StandingRow, 0, len(players))
	for i := range players {
		rows = append(rows, *index[players[i].ID])
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].GamePoints != rows[j].GamePoints {
			return rows[i].GamePoints > rows[j].GamePoints
		}
		if rows[i].Wins != rows[j].Wins {
			return rows[i].Wins > rows[j].Wins
		}
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].Player.Name < rows[j].Player.Name
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
