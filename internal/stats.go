package internal

import (
	"sort"
	"time"

	"lockdin/internal/db"
	"lockdin/internal/easterntime"
)

// Point awards. A completed task is worth both.
const (
	TaskCreatedPoints   = 25
	TaskCompletedPoints = 25

	pointsPerLevel = 100
)

// Progress describes a user's level derived from their point total
type Progress struct {
	Points             int
	Level              int
	XPToNextLevel      int
	ProgressPercentage float64
	Healthy            bool
}

// CalculateProgress derives level and progress from a point total
func CalculateProgress(points int) Progress {
	if points < 0 {
		points = 0
	}
	level := 1 + points/pointsPerLevel
	ceiling := level * pointsPerLevel
	xpToNext := ceiling - points
	pct := float64(ceiling-xpToNext) / float64(ceiling) * 100

	return Progress{
		Points:             points,
		Level:              level,
		XPToNextLevel:      xpToNext,
		ProgressPercentage: pct,
		Healthy:            pct > 20,
	}
}

// civilDate is an Eastern calendar day
type civilDate struct {
	year  int
	month time.Month
	day   int
}

func easternDate(t time.Time) civilDate {
	l := easterntime.UTCToLocal(t)
	return civilDate{l.Year, l.Month, l.Day}
}

func (d civilDate) prev() civilDate {
	t := time.Date(d.year, d.month, d.day-1, 0, 0, 0, 0, time.UTC)
	return civilDate{t.Year(), t.Month(), t.Day()}
}

// CurrentStreak counts consecutive Eastern calendar days with at least one
// completed task, ending today or yesterday.
func CurrentStreak(completions []time.Time, now time.Time) int {
	days := make(map[civilDate]bool, len(completions))
	for _, c := range completions {
		days[easternDate(c)] = true
	}

	d := easternDate(now)
	if !days[d] {
		d = d.prev()
	}

	streak := 0
	for days[d] {
		streak++
		d = d.prev()
	}
	return streak
}

// RankedEntry is a leaderboard row with its rank
type RankedEntry struct {
	Rank int
	db.LeaderboardRow
}

// RankLeaderboard orders rows by points (ties by username) and assigns
// competition ranks: equal points share a rank and the next rank skips.
func RankLeaderboard(rows []db.LeaderboardRow) []RankedEntry {
	sorted := make([]db.LeaderboardRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Points != sorted[j].Points {
			return sorted[i].Points > sorted[j].Points
		}
		return sorted[i].Username < sorted[j].Username
	})

	ranked := make([]RankedEntry, len(sorted))
	for i, row := range sorted {
		rank := i + 1
		if i > 0 && row.Points == sorted[i-1].Points {
			rank = ranked[i-1].Rank
		}
		ranked[i] = RankedEntry{Rank: rank, LeaderboardRow: row}
	}
	return ranked
}
