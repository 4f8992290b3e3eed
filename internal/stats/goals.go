package stats

import (
	"math"

	"github.com/keydrill-dev/keydrill/internal/model"
)

// GoalProgress is the percentage of one goal achieved, capped at 100.
// A non-positive goal yields 0 rather than dividing by zero.
func GoalProgress(achieved, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	return math.Min(100, achieved/goal*100)
}

// Suggestions proposes raised goals once the current averages clear
// the configured targets. Zero-valued fields mean no suggestion.
type Suggestions struct {
	WPMGoal         float64
	AccuracyGoal    float64
	TimeGoalMinutes float64
}

// SuggestGoals computes dynamic goal-increase proposals. WPM rounds up
// to the next multiple of 10, practice time to the next multiple of 5
// minutes, and accuracy adds at most 5 points without crossing 100.
func SuggestGoals(g model.Goals, avgWPM, avgAccuracy, dailyMinutes float64) Suggestions {
	var s Suggestions
	if g.WPMGoal > 0 && avgWPM > g.WPMGoal {
		s.WPMGoal = math.Floor(avgWPM/10)*10 + 10
	}
	if g.TimeGoalMinutes > 0 && dailyMinutes > g.TimeGoalMinutes {
		s.TimeGoalMinutes = math.Floor(dailyMinutes/5)*5 + 5
	}
	if g.AccuracyGoal > 0 && avgAccuracy >= g.AccuracyGoal {
		bump := math.Min(5, 100-g.AccuracyGoal)
		if bump > 0 {
			s.AccuracyGoal = g.AccuracyGoal + bump
		}
	}
	return s
}

// Achieved reports which goals the filtered averages satisfy. WPM and
// time require strictly beating the goal; accuracy only has to meet
// it. The asymmetry matches the observed product behavior.
type Achieved struct {
	WPM      bool
	Accuracy bool
	Time     bool
}

// GoalsAchieved evaluates the goal badges.
func GoalsAchieved(g model.Goals, avgWPM, avgAccuracy, dailyMinutes float64) Achieved {
	return Achieved{
		WPM:      g.WPMGoal > 0 && avgWPM > g.WPMGoal,
		Accuracy: g.AccuracyGoal > 0 && avgAccuracy >= g.AccuracyGoal,
		Time:     g.TimeGoalMinutes > 0 && dailyMinutes > g.TimeGoalMinutes,
	}
}

// StarRating scores one session on a 1..5 scale. Accuracy carries 60%
// of the weight capped at the goal; speed carries 40% capped at 120%
// of the goal so a fast sloppy run cannot inflate the score.
func StarRating(wpm, accuracy float64, g model.Goals) int {
	if g.WPMGoal <= 0 || g.AccuracyGoal <= 0 {
		return 1
	}
	accPart := math.Min(accuracy/g.AccuracyGoal, 1.0) * 0.6 * 5
	wpmPart := math.Min(wpm/g.WPMGoal, 1.2) * 0.4 * 5
	stars := int(math.Round(accPart + wpmPart))
	if stars < 1 {
		stars = 1
	}
	if stars > 5 {
		stars = 5
	}
	return stars
}
