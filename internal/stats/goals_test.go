package stats

import (
	"testing"

	"github.com/keydrill-dev/keydrill/internal/model"
)

func TestGoalProgress(t *testing.T) {
	if got := GoalProgress(30, 60); got != 50 {
		t.Fatalf("expected 50%%, got %v", got)
	}
	if got := GoalProgress(90, 60); got != 100 {
		t.Fatalf("overshoot must cap at 100, got %v", got)
	}
	if got := GoalProgress(30, 0); got != 0 {
		t.Fatalf("zero goal must yield 0, got %v", got)
	}
	if got := GoalProgress(30, -5); got != 0 {
		t.Fatalf("negative goal must yield 0, got %v", got)
	}
}

func TestSuggestGoals(t *testing.T) {
	g := model.Goals{WPMGoal: 40, AccuracyGoal: 95, TimeGoalMinutes: 15}

	s := SuggestGoals(g, 47, 96, 18)
	if s.WPMGoal != 50 {
		t.Fatalf("47 avg WPM should suggest 50, got %v", s.WPMGoal)
	}
	if s.TimeGoalMinutes != 20 {
		t.Fatalf("18 daily minutes should suggest 20, got %v", s.TimeGoalMinutes)
	}
	if s.AccuracyGoal != 100 {
		t.Fatalf("95 goal should suggest 100, got %v", s.AccuracyGoal)
	}

	// Averages below the goals suggest nothing.
	s = SuggestGoals(g, 35, 90, 10)
	if s != (Suggestions{}) {
		t.Fatalf("expected no suggestions, got %+v", s)
	}

	// An accuracy goal already at 100 has no headroom.
	g.AccuracyGoal = 100
	s = SuggestGoals(g, 35, 100, 10)
	if s.AccuracyGoal != 0 {
		t.Fatalf("accuracy suggestion must not exceed 100, got %v", s.AccuracyGoal)
	}

	// Exactly meeting the WPM goal is not enough to raise it.
	g = model.Goals{WPMGoal: 40}
	s = SuggestGoals(g, 40, 0, 0)
	if s.WPMGoal != 0 {
		t.Fatalf("meeting the WPM goal exactly must not suggest, got %v", s.WPMGoal)
	}
}

func TestGoalsAchieved(t *testing.T) {
	g := model.Goals{WPMGoal: 40, AccuracyGoal: 95, TimeGoalMinutes: 15}

	// WPM and time need a strict beat; accuracy only has to meet.
	a := GoalsAchieved(g, 40, 95, 15)
	if a.WPM {
		t.Fatalf("WPM badge must require strictly beating the goal")
	}
	if a.Time {
		t.Fatalf("time badge must require strictly beating the goal")
	}
	if !a.Accuracy {
		t.Fatalf("accuracy badge must light up on an exact meet")
	}

	a = GoalsAchieved(g, 41, 94.99, 15.5)
	if !a.WPM || !a.Time {
		t.Fatalf("expected WPM and time badges, got %+v", a)
	}
	if a.Accuracy {
		t.Fatalf("accuracy below goal must not light the badge")
	}

	if a := GoalsAchieved(model.Goals{}, 100, 100, 100); a != (Achieved{}) {
		t.Fatalf("unset goals must never be achieved, got %+v", a)
	}
}

func TestStarRating(t *testing.T) {
	g := model.Goals{WPMGoal: 40, AccuracyGoal: 95}

	// Hitting both goals exactly is a perfect 5.
	if got := StarRating(40, 95, g); got != 5 {
		t.Fatalf("expected 5 stars at goal, got %d", got)
	}
	// A dreadful session still scores at least 1.
	if got := StarRating(0, 0, g); got != 1 {
		t.Fatalf("expected floor of 1 star, got %d", got)
	}
	// Overshooting speed cannot push past 5.
	if got := StarRating(200, 100, g); got != 5 {
		t.Fatalf("expected ceiling of 5 stars, got %d", got)
	}
	// Half the accuracy goal and no speed lands midway.
	if got := StarRating(20, 47.5, g); got < 1 || got > 5 {
		t.Fatalf("rating out of range: %d", got)
	}
	// Unset goals degrade to 1 star rather than dividing by zero.
	if got := StarRating(60, 99, model.Goals{}); got != 1 {
		t.Fatalf("expected 1 star with unset goals, got %d", got)
	}
}
