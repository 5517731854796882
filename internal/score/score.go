// Package score computes the gamified preparedness score shown on the
// dashboard. The achievement and level tables are fixed; progress is
// derived from the user's actual data.
package score

// Achievement is a fixed achievement definition with a numeric target.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Points      int    `json:"points"`
	Target      int    `json:"-"`
}

// Achievements is the fixed achievement table.
var Achievements = []Achievement{
	{
		ID:          "inventory-master",
		Title:       "Inventory Master",
		Description: "Maintain a well-organized inventory with at least 50 items",
		Points:      20,
		Target:      50,
	},
	{
		ID:          "community-leader",
		Title:       "Community Leader",
		Description: "Create and manage an active tract with 100+ members",
		Points:      25,
		Target:      100,
	},
	{
		ID:          "knowledge-seeker",
		Title:       "Knowledge Seeker",
		Description: "Bookmark and complete 10 resource guides",
		Points:      15,
		Target:      10,
	},
	{
		ID:          "first-responder",
		Title:       "First Responder",
		Description: "Complete all medical preparedness resources",
		Points:      30,
		Target:      0, // target is the user's medical resource total
	},
}

// levelThresholds maps levels to the points needed to reach them.
var levelThresholds = []int{0, 50, 100, 200, 350}

// Stats are the raw per-user counts the achievements are measured against.
type Stats struct {
	InventoryCount    int
	MaxTractMembers   int
	BookmarkedCount   int
	MedicalTotal      int
	MedicalBookmarked int
}

// Status is one achievement with the user's progress applied.
type Status struct {
	Achievement
	Progress  int  `json:"progress"`
	Completed bool `json:"completed"`
}

// Card is the full preparedness scorecard.
type Card struct {
	Points          int      `json:"points"`
	Level           int      `json:"level"`
	NextLevelPoints int      `json:"next_level_points"`
	LevelProgress   int      `json:"level_progress"`
	Achievements    []Status `json:"achievements"`
}

// progress returns current/target as a capped percentage.
func progress(current, target int) int {
	if target <= 0 {
		return 0
	}
	p := current * 100 / target
	if p > 100 {
		p = 100
	}
	return p
}

// Evaluate computes the scorecard for the given stats.
func Evaluate(stats Stats) Card {
	statuses := make([]Status, 0, len(Achievements))
	points := 0

	for _, a := range Achievements {
		var current, target int
		switch a.ID {
		case "inventory-master":
			current, target = stats.InventoryCount, a.Target
		case "community-leader":
			current, target = stats.MaxTractMembers, a.Target
		case "knowledge-seeker":
			current, target = stats.BookmarkedCount, a.Target
		case "first-responder":
			current, target = stats.MedicalBookmarked, stats.MedicalTotal
		}

		s := Status{
			Achievement: a,
			Progress:    progress(current, target),
			Completed:   target > 0 && current >= target,
		}
		if s.Completed {
			points += a.Points
		}
		statuses = append(statuses, s)
	}

	level := 1
	for i, threshold := range levelThresholds {
		if points >= threshold {
			level = i + 1
		}
	}

	prev := levelThresholds[level-1]
	next := prev
	if level < len(levelThresholds) {
		next = levelThresholds[level]
	}

	levelProgress := 100
	if next > prev {
		levelProgress = (points - prev) * 100 / (next - prev)
	}

	return Card{
		Points:          points,
		Level:           level,
		NextLevelPoints: next,
		LevelProgress:   levelProgress,
		Achievements:    statuses,
	}
}
