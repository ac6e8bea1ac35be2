package habit

// Suggestion is a ready-made habit the user can adopt with one call.
type Suggestion struct {
	ID string `json:"id"`
	NewHabit
}

var suggestions = []Suggestion{
	{ID: "morning-routine", NewHabit: NewHabit{
		Title: "Morning Routine", Description: "Start your day with a consistent morning routine",
		Category: "Productivity", Frequency: Daily, Icon: "🌅", Color: "bg-orange-500",
	}},
	{ID: "exercise", NewHabit: NewHabit{
		Title: "Daily Exercise", Description: "30 minutes of physical activity",
		Category: "Health", Frequency: Daily, Icon: "💪", Color: "bg-green-500",
	}},
	{ID: "reading", NewHabit: NewHabit{
		Title: "Read for 30 minutes", Description: "Read books, articles, or learning materials",
		Category: "Learning", Frequency: Daily, Icon: "📚", Color: "bg-blue-500",
	}},
	{ID: "meditation", NewHabit: NewHabit{
		Title: "Meditation", Description: "10 minutes of mindfulness or meditation",
		Category: "Wellness", Frequency: Daily, Icon: "🧘", Color: "bg-purple-500",
	}},
	{ID: "water-intake", NewHabit: NewHabit{
		Title: "Drink 8 glasses of water", Description: "Stay hydrated throughout the day",
		Category: "Health", Frequency: Daily, Icon: "💧", Color: "bg-cyan-500",
	}},
	{ID: "gratitude", NewHabit: NewHabit{
		Title: "Gratitude Journal", Description: "Write down 3 things you're grateful for",
		Category: "Wellness", Frequency: Daily, Icon: "🙏", Color: "bg-pink-500",
	}},
	{ID: "skill-practice", NewHabit: NewHabit{
		Title: "Practice a Skill", Description: "Dedicate time to learning or practicing a skill",
		Category: "Learning", Frequency: Daily, Icon: "🎯", Color: "bg-indigo-500",
	}},
	{ID: "planning", NewHabit: NewHabit{
		Title: "Plan Tomorrow", Description: "Review and plan tasks for the next day",
		Category: "Productivity", Frequency: Daily, Icon: "📅", Color: "bg-gray-500",
	}},
}

// Suggestions returns the built-in habit suggestions.
func Suggestions() []Suggestion {
	out := make([]Suggestion, len(suggestions))
	copy(out, suggestions)
	return out
}

func suggestion(id string) (Suggestion, bool) {
	for _, s := range suggestions {
		if s.ID == id {
			return s, true
		}
	}
	return Suggestion{}, false
}
