package missions

// DefaultMissions returns the built-in mission definitions
func DefaultMissions() []Definition {
	return []Definition{
		{
			ID:                  "covid_crash",
			Title:               "The Covid Crash",
			Symbol:              "SPY",
			StartDate:           "2020-02-15",
			DurationDays:        60,
			TargetReturnPercent: 5,
			Difficulty:          DifficultyEasy,
			Description:         "The world is entering lockdown. Markets are panic selling. Can you time the bottom and still finish in profit?",
		},
		{
			ID:                  "tech_bubble",
			Title:               "The 2021 Tech Rally",
			Symbol:              "TSLA",
			StartDate:           "2020-11-01",
			DurationDays:        45,
			TargetReturnPercent: 15,
			Difficulty:          DifficultyMedium,
			Description:         "EV mania is taking over. The trend is your friend. Ride the wave of liquidity without crashing.",
		},
		{
			ID:                  "inflation_fight",
			Title:               "Inflation Fighter",
			Symbol:              "GLD",
			StartDate:           "2022-01-01",
			DurationDays:        90,
			TargetReturnPercent: 8,
			Difficulty:          DifficultyHard,
			Description:         "Inflation is skyrocketing and tech stocks are crashing. Find safety in gold and preserve capital.",
		},
	}
}
