package domain

func intp(v int) *int { return &v }

// DefaultXPConfig returns the built-in rule configuration. A fresh
// install is seeded with it; the in-memory fallback store starts from it
// directly.
func DefaultXPConfig() XPConfig {
	return XPConfig{
		Levels: []Level{
			{ID: "lvl-1", LevelNumber: 1, Name: "Sparanfänger", Emoji: "🌱", XPRequired: 0},
			{ID: "lvl-2", LevelNumber: 2, Name: "Groschenzähler", Emoji: "🪙", XPRequired: 100},
			{ID: "lvl-3", LevelNumber: 3, Name: "Budgetplaner", Emoji: "📒", XPRequired: 300},
			{ID: "lvl-4", LevelNumber: 4, Name: "Sparfuchs", Emoji: "🦊", XPRequired: 600},
			{ID: "lvl-5", LevelNumber: 5, Name: "Zinsjäger", Emoji: "📈", XPRequired: 1000},
			{ID: "lvl-6", LevelNumber: 6, Name: "Finanzprofi", Emoji: "💼", XPRequired: 1600},
			{ID: "lvl-7", LevelNumber: 7, Name: "Vermögensmeister", Emoji: "💎", XPRequired: 2500},
			{ID: "lvl-8", LevelNumber: 8, Name: "Finanzlegende", Emoji: "👑", XPRequired: 4000},
		},
		EventTypes: []EventType{
			{ID: "evt-snap", Key: EventSnapCreated, Name: "Ausgabe erfasst", BaseXP: 20, Active: true},
			{ID: "evt-login", Key: EventDailyLogin, Name: "Täglicher Login", BaseXP: 10, Active: true, CooldownHours: intp(20)},
			{ID: "evt-streak7", Key: EventStreak7Bonus, Name: "7-Tage-Serie", BaseXP: 50, Active: true},
			{ID: "evt-goal", Key: EventGoalCreated, Name: "Sparziel angelegt", BaseXP: 30, Active: true, MaxPerUser: intp(10)},
			{ID: "evt-goal-done", Key: EventGoalCompleted, Name: "Sparziel erreicht", BaseXP: 100, Active: true},
			{ID: "evt-budget", Key: EventBudgetCreated, Name: "Budget angelegt", BaseXP: 25, Active: true, MaxPerUser: intp(10)},
		},
		EventRules: []EventRule{
			// Payday promotion: double XP for expenses captured on the 1st.
			{
				ID:          "rule-payday",
				EventTypeID: "evt-snap",
				Multiplier:  "2",
				Conditions:  RuleCondition{Kind: ConditionDayOfMonth, Day: 1},
				Active:      true,
			},
		},
	}
}
