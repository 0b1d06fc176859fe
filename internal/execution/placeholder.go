package execution

const (
	matchPlaceholder   = `Enter match information (e.g., "Match against Mumbai Indians")`
	playerPlaceholder  = `Enter player name (e.g., "Virat Kohli")`
	defaultPlaceholder = "Enter your input..."
)

// Placeholder returns the input hint for an agent.
func Placeholder(agentID string) string {
	switch agentID {
	case "head_coach":
		return matchPlaceholder
	case "batting_coach", "bowling_coach", "head_physio", "player":
		return playerPlaceholder
	default:
		return defaultPlaceholder
	}
}
