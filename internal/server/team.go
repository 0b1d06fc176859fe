package server

import (
	"fmt"
	"strings"

	"github.com/soyeahso/dugout/internal/domain"
)

// member is a built-in agent together with what it is asked to do.
type member struct {
	agent    domain.Agent
	method   string
	preamble string
	prompt   string // fmt template with one %s for the input
}

func (m member) request(input string) string {
	return fmt.Sprintf(m.prompt, input)
}

// team is the built-in roster in catalog order.
var team = []member{
	{
		agent: domain.Agent{
			ID:          "head_coach",
			Name:        "Head Coach",
			Role:        "Strategic Planning & Team Guidance",
			Description: "Plans strategies, analyzes opponents, and guides the team",
			Icon:        "🎯",
			Color:       domain.ColorBlue,
			Capabilities: []string{
				"Match Strategy Planning",
				"Opponent Analysis",
				"Team Motivation",
				"Game Plan Development",
			},
		},
		method: "plan_strategy",
		preamble: `You are the Head Coach of a cricket team. Your role is to:
- Plan strategies for matches
- Analyze opponent teams
- Guide and motivate players
- Provide comprehensive game plans`,
		prompt: "Plan a strategy for this match: %s",
	},
	{
		agent: domain.Agent{
			ID:          "batting_coach",
			Name:        "Batting Coach",
			Role:        "Batting Excellence",
			Description: "Improves batting performance and provides training routines",
			Icon:        "🏏",
			Color:       domain.ColorGreen,
			Capabilities: []string{
				"Technique Improvement",
				"Training Drills",
				"Weakness Analysis",
				"Performance Enhancement",
			},
		},
		method: "train_batting",
		preamble: `You are the Batting Coach. Your role is to:
- Improve batting techniques
- Suggest training drills
- Analyze batting weaknesses and strengths`,
		prompt: "Provide batting training and improvement tips for: %s",
	},
	{
		agent: domain.Agent{
			ID:          "bowling_coach",
			Name:        "Bowling Coach",
			Role:        "Bowling Mastery",
			Description: "Analyzes bowling performance and provides expert coaching",
			Icon:        "⚡",
			Color:       domain.ColorRed,
			Capabilities: []string{
				"Performance Analysis",
				"Skill Development",
				"Strategy Design",
				"Technical Guidance",
			},
		},
		method: "train_bowling",
		preamble: `You are the Bowling Coach. Your role is to:
- Analyze bowling performance
- Suggest improvement drills
- Develop bowling strategies`,
		prompt: "Provide bowling training and improvement tips for: %s",
	},
	{
		agent: domain.Agent{
			ID:          "head_physio",
			Name:        "Head Physio",
			Role:        "Health & Fitness",
			Description: "Monitors fitness, recovery and injury prevention",
			Icon:        "💪",
			Color:       domain.ColorPurple,
			Capabilities: []string{
				"Fitness Assessment",
				"Injury Prevention",
				"Recovery Plans",
				"Health Monitoring",
			},
		},
		method: "provide_fitness_plan",
		preamble: `You are the Head Physio. Your role is to:
- Assess player fitness
- Suggest injury prevention and recovery plans
- Monitor health status of players`,
		prompt: "Provide fitness, recovery, and injury prevention plan for: %s",
	},
	{
		agent: domain.Agent{
			ID:          "player",
			Name:        "Player",
			Role:        "Performance Execution",
			Description: "Executes skills and reports performance feedback",
			Icon:        "👤",
			Color:       domain.ColorOrange,
			Capabilities: []string{
				"Skill Execution",
				"Performance Reporting",
				"Training Feedback",
				"Self-Assessment",
			},
		},
		method: "report_performance",
		preamble: `You are a cricket player. Your role is to:
- Execute batting, bowling, and fielding skills
- Report personal performance
- Provide feedback on training`,
		prompt: "Report performance, improvements, and feedback for: %s",
	},
}

func findMember(id string) (member, bool) {
	for _, m := range team {
		if m.agent.ID == id {
			return m, true
		}
	}
	return member{}, false
}

// customMember wraps a user-defined agent; it answers the raw input.
func customMember(a domain.Agent) member {
	var caps strings.Builder
	for _, c := range a.Capabilities {
		caps.WriteString("- " + c + "\n")
	}
	return member{
		agent:  a,
		method: "execute",
		preamble: fmt.Sprintf(`You are %s, a %s.

Description: %s

Your capabilities include:
%s
Respond to user queries based on your role and capabilities.`, a.Name, a.Role, a.Description, caps.String()),
		prompt: "%s",
	}
}
