package interview

// DefaultTimeLimit applies to a difficulty missing from the time-limit table.
const DefaultTimeLimit = 30

// Question is one interview prompt with its answer time limit in seconds.
type Question struct {
	Text       string     `json:"text"`
	Difficulty Difficulty `json:"difficulty"`
	Time       int        `json:"time"`
}

// TimeLimits maps each difficulty tier to the seconds allowed to answer.
type TimeLimits struct {
	Easy   int
	Medium int
	Hard   int
}

func DefaultTimeLimits() TimeLimits {
	return TimeLimits{Easy: 20, Medium: 60, Hard: 120}
}

func (t TimeLimits) For(d Difficulty) int {
	switch d {
	case Easy:
		return t.Easy
	case Medium:
		return t.Medium
	case Hard:
		return t.Hard
	default:
		return DefaultTimeLimit
	}
}

// Plan returns the difficulty of each question of an interview with
// perTier questions per tier, easiest first.
func Plan(perTier int) []Difficulty {
	plan := make([]Difficulty, 0, 3*max(perTier, 0))
	for _, d := range []Difficulty{Easy, Medium, Hard} {
		for i := 0; i < perTier; i++ {
			plan = append(plan, d)
		}
	}
	return plan
}

// StaticQuestions is the fixed six-question React interview served when no
// generator is involved.
func StaticQuestions(limits TimeLimits) []Question {
	static := []struct {
		text string
		d    Difficulty
	}{
		{"Explain React hooks and their benefits.", Easy},
		{"What is Redux and when would you use it?", Easy},
		{"Explain the Virtual DOM and reconciliation.", Medium},
		{"How do you optimize React performance?", Medium},
		{"Implement a dynamic form with validation in React.", Hard},
		{"How would you architect a scalable full-stack application?", Hard},
	}

	questions := make([]Question, 0, len(static))
	for _, q := range static {
		questions = append(questions, Question{Text: q.text, Difficulty: q.d, Time: limits.For(q.d)})
	}
	return questions
}

// FallbackPool returns the canned questions used when generation fails for
// tier d.
func FallbackPool(d Difficulty) []string {
	switch d {
	case Easy:
		return []string{
			"What are React components and how do they work?",
			"Explain the difference between state and props in React.",
		}
	case Medium:
		return []string{
			"How does React's useEffect hook work?",
			"Explain the concept of lifting state up in React.",
		}
	case Hard:
		return []string{
			"Design a custom hook for data fetching with caching.",
			"Explain React's reconciliation algorithm and fiber architecture.",
		}
	default:
		return []string{"Explain React state management."}
	}
}
