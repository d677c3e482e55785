package main

// The quiz bank and the escape-hunt puzzle bank are fixed at compile time.
// Quiz answers are stored in canonical order with the correct option
// flagged; each round shuffles a copy before broadcast so the correct
// option is not always first.

type Answer struct {
	Text    string
	Correct bool
}

type Question struct {
	Text    string
	Answers []Answer
}

var questions = []Question{
	{
		Text: "What is the SI unit of force?",
		Answers: []Answer{
			{Text: "Newton (N)", Correct: true},
			{Text: "Joule (J)"},
			{Text: "Watt (W)"},
			{Text: "Pascal (Pa)"},
		},
	},
	{
		Text: "Which of Newton's Laws is also known as the 'Law of Inertia'?",
		Answers: []Answer{
			{Text: "First Law", Correct: true},
			{Text: "Second Law"},
			{Text: "Third Law"},
			{Text: "Law of Gravitation"},
		},
	},
	{
		Text: "What happens to the acceleration of an object if the force acting on it is doubled?",
		Answers: []Answer{
			{Text: "It doubles", Correct: true},
			{Text: "It halves"},
			{Text: "It remains the same"},
			{Text: "It becomes zero"},
		},
	},
	{
		Text: "Which of these is an example of balanced forces?",
		Answers: []Answer{
			{Text: "A book at rest on a table", Correct: true},
			{Text: "A ball rolling down a hill"},
			{Text: "A car speeding up"},
			{Text: "A rocket taking off"},
		},
	},
	{
		Text: "What is the relationship between force, mass, and acceleration according to Newton's Second Law?",
		Answers: []Answer{
			{Text: "F = m × a", Correct: true},
			{Text: "F = m + a"},
			{Text: "F = m / a"},
			{Text: "F = m - a"},
		},
	},
	{
		Text: "Which of these is an example of Newton's Third Law of Motion?",
		Answers: []Answer{
			{Text: "A swimmer pushing water backward and moving forward", Correct: true},
			{Text: "A ball rolling to a stop on the ground"},
			{Text: "A book sitting on a table"},
			{Text: "A car turning a corner"},
		},
	},
	{
		Text: "What is inertia?",
		Answers: []Answer{
			{Text: "The tendency of an object to resist changes in its state of motion", Correct: true},
			{Text: "The force that attracts objects to each other"},
			{Text: "The speed of an object in a particular direction"},
			{Text: "The energy an object has due to its motion"},
		},
	},
	{
		Text: "What is the net force acting on an object moving at constant velocity?",
		Answers: []Answer{
			{Text: "Zero", Correct: true},
			{Text: "Equal to its mass"},
			{Text: "Equal to its acceleration"},
			{Text: "Equal to its velocity"},
		},
	},
	{
		Text: "Which of these would have the greatest inertia?",
		Answers: []Answer{
			{Text: "A truck", Correct: true},
			{Text: "A bicycle"},
			{Text: "A baseball"},
			{Text: "A feather"},
		},
	},
	{
		Text: "What is the reaction force when you push against a wall?",
		Answers: []Answer{
			{Text: "The wall pushes back with equal force", Correct: true},
			{Text: "The wall doesn't push back"},
			{Text: "The wall pushes back with less force"},
			{Text: "The wall absorbs the force"},
		},
	},
}

const (
	puzzleMCQ      = "mcq"
	puzzleScenario = "scenario"
	puzzleMatch    = "match"
)

// Puzzle is one stage of the escape hunt. Exactly one of the answer
// encodings is populated, depending on Type: Answer indexes Options for
// mcq, AnswerText holds the canonical scenario answer, and Mapping maps
// each left index to its expected right index for match.
type Puzzle struct {
	Type       string
	Seconds    int
	Prompt     string
	Options    []string
	Answer     int
	AnswerText string
	Left       []string
	Right      []string
	Mapping    map[int]int
	Hint       string
}

var escapePuzzles = []Puzzle{
	{
		Type:    puzzleMCQ,
		Seconds: 25,
		Prompt:  "Which law is known as the Law of Inertia?",
		Options: []string{"First Law", "Second Law", "Third Law", "Universal Gravitation"},
		Answer:  0,
		Hint:    "Objects resist changes in motion.",
	},
	{
		Type:       puzzleScenario,
		Seconds:    25,
		Prompt:     "A cart accelerates at 'a' when a force F is applied to mass m. If mass doubles (2m) and force F is unchanged, the acceleration becomes? (type: a/2, a, 2a)",
		AnswerText: "a/2",
		Hint:       "F = m a ⇒ a = F/m",
	},
	{
		Type:    puzzleMCQ,
		Seconds: 25,
		Prompt:  "Action and reaction forces are equal and opposite and act on different bodies. Which law? ",
		Options: []string{"First", "Second", "Third"},
		Answer:  2,
		Hint:    "Think of rocket thrust vs exhaust.",
	},
	{
		Type:    puzzleMatch,
		Seconds: 30,
		Prompt:  "Match the law to the example",
		Left:    []string{"First Law", "Second Law", "Third Law"},
		Right:   []string{"Rocket launches", "Object at rest stays at rest", "F = m×a"},
		Mapping: map[int]int{0: 1, 1: 2, 2: 0},
		Hint:    "Try pairing the statement to each law.",
	},
	{
		Type:       puzzleScenario,
		Seconds:    20,
		Prompt:     "SI unit of force? (type the word)",
		AnswerText: "newton",
		Hint:       "Named after Isaac Newton",
	},
}
