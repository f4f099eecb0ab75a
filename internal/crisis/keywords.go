package crisis

// DefaultWeight is used for keywords that only signal presence.
const DefaultWeight = 0.9

// Keyword is a crisis phrase and the severity it contributes when matched.
type Keyword struct {
	Phrase string  `json:"phrase"`
	Weight float64 `json:"weight"`
}

func presence(phrases ...string) []Keyword {
	out := make([]Keyword, len(phrases))
	for i, p := range phrases {
		out[i] = Keyword{Phrase: p, Weight: DefaultWeight}
	}
	return out
}

// DefaultKeywords is the weighted table; order is preserved in matches.
var DefaultKeywords = presence(
	"kill myself", "suicide", "want to die", "no point living",
	"end it all", "hurt myself", "self harm", "overdose",
	"jump", "harm", "death", "dying", "dead",
)

type Resource struct {
	Name   string `json:"name"`
	Number string `json:"number,omitempty"`
	URL    string `json:"url"`
}

var Resources = []Resource{
	{Name: "National Suicide Prevention Lifeline", Number: "988", URL: "https://suicidepreventionlifeline.org"},
	{Name: "Crisis Text Line", Number: "Text HOME to 741741", URL: "https://www.crisistextline.org"},
	{Name: "International Association for Suicide Prevention", URL: "https://www.iasp.info/resources/Crisis_Centres/"},
}

var RelaxationTips = []string{
	"Try deep breathing: inhale for 4 counts, hold for 4, exhale for 4",
	"Progressive muscle relaxation: tense and release each muscle group",
	"5-4-3-2-1 grounding: name 5 things you see, 4 you touch, 3 you hear, 2 you smell, 1 you taste",
	"Take a short walk in nature",
	"Listen to calming music",
	"Practice meditation",
	"Drink a warm beverage",
	"Journal your thoughts and feelings",
	"Do a gentle yoga routine",
	"Spend time with a pet",
}

var MentalHealthResources = []string{
	"Psychology Today: https://www.psychologytoday.com",
	"NAMI (National Alliance on Mental Illness): https://www.nami.org",
	"Mental Health America: https://www.mhanational.org",
	"SAMHSA National Helpline: 1-800-662-4357",
}
