package sentiment

// Phrase lists used by the detector. Crisis and self-harm lists are matched by
// containment; the mental-state lists are matched on word boundaries.
var (
	CrisisPhrases = []string{
		"i want to hurt myself",
		"i want to die",
		"i'm suicidal",
		"i am suicidal",
		"suicidal thoughts",
		"suicide",
		"kill myself",
		"end my life",
		"no point living",
		"life not worth living",
		"better off dead",
		"don't want to live",
		"wish i was dead",
	}

	SelfHarmKeywords = []string{
		"cutting myself",
		"self-harm",
		"self harm",
		"overdose",
		"hanging",
		"jumping off",
		"drowning",
		"slitting wrists",
		"razor blade",
		"cutting",
		"harming myself",
		"hurt myself",
	}

	StressKeywords = []string{
		"stressed", "anxious", "anxiety", "worried", "nervous",
		"overwhelmed", "panic", "panicking", "afraid", "scared", "tension",
		"tense", "uneasy", "agitated", "frantic",
	}

	DepressionKeywords = []string{
		"depressed", "depression", "sad", "sadness", "unhappy",
		"hopeless", "hopelessness", "worthless", "empty", "meaningless", "lost",
		"gloomy", "melancholy", "miserable", "down", "low",
	}

	PositiveKeywords = []string{
		"happy", "joyful", "good", "great", "wonderful", "amazing",
		"grateful", "blessed", "hopeful", "confident", "peaceful",
		"excited", "proud", "loved", "supported",
	}
)
