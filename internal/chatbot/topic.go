package chatbot

import "strings"

const GeneralTopic = "general"

type topicKeywords struct {
	topic    string
	keywords []string
}

// topics is scanned in order; the first topic with any keyword contained in
// the message wins.
var topics = []topicKeywords{
	{"exam", []string{"exam", "test", "quiz", "midterm", "final", "exam score", "studied"}},
	{"job", []string{"job", "work", "interview", "boss", "colleague", "promotion", "fired", "resign", "workplace"}},
	{"relationship", []string{"girlfriend", "boyfriend", "wife", "husband", "partner", "spouse", "dating", "breakup", "relationship"}},
	{"family", []string{"mom", "dad", "parent", "mother", "father", "sibling", "brother", "sister", "family"}},
	{"health", []string{"sick", "illness", "disease", "pain", "hurt", "doctor", "hospital", "health"}},
	{"money", []string{"money", "debt", "financial", "broke", "bills", "rent", "mortgage"}},
	{"social", []string{"friends", "friend", "lonely", "alone", "social", "people", "community"}},
	{"school", []string{"school", "class", "grade", "teacher", "homework", "assignment"}},
}

func ExtractTopic(message string) string {
	lower := strings.ToLower(message)
	for _, t := range topics {
		for _, kw := range t.keywords {
			if strings.Contains(lower, kw) {
				return t.topic
			}
		}
	}
	return GeneralTopic
}

type emotionWords struct {
	emotion string
	words   []string
}

var emotionOverrides = []emotionWords{
	{"anxiety", []string{"anxious", "anxiety"}},
	{"sadness", []string{"sad", "sadness", "depressed"}},
	{"anger", []string{"angry", "frustrated"}},
	{"fear", []string{"scared", "afraid", "fear"}},
	{"joy", []string{"happy", "great", "excited"}},
}

// ResolveEmotion prefers the literal emotion words the user wrote over the
// classifier label. An empty label resolves to neutral.
func ResolveEmotion(detected, message string) string {
	lower := strings.ToLower(message)
	for _, o := range emotionOverrides {
		for _, w := range o.words {
			if strings.Contains(lower, w) {
				return o.emotion
			}
		}
	}
	if detected == "" {
		return "neutral"
	}
	return detected
}

// DedupeSentences drops repeated ". "-separated sentences, keeping the first
// occurrence, and ensures a trailing period.
func DedupeSentences(text string) string {
	parts := strings.Split(text, ". ")
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	res := strings.Join(out, ". ")
	if res != "" && !strings.HasSuffix(res, ".") {
		res += "."
	}
	return res
}
