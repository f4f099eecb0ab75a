package chatbot

var affirmations = map[string]string{
	"anxiety": "✓ Remember: It's okay to feel anxious. This feeling is temporary and manageable.",
	"sadness": "✓ Your feelings are valid. It's okay to grieve or feel down sometimes.",
	"anger":   "✓ Your anger is telling you something important. Listen to what it's saying.",
	"fear":    "✓ Fear is a natural protective emotion. It's okay to feel afraid.",
	"joy":     "✓ I'm genuinely happy for you. Keep nurturing these positive feelings!",
	"neutral": "✓ Thank you for opening up. We can work through this together.",
}

var groundings = map[string]string{
	"exam":         "💡 Focus on what you can control: your preparation, effort, and mindset.",
	"job":          "💡 Remember: Your job doesn't define your worth as a person.",
	"relationship": "💡 Healthy relationships require communication. Consider expressing how you feel.",
	"family":       "💡 Family relationships are complex. Be compassionate with yourself and them.",
	"health":       "💡 Your health matters. Consider speaking with a healthcare professional if needed.",
	"money":        "💡 Financial stress is real, but it's often solvable with planning.",
	"social":       "💡 Human connection is important. Even small interactions count.",
	"school":       "💡 Education is a journey, not a race. Progress matters more than perfection.",
}

const closingLine = "I'm here to listen and support you. What would help most right now?"

// BuildTherapeuticResponse appends the emotion affirmation, the topic
// grounding line and the closing question, each as its own paragraph.
func BuildTherapeuticResponse(base, emotion, topic string) string {
	out := base
	if a, ok := affirmations[emotion]; ok {
		out += "\n\n" + a
	}
	if g, ok := groundings[topic]; ok {
		out += "\n\n" + g
	}
	return out + "\n\n" + closingLine
}

var fallbackTemplates = map[string]map[string]string{
	"anxiety": {
		"exam":      "I can hear the anxiety in what you're sharing. Exam anxiety is really common, and there are proven ways to manage it. What aspect worries you most?",
		"job":       "Job anxiety can be overwhelming. Take a breath. What specific part of the situation worries you?",
		"interview": "Interview anxiety is normal. Remember: they want you to succeed too. What's your biggest worry about it?",
		"general":   "Anxiety can feel overwhelming, but it's manageable. What would help you feel calmer right now?",
	},
	"sadness": {
		"exam":         "Exam outcomes don't define your worth. One test is temporary; your value is permanent. How are you coping?",
		"job":          "Losing a job is a real loss. It's okay to grieve it. But this could also be an opportunity. How are you feeling?",
		"relationship": "Relationship pain is deep. That's normal. You're not alone in this. Do you have support around you?",
		"family":       "Family sadness runs deep. You're allowed to feel this. What support do you need?",
		"general":      "I'm sorry you're feeling sad. That sounds really heavy. I'm here to listen.",
	},
	"anger": {
		"job":          "Your frustration is valid. Workplace mistreatment is real. What would a fair outcome look like?",
		"relationship": "Anger in relationships often signals unmet needs. What do you need from this situation?",
		"family":       "Family anger can be intense. Take a step back if needed. What would help?",
		"general":      "Your anger is telling you something important. What's it trying to say?",
	},
	"fear": {
		"exam":    "Test fear is about worry of the unknown. What's the actual worst case, and can you handle that?",
		"job":     "Job fears often stem from 'what ifs'. Let's look at the actual facts. What's really at risk?",
		"health":  "Health fears are deep. Knowledge helps. What would make you feel more informed?",
		"general": "Fear is your mind trying to protect you. But often it's worse than reality. What are you actually afraid of?",
	},
	"joy": {
		"exam":         "That's wonderful! Celebrate this achievement. You worked hard for it. How does this change your outlook?",
		"job":          "Congratulations! You deserve this. How does this make you feel about yourself?",
		"relationship": "That's beautiful! Joy in relationships is precious. Nurture this.",
		"general":      "I'm so happy for you! Hold onto this feeling and share it with others.",
	},
	"neutral": {
		"general": "Thank you for sharing. Help me understand better - how are you feeling about all of this?",
	},
}

const listeningFallback = "I'm here to listen. Please share more about what you're experiencing."

// TemplateResponse is the canned reply used when generation is unavailable.
// Unknown emotions use the neutral table; unknown topics use "general".
func TemplateResponse(emotion, topic string) string {
	byTopic, ok := fallbackTemplates[emotion]
	if !ok {
		byTopic = fallbackTemplates["neutral"]
	}
	if r, ok := byTopic[topic]; ok {
		return r
	}
	if r, ok := byTopic[GeneralTopic]; ok {
		return r
	}
	return listeningFallback
}

type phased struct{ early, middle, late string }

var followUps = map[string]map[string]phased{
	"anxiety": {
		"exam": {"What specifically about the exam worries you most - the material, the format, or the pressure?",
			"Have you tried any strategies to manage exam anxiety before?",
			"What's one small step you could take to feel more prepared?"},
		"job": {"Is this about a specific event, or ongoing job stress?",
			"How long have you felt this way?",
			"What would help you feel more confident?"},
		"default": {"What worries you most about this situation?",
			"How long have you been feeling this way?",
			"What's one thing that could help?"},
	},
	"sadness": {
		"exam": {"How are you feeling about this exam result?",
			"Has this affected how you see yourself as a student?",
			"What can you learn from this for next time?"},
		"relationship": {"How long ago did this happen?",
			"Do you have support from friends or family?",
			"What's one way you're taking care of yourself?"},
		"default": {"How long have you been feeling this way?",
			"Do you have people supporting you?",
			"What's helping, even a little?"},
	},
	"anger": {
		"job": {"What happened that made you angry?",
			"How has this affected your work?",
			"What outcome would feel fair to you?"},
		"default": {"What triggered this anger?",
			"Is this a one-time or recurring issue?",
			"How can you express this constructively?"},
	},
	"fear": {
		"exam": {"What's the worst outcome you're imagining?",
			"Is that outcome actually likely?",
			"What could you do if that happened?"},
		"default": {"What exactly are you afraid might happen?",
			"How likely is that actually?",
			"Could you handle it if it did happen?"},
	},
	"joy": {
		"default": {"Tell me more about what's making you happy!",
			"How does this change things for you?",
			"How can you hold onto this feeling?"},
	},
}

const genericFollowUp = "How are you feeling about what we've discussed?"

// FollowUpQuestion picks a question by conversation phase: early before two
// exchanges, middle before five, late afterwards.
func FollowUpQuestion(emotion, topic string, conversationLength int) string {
	byTopic, ok := followUps[emotion]
	if !ok {
		return genericFollowUp
	}
	p, ok := byTopic[topic]
	if !ok {
		if p, ok = byTopic["default"]; !ok {
			return genericFollowUp
		}
	}
	switch {
	case conversationLength < 2:
		return p.early
	case conversationLength < 5:
		return p.middle
	default:
		return p.late
	}
}

var copingStrategies = map[string]map[string]string{
	"anxiety": {
		"exam":    "Box breathing: Breathe in for 4, hold for 4, exhale for 4, hold for 4. Repeat 5 times.",
		"job":     "Progressive muscle relaxation: Tense and release each muscle group for 5 seconds.",
		"health":  "Grounding technique: 5 things you see, 4 you feel, 3 you hear, 2 you smell, 1 you taste.",
		"general": "Deep breathing: 4-7-8 technique - inhale 4, hold 7, exhale 8.",
	},
	"sadness": {
		"exam":         "Reframe: What did you learn? How will you improve? Focus on growth, not failure.",
		"job":          "Movement: A 10-minute walk can help shift mood and gain perspective.",
		"relationship": "Self-compassion: Treat yourself as you would a good friend going through this.",
		"general":      "Connection: Reach out to someone you trust. You don't have to carry this alone.",
	},
	"anger": {
		"general":      "Physical release: Intense exercise, cold water on your face, or journaling.",
		"job":          "Communication: Write out what you feel, then decide how to express it constructively.",
		"relationship": "Timeout: Take space if needed. Return when you're calmer.",
	},
	"fear": {
		"exam":    "Visualization: Imagine yourself handling the exam successfully. See it clearly.",
		"job":     "Worst case planning: What's the actual worst case? Could you handle it?",
		"health":  "Information: Learning about what to expect reduces fear significantly.",
		"general": "Exposure: Small steps toward the feared thing often help.",
	},
	"joy": {
		"general": "Celebrate and share: Tell someone you trust. Amplify this feeling.",
	},
}

const selfCare = "Self-care: Do something that nourishes you."

func CopingStrategy(emotion, topic string) string {
	byTopic := copingStrategies[emotion]
	if s, ok := byTopic[topic]; ok {
		return s
	}
	if s, ok := byTopic[GeneralTopic]; ok {
		return s
	}
	return selfCare
}
