package session

import (
	"context"

	"github.com/yoockh/mindwell/internal/models"
	mongorepo "github.com/yoockh/mindwell/internal/repositories/mongo"
)

// TranscriptArchiver stores ended sessions as transcripts.
type TranscriptArchiver struct {
	repo mongorepo.TranscriptRepository
}

func NewTranscriptArchiver(repo mongorepo.TranscriptRepository) *TranscriptArchiver {
	return &TranscriptArchiver{repo: repo}
}

func (a *TranscriptArchiver) Archive(ctx context.Context, s *UserSession) error {
	return a.repo.Save(ctx, Transcript(s))
}

func Transcript(s *UserSession) *models.SessionTranscript {
	msgs := make([]models.TranscriptMessage, len(s.History))
	for i, m := range s.History {
		msgs[i] = models.TranscriptMessage{Role: m.Role, Content: m.Content, Timestamp: m.Timestamp}
	}
	moods := make([]models.TranscriptMood, len(s.MoodLog))
	for i, m := range s.MoodLog {
		moods[i] = models.TranscriptMood{
			Emotion:        string(m.Emotion),
			SentimentScore: m.SentimentScore,
			CrisisDetected: m.CrisisDetected,
			Timestamp:      m.Timestamp,
		}
	}
	change := s.MoodChange()
	return &models.SessionTranscript{
		SessionID:       s.ID,
		UserID:          s.UserID,
		Messages:        msgs,
		Moods:           moods,
		SentimentChange: change.SentimentChange,
		Improved:        change.Improved,
		CreatedAt:       s.CreatedAt,
		EndedAt:         s.UpdatedAt,
	}
}
