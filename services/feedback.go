package services

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"tournament-booking-system/models"
	"tournament-booking-system/notify"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const maxFeedbackLength = 4000

type FeedbackService struct {
	store    FeedbackStore
	users    UserStore
	notifier notify.Notifier
	now      func() time.Time
}

func NewFeedbackService(store FeedbackStore, users UserStore, notifier notify.Notifier) *FeedbackService {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &FeedbackService{store: store, users: users, notifier: notifier, now: time.Now}
}

type FeedbackInput struct {
	Type    string `json:"type"`
	Rating  int    `json:"rating"`
	Message string `json:"message"`
}

// FeedbackSubject is the heading admins see, e.g. "App Feedback - Bug".
func FeedbackSubject(kind string) string {
	return "App Feedback - " + cases.Title(language.English).String(kind)
}

func (s *FeedbackService) Submit(ctx context.Context, uid string, in FeedbackInput) (*models.Feedback, error) {
	in.Message = strings.TrimSpace(in.Message)
	in.Type = strings.ToLower(strings.TrimSpace(in.Type))
	if in.Type == "" {
		in.Type = "general"
	}
	if in.Message == "" {
		return nil, models.Invalid("message", "Please write your feedback before submitting.")
	}
	if len(in.Message) > maxFeedbackLength {
		return nil, models.Invalid("message", fmt.Sprintf("Feedback must be at most %d characters", maxFeedbackLength))
	}
	if !slices.Contains(models.FeedbackTypes, in.Type) {
		return nil, models.Invalid("type", fmt.Sprintf("Unknown feedback type %q", in.Type))
	}
	if in.Rating < 0 || in.Rating > 5 {
		return nil, models.Invalid("rating", "Rating must be between 0 (unrated) and 5 stars")
	}

	u, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	f := &models.Feedback{
		ID:        uuid.NewString(),
		UserID:    uid,
		Type:      in.Type,
		Rating:    in.Rating,
		Message:   in.Message,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateFeedback(ctx, f); err != nil {
		return nil, err
	}

	text := fmt.Sprintf("%s\nFrom: %s (%s)\nRating: %d/5 stars\nDate: %s\n\n%s",
		FeedbackSubject(f.Type), displayName(u), u.Email, f.Rating, f.CreatedAt.Format("2006-01-02"), f.Message)
	if err := s.notifier.NotifyAdmin(ctx, text); err != nil {
		log.Printf("⚠️  [FEEDBACK] admin notification failed: %v", err)
	}
	log.Printf("📝 [FEEDBACK] %s feedback from %s", f.Type, uid)
	return f, nil
}
