package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"whattheygot/internal/http-api/dto"
	"whattheygot/internal/http-api/middleware"
	"whattheygot/internal/http-api/models"
	"whattheygot/internal/http-api/repository"
	"whattheygot/internal/moderation"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrMissingIdentity  = errors.New("submission carries neither a user nor a device identity")
	ErrDeviceBanned     = errors.New("this device is temporarily restricted from posting")
	ErrContentRejected  = errors.New("review rejected by content moderation; account temporarily restricted")
)

// autoBanDuration is applied when the pipeline rejects content outright.
const autoBanDuration = 24 * time.Hour

// CallerIdentity is supplied by the HTTP layer: a verified user ID from the
// identity provider, or an opaque device fingerprint for anonymous callers.
type CallerIdentity struct {
	UserID            string
	DeviceFingerprint string
}

// VerdictScorer abstracts the external toxicity classifier
type VerdictScorer interface {
	Score(ctx context.Context, text string) moderation.Verdict
}

type ReviewService interface {
	CreateReview(ctx context.Context, menuItemID int64, req *dto.CreateReviewDTO, identity CallerIdentity) (*dto.CreatedReviewResponse, error)
	GetMenuItemReviews(menuItemID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error)
	ReportReview(reviewID int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	banRepo    repository.BanRepository
	eventRepo  repository.ModerationEventRepository
	menuRepo   repository.MenuItemRepository
	hasher     *moderation.DeviceHasher
	scorer     VerdictScorer
	cache      *moderation.VerdictCache
	logger     *slog.Logger
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	banRepo repository.BanRepository,
	eventRepo repository.ModerationEventRepository,
	menuRepo repository.MenuItemRepository,
	hasher *moderation.DeviceHasher,
	scorer VerdictScorer,
	cache *moderation.VerdictCache,
	logger *slog.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		banRepo:    banRepo,
		eventRepo:  eventRepo,
		menuRepo:   menuRepo,
		hasher:     hasher,
		scorer:     scorer,
		cache:      cache,
		logger:     logger,
	}
}

// CreateReview runs a submission through the intake pipeline: resolve
// identity, short-circuit banned devices, score the text, persist and log
// according to the verdict.
func (s *reviewService) CreateReview(ctx context.Context, menuItemID int64, req *dto.CreateReviewDTO, identity CallerIdentity) (*dto.CreatedReviewResponse, error) {
	// Check the menu item exists
	if _, err := s.menuRepo.GetByID(menuItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}

	// Resolve identity: prefer the authenticated user; otherwise the caller
	// is held accountable through the salted device hash. Exactly one of the
	// two is persisted.
	authenticated := identity.UserID != ""
	var deviceHash string
	if !authenticated {
		if identity.DeviceFingerprint == "" {
			return nil, ErrMissingIdentity
		}
		deviceHash = s.hasher.Hash(identity.DeviceFingerprint)

		// Banned devices are refused before any scoring or persistence. The
		// device was already logged when it was banned, so no new event.
		ban, err := s.banRepo.FindActive(deviceHash)
		if err != nil {
			return nil, err
		}
		if ban != nil {
			return nil, ErrDeviceBanned
		}
	}

	verdict := s.verdictFor(ctx, req.Text)
	middleware.RecordVerdict(string(verdict.Action))

	review := &models.Review{
		MenuItemID:       menuItemID,
		Rating:           req.Rating,
		Text:             req.Text,
		Emoji:            req.Emoji,
		PhotoURL:         req.PhotoURL,
		ModerationStatus: statusForAction(verdict.Action),
		ModerationScores: scoresToJSON(verdict.Scores),
		FlaggedReason:    verdict.Reason,
	}
	if authenticated {
		review.UserID = &identity.UserID
	} else {
		review.DeviceIDHash = &deviceHash
	}

	if verdict.Action == moderation.ActionRejected {
		return nil, s.rejectSubmission(review, verdict, deviceHash, authenticated)
	}

	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}

	eventAction := models.EventActionApprove
	if verdict.Action == moderation.ActionShadowed {
		eventAction = models.EventActionAutoShadow
	}
	s.logEvent(&models.ModerationEvent{
		ContentType:  models.ContentTypeReview,
		ContentID:    review.ID,
		DeviceIDHash: review.DeviceIDHash,
		Action:       eventAction,
		Scores:       scoresToJSON(verdict.Scores),
		Reason:       verdict.Reason,
	})

	response := &dto.CreatedReviewResponse{Review: dto.FromModelToReviewResponse(review)}
	if review.ModerationStatus == models.ModerationStatusPending {
		response.Message = "Your review was submitted and is awaiting moderation before it becomes visible."
	}
	return response, nil
}

// rejectSubmission handles the rejected branch: the review is persisted for
// audit completeness (it is never shown to users), the device earns a
// 24-hour auto-ban unless one is already in force, and a single audit event
// records the decision.
func (s *reviewService) rejectSubmission(review *models.Review, verdict moderation.Verdict, deviceHash string, authenticated bool) error {
	if err := s.reviewRepo.Create(review); err != nil {
		return err
	}

	if !authenticated {
		ban, err := s.banRepo.FindActive(deviceHash)
		if err != nil {
			return err
		}
		if ban == nil {
			expiresAt := time.Now().Add(autoBanDuration)
			// The registry upsert increments strikes on conflict, so a race
			// between two concurrent rejections converges to one row.
			if _, err := s.banRepo.Upsert(deviceHash, "Auto-ban: "+verdict.Reason, &expiresAt); err != nil {
				return err
			}
		}
	}

	s.logEvent(&models.ModerationEvent{
		ContentType:  models.ContentTypeReview,
		ContentID:    review.ID,
		DeviceIDHash: review.DeviceIDHash,
		Action:       models.EventActionAutoReject,
		Scores:       scoresToJSON(verdict.Scores),
		Reason:       verdict.Reason,
	})

	return ErrContentRejected
}

// verdictFor scores the review text through the cache, or synthesizes an
// approval when there is nothing to score.
func (s *reviewService) verdictFor(ctx context.Context, text string) moderation.Verdict {
	if strings.TrimSpace(text) == "" {
		return moderation.Verdict{Action: moderation.ActionApproved, Scores: map[string]float64{}}
	}
	return s.cache.GetOrCompute(text, func() moderation.Verdict {
		return s.scorer.Score(ctx, text)
	})
}

// GetMenuItemReviews retrieves publicly visible reviews for a menu item
func (s *reviewService) GetMenuItemReviews(menuItemID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error) {
	if _, err := s.menuRepo.GetByID(menuItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}

	reviews, total, err := s.reviewRepo.GetVisibleByMenuItem(menuItemID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *dto.FromModelToReviewResponse(&reviews[i]))
	}

	return dto.NewPaginatedReviewResponse(responses, int(total), page, pageSize), nil
}

// ReportReview hides a review pending admin attention
func (s *reviewService) ReportReview(reviewID int64) error {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	review.IsHidden = true
	return s.reviewRepo.Save(review)
}

// logEvent appends to the audit log. Audit failures are logged but do not
// fail the submission the decision was already applied to.
func (s *reviewService) logEvent(event *models.ModerationEvent) {
	if err := s.eventRepo.Create(event); err != nil {
		s.logger.Error("failed to write moderation event",
			"action", event.Action,
			"content_id", event.ContentID,
			"error", err)
	}
}

func statusForAction(action moderation.Action) string {
	switch action {
	case moderation.ActionRejected:
		return models.ModerationStatusRejected
	case moderation.ActionShadowed:
		return models.ModerationStatusPending
	default:
		return models.ModerationStatusApproved
	}
}

func scoresToJSON(scores map[string]float64) datatypes.JSONMap {
	if len(scores) == 0 {
		return nil
	}
	out := make(datatypes.JSONMap, len(scores))
	for category, score := range scores {
		out[category] = score
	}
	return out
}
