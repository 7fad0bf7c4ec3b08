package service

import (
	"errors"
	"log/slog"
	"time"

	"whattheygot/internal/http-api/dto"
	"whattheygot/internal/http-api/models"
	"whattheygot/internal/http-api/repository"

	"gorm.io/gorm"
)

// adminBanDuration is applied when an admin rejects a review with
// ban_device set.
const adminBanDuration = 7 * 24 * time.Hour

// ModerationService exposes the admin override operations and the admin
// read surface. Overrides are last-write-wins: there is no transition guard
// preventing approval of an already-rejected review, and each call writes
// its own audit event.
type ModerationService interface {
	ApproveReview(reviewID int64, adminID string) (*dto.ReviewResponse, error)
	RejectReview(reviewID int64, adminID string, req *dto.RejectReviewDTO) (*dto.ReviewResponse, error)
	UnbanDevice(deviceIDHash, adminID string) error
	GetPendingReviews(page, pageSize int) ([]dto.PendingReviewResponse, int64, error)
	GetBannedDevices() ([]models.BannedDevice, error)
	GetModerationEvents(action string, page, pageSize int) (*dto.PaginatedEventResponse, error)
}

type moderationService struct {
	reviewRepo repository.ReviewRepository
	banRepo    repository.BanRepository
	eventRepo  repository.ModerationEventRepository
	logger     *slog.Logger
}

func NewModerationService(
	reviewRepo repository.ReviewRepository,
	banRepo repository.BanRepository,
	eventRepo repository.ModerationEventRepository,
	logger *slog.Logger,
) ModerationService {
	return &moderationService{
		reviewRepo: reviewRepo,
		banRepo:    banRepo,
		eventRepo:  eventRepo,
		logger:     logger,
	}
}

// ApproveReview overrides moderation and makes the review visible.
// Idempotent: approving an already-approved review is a no-op write.
func (s *moderationService) ApproveReview(reviewID int64, adminID string) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	review.ModerationStatus = models.ModerationStatusApproved
	review.FlaggedReason = ""
	if err := s.reviewRepo.Save(review); err != nil {
		return nil, err
	}

	s.logEvent(&models.ModerationEvent{
		ContentType:  models.ContentTypeReview,
		ContentID:    review.ID,
		DeviceIDHash: review.DeviceIDHash,
		Action:       models.EventActionApprove,
		Reason:       "Manually approved by admin",
		AdminID:      &adminID,
	})

	return dto.FromModelToReviewResponse(review), nil
}

// RejectReview overrides moderation and hides the review; optionally bans
// the submitting device for seven days when the review carries a device hash.
func (s *moderationService) RejectReview(reviewID int64, adminID string, req *dto.RejectReviewDTO) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	review.ModerationStatus = models.ModerationStatusRejected
	review.FlaggedReason = req.Reason
	if err := s.reviewRepo.Save(review); err != nil {
		return nil, err
	}

	if req.BanDevice && review.DeviceIDHash != nil {
		expiresAt := time.Now().Add(adminBanDuration)
		if _, err := s.banRepo.Upsert(*review.DeviceIDHash, req.Reason, &expiresAt); err != nil {
			return nil, err
		}
	}

	s.logEvent(&models.ModerationEvent{
		ContentType:  models.ContentTypeReview,
		ContentID:    review.ID,
		DeviceIDHash: review.DeviceIDHash,
		Action:       models.EventActionReject,
		Reason:       req.Reason,
		AdminID:      &adminID,
	})

	return dto.FromModelToReviewResponse(review), nil
}

// UnbanDevice hard-deletes the ban row. Idempotent: unbanning a device with
// no ban row still succeeds and is still logged, with a zero content ID since
// there is no row to reference.
func (s *moderationService) UnbanDevice(deviceIDHash, adminID string) error {
	ban, err := s.banRepo.Delete(deviceIDHash)
	if err != nil {
		return err
	}

	event := &models.ModerationEvent{
		ContentType:  models.ContentTypeDevice,
		DeviceIDHash: &deviceIDHash,
		Action:       models.EventActionUnban,
		Reason:       "Manually unbanned by admin",
		AdminID:      &adminID,
	}
	if ban != nil {
		event.ContentID = ban.ID
	}
	s.logEvent(event)

	return nil
}

// GetPendingReviews returns the manual moderation queue joined with menu items
func (s *moderationService) GetPendingReviews(page, pageSize int) ([]dto.PendingReviewResponse, int64, error) {
	reviews, total, err := s.reviewRepo.GetPending(page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]dto.PendingReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *dto.FromModelToPendingReviewResponse(&reviews[i]))
	}
	return responses, total, nil
}

// GetBannedDevices returns all ban rows, newest first
func (s *moderationService) GetBannedDevices() ([]models.BannedDevice, error) {
	return s.banRepo.ListAll()
}

// GetModerationEvents returns the audit log, newest first
func (s *moderationService) GetModerationEvents(action string, page, pageSize int) (*dto.PaginatedEventResponse, error) {
	events, total, err := s.eventRepo.List(action, page, pageSize)
	if err != nil {
		return nil, err
	}
	return dto.NewPaginatedEventResponse(events, int(total), page, pageSize), nil
}

func (s *moderationService) logEvent(event *models.ModerationEvent) {
	if err := s.eventRepo.Create(event); err != nil {
		s.logger.Error("failed to write moderation event",
			"action", event.Action,
			"content_id", event.ContentID,
			"error", err)
	}
}
