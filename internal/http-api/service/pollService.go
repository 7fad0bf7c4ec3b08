package service

import (
	"errors"

	"whattheygot/internal/http-api/dto"
	"whattheygot/internal/http-api/models"
	"whattheygot/internal/http-api/repository"
	"whattheygot/internal/moderation"

	"gorm.io/gorm"
)

var (
	ErrPollNotFound  = errors.New("poll not found")
	ErrPollClosed    = errors.New("poll is closed")
	ErrInvalidOption = errors.New("option does not belong to this poll")
	ErrAlreadyVoted  = errors.New("you have already voted in this poll")
)

type PollService interface {
	ListActive() ([]dto.PollResponse, error)
	Create(adminID string, req *dto.CreatePollDTO) (*dto.PollResponse, error)
	Close(pollID int64) error
	// Vote records one vote per caller, keyed by the user ID when
	// authenticated or the hashed device fingerprint otherwise.
	Vote(pollID int64, req *dto.VoteDTO, identity CallerIdentity) (*dto.PollResponse, error)
}

type pollService struct {
	pollRepo repository.PollRepository
	hasher   *moderation.DeviceHasher
}

func NewPollService(pollRepo repository.PollRepository, hasher *moderation.DeviceHasher) PollService {
	return &pollService{
		pollRepo: pollRepo,
		hasher:   hasher,
	}
}

func (s *pollService) ListActive() ([]dto.PollResponse, error) {
	polls, err := s.pollRepo.ListActive()
	if err != nil {
		return nil, err
	}

	responses := make([]dto.PollResponse, 0, len(polls))
	for i := range polls {
		counts, err := s.pollRepo.CountVotes(polls[i].ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *dto.FromModelToPollResponse(&polls[i], counts))
	}
	return responses, nil
}

func (s *pollService) Create(adminID string, req *dto.CreatePollDTO) (*dto.PollResponse, error) {
	poll := &models.Poll{
		Question: req.Question,
		IsActive: true,
		AdminID:  adminID,
	}
	for _, text := range req.Options {
		poll.Options = append(poll.Options, models.PollOption{Text: text})
	}

	if err := s.pollRepo.Create(poll); err != nil {
		return nil, err
	}
	return dto.FromModelToPollResponse(poll, map[int64]int64{}), nil
}

func (s *pollService) Close(pollID int64) error {
	return s.pollRepo.Close(pollID)
}

func (s *pollService) Vote(pollID int64, req *dto.VoteDTO, identity CallerIdentity) (*dto.PollResponse, error) {
	poll, err := s.pollRepo.GetByID(pollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPollNotFound
		}
		return nil, err
	}
	if !poll.IsActive {
		return nil, ErrPollClosed
	}

	valid := false
	for _, option := range poll.Options {
		if option.ID == req.OptionID {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrInvalidOption
	}

	// Same accountability rule as reviews: one identity per vote
	var voterKey string
	switch {
	case identity.UserID != "":
		voterKey = "user:" + identity.UserID
	case identity.DeviceFingerprint != "":
		voterKey = "device:" + s.hasher.Hash(identity.DeviceFingerprint)
	default:
		return nil, ErrMissingIdentity
	}

	if err := s.pollRepo.Vote(pollID, req.OptionID, voterKey); err != nil {
		if errors.Is(err, repository.ErrAlreadyVoted) {
			return nil, ErrAlreadyVoted
		}
		return nil, err
	}

	counts, err := s.pollRepo.CountVotes(pollID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToPollResponse(poll, counts), nil
}
