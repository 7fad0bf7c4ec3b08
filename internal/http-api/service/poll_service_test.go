package service

import (
	"testing"

	"whattheygot/internal/http-api/dto"
	"whattheygot/internal/http-api/models"
	"whattheygot/internal/http-api/repository"
	"whattheygot/internal/moderation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPollRepo struct {
	mock.Mock
}

func (m *MockPollRepo) Create(poll *models.Poll) error {
	args := m.Called(poll)
	return args.Error(0)
}

func (m *MockPollRepo) Close(pollID int64) error {
	args := m.Called(pollID)
	return args.Error(0)
}

func (m *MockPollRepo) GetByID(pollID int64) (*models.Poll, error) {
	args := m.Called(pollID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Poll), args.Error(1)
}

func (m *MockPollRepo) ListActive() ([]models.Poll, error) {
	args := m.Called()
	return args.Get(0).([]models.Poll), args.Error(1)
}

func (m *MockPollRepo) Vote(pollID, optionID int64, voterKey string) error {
	args := m.Called(pollID, optionID, voterKey)
	return args.Error(0)
}

func (m *MockPollRepo) CountVotes(pollID int64) (map[int64]int64, error) {
	args := m.Called(pollID)
	return args.Get(0).(map[int64]int64), args.Error(1)
}

func newPollServiceFixture(t *testing.T) (PollService, *MockPollRepo) {
	t.Helper()

	hasher, err := moderation.NewDeviceHasher("test-secret")
	require.NoError(t, err)

	pollRepo := new(MockPollRepo)
	return NewPollService(pollRepo, hasher), pollRepo
}

func openPoll() *models.Poll {
	return &models.Poll{
		ID:       1,
		Question: "Best lunch station?",
		IsActive: true,
		Options: []models.PollOption{
			{ID: 10, PollID: 1, Text: "Grill"},
			{ID: 11, PollID: 1, Text: "Global Kitchen"},
		},
	}
}

func TestVote_Success(t *testing.T) {
	svc, pollRepo := newPollServiceFixture(t)

	pollRepo.On("GetByID", int64(1)).Return(openPoll(), nil)
	pollRepo.On("Vote", int64(1), int64(10), "user:user-1").Return(nil)
	pollRepo.On("CountVotes", int64(1)).Return(map[int64]int64{10: 1}, nil)

	resp, err := svc.Vote(1, &dto.VoteDTO{OptionID: 10}, CallerIdentity{UserID: "user-1"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Options[0].Votes)
	pollRepo.AssertExpectations(t)
}

func TestVote_DuplicateReturnsAlreadyVoted(t *testing.T) {
	svc, pollRepo := newPollServiceFixture(t)

	pollRepo.On("GetByID", int64(1)).Return(openPoll(), nil)
	pollRepo.On("Vote", int64(1), int64(10), "user:user-1").
		Return(repository.ErrAlreadyVoted)

	// A second vote by the same caller maps to the service sentinel, not a
	// generic failure
	_, err := svc.Vote(1, &dto.VoteDTO{OptionID: 10}, CallerIdentity{UserID: "user-1"})

	assert.ErrorIs(t, err, ErrAlreadyVoted)
	pollRepo.AssertNotCalled(t, "CountVotes", mock.Anything)
}

func TestVote_ClosedPoll(t *testing.T) {
	svc, pollRepo := newPollServiceFixture(t)

	closed := openPoll()
	closed.IsActive = false
	pollRepo.On("GetByID", int64(1)).Return(closed, nil)

	_, err := svc.Vote(1, &dto.VoteDTO{OptionID: 10}, CallerIdentity{UserID: "user-1"})

	assert.ErrorIs(t, err, ErrPollClosed)
	pollRepo.AssertNotCalled(t, "Vote", mock.Anything, mock.Anything, mock.Anything)
}

func TestVote_OptionFromAnotherPoll(t *testing.T) {
	svc, pollRepo := newPollServiceFixture(t)

	pollRepo.On("GetByID", int64(1)).Return(openPoll(), nil)

	_, err := svc.Vote(1, &dto.VoteDTO{OptionID: 99}, CallerIdentity{UserID: "user-1"})

	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestVote_AnonymousUsesDeviceKey(t *testing.T) {
	svc, pollRepo := newPollServiceFixture(t)

	pollRepo.On("GetByID", int64(1)).Return(openPoll(), nil)
	pollRepo.On("Vote", int64(1), int64(11), mock.MatchedBy(func(key string) bool {
		return len(key) > len("device:") && key[:7] == "device:"
	})).Return(nil)
	pollRepo.On("CountVotes", int64(1)).Return(map[int64]int64{11: 1}, nil)

	_, err := svc.Vote(1, &dto.VoteDTO{OptionID: 11}, CallerIdentity{DeviceFingerprint: "device-abc"})

	require.NoError(t, err)
	pollRepo.AssertExpectations(t)
}

func TestVote_MissingIdentity(t *testing.T) {
	svc, pollRepo := newPollServiceFixture(t)

	pollRepo.On("GetByID", int64(1)).Return(openPoll(), nil)

	_, err := svc.Vote(1, &dto.VoteDTO{OptionID: 10}, CallerIdentity{})

	assert.ErrorIs(t, err, ErrMissingIdentity)
}
