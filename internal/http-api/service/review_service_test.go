package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"whattheygot/internal/http-api/dto"
	"whattheygot/internal/http-api/models"
	"whattheygot/internal/moderation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- MOCK REPOSITORIES ---

type MockReviewRepo struct {
	mock.Mock
}

func (m *MockReviewRepo) Create(review *models.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

func (m *MockReviewRepo) Save(review *models.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

func (m *MockReviewRepo) GetByID(reviewID int64) (*models.Review, error) {
	args := m.Called(reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepo) GetVisibleByMenuItem(menuItemID int64, page, pageSize int) ([]models.Review, int64, error) {
	args := m.Called(menuItemID, page, pageSize)
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewRepo) GetPending(page, pageSize int) ([]models.Review, int64, error) {
	args := m.Called(page, pageSize)
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Error(2)
}

type MockBanRepo struct {
	mock.Mock
}

func (m *MockBanRepo) Upsert(deviceIDHash, reason string, expiresAt *time.Time) (*models.BannedDevice, error) {
	args := m.Called(deviceIDHash, reason, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BannedDevice), args.Error(1)
}

func (m *MockBanRepo) FindActive(deviceIDHash string) (*models.BannedDevice, error) {
	args := m.Called(deviceIDHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BannedDevice), args.Error(1)
}

func (m *MockBanRepo) ListAll() ([]models.BannedDevice, error) {
	args := m.Called()
	return args.Get(0).([]models.BannedDevice), args.Error(1)
}

func (m *MockBanRepo) Delete(deviceIDHash string) (*models.BannedDevice, error) {
	args := m.Called(deviceIDHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BannedDevice), args.Error(1)
}

type MockEventRepo struct {
	mock.Mock
}

func (m *MockEventRepo) Create(event *models.ModerationEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockEventRepo) List(action string, page, pageSize int) ([]models.ModerationEvent, int64, error) {
	args := m.Called(action, page, pageSize)
	return args.Get(0).([]models.ModerationEvent), args.Get(1).(int64), args.Error(2)
}

type MockMenuRepo struct {
	mock.Mock
}

func (m *MockMenuRepo) Create(item *models.MenuItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockMenuRepo) BulkCreate(items []models.MenuItem) (int64, error) {
	args := m.Called(items)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMenuRepo) Update(item *models.MenuItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockMenuRepo) Delete(itemID int64) error {
	args := m.Called(itemID)
	return args.Error(0)
}

func (m *MockMenuRepo) GetByID(itemID int64) (*models.MenuItem, error) {
	args := m.Called(itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MenuItem), args.Error(1)
}

func (m *MockMenuRepo) GetByDay(servedOn time.Time, mealPeriod string) ([]models.MenuItem, error) {
	args := m.Called(servedOn, mealPeriod)
	return args.Get(0).([]models.MenuItem), args.Error(1)
}

type MockScorer struct {
	mock.Mock
}

func (m *MockScorer) Score(ctx context.Context, text string) moderation.Verdict {
	args := m.Called(ctx, text)
	return args.Get(0).(moderation.Verdict)
}

// --- SETUP ---

type reviewServiceFixture struct {
	svc        ReviewService
	reviewRepo *MockReviewRepo
	banRepo    *MockBanRepo
	eventRepo  *MockEventRepo
	menuRepo   *MockMenuRepo
	scorer     *MockScorer
	hasher     *moderation.DeviceHasher
}

func newReviewServiceFixture(t *testing.T) *reviewServiceFixture {
	t.Helper()

	hasher, err := moderation.NewDeviceHasher("test-secret")
	require.NoError(t, err)

	f := &reviewServiceFixture{
		reviewRepo: new(MockReviewRepo),
		banRepo:    new(MockBanRepo),
		eventRepo:  new(MockEventRepo),
		menuRepo:   new(MockMenuRepo),
		scorer:     new(MockScorer),
		hasher:     hasher,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = NewReviewService(
		f.reviewRepo, f.banRepo, f.eventRepo, f.menuRepo,
		hasher, f.scorer, moderation.NewVerdictCache(time.Minute), logger,
	)
	return f
}

func approvedVerdict(scores map[string]float64) moderation.Verdict {
	return moderation.Verdict{Action: moderation.ActionApproved, Scores: scores}
}

// --- TESTS ---

func TestCreateReview_ApprovedAnonymous(t *testing.T) {
	f := newReviewServiceFixture(t)
	expectedHash := f.hasher.Hash("device-abc")

	f.menuRepo.On("GetByID", int64(1)).Return(&models.MenuItem{ID: 1, Name: "Tacos"}, nil)
	f.banRepo.On("FindActive", expectedHash).Return(nil, nil)
	f.scorer.On("Score", mock.Anything, "pretty good tacos").
		Return(approvedVerdict(map[string]float64{"TOXICITY": 0.05}))
	f.reviewRepo.On("Create", mock.MatchedBy(func(r *models.Review) bool {
		// Exactly one identity on the row
		return r.UserID == nil && r.DeviceIDHash != nil && *r.DeviceIDHash == expectedHash &&
			r.ModerationStatus == models.ModerationStatusApproved
	})).Return(nil)
	f.eventRepo.On("Create", mock.MatchedBy(func(e *models.ModerationEvent) bool {
		return e.Action == models.EventActionApprove && e.ContentType == models.ContentTypeReview
	})).Return(nil)

	resp, err := f.svc.CreateReview(context.Background(), 1,
		&dto.CreateReviewDTO{Rating: 4, Text: "pretty good tacos"},
		CallerIdentity{DeviceFingerprint: "device-abc"})

	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Review.ModerationStatus)
	assert.Empty(t, resp.Message)
	f.reviewRepo.AssertExpectations(t)
	f.eventRepo.AssertExpectations(t)
}

func TestCreateReview_AuthenticatedSkipsBanCheck(t *testing.T) {
	f := newReviewServiceFixture(t)

	f.menuRepo.On("GetByID", int64(1)).Return(&models.MenuItem{ID: 1}, nil)
	f.scorer.On("Score", mock.Anything, "nice").
		Return(approvedVerdict(map[string]float64{"TOXICITY": 0.01}))
	f.reviewRepo.On("Create", mock.MatchedBy(func(r *models.Review) bool {
		return r.UserID != nil && *r.UserID == "user-1" && r.DeviceIDHash == nil
	})).Return(nil)
	f.eventRepo.On("Create", mock.Anything).Return(nil)

	_, err := f.svc.CreateReview(context.Background(), 1,
		&dto.CreateReviewDTO{Rating: 5, Text: "nice"},
		CallerIdentity{UserID: "user-1", DeviceFingerprint: "device-abc"})

	require.NoError(t, err)
	f.banRepo.AssertNotCalled(t, "FindActive", mock.Anything)
	f.reviewRepo.AssertExpectations(t)
}

func TestCreateReview_MissingIdentity(t *testing.T) {
	f := newReviewServiceFixture(t)
	f.menuRepo.On("GetByID", int64(1)).Return(&models.MenuItem{ID: 1}, nil)

	_, err := f.svc.CreateReview(context.Background(), 1,
		&dto.CreateReviewDTO{Rating: 3, Text: "anything"},
		CallerIdentity{})

	assert.ErrorIs(t, err, ErrMissingIdentity)
	f.reviewRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateReview_MenuItemNotFound(t *testing.T) {
	f := newReviewServiceFixture(t)
	f.menuRepo.On("GetByID", int64(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := f.svc.CreateReview(context.Background(), 99,
		&dto.CreateReviewDTO{Rating: 3},
		CallerIdentity{DeviceFingerprint: "device-abc"})

	assert.ErrorIs(t, err, ErrMenuItemNotFound)
}

func TestCreateReview_BannedDeviceShortCircuits(t *testing.T) {
	f := newReviewServiceFixture(t)
	expectedHash := f.hasher.Hash("banned-device")
	expiresAt := time.Now().Add(12 * time.Hour)

	f.menuRepo.On("GetByID", int64(1)).Return(&models.MenuItem{ID: 1}, nil)
	f.banRepo.On("FindActive", expectedHash).Return(&models.BannedDevice{
		DeviceIDHash: expectedHash,
		Strikes:      2,
		ExpiresAt:    &expiresAt,
	}, nil)

	_, err := f.svc.CreateReview(context.Background(), 1,
		&dto.CreateReviewDTO{Rating: 1, Text: "this place is garbage"},
		CallerIdentity{DeviceFingerprint: "banned-device"})

	assert.ErrorIs(t, err, ErrDeviceBanned)
	// No scoring, no persistence, no new audit event for a ban refusal
	f.scorer.AssertNotCalled(t, "Score", mock.Anything, mock.Anything)
	f.reviewRepo.AssertNotCalled(t, "Create", mock.Anything)
	f.eventRepo.AssertNotCalled(t, "Create", mock.Anything)
	f.banRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateReview_EmptyTextSkipsScorer(t *testing.T) {
	f := newReviewServiceFixture(t)
	expectedHash := f.hasher.Hash("device-abc")

	f.menuRepo.On("GetByID", int64(1)).Return(&models.MenuItem{ID: 1}, nil)
	f.banRepo.On("FindActive", expectedHash).Return(nil, nil)
	f.reviewRepo.On("Create", mock.MatchedBy(func(r *models.Review) bool {
		return r.ModerationStatus == models.ModerationStatusApproved
	})).Return(nil)
	f.eventRepo.On("Create", mock.Anything).Return(nil)

	resp, err := f.svc.CreateReview(context.Background(), 1,
		&dto.CreateReviewDTO{Rating: 5, Emoji: "🔥"},
		CallerIdentity{DeviceFingerprint: "device-abc"})

	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Review.ModerationStatus)
	f.scorer.AssertNotCalled(t, "Score", mock.Anything, mock.Anything)
}

func TestCreateReview_RejectedBansDevice(t *testing.T) {
	f := newReviewServiceFixture(t)
	expectedHash := f.hasher.Hash("toxic-device")
	reason := "Content flagged for TOXICITY (92%)"

	f.menuRepo.On("GetByID", int64(1)).Return(&models.MenuItem{ID: 1}, nil)
	f.banRepo.On("FindActive", expectedHash).Return(nil, nil)
	f.scorer.On("Score", mock.Anything, mock.Anything).Return(moderation.Verdict{
		Action: moderation.ActionRejected,
		Scores: map[string]float64{"TOXICITY": 0.92},
		Reason: reason,
	})
	f.reviewRepo.On("Create", mock.MatchedBy(func(r *models.Review) bool {
		return r.ModerationStatus == models.ModerationStatusRejected && r.FlaggedReason == reason
	})).Return(nil)
	f.banRepo.On("Upsert", expectedHash, "Auto-ban: "+reason, mock.MatchedBy(func(expiresAt *time.Time) bool {
		if expiresAt == nil {
			return false
		}
		remaining := time.Until(*expiresAt)
		return remaining > 23*time.Hour && remaining <= 24*time.Hour
	})).Return(&models.BannedDevice{DeviceIDHash: expectedHash, Strikes: 1}, nil)
	f.eventRepo.On("Create", mock.MatchedBy(func(e *models.ModerationEvent) bool {
		return e.Action == models.EventActionAutoReject &&
			e.DeviceIDHash != nil && *e.DeviceIDHash == expectedHash
	})).Return(nil)

	_, err := f.svc.CreateReview(context.Background(), 1,
		&dto.CreateReviewDTO{Rating: 1, Text: "you are all worthless"},
		CallerIdentity{DeviceFingerprint: "toxic-device"})

	assert.ErrorIs(t, err, ErrContentRejected)
	f.banRepo.AssertExpectations(t)
	f.eventRepo.AssertExpectations(t)
}

func TestCreateReview_RejectedAuthenticatedNoBan(t *testing.T) {
	f := newReviewServiceFixture(t)

	f.menuRepo.On("GetByID", int64(1)).Return(&models.MenuItem{ID: 1}, nil)
	f.scorer.On("Score", mock.Anything, mock.Anything).Return(moderation.Verdict{
		Action: moderation.ActionRejected,
		Scores: map[string]float64{"THREAT": 0.9},
		Reason: "Content flagged for THREAT (90%)",
	})
	f.reviewRepo.On("Create", mock.Anything).Return(nil)
	f.eventRepo.On("Create", mock.Anything).Return(nil)

	_, err := f.svc.CreateReview(context.Background(), 1,
		&dto.CreateReviewDTO{Rating: 1, Text: "threatening text"},
		CallerIdentity{UserID: "user-1"})

	assert.ErrorIs(t, err, ErrContentRejected)
	// Device bans only apply to device-identified submissions
	f.banRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateReview_ScorerFailureShadows(t *testing.T) {
	f := newReviewServiceFixture(t)
	expectedHash := f.hasher.Hash("device-abc")

	f.menuRepo.On("GetByID", int64(1)).Return(&models.MenuItem{ID: 1}, nil)
	f.banRepo.On("FindActive", expectedHash).Return(nil, nil)
	f.scorer.On("Score", mock.Anything, mock.Anything).Return(moderation.Verdict{
		Action: moderation.ActionShadowed,
		Scores: map[string]float64{},
		Reason: "Moderation API error - manual review required",
	})
	f.reviewRepo.On("Create", mock.MatchedBy(func(r *models.Review) bool {
		return r.ModerationStatus == models.ModerationStatusPending
	})).Return(nil)
	f.eventRepo.On("Create", mock.MatchedBy(func(e *models.ModerationEvent) bool {
		return e.Action == models.EventActionAutoShadow
	})).Return(nil)

	resp, err := f.svc.CreateReview(context.Background(), 1,
		&dto.CreateReviewDTO{Rating: 3, Text: "the soup was fine"},
		CallerIdentity{DeviceFingerprint: "device-abc"})

	// The submission succeeds from the caller's perspective; it just is not
	// visible until an admin looks at it.
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Review.ModerationStatus)
	assert.NotEmpty(t, resp.Message)
	f.eventRepo.AssertExpectations(t)
}

func TestCreateReview_VerdictCachedAcrossSubmissions(t *testing.T) {
	f := newReviewServiceFixture(t)
	expectedHash := f.hasher.Hash("device-abc")

	f.menuRepo.On("GetByID", int64(1)).Return(&models.MenuItem{ID: 1}, nil)
	f.banRepo.On("FindActive", expectedHash).Return(nil, nil)
	f.scorer.On("Score", mock.Anything, "same text twice").
		Return(approvedVerdict(map[string]float64{"TOXICITY": 0.1})).Once()
	f.reviewRepo.On("Create", mock.Anything).Return(nil)
	f.eventRepo.On("Create", mock.Anything).Return(nil)

	identity := CallerIdentity{DeviceFingerprint: "device-abc"}
	req := &dto.CreateReviewDTO{Rating: 4, Text: "same text twice"}

	_, err := f.svc.CreateReview(context.Background(), 1, req, identity)
	require.NoError(t, err)
	_, err = f.svc.CreateReview(context.Background(), 1, req, identity)
	require.NoError(t, err)

	// Second submission of identical text is served from the verdict cache
	f.scorer.AssertNumberOfCalls(t, "Score", 1)
}

func TestReportReview_HidesReview(t *testing.T) {
	f := newReviewServiceFixture(t)

	review := &models.Review{ID: 7, ModerationStatus: models.ModerationStatusApproved}
	f.reviewRepo.On("GetByID", int64(7)).Return(review, nil)
	f.reviewRepo.On("Save", mock.MatchedBy(func(r *models.Review) bool {
		return r.IsHidden
	})).Return(nil)

	err := f.svc.ReportReview(7)

	require.NoError(t, err)
	f.reviewRepo.AssertExpectations(t)
}

func TestReportReview_NotFound(t *testing.T) {
	f := newReviewServiceFixture(t)
	f.reviewRepo.On("GetByID", int64(404)).Return(nil, gorm.ErrRecordNotFound)

	err := f.svc.ReportReview(404)

	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestGetMenuItemReviews_OnlyVisible(t *testing.T) {
	f := newReviewServiceFixture(t)

	f.menuRepo.On("GetByID", int64(1)).Return(&models.MenuItem{ID: 1}, nil)
	f.reviewRepo.On("GetVisibleByMenuItem", int64(1), 1, 20).Return([]models.Review{
		{ID: 1, MenuItemID: 1, Rating: 4, ModerationStatus: models.ModerationStatusApproved},
	}, int64(1), nil)

	resp, err := f.svc.GetMenuItemReviews(1, 1, 20)

	require.NoError(t, err)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 1, resp.Total)
}
