package repository

import (
	"errors"

	"whattheygot/internal/http-api/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var ErrAlreadyVoted = errors.New("caller has already voted in this poll")

type PollRepository interface {
	Create(poll *models.Poll) error
	Close(pollID int64) error
	GetByID(pollID int64) (*models.Poll, error)
	ListActive() ([]models.Poll, error)
	// Vote records one vote per voter key per poll; a second vote returns
	// ErrAlreadyVoted.
	Vote(pollID, optionID int64, voterKey string) error
	CountVotes(pollID int64) (map[int64]int64, error)
}

type pollRepository struct {
	db *gorm.DB
}

func NewPollRepository(db *gorm.DB) PollRepository {
	return &pollRepository{db: db}
}

func (r *pollRepository) Create(poll *models.Poll) error {
	return r.db.Create(poll).Error
}

func (r *pollRepository) Close(pollID int64) error {
	result := r.db.Model(&models.Poll{}).Where("id = ?", pollID).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("poll not found")
	}
	return nil
}

func (r *pollRepository) GetByID(pollID int64) (*models.Poll, error) {
	var poll models.Poll
	err := r.db.Where("id = ?", pollID).Preload("Options").First(&poll).Error
	if err != nil {
		return nil, err
	}
	return &poll, nil
}

func (r *pollRepository) ListActive() ([]models.Poll, error) {
	var polls []models.Poll
	err := r.db.Where("is_active = ?", true).
		Preload("Options").
		Order("created_at DESC").
		Find(&polls).Error
	return polls, err
}

func (r *pollRepository) Vote(pollID, optionID int64, voterKey string) error {
	vote := &models.PollVote{
		PollID:   pollID,
		OptionID: optionID,
		VoterKey: voterKey,
	}
	err := r.db.Create(vote).Error
	if isDuplicateKey(err) {
		return ErrAlreadyVoted
	}
	return err
}

// isDuplicateKey reports whether err is a unique-constraint violation. The
// gorm sentinel covers connections opened with TranslateError; the raw
// SQLSTATE check covers untranslated postgres driver errors.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *pollRepository) CountVotes(pollID int64) (map[int64]int64, error) {
	var rows []struct {
		OptionID int64
		Count    int64
	}
	err := r.db.Model(&models.PollVote{}).
		Select("option_id, COUNT(*) as count").
		Where("poll_id = ?", pollID).
		Group("option_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]int64, len(rows))
	for _, row := range rows {
		counts[row.OptionID] = row.Count
	}
	return counts, nil
}
