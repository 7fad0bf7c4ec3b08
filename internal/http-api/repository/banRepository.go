package repository

import (
	"errors"
	"time"

	"whattheygot/internal/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BanRepository interface {
	// Upsert inserts a ban with strikes=1 or, when a row already exists for
	// the hash (even an expired one), increments strikes and overwrites
	// reason, expires_at and created_at. Atomic at the storage layer.
	Upsert(deviceIDHash, reason string, expiresAt *time.Time) (*models.BannedDevice, error)
	// FindActive returns the unexpired ban for the hash, or nil when the
	// device is not currently banned.
	FindActive(deviceIDHash string) (*models.BannedDevice, error)
	ListAll() ([]models.BannedDevice, error)
	// Delete removes the ban and returns the deleted row, or nil when no ban
	// existed for the hash.
	Delete(deviceIDHash string) (*models.BannedDevice, error)
}

type banRepository struct {
	db *gorm.DB
}

func NewBanRepository(db *gorm.DB) BanRepository {
	return &banRepository{db: db}
}

func (r *banRepository) Upsert(deviceIDHash, reason string, expiresAt *time.Time) (*models.BannedDevice, error) {
	now := time.Now()
	ban := &models.BannedDevice{
		DeviceIDHash: deviceIDHash,
		Reason:       reason,
		Strikes:      1,
		ExpiresAt:    expiresAt,
		CreatedAt:    now,
	}

	// Insert-or-update keyed on the unique device hash. Two concurrent
	// rejections for the same device converge to one row with strikes
	// incremented rather than failing on the uniqueness violation.
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "device_id_hash"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"strikes":    gorm.Expr("banned_devices.strikes + 1"),
			"reason":     reason,
			"expires_at": expiresAt,
			"created_at": now,
		}),
	}).Create(ban).Error
	if err != nil {
		return nil, err
	}

	// Reload so the caller sees the accumulated strike count
	var saved models.BannedDevice
	if err := r.db.Where("device_id_hash = ?", deviceIDHash).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *banRepository) FindActive(deviceIDHash string) (*models.BannedDevice, error) {
	var ban models.BannedDevice
	err := r.db.Where("device_id_hash = ?", deviceIDHash).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		First(&ban).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ban, nil
}

// ListAll returns every ban row, newest first, for admin tooling
func (r *banRepository) ListAll() ([]models.BannedDevice, error) {
	var bans []models.BannedDevice
	err := r.db.Order("created_at DESC").Find(&bans).Error
	return bans, err
}

// Delete removes the ban entirely. Idempotent: deleting a hash with no row
// is not an error, it just returns nil. The deleted row is returned so the
// caller can reference it in the audit log.
func (r *banRepository) Delete(deviceIDHash string) (*models.BannedDevice, error) {
	var ban models.BannedDevice
	err := r.db.Where("device_id_hash = ?", deviceIDHash).First(&ban).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if err := r.db.Delete(&models.BannedDevice{}, ban.ID).Error; err != nil {
		return nil, err
	}
	return &ban, nil
}
