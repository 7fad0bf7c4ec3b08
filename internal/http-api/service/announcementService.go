package service

import (
	"errors"

	"whattheygot/internal/http-api/dto"
	"whattheygot/internal/http-api/models"
	"whattheygot/internal/http-api/repository"

	"gorm.io/gorm"
)

var ErrAnnouncementNotFound = errors.New("announcement not found")

type AnnouncementService interface {
	List() ([]models.Announcement, error)
	Create(adminID string, req *dto.CreateAnnouncementDTO) (*models.Announcement, error)
	Update(announcementID int64, req *dto.CreateAnnouncementDTO) (*models.Announcement, error)
	Delete(announcementID int64) error
}

type announcementService struct {
	announcementRepo repository.AnnouncementRepository
}

func NewAnnouncementService(announcementRepo repository.AnnouncementRepository) AnnouncementService {
	return &announcementService{announcementRepo: announcementRepo}
}

func (s *announcementService) List() ([]models.Announcement, error) {
	return s.announcementRepo.List()
}

func (s *announcementService) Create(adminID string, req *dto.CreateAnnouncementDTO) (*models.Announcement, error) {
	announcement := &models.Announcement{
		Title:    req.Title,
		Body:     req.Body,
		IsPinned: req.IsPinned,
		AdminID:  adminID,
	}
	if err := s.announcementRepo.Create(announcement); err != nil {
		return nil, err
	}
	return announcement, nil
}

func (s *announcementService) Update(announcementID int64, req *dto.CreateAnnouncementDTO) (*models.Announcement, error) {
	announcement, err := s.announcementRepo.GetByID(announcementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, err
	}

	announcement.Title = req.Title
	announcement.Body = req.Body
	announcement.IsPinned = req.IsPinned

	if err := s.announcementRepo.Update(announcement); err != nil {
		return nil, err
	}
	return announcement, nil
}

func (s *announcementService) Delete(announcementID int64) error {
	return s.announcementRepo.Delete(announcementID)
}
