package service

import (
	"edu_mission_backend/internal/model"
	"edu_mission_backend/internal/repository"
	"edu_mission_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

// DefaultPassingScore 自动生成Mission时的默认及格线（满分100计）
const DefaultPassingScore = 60

type CourseService struct {
	courseRepo  *repository.CourseRepository
	missionRepo *repository.MissionRepository
}

func NewCourseService(courseRepo *repository.CourseRepository, missionRepo *repository.MissionRepository) *CourseService {
	return &CourseService{courseRepo: courseRepo, missionRepo: missionRepo}
}

type CreateMajorRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IconURL     string `json:"iconURL"`
	Order       int    `json:"order"`
}

func (s *CourseService) CreateMajor(req *CreateMajorRequest) (*model.MajorCategory, error) {
	major := &model.MajorCategory{
		Name:        req.Name,
		Description: req.Description,
		IconURL:     req.IconURL,
		Enabled:     true,
		Order:       req.Order,
	}
	if err := s.courseRepo.CreateMajor(major); err != nil {
		return nil, err
	}
	return major, nil
}

func (s *CourseService) GetMajor(id uint) (*model.MajorCategory, error) {
	major, err := s.courseRepo.FindMajorByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidReference
		}
		return nil, err
	}
	return major, nil
}

func (s *CourseService) ListMajors(page, limit int, enabled *bool) ([]model.MajorCategory, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.courseRepo.FindAllMajors(page, limit, enabled)
}

type UpdateMajorRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IconURL     *string `json:"iconURL"`
	Enabled     *bool   `json:"enabled"`
	Order       *int    `json:"order"`
}

func (s *CourseService) UpdateMajor(id uint, req *UpdateMajorRequest) (*model.MajorCategory, error) {
	major, err := s.courseRepo.FindMajorByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidReference
		}
		return nil, err
	}

	if req.Name != nil {
		major.Name = *req.Name
	}
	if req.Description != nil {
		major.Description = *req.Description
	}
	if req.IconURL != nil {
		major.IconURL = *req.IconURL
	}
	if req.Enabled != nil {
		major.Enabled = *req.Enabled
	}
	if req.Order != nil {
		major.Order = *req.Order
	}

	if err := s.courseRepo.UpdateMajor(major); err != nil {
		return nil, err
	}
	return major, nil
}

type CreateMinorRequest struct {
	MajorCategoryID uint   `json:"majorCategoryId" binding:"required"`
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	Order           int    `json:"order"`
}

// CreateMinor 创建单元，并在同一事务内自动生成期中/期末两个Mission
func (s *CourseService) CreateMinor(req *CreateMinorRequest) (*model.MinorCategory, error) {
	if _, err := s.courseRepo.FindMajorByID(req.MajorCategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidReference
		}
		return nil, err
	}

	minor := &model.MinorCategory{
		MajorCategoryID: req.MajorCategoryID,
		Name:            req.Name,
		Description:     req.Description,
		Order:           req.Order,
	}

	err := s.courseRepo.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(minor).Error; err != nil {
			return err
		}

		missions := []model.Mission{
			{
				MinorCategoryID: minor.ID,
				Order:           1,
				Type:            model.Midterm,
				Title:           minor.Name + " 期中考核",
				PassingScore:    DefaultPassingScore,
			},
			{
				MinorCategoryID: minor.ID,
				Order:           2,
				Type:            model.Final,
				Title:           minor.Name + " 期末考核",
				PassingScore:    DefaultPassingScore,
			},
		}
		return tx.Create(&missions).Error
	})
	if err != nil {
		return nil, err
	}

	return s.courseRepo.FindMinorByID(minor.ID)
}

func (s *CourseService) GetMinor(id uint) (*model.MinorCategory, error) {
	minor, err := s.courseRepo.FindMinorByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidReference
		}
		return nil, err
	}
	return minor, nil
}

func (s *CourseService) ListMinors(majorID uint) ([]model.MinorCategory, error) {
	return s.courseRepo.FindMinorsByMajorID(majorID)
}

type UpdateMinorRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
}

func (s *CourseService) UpdateMinor(id uint, req *UpdateMinorRequest) (*model.MinorCategory, error) {
	minor, err := s.courseRepo.FindMinorByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidReference
		}
		return nil, err
	}

	if req.Name != nil {
		minor.Name = *req.Name
	}
	if req.Description != nil {
		minor.Description = *req.Description
	}
	if req.Order != nil {
		minor.Order = *req.Order
	}

	if err := s.courseRepo.UpdateMinor(minor); err != nil {
		return nil, err
	}
	return minor, nil
}
