package repository

import (
	"edu_mission_backend/internal/model"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(enrollment *model.Enrollment) error {
	return r.DB.Create(enrollment).Error
}

func (r *EnrollmentRepository) FindByID(id uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.First(&enrollment, id).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) FindByUserAndMajor(userID, majorID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.Where("user_id = ? AND major_category_id = ?", userID, majorID).First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) FindByUser(userID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Where("user_id = ?", userID).Find(&enrollments).Error
	return enrollments, err
}

// FindActiveOrCompleted 进度写入与任务提交前的报名校验
func (r *EnrollmentRepository) FindActiveOrCompleted(userID, majorID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.
		Where("user_id = ? AND major_category_id = ? AND status IN ?",
			userID, majorID, []model.EnrollmentStatus{model.EnrollmentActive, model.EnrollmentCompleted}).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) Update(enrollment *model.Enrollment) error {
	return r.DB.Save(enrollment).Error
}
