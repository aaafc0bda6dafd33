package service

import (
	"edu_mission_backend/internal/model"
	"edu_mission_backend/internal/repository"
	"edu_mission_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

// EnrollmentService 管理课程报名的生命周期：pending -> active -> completed/cancelled
type EnrollmentService struct {
	enrollmentRepo *repository.EnrollmentRepository
	courseRepo     *repository.CourseRepository
}

func NewEnrollmentService(enrollmentRepo *repository.EnrollmentRepository, courseRepo *repository.CourseRepository) *EnrollmentService {
	return &EnrollmentService{enrollmentRepo: enrollmentRepo, courseRepo: courseRepo}
}

// Enroll 创建报名记录，初始状态为 pending，等待支付回调激活
func (s *EnrollmentService) Enroll(userID, majorID uint) (*model.Enrollment, error) {
	if _, err := s.courseRepo.FindMajorByID(majorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidReference
		}
		return nil, err
	}

	existing, err := s.enrollmentRepo.FindByUserAndMajor(userID, majorID)
	if err == nil {
		if existing.Status == model.EnrollmentCancelled {
			// 取消后重新报名，复用原记录
			existing.Status = model.EnrollmentPending
			existing.PaidAt = nil
			if err := s.enrollmentRepo.Update(existing); err != nil {
				return nil, err
			}
			return existing, nil
		}
		return nil, util.ErrAlreadyEnrolled
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := &model.Enrollment{
		UserID:          userID,
		MajorCategoryID: majorID,
		Status:          model.EnrollmentPending,
	}
	if err := s.enrollmentRepo.Create(enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyEnrolled
		}
		return nil, err
	}
	return enrollment, nil
}

// Activate 支付成功后激活报名，外部支付回调或管理员调用
func (s *EnrollmentService) Activate(enrollmentID uint) (*model.Enrollment, error) {
	enrollment, err := s.enrollmentRepo.FindByID(enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}

	if enrollment.Status == model.EnrollmentActive || enrollment.Status == model.EnrollmentCompleted {
		return enrollment, nil
	}

	now := time.Now()
	enrollment.Status = model.EnrollmentActive
	enrollment.PaidAt = &now
	if err := s.enrollmentRepo.Update(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// Cancel 取消报名，已完成的报名不允许取消
func (s *EnrollmentService) Cancel(userID, enrollmentID uint) (*model.Enrollment, error) {
	enrollment, err := s.enrollmentRepo.FindByID(enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}
	if enrollment.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	if enrollment.Status == model.EnrollmentCompleted {
		return nil, util.ErrInvalidInput
	}

	enrollment.Status = model.EnrollmentCancelled
	if err := s.enrollmentRepo.Update(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *EnrollmentService) ListByUser(userID uint) ([]model.Enrollment, error) {
	return s.enrollmentRepo.FindByUser(userID)
}

// RequireActiveOrCompleted 校验用户对指定大类的报名是有效的（active 或 completed）
func (s *EnrollmentService) RequireActiveOrCompleted(userID, majorID uint) (*model.Enrollment, error) {
	enrollment, err := s.enrollmentRepo.FindActiveOrCompleted(userID, majorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotActive
		}
		return nil, err
	}
	return enrollment, nil
}
