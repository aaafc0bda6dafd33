package model

import "time"

type EnrollmentStatus string

const (
	EnrollmentPending   EnrollmentStatus = "pending"
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)

// Enrollment 表示用户对一门课程（大类）的报名/付费状态
// 支付网关本身由外部系统负责，支付成功后调用激活接口把状态置为 active
// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	UserID          uint             `gorm:"index:idx_user_major,unique;not null" json:"userId"`
	MajorCategoryID uint             `gorm:"index:idx_user_major,unique;not null" json:"majorCategoryId"`
	Status          EnrollmentStatus `gorm:"size:20;default:'pending'" json:"status"`
	PaidAt          *time.Time       `json:"paidAt,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// IsActiveOrCompleted 进度写入与任务提交的前置条件
func (e *Enrollment) IsActiveOrCompleted() bool {
	return e.Status == EnrollmentActive || e.Status == EnrollmentCompleted
}
