package model

import "time"

// MissionSubmission 一个用户对一个Mission的作答记录，(user, mission) 唯一
// TotalScore 与 IsPassed 均为派生字段，只能由 MissionService.recompute 写入
// swagger:model MissionSubmission
type MissionSubmission struct {
	BaseModel
	UserID              uint                 `gorm:"index:idx_user_mission,unique;not null" json:"userId"`
	MissionID           uint                 `gorm:"index:idx_user_mission,unique;not null" json:"missionId"`
	TotalScore          int                  `gorm:"default:0" json:"totalScore"`
	IsPassed            bool                 `gorm:"default:false" json:"isPassed"`
	QuestionSubmissions []QuestionSubmission `gorm:"foreignKey:MissionSubmissionID;constraint:OnDelete:CASCADE" json:"questionSubmissions,omitempty"`
}

func (MissionSubmission) TableName() string {
	return "mission_submissions"
}

// QuestionSubmission 一道题目的作答，(mission_submission, question) 唯一
// 用 Type 标签区分选择题/编程题两种变体，公共字段共享，不用继承
// swagger:model QuestionSubmission
type QuestionSubmission struct {
	BaseModel
	MissionSubmissionID uint         `gorm:"index:idx_subm_question,unique;not null" json:"missionSubmissionId"`
	QuestionID          uint         `gorm:"index:idx_subm_question,unique;not null" json:"questionId"`
	Type                QuestionType `gorm:"size:20;not null" json:"type"`
	SubmittedAt         time.Time    `json:"submittedAt"`
	Score               *int         `json:"score"`

	// 选择题变体
	SelectedOptionID *uint `json:"selectedOptionId,omitempty"`

	// 编程题变体
	SubmittedCode string `gorm:"type:text" json:"submittedCode,omitempty"`
}

func (QuestionSubmission) TableName() string {
	return "question_submissions"
}
