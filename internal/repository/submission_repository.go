package repository

import (
	"edu_mission_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubmissionRepository 处理Mission作答记录及题目作答的数据库操作
type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(tx *gorm.DB, submission *model.MissionSubmission) error {
	return tx.Create(submission).Error
}

func (r *SubmissionRepository) FindByID(id uint) (*model.MissionSubmission, error) {
	var submission model.MissionSubmission
	err := r.DB.First(&submission, id).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *SubmissionRepository) FindByIDWithChildren(id uint) (*model.MissionSubmission, error) {
	var submission model.MissionSubmission
	err := r.DB.Preload("QuestionSubmissions").First(&submission, id).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *SubmissionRepository) FindByUserAndMission(userID, missionID uint) (*model.MissionSubmission, error) {
	var submission model.MissionSubmission
	err := r.DB.Where("user_id = ? AND mission_id = ?", userID, missionID).First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *SubmissionRepository) FindByUser(userID uint) ([]model.MissionSubmission, error) {
	var submissions []model.MissionSubmission
	err := r.DB.Where("user_id = ?", userID).Find(&submissions).Error
	return submissions, err
}

// FindForUpdate 在事务内对作答记录行加排它锁，序列化同一记录上的并发重算
// sqlite（仅测试使用）不支持 FOR UPDATE，靠其单写事务语义兜底
func (r *SubmissionRepository) FindForUpdate(tx *gorm.DB, id uint) (*model.MissionSubmission, error) {
	query := tx
	if tx.Dialector.Name() != "sqlite" {
		query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var submission model.MissionSubmission
	err := query.First(&submission, id).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *SubmissionRepository) CreateQuestionSubmission(tx *gorm.DB, qs *model.QuestionSubmission) error {
	return tx.Create(qs).Error
}

func (r *SubmissionRepository) FindQuestionSubmissions(tx *gorm.DB, missionSubmissionID uint) ([]model.QuestionSubmission, error) {
	var children []model.QuestionSubmission
	err := tx.Where("mission_submission_id = ?", missionSubmissionID).Find(&children).Error
	return children, err
}

func (r *SubmissionRepository) FindQuestionSubmission(missionSubmissionID, questionID uint) (*model.QuestionSubmission, error) {
	var qs model.QuestionSubmission
	err := r.DB.Where("mission_submission_id = ? AND question_id = ?", missionSubmissionID, questionID).First(&qs).Error
	if err != nil {
		return nil, err
	}
	return &qs, nil
}

// UpdateDerivedScore 只更新派生字段，其他字段不允许从这里写
func (r *SubmissionRepository) UpdateDerivedScore(tx *gorm.DB, id uint, totalScore int, isPassed bool) error {
	return tx.Model(&model.MissionSubmission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_score": totalScore,
			"is_passed":   isPassed,
		}).Error
}
