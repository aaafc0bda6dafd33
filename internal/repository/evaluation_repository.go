package repository

import (
	"edu_mission_backend/internal/model"

	"gorm.io/gorm"
)

// EvaluationRepository 处理代码评测审计记录的数据库操作
type EvaluationRepository struct {
	DB *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{DB: db}
}

func (r *EvaluationRepository) Create(evaluation *model.CodeEvaluation) error {
	return r.DB.Create(evaluation).Error
}

func (r *EvaluationRepository) FindByUserAndQuestion(userID, questionID uint, page, limit int) ([]model.CodeEvaluation, int64, error) {
	var evaluations []model.CodeEvaluation
	var total int64

	query := r.DB.Model(&model.CodeEvaluation{}).
		Where("user_id = ? AND question_id = ?", userID, questionID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&evaluations).Error
	return evaluations, total, err
}
