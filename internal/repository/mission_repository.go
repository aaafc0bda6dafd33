package repository

import (
	"edu_mission_backend/internal/model"

	"gorm.io/gorm"
)

// MissionRepository 处理Mission及其题目的数据库操作
type MissionRepository struct {
	DB *gorm.DB
}

func NewMissionRepository(db *gorm.DB) *MissionRepository {
	return &MissionRepository{DB: db}
}

func (r *MissionRepository) Create(mission *model.Mission) error {
	return r.DB.Create(mission).Error
}

func (r *MissionRepository) FindByID(id uint) (*model.Mission, error) {
	var mission model.Mission
	err := r.DB.First(&mission, id).Error
	if err != nil {
		return nil, err
	}
	return &mission, nil
}

// FindByIDWithQuestions 加载题目、选项与测试用例，按题目顺序排列
func (r *MissionRepository) FindByIDWithQuestions(id uint) (*model.Mission, error) {
	var mission model.Mission
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.`order` asc")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_options.`order` asc")
		}).
		Preload("Questions.TestCases", func(db *gorm.DB) *gorm.DB {
			return db.Order("test_cases.`order` asc")
		}).
		First(&mission, id).Error
	if err != nil {
		return nil, err
	}
	return &mission, nil
}

func (r *MissionRepository) FindByMinorID(minorID uint) ([]model.Mission, error) {
	var missions []model.Mission
	err := r.DB.Where("minor_category_id = ?", minorID).Order("`order` asc").Find(&missions).Error
	return missions, err
}

func (r *MissionRepository) Update(mission *model.Mission) error {
	return r.DB.Save(mission).Error
}

// MajorIDForMission 任务所属的大类，提交前的报名校验用
func (r *MissionRepository) MajorIDForMission(missionID uint) (uint, error) {
	var majorID uint
	err := r.DB.Model(&model.Mission{}).
		Select("minor_categories.major_category_id").
		Joins("JOIN minor_categories ON minor_categories.id = missions.minor_category_id").
		Where("missions.id = ?", missionID).
		Scan(&majorID).Error
	return majorID, err
}

func (r *MissionRepository) CreateQuestion(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *MissionRepository) FindQuestionByID(id uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_options.`order` asc")
		}).
		Preload("TestCases", func(db *gorm.DB) *gorm.DB {
			return db.Order("test_cases.`order` asc")
		}).
		First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *MissionRepository) FindOptionByID(id uint) (*model.QuestionOption, error) {
	var option model.QuestionOption
	err := r.DB.First(&option, id).Error
	if err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *MissionRepository) UpdateQuestion(question *model.Question) error {
	return r.DB.Save(question).Error
}

func (r *MissionRepository) DeleteQuestion(id uint) error {
	return r.DB.Delete(&model.Question{}, id).Error
}
