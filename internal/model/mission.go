package model

type MissionType string

const (
	Midterm MissionType = "midterm"
	Final   MissionType = "final"
)

// Mission 表示单元内的一次考核（期中/期末），创建单元时自动生成
// swagger:model Mission
type Mission struct {
	BaseModel
	MinorCategoryID uint        `gorm:"index:idx_minor_order,unique;not null" json:"minorCategoryId"`
	Order           int         `gorm:"index:idx_minor_order,unique" json:"order"`
	Type            MissionType `gorm:"size:20;not null" json:"type"`
	Title           string      `gorm:"size:255;not null" json:"title"`
	PassingScore    int         `gorm:"default:60" json:"passingScore"`
	Questions       []Question  `gorm:"foreignKey:MissionID" json:"questions,omitempty"`
}

func (Mission) TableName() string {
	return "missions"
}

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	Code           QuestionType = "code"
)

// Question 表示Mission内的一道题目，选择题或编程题
// swagger:model Question
type Question struct {
	BaseModel
	MissionID uint         `gorm:"index:idx_mission_order,unique;not null" json:"missionId"`
	Order     int          `gorm:"index:idx_mission_order,unique" json:"order"`
	Type      QuestionType `gorm:"size:20;not null" json:"type"`
	Content   string       `gorm:"type:text" json:"content"`
	Points    int          `gorm:"default:0" json:"points"`

	// 选择题专用
	Options []QuestionOption `gorm:"foreignKey:QuestionID" json:"options,omitempty"`

	// 编程题专用
	InitialCode string     `gorm:"type:text" json:"initialCode"`
	Language    string     `gorm:"size:50" json:"language"`
	TestCases   []TestCase `gorm:"foreignKey:QuestionID" json:"testCases,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// QuestionOption 选择题选项
// swagger:model QuestionOption
type QuestionOption struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	Order      int    `gorm:"default:0" json:"order"`
	Content    string `gorm:"type:text" json:"content"`
	IsCorrect  bool   `gorm:"default:false" json:"-"` // 不下发给学生端
}

func (QuestionOption) TableName() string {
	return "question_options"
}

// TestCase 编程题测试用例。IsHidden 仅影响展示，评分时隐藏用例与样例用例一视同仁
// swagger:model TestCase
type TestCase struct {
	BaseModel
	QuestionID     uint   `gorm:"index;not null" json:"questionId"`
	Order          int    `gorm:"default:0" json:"order"`
	Input          string `gorm:"type:text" json:"input"`
	ExpectedOutput string `gorm:"type:text" json:"expectedOutput"`
	IsHidden       bool   `gorm:"default:false" json:"isHidden"`
}

func (TestCase) TableName() string {
	return "test_cases"
}
