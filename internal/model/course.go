package model

// MajorCategory 表示一门课程（大类）
// swagger:model MajorCategory
type MajorCategory struct {
	BaseModel
	Name            string          `gorm:"size:255;not null" json:"name"`
	Description     string          `gorm:"type:text" json:"description"`
	IconURL         string          `gorm:"size:255" json:"iconURL"`
	Enabled         bool            `gorm:"default:true" json:"enabled"`
	Order           int             `gorm:"default:0" json:"order"`
	MinorCategories []MinorCategory `gorm:"foreignKey:MajorCategoryID" json:"minorCategories,omitempty"`
}

func (MajorCategory) TableName() string {
	return "major_categories"
}

// MinorCategory 表示课程下的一个单元（小类）
// 创建小类时自动生成期中/期末两个Mission，见 CourseService
// swagger:model MinorCategory
type MinorCategory struct {
	BaseModel
	MajorCategoryID uint      `gorm:"index:idx_major_order,unique;not null" json:"majorCategoryId"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	Order           int       `gorm:"index:idx_major_order,unique" json:"order"`
	Videos          []Video   `gorm:"foreignKey:MinorCategoryID" json:"videos,omitempty"`
	Missions        []Mission `gorm:"foreignKey:MinorCategoryID" json:"missions,omitempty"`
}

func (MinorCategory) TableName() string {
	return "minor_categories"
}

// Video 表示单元内的一个教学视频
// swagger:model Video
type Video struct {
	BaseModel
	MinorCategoryID uint   `gorm:"index;not null" json:"minorCategoryId"`
	Title           string `gorm:"size:255;not null" json:"title"`
	Description     string `gorm:"type:text" json:"description"`
	ObjectKey       string `gorm:"size:512" json:"objectKey"` // 对象存储中的文件名
	DurationSec     int    `gorm:"default:0" json:"durationSec"`
	Order           int    `gorm:"default:0" json:"order"`
}

func (Video) TableName() string {
	return "videos"
}
