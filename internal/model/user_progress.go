package model

import "time"

// UserProgress 一个用户对一个视频的观看状态，(user, video) 唯一
// 首次更新或首次查看详情时懒创建；本子系统不做删除，删除随账号/报名级联（外部负责）
// swagger:model UserProgress
type UserProgress struct {
	BaseModel
	UserID          uint      `gorm:"index:idx_user_video,unique;not null" json:"userId"`
	VideoID         uint      `gorm:"index:idx_user_video,unique;not null" json:"videoId"`
	EnrollmentID    uint      `gorm:"index;not null" json:"enrollmentId"`
	IsCompleted     bool      `gorm:"default:false" json:"isCompleted"`
	LastAccessed    time.Time `json:"lastAccessed"`
	ProgressPercent int       `gorm:"default:0" json:"progressPercent"` // 0-100
	TimeSpentSec    int       `gorm:"default:0" json:"timeSpentSec"`    // 累计观看时长，上限为视频时长
	LastPositionSec int       `gorm:"default:0" json:"lastPositionSec"` // 最后播放位置，上限为视频时长
}

func (UserProgress) TableName() string {
	return "user_progress"
}
