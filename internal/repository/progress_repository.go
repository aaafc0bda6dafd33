package repository

import (
	"edu_mission_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

// ProgressRepository 处理用户视频观看进度的数据库操作
type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// FindOrCreate 懒创建进度记录：首次更新或首次查看详情时生成
func (r *ProgressRepository) FindOrCreate(userID, videoID, enrollmentID uint) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := r.DB.
		Where(model.UserProgress{UserID: userID, VideoID: videoID}).
		Attrs(model.UserProgress{EnrollmentID: enrollmentID, LastAccessed: time.Now()}).
		FirstOrCreate(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) FindByUserAndVideo(userID, videoID uint) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := r.DB.Where("user_id = ? AND video_id = ?", userID, videoID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) Save(progress *model.UserProgress) error {
	return r.DB.Save(progress).Error
}

// FindByUserAndVideos 一批视频的进度记录，按视频ID索引
func (r *ProgressRepository) FindByUserAndVideos(userID uint, videoIDs []uint) (map[uint]model.UserProgress, error) {
	if len(videoIDs) == 0 {
		return map[uint]model.UserProgress{}, nil
	}

	var records []model.UserProgress
	err := r.DB.Where("user_id = ? AND video_id IN ?", userID, videoIDs).Find(&records).Error
	if err != nil {
		return nil, err
	}

	byVideo := make(map[uint]model.UserProgress, len(records))
	for _, p := range records {
		byVideo[p.VideoID] = p
	}
	return byVideo, nil
}

func (r *ProgressRepository) FindByUser(userID uint) ([]model.UserProgress, error) {
	var records []model.UserProgress
	err := r.DB.Where("user_id = ?", userID).Find(&records).Error
	return records, err
}
