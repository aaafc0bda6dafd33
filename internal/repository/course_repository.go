package repository

import (
	"edu_mission_backend/internal/model"

	"gorm.io/gorm"
)

// CourseRepository 处理课程大类/小类/视频的数据库操作
type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) CreateMajor(major *model.MajorCategory) error {
	return r.DB.Create(major).Error
}

func (r *CourseRepository) FindMajorByID(id uint) (*model.MajorCategory, error) {
	var major model.MajorCategory
	err := r.DB.Preload("MinorCategories").First(&major, id).Error
	if err != nil {
		return nil, err
	}
	return &major, nil
}

func (r *CourseRepository) FindAllMajors(page, limit int, enabled *bool) ([]model.MajorCategory, int64, error) {
	var majors []model.MajorCategory
	var total int64

	query := r.DB.Model(&model.MajorCategory{})
	if enabled != nil {
		query = query.Where("enabled = ?", *enabled)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("`order` asc").Offset(offset).Limit(limit).Find(&majors).Error
	return majors, total, err
}

func (r *CourseRepository) UpdateMajor(major *model.MajorCategory) error {
	return r.DB.Save(major).Error
}

func (r *CourseRepository) DeleteMajor(id uint) error {
	return r.DB.Delete(&model.MajorCategory{}, id).Error
}

func (r *CourseRepository) FindMinorByID(id uint) (*model.MinorCategory, error) {
	var minor model.MinorCategory
	err := r.DB.Preload("Videos").Preload("Missions").First(&minor, id).Error
	if err != nil {
		return nil, err
	}
	return &minor, nil
}

func (r *CourseRepository) FindMinorsByMajorID(majorID uint) ([]model.MinorCategory, error) {
	var minors []model.MinorCategory
	err := r.DB.Where("major_category_id = ?", majorID).Order("`order` asc").Find(&minors).Error
	return minors, err
}

func (r *CourseRepository) UpdateMinor(minor *model.MinorCategory) error {
	return r.DB.Save(minor).Error
}

func (r *CourseRepository) CreateVideo(video *model.Video) error {
	return r.DB.Create(video).Error
}

func (r *CourseRepository) FindVideoByID(id uint) (*model.Video, error) {
	var video model.Video
	err := r.DB.First(&video, id).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *CourseRepository) FindVideosByMinorID(minorID uint) ([]model.Video, error) {
	var videos []model.Video
	err := r.DB.Where("minor_category_id = ?", minorID).Order("`order` asc").Find(&videos).Error
	return videos, err
}

// FindVideosByMajorID 大类下所有小类的视频，按小类和视频顺序排列
func (r *CourseRepository) FindVideosByMajorID(majorID uint) ([]model.Video, error) {
	var videos []model.Video
	err := r.DB.
		Joins("JOIN minor_categories ON minor_categories.id = videos.minor_category_id").
		Where("minor_categories.major_category_id = ?", majorID).
		Order("minor_categories.`order` asc, videos.`order` asc").
		Find(&videos).Error
	return videos, err
}

func (r *CourseRepository) UpdateVideo(video *model.Video) error {
	return r.DB.Save(video).Error
}

func (r *CourseRepository) DeleteVideo(id uint) error {
	return r.DB.Delete(&model.Video{}, id).Error
}

// MajorIDForVideo 视频所属的大类，进度写入前的报名校验用
func (r *CourseRepository) MajorIDForVideo(videoID uint) (uint, error) {
	var majorID uint
	err := r.DB.Model(&model.Video{}).
		Select("minor_categories.major_category_id").
		Joins("JOIN minor_categories ON minor_categories.id = videos.minor_category_id").
		Where("videos.id = ?", videoID).
		Scan(&majorID).Error
	return majorID, err
}
