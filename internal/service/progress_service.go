package service

import (
	"edu_mission_backend/internal/model"
	"edu_mission_backend/internal/repository"
	"edu_mission_backend/internal/util"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// progressCacheTTL 聚合进度的缓存时长，写入进度时主动失效
const progressCacheTTL = 5 * time.Minute

// ProgressService 学习进度跟踪器。维护每个(用户,视频)的观看状态，
// 并向上聚合出单元/课程/全局三个层级的进度百分比
type ProgressService struct {
	progressRepo      *repository.ProgressRepository
	courseRepo        *repository.CourseRepository
	enrollmentService *EnrollmentService
	redis             *redis.Client
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	courseRepo *repository.CourseRepository,
	enrollmentService *EnrollmentService,
	rdb *redis.Client,
) *ProgressService {
	return &ProgressService{
		progressRepo:      progressRepo,
		courseRepo:        courseRepo,
		enrollmentService: enrollmentService,
		redis:             rdb,
	}
}

type UpdateProgressRequest struct {
	AdditionalTimeSec int `json:"additionalTimeSec"`
	LastPositionSec   int `json:"lastPositionSec"`
}

// UpdateProgress 写入一次播放进度。负数输入直接拒绝；
// 位置与累计时长都钳制在视频时长内，百分比向下取整；
// 看满100%才算完成（另一处曾用过95%阈值，这里统一为100%）
func (s *ProgressService) UpdateProgress(ctx context.Context, userID, videoID uint, req *UpdateProgressRequest) (*model.UserProgress, error) {
	if req.AdditionalTimeSec < 0 || req.LastPositionSec < 0 {
		return nil, util.ErrInvalidInput
	}

	video, enrollment, err := s.authorizeVideo(userID, videoID)
	if err != nil {
		return nil, err
	}

	progress, err := s.progressRepo.FindOrCreate(userID, videoID, enrollment.ID)
	if err != nil {
		return nil, err
	}

	duration := video.DurationSec

	position := req.LastPositionSec
	if duration > 0 && position > duration {
		position = duration
	}

	percent := 0
	if duration > 0 {
		percent = position * 100 / duration
	}
	if percent > 100 {
		percent = 100
	}

	timeSpent := progress.TimeSpentSec + req.AdditionalTimeSec
	if duration > 0 && timeSpent > duration {
		timeSpent = duration
	}

	progress.LastPositionSec = position
	progress.ProgressPercent = percent
	progress.TimeSpentSec = timeSpent
	progress.IsCompleted = percent == 100
	progress.LastAccessed = time.Now()

	if err := s.progressRepo.Save(progress); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, userID)
	return progress, nil
}

// GetDetail 查看单个视频的进度，首次查看时懒创建记录
func (s *ProgressService) GetDetail(userID, videoID uint) (*model.UserProgress, error) {
	_, enrollment, err := s.authorizeVideo(userID, videoID)
	if err != nil {
		return nil, err
	}
	return s.progressRepo.FindOrCreate(userID, videoID, enrollment.ID)
}

// authorizeVideo 视频存在性与报名状态校验，写入进度的硬前置条件
func (s *ProgressService) authorizeVideo(userID, videoID uint) (*model.Video, *model.Enrollment, error) {
	video, err := s.courseRepo.FindVideoByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrVideoNotFound
		}
		return nil, nil, err
	}

	majorID, err := s.courseRepo.MajorIDForVideo(videoID)
	if err != nil {
		return nil, nil, err
	}

	enrollment, err := s.enrollmentService.RequireActiveOrCompleted(userID, majorID)
	if err != nil {
		return nil, nil, err
	}
	return video, enrollment, nil
}

// MinorProgress 单元进度 = 单元下全部视频进度百分比的算术平均，
// 没有进度记录的视频按0计，单元无视频时返回0而不是报错
func (s *ProgressService) MinorProgress(userID, minorID uint) (int, error) {
	videos, err := s.courseRepo.FindVideosByMinorID(minorID)
	if err != nil {
		return 0, err
	}
	return s.meanProgress(userID, videos)
}

// MajorProgress 课程进度，要求用户对该课程有有效报名
func (s *ProgressService) MajorProgress(ctx context.Context, userID, majorID uint) (int, error) {
	if cached, ok := s.cacheGet(ctx, majorCacheKey(userID, majorID)); ok {
		return cached, nil
	}

	if _, err := s.enrollmentService.RequireActiveOrCompleted(userID, majorID); err != nil {
		return 0, err
	}

	videos, err := s.courseRepo.FindVideosByMajorID(majorID)
	if err != nil {
		return 0, err
	}

	percent, err := s.meanProgress(userID, videos)
	if err != nil {
		return 0, err
	}

	s.cacheSet(ctx, majorCacheKey(userID, majorID), percent)
	return percent, nil
}

// OverallProgress 全局进度 = 有效报名课程下全部视频的进度平均，无视频时为0
func (s *ProgressService) OverallProgress(ctx context.Context, userID uint) (int, error) {
	if cached, ok := s.cacheGet(ctx, overallCacheKey(userID)); ok {
		return cached, nil
	}

	enrollments, err := s.enrollmentService.ListByUser(userID)
	if err != nil {
		return 0, err
	}

	var videos []model.Video
	for _, e := range enrollments {
		if !e.IsActiveOrCompleted() {
			continue
		}
		vs, err := s.courseRepo.FindVideosByMajorID(e.MajorCategoryID)
		if err != nil {
			return 0, err
		}
		videos = append(videos, vs...)
	}

	percent, err := s.meanProgress(userID, videos)
	if err != nil {
		return 0, err
	}

	s.cacheSet(ctx, overallCacheKey(userID), percent)
	return percent, nil
}

func (s *ProgressService) ListByUser(userID uint) ([]model.UserProgress, error) {
	return s.progressRepo.FindByUser(userID)
}

func (s *ProgressService) meanProgress(userID uint, videos []model.Video) (int, error) {
	if len(videos) == 0 {
		return 0, nil
	}

	ids := make([]uint, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.ID)
	}

	records, err := s.progressRepo.FindByUserAndVideos(userID, ids)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, id := range ids {
		if p, ok := records[id]; ok {
			total += p.ProgressPercent
		}
	}
	return total / len(videos), nil
}

func majorCacheKey(userID, majorID uint) string {
	return fmt.Sprintf("progress:major:%d:%d", userID, majorID)
}

func overallCacheKey(userID uint) string {
	return fmt.Sprintf("progress:overall:%d", userID)
}

func (s *ProgressService) cacheGet(ctx context.Context, key string) (int, bool) {
	if s.redis == nil {
		return 0, false
	}
	raw, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return 0, false
	}
	var percent int
	if err := json.Unmarshal([]byte(raw), &percent); err != nil {
		return 0, false
	}
	return percent, true
}

func (s *ProgressService) cacheSet(ctx context.Context, key string, percent int) {
	if s.redis == nil {
		return
	}
	raw, _ := json.Marshal(percent)
	s.redis.Set(ctx, key, raw, progressCacheTTL)
}

// invalidateCache 进度写入后清掉该用户的所有聚合缓存
func (s *ProgressService) invalidateCache(ctx context.Context, userID uint) {
	if s.redis == nil {
		return
	}

	keys := []string{overallCacheKey(userID)}
	if enrollments, err := s.enrollmentService.ListByUser(userID); err == nil {
		for _, e := range enrollments {
			keys = append(keys, majorCacheKey(userID, e.MajorCategoryID))
		}
	}
	s.redis.Del(ctx, keys...)
}
