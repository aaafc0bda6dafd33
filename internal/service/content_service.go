package service

import (
	"edu_mission_backend/internal/model"
	"edu_mission_backend/internal/repository"
	"edu_mission_backend/internal/util"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlaybackURLExpiry 签名播放地址的有效期
const PlaybackURLExpiry = 2 * time.Hour

// ContentService 负责视频的上传、元数据探测与播放地址下发
type ContentService struct {
	courseRepo *repository.CourseRepository
	storage    *StorageService
}

func NewContentService(courseRepo *repository.CourseRepository, storage *StorageService) *ContentService {
	return &ContentService{courseRepo: courseRepo, storage: storage}
}

type UploadVideoRequest struct {
	MinorCategoryID uint   `form:"minorCategoryId" binding:"required"`
	Title           string `form:"title" binding:"required"`
	Description     string `form:"description"`
	Order           int    `form:"order"`
}

// UploadVideo 接收上传文件，先落到临时目录探测时长，再推送到对象存储
func (s *ContentService) UploadVideo(ctx context.Context, req *UploadVideoRequest, file *multipart.FileHeader) (*model.Video, error) {
	if _, err := s.courseRepo.FindMinorByID(req.MinorCategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidReference
		}
		return nil, err
	}

	ext := filepath.Ext(file.Filename)
	objectKey := fmt.Sprintf("videos/%s%s", uuid.New().String(), ext)

	tmpPath := filepath.Join(os.TempDir(), filepath.Base(objectKey))
	if err := saveUploadedFile(file, tmpPath); err != nil {
		return nil, fmt.Errorf("保存临时文件失败: %w", err)
	}
	defer os.Remove(tmpPath)

	// 探测时长，作为学习进度的钳制上限
	durationSec := 0
	if info, err := util.GetVideoInfo(tmpPath); err == nil {
		durationSec = int(math.Ceil(info.Duration))
	}

	if _, err := s.storage.UploadFile(ctx, objectKey, tmpPath, file.Header.Get("Content-Type")); err != nil {
		return nil, fmt.Errorf("上传视频失败: %w", err)
	}

	video := &model.Video{
		MinorCategoryID: req.MinorCategoryID,
		Title:           req.Title,
		Description:     req.Description,
		ObjectKey:       objectKey,
		DurationSec:     durationSec,
		Order:           req.Order,
	}
	if err := s.courseRepo.CreateVideo(video); err != nil {
		return nil, err
	}
	return video, nil
}

func (s *ContentService) GetVideo(id uint) (*model.Video, error) {
	video, err := s.courseRepo.FindVideoByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrVideoNotFound
		}
		return nil, err
	}
	return video, nil
}

func (s *ContentService) ListVideos(minorID uint) ([]model.Video, error) {
	return s.courseRepo.FindVideosByMinorID(minorID)
}

// PlaybackURL 下发带签名的播放地址
func (s *ContentService) PlaybackURL(ctx context.Context, videoID uint) (string, error) {
	video, err := s.GetVideo(videoID)
	if err != nil {
		return "", err
	}
	if video.ObjectKey == "" {
		return "", util.ErrVideoNotFound
	}
	return s.storage.PlaybackURL(ctx, video.ObjectKey, PlaybackURLExpiry)
}

func (s *ContentService) DeleteVideo(ctx context.Context, id uint) error {
	video, err := s.GetVideo(id)
	if err != nil {
		return err
	}
	if video.ObjectKey != "" {
		// 对象存储删除失败不阻断数据库删除，留给运维清理
		_ = s.storage.Delete(ctx, video.ObjectKey)
	}
	return s.courseRepo.DeleteVideo(id)
}

func saveUploadedFile(file *multipart.FileHeader, dst string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}
