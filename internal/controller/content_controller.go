package controller

import (
	"edu_mission_backend/internal/service"
	"edu_mission_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

// UploadVideo godoc
// @Summary 上传教学视频
// @Description 上传视频文件并自动探测时长
// @Tags 内容
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "视频文件"
// @Param   minorCategoryId formData int true "所属单元ID"
// @Param   title formData string true "标题"
// @Success 201 {object} util.Response{data=model.Video} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/teacher/videos [post]
func (c *ContentController) UploadVideo(ctx *gin.Context) {
	var req service.UploadVideoRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少视频文件")
		return
	}

	video, err := c.ContentService.UploadVideo(ctx.Request.Context(), &req, file)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, video)
}

// GetVideo godoc
// @Summary 视频详情
// @Tags 内容
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "视频ID"
// @Success 200 {object} util.Response{data=model.Video} "成功"
// @Failure 404 {object} util.Response "不存在"
// @Router /api/videos/{id} [get]
func (c *ContentController) GetVideo(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	video, err := c.ContentService.GetVideo(id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, video)
}

// ListVideos godoc
// @Summary 单元下的视频列表
// @Tags 内容
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "单元ID"
// @Success 200 {object} util.Response{data=[]model.Video} "成功"
// @Router /api/minors/{id}/videos [get]
func (c *ContentController) ListVideos(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	videos, err := c.ContentService.ListVideos(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, videos)
}

// PlaybackURL godoc
// @Summary 获取视频播放地址
// @Description 返回带签名的临时播放地址
// @Tags 内容
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "视频ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "不存在"
// @Router /api/videos/{id}/playback [get]
func (c *ContentController) PlaybackURL(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	url, err := c.ContentService.PlaybackURL(ctx.Request.Context(), id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": url})
}

// DeleteVideo godoc
// @Summary 删除视频
// @Tags 内容
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "视频ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/teacher/videos/{id} [delete]
func (c *ContentController) DeleteVideo(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.ContentService.DeleteVideo(ctx.Request.Context(), id); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
