package controller

import (
	"edu_mission_backend/internal/service"
	"edu_mission_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// UpdateProgress godoc
// @Summary 上报播放进度
// @Description 位置与累计时长钳制在视频时长内，百分比向下取整
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "视频ID"
// @Param   body body service.UpdateProgressRequest true "进度数据"
// @Success 200 {object} util.Response{data=model.UserProgress} "成功"
// @Failure 400 {object} util.Response "负数输入"
// @Failure 403 {object} util.Response "报名未生效"
// @Router /api/videos/{id}/progress [put]
func (c *ProgressController) UpdateProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	var req service.UpdateProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.ProgressService.UpdateProgress(ctx.Request.Context(), claims.UserID, id, &req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// GetDetail godoc
// @Summary 单个视频的进度详情
// @Description 首次查看时创建进度记录
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "视频ID"
// @Success 200 {object} util.Response{data=model.UserProgress} "成功"
// @Router /api/videos/{id}/progress [get]
func (c *ProgressController) GetDetail(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	progress, err := c.ProgressService.GetDetail(claims.UserID, id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// MinorProgress godoc
// @Summary 单元进度
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "单元ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/minors/{id}/progress [get]
func (c *ProgressController) MinorProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	percent, err := c.ProgressService.MinorProgress(claims.UserID, id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"progressPercent": percent})
}

// MajorProgress godoc
// @Summary 课程进度
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 403 {object} util.Response "报名未生效"
// @Router /api/majors/{id}/progress [get]
func (c *ProgressController) MajorProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	percent, err := c.ProgressService.MajorProgress(ctx.Request.Context(), claims.UserID, id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"progressPercent": percent})
}

// OverallProgress godoc
// @Summary 全局学习进度
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/progress/overall [get]
func (c *ProgressController) OverallProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	percent, err := c.ProgressService.OverallProgress(ctx.Request.Context(), claims.UserID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"progressPercent": percent})
}
