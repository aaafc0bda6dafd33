package controller

import (
	"edu_mission_backend/internal/service"
	"edu_mission_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// CreateMajor godoc
// @Summary 创建课程大类
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.CreateMajorRequest true "课程信息"
// @Success 201 {object} util.Response{data=model.MajorCategory} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/admin/majors [post]
func (c *CourseController) CreateMajor(ctx *gin.Context) {
	var req service.CreateMajorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	major, err := c.CourseService.CreateMajor(&req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, major)
}

// ListMajors godoc
// @Summary 课程大类列表
// @Tags 课程
// @Produce  json
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.PageResponse "成功"
// @Router /api/majors [get]
func (c *CourseController) ListMajors(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	// 非管理端只看已启用的课程
	enabled := true
	majors, total, err := c.CourseService.ListMajors(page, limit, &enabled)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"items": majors,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetMajor godoc
// @Summary 课程大类详情
// @Tags 课程
// @Produce  json
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.MajorCategory} "成功"
// @Failure 404 {object} util.Response "不存在"
// @Router /api/majors/{id} [get]
func (c *CourseController) GetMajor(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	major, err := c.CourseService.GetMajor(id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, major)
}

// UpdateMajor godoc
// @Summary 更新课程大类
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Param   body body service.UpdateMajorRequest true "更新内容"
// @Success 200 {object} util.Response{data=model.MajorCategory} "成功"
// @Router /api/admin/majors/{id} [put]
func (c *CourseController) UpdateMajor(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	var req service.UpdateMajorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	major, err := c.CourseService.UpdateMajor(id, &req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, major)
}

// CreateMinor godoc
// @Summary 创建课程单元
// @Description 创建单元并自动生成期中/期末两个考核任务
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.CreateMinorRequest true "单元信息"
// @Success 201 {object} util.Response{data=model.MinorCategory} "创建成功"
// @Router /api/teacher/minors [post]
func (c *CourseController) CreateMinor(ctx *gin.Context) {
	var req service.CreateMinorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	minor, err := c.CourseService.CreateMinor(&req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, minor)
}

// GetMinor godoc
// @Summary 课程单元详情
// @Tags 课程
// @Produce  json
// @Param   id path int true "单元ID"
// @Success 200 {object} util.Response{data=model.MinorCategory} "成功"
// @Router /api/minors/{id} [get]
func (c *CourseController) GetMinor(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	minor, err := c.CourseService.GetMinor(id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, minor)
}

// ListMinors godoc
// @Summary 课程下的单元列表
// @Tags 课程
// @Produce  json
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.MinorCategory} "成功"
// @Router /api/majors/{id}/minors [get]
func (c *CourseController) ListMinors(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	minors, err := c.CourseService.ListMinors(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, minors)
}

// UpdateMinor godoc
// @Summary 更新课程单元
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "单元ID"
// @Param   body body service.UpdateMinorRequest true "更新内容"
// @Success 200 {object} util.Response{data=model.MinorCategory} "成功"
// @Router /api/teacher/minors/{id} [put]
func (c *CourseController) UpdateMinor(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	var req service.UpdateMinorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	minor, err := c.CourseService.UpdateMinor(id, &req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, minor)
}
