package controller

import (
	"edu_mission_backend/internal/service"
	"edu_mission_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

// EnrollRequest 报名请求
type EnrollRequest struct {
	MajorCategoryID uint `json:"majorCategoryId" binding:"required"`
}

// Enroll godoc
// @Summary 报名课程
// @Description 创建报名记录，初始为待支付状态
// @Tags 报名
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body EnrollRequest true "报名信息"
// @Success 201 {object} util.Response{data=model.Enrollment} "创建成功"
// @Failure 409 {object} util.Response "已报名"
// @Router /api/enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.EnrollmentService.Enroll(claims.UserID, req.MajorCategoryID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, enrollment)
}

// Activate godoc
// @Summary 激活报名
// @Description 支付成功后由支付回调或管理员激活
// @Tags 报名
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "报名ID"
// @Success 200 {object} util.Response{data=model.Enrollment} "成功"
// @Failure 404 {object} util.Response "不存在"
// @Router /api/admin/enrollments/{id}/activate [post]
func (c *EnrollmentController) Activate(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	enrollment, err := c.EnrollmentService.Activate(id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, enrollment)
}

// Cancel godoc
// @Summary 取消报名
// @Tags 报名
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "报名ID"
// @Success 200 {object} util.Response{data=model.Enrollment} "成功"
// @Router /api/enrollments/{id}/cancel [post]
func (c *EnrollmentController) Cancel(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	enrollment, err := c.EnrollmentService.Cancel(claims.UserID, id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, enrollment)
}

// ListMine godoc
// @Summary 我的报名列表
// @Tags 报名
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Enrollment} "成功"
// @Router /api/enrollments [get]
func (c *EnrollmentController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollments, err := c.EnrollmentService.ListByUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}
