package controller

import (
	"edu_mission_backend/internal/service"
	"edu_mission_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type MissionController struct {
	MissionService    *service.MissionService
	EvaluationService *service.EvaluationService
}

func NewMissionController(missionService *service.MissionService, evaluationService *service.EvaluationService) *MissionController {
	return &MissionController{
		MissionService:    missionService,
		EvaluationService: evaluationService,
	}
}

// GetMission godoc
// @Summary 任务详情
// @Description 返回任务及其题目，选项的正确性标记不下发
// @Tags 任务
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "任务ID"
// @Success 200 {object} util.Response{data=model.Mission} "成功"
// @Failure 404 {object} util.Response "不存在"
// @Router /api/missions/{id} [get]
func (c *MissionController) GetMission(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	mission, err := c.MissionService.GetMission(id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, mission)
}

// ListMissions godoc
// @Summary 单元下的任务列表
// @Tags 任务
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "单元ID"
// @Success 200 {object} util.Response{data=[]model.Mission} "成功"
// @Router /api/minors/{id}/missions [get]
func (c *MissionController) ListMissions(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	missions, err := c.MissionService.ListMissions(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, missions)
}

// UpdateMission godoc
// @Summary 更新任务配置
// @Description 修改标题或及格线
// @Tags 任务
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "任务ID"
// @Param   body body service.UpdateMissionRequest true "更新内容"
// @Success 200 {object} util.Response{data=model.Mission} "成功"
// @Router /api/teacher/missions/{id} [put]
func (c *MissionController) UpdateMission(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	var req service.UpdateMissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	mission, err := c.MissionService.UpdateMission(id, &req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, mission)
}

// CreateQuestion godoc
// @Summary 创建题目
// @Description 为任务添加选择题或编程题
// @Tags 任务
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.CreateQuestionRequest true "题目信息"
// @Success 201 {object} util.Response{data=model.Question} "创建成功"
// @Router /api/teacher/questions [post]
func (c *MissionController) CreateQuestion(ctx *gin.Context) {
	var req service.CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.MissionService.CreateQuestion(&req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// CreateSubmissionRequest 创建作答记录请求
type CreateSubmissionRequest struct {
	MissionID uint `json:"missionId" binding:"required"`
}

// CreateSubmission godoc
// @Summary 开始作答
// @Description 创建作答记录，每个用户对每个任务只能有一份
// @Tags 作答
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CreateSubmissionRequest true "任务信息"
// @Success 201 {object} util.Response{data=model.MissionSubmission} "创建成功"
// @Failure 403 {object} util.Response "未报名或报名未生效"
// @Failure 409 {object} util.Response "重复提交"
// @Router /api/submissions [post]
func (c *MissionController) CreateSubmission(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateSubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	submission, err := c.MissionService.CreateSubmission(claims.UserID, req.MissionID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, submission)
}

// GetSubmission godoc
// @Summary 作答详情
// @Tags 作答
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "作答ID"
// @Success 200 {object} util.Response{data=model.MissionSubmission} "成功"
// @Router /api/submissions/{id} [get]
func (c *MissionController) GetSubmission(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	submission, err := c.MissionService.GetSubmission(claims.UserID, id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, submission)
}

// ListSubmissions godoc
// @Summary 我的作答列表
// @Tags 作答
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.MissionSubmission} "成功"
// @Router /api/submissions [get]
func (c *MissionController) ListSubmissions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	submissions, err := c.MissionService.ListSubmissions(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, submissions)
}

// SubmitChoiceRequest 选择题作答请求
type SubmitChoiceRequest struct {
	QuestionID       uint `json:"questionId" binding:"required"`
	SelectedOptionID uint `json:"selectedOptionId" binding:"required"`
}

// SubmitMultipleChoice godoc
// @Summary 提交选择题作答
// @Description 判分后同步重算作答总分
// @Tags 作答
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "作答ID"
// @Param   body body SubmitChoiceRequest true "作答内容"
// @Success 201 {object} util.Response{data=model.QuestionSubmission} "成功"
// @Failure 409 {object} util.Response "重复提交"
// @Failure 422 {object} util.Response "跨题引用"
// @Router /api/submissions/{id}/choice [post]
func (c *MissionController) SubmitMultipleChoice(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	var req SubmitChoiceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	qs, err := c.MissionService.SubmitMultipleChoice(claims.UserID, id, req.QuestionID, req.SelectedOptionID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, qs)
}

// SubmitCodeRequest 编程题作答请求
type SubmitCodeRequest struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	Code       string `json:"code" binding:"required"`
}

// SubmitCode godoc
// @Summary 提交编程题作答
// @Description 代码在隔离环境中跑完全部测试用例后按通过比例判分，可能耗时数秒
// @Tags 作答
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "作答ID"
// @Param   body body SubmitCodeRequest true "作答内容"
// @Success 201 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "不支持的语言"
// @Failure 409 {object} util.Response "重复提交"
// @Router /api/submissions/{id}/code [post]
func (c *MissionController) SubmitCode(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	var req SubmitCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	qs, result, err := c.MissionService.SubmitCode(ctx.Request.Context(), claims.UserID, id, req.QuestionID, req.Code)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{
		"submission": qs,
		"allPassed":  result.AllPassed,
		"cases":      result.Cases,
	})
}

// EvaluationHistory godoc
// @Summary 某题的历史评测记录
// @Tags 作答
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目ID"
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response "成功"
// @Router /api/questions/{id}/evaluations [get]
func (c *MissionController) EvaluationHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	evaluations, total, err := c.EvaluationService.History(claims.UserID, id, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"items": evaluations,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
