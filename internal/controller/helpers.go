package controller

import (
	"edu_mission_backend/internal/judge"
	"edu_mission_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseUintParam 解析路径参数为无符号整数
func parseUintParam(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		util.BadRequest(ctx, "无效的"+name)
		return 0, false
	}
	return uint(id), true
}

// respondServiceError 把业务sentinel错误映射为统一的HTTP响应
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrInvalidInput):
		util.BadRequest(ctx, "请求参数错误")
	case errors.Is(err, judge.ErrUnsupportedLanguage):
		util.BadRequest(ctx, "不支持的编程语言")
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrEnrollmentNotActive):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrDuplicateSubmission):
		util.Conflict(ctx, "重复提交")
	case errors.Is(err, util.ErrAlreadyEnrolled):
		util.Conflict(ctx, "已报名该课程")
	case errors.Is(err, util.ErrInvalidReference):
		util.Error(ctx, 422, "引用的资源不属于当前作答范围")
	case errors.Is(err, util.ErrQuestionTypeError):
		util.Error(ctx, 422, "题目类型不匹配")
	case errors.Is(err, util.ErrMissionNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrVideoNotFound),
		errors.Is(err, util.ErrSubmissionNotFound),
		errors.Is(err, util.ErrEnrollmentNotFound),
		errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
