package util

import "errors"

var (
	ErrUserNotFound        = errors.New("用户不存在")
	ErrEmailRegistered     = errors.New("该邮箱已被注册")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrMissionNotFound     = errors.New("mission not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrVideoNotFound       = errors.New("video not found")
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrDuplicateSubmission = errors.New("duplicate submission")
	ErrInvalidReference    = errors.New("referenced option or question does not belong to this mission")
	ErrInvalidInput        = errors.New("invalid input")
	ErrEnrollmentNotActive = errors.New("enrollment is not active or completed")
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrAlreadyEnrolled     = errors.New("already enrolled in this course")
	ErrQuestionTypeError   = errors.New("question type does not match submission type")
)
