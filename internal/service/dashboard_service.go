package service

import (
	"edu_mission_backend/internal/model"
	"edu_mission_backend/internal/repository"
	"context"
)

// DashboardService 只读聚合层，把进度、报名和任务成绩拼成学生首页需要的摘要视图。
// 本身不拥有任何数据，全部来自下层服务
type DashboardService struct {
	progressService   *ProgressService
	enrollmentService *EnrollmentService
	submissionRepo    *repository.SubmissionRepository
	courseRepo        *repository.CourseRepository
}

func NewDashboardService(
	progressService *ProgressService,
	enrollmentService *EnrollmentService,
	submissionRepo *repository.SubmissionRepository,
	courseRepo *repository.CourseRepository,
) *DashboardService {
	return &DashboardService{
		progressService:   progressService,
		enrollmentService: enrollmentService,
		submissionRepo:    submissionRepo,
		courseRepo:        courseRepo,
	}
}

// CourseSummary 单门课程的进度摘要
type CourseSummary struct {
	MajorCategoryID uint                   `json:"majorCategoryId"`
	Name            string                 `json:"name"`
	Status          model.EnrollmentStatus `json:"status"`
	ProgressPercent int                    `json:"progressPercent"`
	Units           []UnitSummary          `json:"units"`
}

// UnitSummary 单元层级的进度摘要
type UnitSummary struct {
	MinorCategoryID uint   `json:"minorCategoryId"`
	Name            string `json:"name"`
	ProgressPercent int    `json:"progressPercent"`
}

// MissionSummary 任务成绩摘要
type MissionSummary struct {
	SubmissionID uint `json:"submissionId"`
	MissionID    uint `json:"missionId"`
	TotalScore   int  `json:"totalScore"`
	IsPassed     bool `json:"isPassed"`
}

// Dashboard 学生首页的完整摘要
type Dashboard struct {
	OverallProgress int              `json:"overallProgress"`
	Courses         []CourseSummary  `json:"courses"`
	Missions        []MissionSummary `json:"missions"`
	PassedMissions  int              `json:"passedMissions"`
	TotalMissions   int              `json:"totalMissions"`
}

// BuildDashboard 组装用户的完整首页视图，只统计 active/completed 的报名
func (s *DashboardService) BuildDashboard(ctx context.Context, userID uint) (*Dashboard, error) {
	overall, err := s.progressService.OverallProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.enrollmentService.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	courses := make([]CourseSummary, 0, len(enrollments))
	for _, e := range enrollments {
		if !e.IsActiveOrCompleted() {
			continue
		}

		major, err := s.courseRepo.FindMajorByID(e.MajorCategoryID)
		if err != nil {
			return nil, err
		}

		percent, err := s.progressService.MajorProgress(ctx, userID, e.MajorCategoryID)
		if err != nil {
			return nil, err
		}

		minors, err := s.courseRepo.FindMinorsByMajorID(e.MajorCategoryID)
		if err != nil {
			return nil, err
		}

		units := make([]UnitSummary, 0, len(minors))
		for _, minor := range minors {
			unitPercent, err := s.progressService.MinorProgress(userID, minor.ID)
			if err != nil {
				return nil, err
			}
			units = append(units, UnitSummary{
				MinorCategoryID: minor.ID,
				Name:            minor.Name,
				ProgressPercent: unitPercent,
			})
		}

		courses = append(courses, CourseSummary{
			MajorCategoryID: e.MajorCategoryID,
			Name:            major.Name,
			Status:          e.Status,
			ProgressPercent: percent,
			Units:           units,
		})
	}

	submissions, err := s.submissionRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	missions := make([]MissionSummary, 0, len(submissions))
	passed := 0
	for _, sub := range submissions {
		if sub.IsPassed {
			passed++
		}
		missions = append(missions, MissionSummary{
			SubmissionID: sub.ID,
			MissionID:    sub.MissionID,
			TotalScore:   sub.TotalScore,
			IsPassed:     sub.IsPassed,
		})
	}

	return &Dashboard{
		OverallProgress: overall,
		Courses:         courses,
		Missions:        missions,
		PassedMissions:  passed,
		TotalMissions:   len(missions),
	}, nil
}
