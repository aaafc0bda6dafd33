package service

import (
	"edu_mission_backend/internal/model"
	"edu_mission_backend/internal/repository"
	"edu_mission_backend/pkg/database"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))
	return db
}

type testEnv struct {
	db          *gorm.DB
	userRepo    *repository.UserRepository
	courseRepo  *repository.CourseRepository
	enrollRepo  *repository.EnrollmentRepository
	missionRepo *repository.MissionRepository
	submRepo    *repository.SubmissionRepository
	evalRepo    *repository.EvaluationRepository
	progRepo    *repository.ProgressRepository

	course     *CourseService
	enrollment *EnrollmentService
	progress   *ProgressService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	env := &testEnv{
		db:          db,
		userRepo:    repository.NewUserRepository(db),
		courseRepo:  repository.NewCourseRepository(db),
		enrollRepo:  repository.NewEnrollmentRepository(db),
		missionRepo: repository.NewMissionRepository(db),
		submRepo:    repository.NewSubmissionRepository(db),
		evalRepo:    repository.NewEvaluationRepository(db),
		progRepo:    repository.NewProgressRepository(db),
	}

	env.course = NewCourseService(env.courseRepo, env.missionRepo)
	env.enrollment = NewEnrollmentService(env.enrollRepo, env.courseRepo)
	env.progress = NewProgressService(env.progRepo, env.courseRepo, env.enrollment, nil)

	return env
}

func (e *testEnv) createUser(t *testing.T, email string) *model.User {
	t.Helper()
	user := &model.User{
		Name:     "测试用户",
		Email:    email,
		Password: "hashed",
		Role:     model.Student,
	}
	require.NoError(t, e.userRepo.Create(user))
	return user
}

func (e *testEnv) createCourse(t *testing.T, name string) *model.MajorCategory {
	t.Helper()
	major, err := e.course.CreateMajor(&CreateMajorRequest{Name: name})
	require.NoError(t, err)
	return major
}

func (e *testEnv) createUnit(t *testing.T, majorID uint, name string, order int) *model.MinorCategory {
	t.Helper()
	minor, err := e.course.CreateMinor(&CreateMinorRequest{
		MajorCategoryID: majorID,
		Name:            name,
		Order:           order,
	})
	require.NoError(t, err)
	return minor
}

// activeEnrollment 创建并激活一条报名记录
func (e *testEnv) activeEnrollment(t *testing.T, userID, majorID uint) *model.Enrollment {
	t.Helper()
	enrollment, err := e.enrollment.Enroll(userID, majorID)
	require.NoError(t, err)
	activated, err := e.enrollment.Activate(enrollment.ID)
	require.NoError(t, err)
	return activated
}

func (e *testEnv) createVideo(t *testing.T, minorID uint, title string, durationSec int) *model.Video {
	t.Helper()
	video := &model.Video{
		MinorCategoryID: minorID,
		Title:           title,
		DurationSec:     durationSec,
	}
	require.NoError(t, e.courseRepo.CreateVideo(video))
	return video
}

func (e *testEnv) createChoiceQuestion(t *testing.T, missionID uint, order, points int) (*model.Question, *model.QuestionOption, *model.QuestionOption) {
	t.Helper()
	question := &model.Question{
		MissionID: missionID,
		Order:     order,
		Type:      model.MultipleChoice,
		Content:   "选择题",
		Points:    points,
		Options: []model.QuestionOption{
			{Order: 1, Content: "正确答案", IsCorrect: true},
			{Order: 2, Content: "错误答案", IsCorrect: false},
		},
	}
	require.NoError(t, e.missionRepo.CreateQuestion(question))
	return question, &question.Options[0], &question.Options[1]
}
