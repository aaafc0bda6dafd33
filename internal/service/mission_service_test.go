package service

import (
	"edu_mission_backend/internal/judge"
	"edu_mission_backend/internal/model"
	"edu_mission_backend/internal/util"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type missionFixture struct {
	env     *testEnv
	svc     *MissionService
	user    *model.User
	major   *model.MajorCategory
	minor   *model.MinorCategory
	mission *model.Mission
}

// newMissionFixture 准备一个已激活报名的用户和一个及格线60分的任务
func newMissionFixture(t *testing.T) *missionFixture {
	t.Helper()
	env := newTestEnv(t)

	evalSvc := newEvalService(t, env, echoBackend())
	svc := NewMissionService(env.db, env.missionRepo, env.submRepo, env.enrollment, evalSvc)

	user := env.createUser(t, "student@test.com")
	major := env.createCourse(t, "C语言")
	minor := env.createUnit(t, major.ID, "指针", 1)
	env.activeEnrollment(t, user.ID, major.ID)

	return &missionFixture{
		env:     env,
		svc:     svc,
		user:    user,
		major:   major,
		minor:   minor,
		mission: &minor.Missions[0],
	}
}

func TestCreateMinorAutoCreatesMissions(t *testing.T) {
	env := newTestEnv(t)
	major := env.createCourse(t, "数据结构")
	minor := env.createUnit(t, major.ID, "链表", 1)

	require.Len(t, minor.Missions, 2)
	assert.Equal(t, model.Midterm, minor.Missions[0].Type)
	assert.Equal(t, model.Final, minor.Missions[1].Type)
	assert.Equal(t, 1, minor.Missions[0].Order)
	assert.Equal(t, 2, minor.Missions[1].Order)
	for _, m := range minor.Missions {
		assert.Equal(t, DefaultPassingScore, m.PassingScore)
	}
}

func TestCreateSubmissionRequiresActiveEnrollment(t *testing.T) {
	env := newTestEnv(t)
	evalSvc := newEvalService(t, env, echoBackend())
	svc := NewMissionService(env.db, env.missionRepo, env.submRepo, env.enrollment, evalSvc)

	user := env.createUser(t, "student@test.com")
	major := env.createCourse(t, "C语言")
	minor := env.createUnit(t, major.ID, "指针", 1)

	// 未报名
	_, err := svc.CreateSubmission(user.ID, minor.Missions[0].ID)
	require.ErrorIs(t, err, util.ErrEnrollmentNotActive)

	// 报名了但未支付激活
	_, err = env.enrollment.Enroll(user.ID, major.ID)
	require.NoError(t, err)
	_, err = svc.CreateSubmission(user.ID, minor.Missions[0].ID)
	require.ErrorIs(t, err, util.ErrEnrollmentNotActive)
}

func TestCreateSubmissionDuplicate(t *testing.T) {
	f := newMissionFixture(t)

	_, err := f.svc.CreateSubmission(f.user.ID, f.mission.ID)
	require.NoError(t, err)

	_, err = f.svc.CreateSubmission(f.user.ID, f.mission.ID)
	require.ErrorIs(t, err, util.ErrDuplicateSubmission)
}

func TestChoiceScoringAndRecompute(t *testing.T) {
	f := newMissionFixture(t)

	// 30 + 30 + 40 分三道题，及格线60
	q1, correct1, _ := f.env.createChoiceQuestion(t, f.mission.ID, 1, 30)
	q2, _, wrong2 := f.env.createChoiceQuestion(t, f.mission.ID, 2, 30)
	q3, correct3, _ := f.env.createChoiceQuestion(t, f.mission.ID, 3, 40)

	submission, err := f.svc.CreateSubmission(f.user.ID, f.mission.ID)
	require.NoError(t, err)

	// 第一题答对：30分，未及格
	qs1, err := f.svc.SubmitMultipleChoice(f.user.ID, submission.ID, q1.ID, correct1.ID)
	require.NoError(t, err)
	require.NotNil(t, qs1.Score)
	assert.Equal(t, 30, *qs1.Score)

	loaded, err := f.svc.GetSubmission(f.user.ID, submission.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, loaded.TotalScore)
	assert.False(t, loaded.IsPassed)

	// 第二题答错：0分，总分仍30
	qs2, err := f.svc.SubmitMultipleChoice(f.user.ID, submission.ID, q2.ID, wrong2.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, *qs2.Score)

	loaded, err = f.svc.GetSubmission(f.user.ID, submission.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, loaded.TotalScore)
	assert.False(t, loaded.IsPassed)

	// 第三题答对：40分，总分70，过线
	_, err = f.svc.SubmitMultipleChoice(f.user.ID, submission.ID, q3.ID, correct3.ID)
	require.NoError(t, err)

	loaded, err = f.svc.GetSubmission(f.user.ID, submission.ID)
	require.NoError(t, err)
	assert.Equal(t, 70, loaded.TotalScore)
	assert.True(t, loaded.IsPassed)
	assert.Len(t, loaded.QuestionSubmissions, 3)
}

func TestChoiceCrossQuestionOptionRejected(t *testing.T) {
	f := newMissionFixture(t)

	q1, _, _ := f.env.createChoiceQuestion(t, f.mission.ID, 1, 50)
	_, correct2, _ := f.env.createChoiceQuestion(t, f.mission.ID, 2, 50)

	submission, err := f.svc.CreateSubmission(f.user.ID, f.mission.ID)
	require.NoError(t, err)

	// 用第二题的选项回答第一题：拒绝而不是判0分
	_, err = f.svc.SubmitMultipleChoice(f.user.ID, submission.ID, q1.ID, correct2.ID)
	require.ErrorIs(t, err, util.ErrInvalidReference)

	// 校验失败不产生任何写入
	loaded, err := f.svc.GetSubmission(f.user.ID, submission.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.QuestionSubmissions)
	assert.Equal(t, 0, loaded.TotalScore)
}

func TestChoiceDuplicateQuestionSubmission(t *testing.T) {
	f := newMissionFixture(t)

	q1, correct1, wrong1 := f.env.createChoiceQuestion(t, f.mission.ID, 1, 100)

	submission, err := f.svc.CreateSubmission(f.user.ID, f.mission.ID)
	require.NoError(t, err)

	_, err = f.svc.SubmitMultipleChoice(f.user.ID, submission.ID, q1.ID, correct1.ID)
	require.NoError(t, err)

	// 同一题再答一次不允许覆盖
	_, err = f.svc.SubmitMultipleChoice(f.user.ID, submission.ID, q1.ID, wrong1.ID)
	require.ErrorIs(t, err, util.ErrDuplicateSubmission)

	loaded, err := f.svc.GetSubmission(f.user.ID, submission.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, loaded.TotalScore)
}

func TestQuestionTypeMismatch(t *testing.T) {
	f := newMissionFixture(t)

	q1, correct1, _ := f.env.createChoiceQuestion(t, f.mission.ID, 1, 100)

	submission, err := f.svc.CreateSubmission(f.user.ID, f.mission.ID)
	require.NoError(t, err)

	// 对选择题走编程题提交通道
	_, _, err = f.svc.SubmitCode(context.Background(), f.user.ID, submission.ID, q1.ID, "print(1)")
	require.ErrorIs(t, err, util.ErrQuestionTypeError)

	// 反向：编程题走选择题通道
	codeQ := &model.Question{
		MissionID: f.mission.ID,
		Order:     2,
		Type:      model.Code,
		Points:    50,
		Language:  "fake",
	}
	require.NoError(t, f.env.missionRepo.CreateQuestion(codeQ))

	_, err = f.svc.SubmitMultipleChoice(f.user.ID, submission.ID, codeQ.ID, correct1.ID)
	require.ErrorIs(t, err, util.ErrQuestionTypeError)
}

func TestSubmitCodePartialScore(t *testing.T) {
	f := newMissionFixture(t)

	// echo后端：4个用例中2个期望值与输入一致，通过率50%
	codeQ := &model.Question{
		MissionID: f.mission.ID,
		Order:     1,
		Type:      model.Code,
		Points:    100,
		Language:  "fake",
		TestCases: []model.TestCase{
			{Order: 1, Input: "a", ExpectedOutput: "a"},
			{Order: 2, Input: "b", ExpectedOutput: "b"},
			{Order: 3, Input: "c", ExpectedOutput: "x"},
			{Order: 4, Input: "d", ExpectedOutput: "y", IsHidden: true},
		},
	}
	require.NoError(t, f.env.missionRepo.CreateQuestion(codeQ))

	submission, err := f.svc.CreateSubmission(f.user.ID, f.mission.ID)
	require.NoError(t, err)

	qs, result, err := f.svc.SubmitCode(context.Background(), f.user.ID, submission.ID, codeQ.ID, "code")
	require.NoError(t, err)

	assert.False(t, result.AllPassed)
	require.NotNil(t, qs.Score)
	assert.Equal(t, 50, *qs.Score)

	loaded, err := f.svc.GetSubmission(f.user.ID, submission.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, loaded.TotalScore)
	assert.False(t, loaded.IsPassed)
}

func TestSubmitCodeAllPassedFullScore(t *testing.T) {
	f := newMissionFixture(t)

	codeQ := &model.Question{
		MissionID: f.mission.ID,
		Order:     1,
		Type:      model.Code,
		Points:    80,
		Language:  "fake",
		TestCases: []model.TestCase{
			{Order: 1, Input: "a", ExpectedOutput: "a"},
			{Order: 2, Input: "b", ExpectedOutput: "b"},
		},
	}
	require.NoError(t, f.env.missionRepo.CreateQuestion(codeQ))

	submission, err := f.svc.CreateSubmission(f.user.ID, f.mission.ID)
	require.NoError(t, err)

	qs, result, err := f.svc.SubmitCode(context.Background(), f.user.ID, submission.ID, codeQ.ID, "code")
	require.NoError(t, err)

	assert.True(t, result.AllPassed)
	assert.Equal(t, 80, *qs.Score)

	loaded, err := f.svc.GetSubmission(f.user.ID, submission.ID)
	require.NoError(t, err)
	assert.Equal(t, 80, loaded.TotalScore)
	assert.True(t, loaded.IsPassed)
}

func TestSubmitCodeDuplicateSkipsEvaluation(t *testing.T) {
	f := newMissionFixture(t)

	evalCalls := 0
	backend := backendFunc(func(ctx context.Context, code, input string, limits judge.Limits) (string, error) {
		evalCalls++
		return input, nil
	})
	evalSvc := newEvalService(t, f.env, backend)
	svc := NewMissionService(f.env.db, f.env.missionRepo, f.env.submRepo, f.env.enrollment, evalSvc)

	codeQ := &model.Question{
		MissionID: f.mission.ID,
		Order:     1,
		Type:      model.Code,
		Points:    100,
		Language:  "fake",
		TestCases: []model.TestCase{
			{Order: 1, Input: "a", ExpectedOutput: "a"},
		},
	}
	require.NoError(t, f.env.missionRepo.CreateQuestion(codeQ))

	submission, err := svc.CreateSubmission(f.user.ID, f.mission.ID)
	require.NoError(t, err)

	_, _, err = svc.SubmitCode(context.Background(), f.user.ID, submission.ID, codeQ.ID, "code")
	require.NoError(t, err)
	assert.Equal(t, 1, evalCalls)

	// 重复提交在判题之前就被拦截
	_, _, err = svc.SubmitCode(context.Background(), f.user.ID, submission.ID, codeQ.ID, "other code")
	require.ErrorIs(t, err, util.ErrDuplicateSubmission)
	assert.Equal(t, 1, evalCalls)
}

func TestSubmissionOwnership(t *testing.T) {
	f := newMissionFixture(t)

	q1, correct1, _ := f.env.createChoiceQuestion(t, f.mission.ID, 1, 100)

	submission, err := f.svc.CreateSubmission(f.user.ID, f.mission.ID)
	require.NoError(t, err)

	intruder := f.env.createUser(t, "other@test.com")
	f.env.activeEnrollment(t, intruder.ID, f.major.ID)

	_, err = f.svc.SubmitMultipleChoice(intruder.ID, submission.ID, q1.ID, correct1.ID)
	require.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = f.svc.GetSubmission(intruder.ID, submission.ID)
	require.ErrorIs(t, err, util.ErrPermissionDenied)
}
