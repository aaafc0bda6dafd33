package service

import (
	"edu_mission_backend/internal/config"
	"edu_mission_backend/internal/judge"
	"edu_mission_backend/internal/model"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backendFunc 用函数伪装判题后端，测试评测引擎时不真正执行代码
type backendFunc func(ctx context.Context, code, input string, limits judge.Limits) (string, error)

func (f backendFunc) Run(ctx context.Context, code, input string, limits judge.Limits) (string, error) {
	return f(ctx, code, input, limits)
}

func newEvalService(t *testing.T, env *testEnv, backend judge.Backend) *EvaluationService {
	t.Helper()
	registry := judge.NewRegistry()
	registry.Register("fake", backend)
	return NewEvaluationService(registry, env.evalRepo, &config.JudgeConfig{
		TimeLimitSeconds: 1,
		MemoryLimitMB:    64,
		MaxConcurrent:    2,
	})
}

// echoBackend 原样返回输入
func echoBackend() judge.Backend {
	return backendFunc(func(ctx context.Context, code, input string, limits judge.Limits) (string, error) {
		return input, nil
	})
}

func codeQuestion(t *testing.T, env *testEnv, cases []model.TestCase) *model.Question {
	t.Helper()
	major := env.createCourse(t, "Python基础")
	minor := env.createUnit(t, major.ID, "入门", 1)

	question := &model.Question{
		MissionID: minor.Missions[0].ID,
		Order:     1,
		Type:      model.Code,
		Content:   "编程题",
		Points:    100,
		Language:  "fake",
		TestCases: cases,
	}
	require.NoError(t, env.missionRepo.CreateQuestion(question))

	loaded, err := env.missionRepo.FindQuestionByID(question.ID)
	require.NoError(t, err)
	return loaded
}

func TestEvaluateStrictEquality(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "a@test.com")

	// 后端输出带换行，期望输出不带，严格相等判定必须失败
	backend := backendFunc(func(ctx context.Context, code, input string, limits judge.Limits) (string, error) {
		return "5\n", nil
	})
	svc := newEvalService(t, env, backend)

	question := codeQuestion(t, env, []model.TestCase{
		{Order: 1, Input: "2 3", ExpectedOutput: "5"},
	})

	result, err := svc.Evaluate(context.Background(), user.ID, question, "print(sum(map(int,input().split())))")
	require.NoError(t, err)

	assert.False(t, result.AllPassed)
	require.Len(t, result.Cases, 1)
	assert.Equal(t, model.VerdictWrongOutput, result.Cases[0].Verdict)
	assert.Equal(t, "5\n", result.Cases[0].Actual)
	assert.Equal(t, "5", result.Cases[0].Expected)
}

func TestEvaluateExactMatchPasses(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "a@test.com")
	svc := newEvalService(t, env, echoBackend())

	question := codeQuestion(t, env, []model.TestCase{
		{Order: 1, Input: "hello", ExpectedOutput: "hello"},
		{Order: 2, Input: "world\n", ExpectedOutput: "world\n"},
	})

	result, err := svc.Evaluate(context.Background(), user.ID, question, "code")
	require.NoError(t, err)

	assert.True(t, result.AllPassed)
	for _, c := range result.Cases {
		assert.True(t, c.Passed)
		assert.Equal(t, model.VerdictPassed, c.Verdict)
	}
}

func TestEvaluateVacuousPass(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "a@test.com")
	svc := newEvalService(t, env, echoBackend())

	// 零测试用例：空通过，结果列表为空
	question := codeQuestion(t, env, nil)

	result, err := svc.Evaluate(context.Background(), user.ID, question, "code")
	require.NoError(t, err)

	assert.True(t, result.AllPassed)
	assert.Empty(t, result.Cases)
	require.NotNil(t, result.Record)
	assert.True(t, result.Record.AllPassed)
}

func TestEvaluateJudgeFailureAbsorbed(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "a@test.com")

	// 判题层超时不作为error向上抛，而是记为该用例失败
	backend := backendFunc(func(ctx context.Context, code, input string, limits judge.Limits) (string, error) {
		return "", &judge.Failure{Kind: judge.TimedOut, Detail: "wall clock limit exceeded"}
	})
	svc := newEvalService(t, env, backend)

	question := codeQuestion(t, env, []model.TestCase{
		{Order: 1, Input: "x", ExpectedOutput: "x"},
	})

	result, err := svc.Evaluate(context.Background(), user.ID, question, "while True: pass")
	require.NoError(t, err)

	assert.False(t, result.AllPassed)
	require.Len(t, result.Cases, 1)
	assert.Equal(t, model.VerdictTimedOut, result.Cases[0].Verdict)
	assert.Equal(t, "wall clock limit exceeded", result.Cases[0].Detail)
}

func TestEvaluatePersistsAuditOnFailure(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "a@test.com")

	backend := backendFunc(func(ctx context.Context, code, input string, limits judge.Limits) (string, error) {
		return "", &judge.Failure{Kind: judge.RuntimeFailure, Detail: "NameError"}
	})
	svc := newEvalService(t, env, backend)

	question := codeQuestion(t, env, []model.TestCase{
		{Order: 1, Input: "x", ExpectedOutput: "x"},
	})

	result, err := svc.Evaluate(context.Background(), user.ID, question, "bad code")
	require.NoError(t, err)
	assert.False(t, result.AllPassed)

	// 失败的评测同样落审计记录，包含完整的用例结果
	records, total, err := svc.History(user.ID, question.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, records, 1)
	assert.Equal(t, "bad code", records[0].SubmittedCode)
	assert.False(t, records[0].AllPassed)

	var cases []model.EvaluationCase
	require.NoError(t, json.Unmarshal(records[0].Results, &cases))
	require.Len(t, cases, 1)
	assert.Equal(t, model.VerdictRuntimeFailure, cases[0].Verdict)
}

func TestEvaluateUnsupportedLanguage(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "a@test.com")
	svc := newEvalService(t, env, echoBackend())

	question := codeQuestion(t, env, nil)
	question.Language = "cobol"

	_, err := svc.Evaluate(context.Background(), user.ID, question, "code")
	require.ErrorIs(t, err, judge.ErrUnsupportedLanguage)

	// 前置校验失败不产生审计记录
	_, total, err := svc.History(user.ID, question.ID, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestEvaluateRunsAllCases(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "a@test.com")
	svc := newEvalService(t, env, echoBackend())

	// 中间用例失败后剩余用例仍然全部执行
	question := codeQuestion(t, env, []model.TestCase{
		{Order: 1, Input: "a", ExpectedOutput: "a"},
		{Order: 2, Input: "b", ExpectedOutput: "不匹配"},
		{Order: 3, Input: "c", ExpectedOutput: "c"},
	})

	result, err := svc.Evaluate(context.Background(), user.ID, question, "code")
	require.NoError(t, err)

	assert.False(t, result.AllPassed)
	require.Len(t, result.Cases, 3)
	assert.True(t, result.Cases[0].Passed)
	assert.False(t, result.Cases[1].Passed)
	assert.True(t, result.Cases[2].Passed)
}
