package service

import (
	"edu_mission_backend/internal/config"
	"edu_mission_backend/internal/judge"
	"edu_mission_backend/internal/model"
	"edu_mission_backend/internal/repository"
	"edu_mission_backend/pkg/logger"
	"edu_mission_backend/pkg/monitoring"
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
)

// EvaluationService 代码评测引擎。把一份提交代码跑完题目的全部测试用例，
// 逐例判定并聚合，无论成败都落一条审计记录。
// 并发量由信号量限制，防止慢提交占满判题资源
type EvaluationService struct {
	registry *judge.Registry
	evalRepo *repository.EvaluationRepository
	limits   judge.Limits
	sem      chan struct{}
}

func NewEvaluationService(registry *judge.Registry, evalRepo *repository.EvaluationRepository, cfg *config.JudgeConfig) *EvaluationService {
	return &EvaluationService{
		registry: registry,
		evalRepo: evalRepo,
		limits: judge.Limits{
			TimeLimit:     time.Duration(cfg.TimeLimitSeconds) * time.Second,
			MemoryLimitMB: cfg.MemoryLimitMB,
		},
		sem: make(chan struct{}, cfg.MaxConcurrent),
	}
}

// EvaluationResult 一次评测的聚合结论
type EvaluationResult struct {
	AllPassed bool                   `json:"allPassed"`
	Cases     []model.EvaluationCase `json:"cases"`
	Record    *model.CodeEvaluation  `json:"-"`
}

// Evaluate 对指定题目评测一份代码。语言未注册时返回 judge.ErrUnsupportedLanguage，
// 这属于前置校验失败，不产生审计记录；一旦开始执行测试用例，
// 判题层面的超时/运行失败只会体现为对应用例的失败结论，不会作为error返回
func (s *EvaluationService) Evaluate(ctx context.Context, userID uint, question *model.Question, code string) (*EvaluationResult, error) {
	backend, err := s.registry.Get(question.Language)
	if err != nil {
		return nil, err
	}

	// 限流：等待判题槽位，调用方取消时直接放弃
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-s.sem }()

	start := time.Now()
	cases := make([]model.EvaluationCase, 0, len(question.TestCases))
	allPassed := true
	aggregateVerdict := model.VerdictPassed

	// 测试用例逐个顺序执行，每次执行环境相互隔离
	for _, tc := range question.TestCases {
		c := model.EvaluationCase{
			Input:    tc.Input,
			Expected: tc.ExpectedOutput,
		}

		actual, runErr := backend.Run(ctx, code, tc.Input, s.limits)
		if runErr != nil {
			var failure *judge.Failure
			if errors.As(runErr, &failure) {
				// 判题失败吸收为该用例的失败结论，不向调用方逃逸
				c.Verdict = string(failure.Kind)
				c.Detail = failure.Detail
			} else {
				c.Verdict = model.VerdictRuntimeFailure
				c.Detail = runErr.Error()
			}
			c.Passed = false
		} else {
			c.Actual = actual
			// 严格字节相等，不做任何空白或换行归一化
			if actual == tc.ExpectedOutput {
				c.Passed = true
				c.Verdict = model.VerdictPassed
			} else {
				c.Passed = false
				c.Verdict = model.VerdictWrongOutput
			}
		}

		if !c.Passed && allPassed {
			allPassed = false
			aggregateVerdict = c.Verdict
		}
		cases = append(cases, c)
	}

	monitoring.EvaluationCounter.WithLabelValues(question.Language, aggregateVerdict).Inc()
	monitoring.EvaluationDuration.WithLabelValues(question.Language).Observe(time.Since(start).Seconds())

	resultsJSON, err := json.Marshal(cases)
	if err != nil {
		// 不应发生，但仍按失败结论落审计记录，避免静默丢弃本次提交
		logger.Log.Error("序列化评测结果失败", zap.Error(err), zap.Uint("questionId", question.ID))
		resultsJSON = []byte("[]")
		allPassed = false
	}

	record := &model.CodeEvaluation{
		UserID:        userID,
		QuestionID:    question.ID,
		SubmittedCode: code,
		Results:       resultsJSON,
		AllPassed:     allPassed,
	}
	if err := s.evalRepo.Create(record); err != nil {
		return nil, err
	}

	return &EvaluationResult{
		AllPassed: allPassed,
		Cases:     cases,
		Record:    record,
	}, nil
}

// History 返回用户在某题上的历史评测记录
func (s *EvaluationService) History(userID, questionID uint, page, limit int) ([]model.CodeEvaluation, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.evalRepo.FindByUserAndQuestion(userID, questionID, page, limit)
}
