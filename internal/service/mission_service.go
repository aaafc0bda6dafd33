package service

import (
	"edu_mission_backend/internal/model"
	"edu_mission_backend/internal/repository"
	"edu_mission_backend/internal/util"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// MissionService 任务评分引擎。负责作答记录的创建、单题提交与派生总分的重算。
// TotalScore 与 IsPassed 只在 recompute 中写入，且与触发它的子写入同属一个事务
type MissionService struct {
	db                *gorm.DB
	missionRepo       *repository.MissionRepository
	submissionRepo    *repository.SubmissionRepository
	enrollmentService *EnrollmentService
	evaluationService *EvaluationService
}

func NewMissionService(
	db *gorm.DB,
	missionRepo *repository.MissionRepository,
	submissionRepo *repository.SubmissionRepository,
	enrollmentService *EnrollmentService,
	evaluationService *EvaluationService,
) *MissionService {
	return &MissionService{
		db:                db,
		missionRepo:       missionRepo,
		submissionRepo:    submissionRepo,
		enrollmentService: enrollmentService,
		evaluationService: evaluationService,
	}
}

func (s *MissionService) GetMission(id uint) (*model.Mission, error) {
	mission, err := s.missionRepo.FindByIDWithQuestions(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrMissionNotFound
		}
		return nil, err
	}
	return mission, nil
}

func (s *MissionService) ListMissions(minorID uint) ([]model.Mission, error) {
	return s.missionRepo.FindByMinorID(minorID)
}

type UpdateMissionRequest struct {
	Title        *string `json:"title"`
	PassingScore *int    `json:"passingScore"`
}

func (s *MissionService) UpdateMission(id uint, req *UpdateMissionRequest) (*model.Mission, error) {
	mission, err := s.missionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrMissionNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		mission.Title = *req.Title
	}
	if req.PassingScore != nil {
		if *req.PassingScore < 0 {
			return nil, util.ErrInvalidInput
		}
		mission.PassingScore = *req.PassingScore
	}

	if err := s.missionRepo.Update(mission); err != nil {
		return nil, err
	}
	return mission, nil
}

type CreateQuestionRequest struct {
	MissionID uint               `json:"missionId" binding:"required"`
	Order     int                `json:"order" binding:"required"`
	Type      model.QuestionType `json:"type" binding:"required,oneof=multiple_choice code"`
	Content   string             `json:"content" binding:"required"`
	Points    int                `json:"points" binding:"required,min=1"`

	// 选择题
	Options []struct {
		Order     int    `json:"order"`
		Content   string `json:"content" binding:"required"`
		IsCorrect bool   `json:"isCorrect"`
	} `json:"options"`

	// 编程题
	InitialCode string `json:"initialCode"`
	Language    string `json:"language"`
	TestCases   []struct {
		Order          int    `json:"order"`
		Input          string `json:"input"`
		ExpectedOutput string `json:"expectedOutput"`
		IsHidden       bool   `json:"isHidden"`
	} `json:"testCases"`
}

func (s *MissionService) CreateQuestion(req *CreateQuestionRequest) (*model.Question, error) {
	if _, err := s.missionRepo.FindByID(req.MissionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrMissionNotFound
		}
		return nil, err
	}

	question := &model.Question{
		MissionID:   req.MissionID,
		Order:       req.Order,
		Type:        req.Type,
		Content:     req.Content,
		Points:      req.Points,
		InitialCode: req.InitialCode,
		Language:    req.Language,
	}

	switch req.Type {
	case model.MultipleChoice:
		if len(req.Options) == 0 {
			return nil, util.ErrInvalidInput
		}
		for _, o := range req.Options {
			question.Options = append(question.Options, model.QuestionOption{
				Order:     o.Order,
				Content:   o.Content,
				IsCorrect: o.IsCorrect,
			})
		}
	case model.Code:
		if req.Language == "" {
			return nil, util.ErrInvalidInput
		}
		for _, tc := range req.TestCases {
			question.TestCases = append(question.TestCases, model.TestCase{
				Order:          tc.Order,
				Input:          tc.Input,
				ExpectedOutput: tc.ExpectedOutput,
				IsHidden:       tc.IsHidden,
			})
		}
	}

	if err := s.missionRepo.CreateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}

// CreateSubmission 创建作答记录，(user, mission) 唯一，重复创建报 ErrDuplicateSubmission。
// 前置条件：用户对该任务所属大类有 active 或 completed 的报名
func (s *MissionService) CreateSubmission(userID, missionID uint) (*model.MissionSubmission, error) {
	if _, err := s.missionRepo.FindByID(missionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrMissionNotFound
		}
		return nil, err
	}

	majorID, err := s.missionRepo.MajorIDForMission(missionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.enrollmentService.RequireActiveOrCompleted(userID, majorID); err != nil {
		return nil, err
	}

	if _, err := s.submissionRepo.FindByUserAndMission(userID, missionID); err == nil {
		return nil, util.ErrDuplicateSubmission
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	submission := &model.MissionSubmission{
		UserID:    userID,
		MissionID: missionID,
	}
	if err := s.submissionRepo.Create(s.db, submission); err != nil {
		// 并发下唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrDuplicateSubmission
		}
		return nil, err
	}
	return submission, nil
}

func (s *MissionService) GetSubmission(userID, submissionID uint) (*model.MissionSubmission, error) {
	submission, err := s.submissionRepo.FindByIDWithChildren(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}
	if submission.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return submission, nil
}

func (s *MissionService) ListSubmissions(userID uint) ([]model.MissionSubmission, error) {
	return s.submissionRepo.FindByUser(userID)
}

// SubmitMultipleChoice 提交选择题作答。选中正确选项得满分，否则0分，
// 判分后在同一事务内重算所属作答记录的总分
func (s *MissionService) SubmitMultipleChoice(userID, submissionID, questionID, optionID uint) (*model.QuestionSubmission, error) {
	submission, question, err := s.checkSubmissionTarget(userID, submissionID, questionID, model.MultipleChoice)
	if err != nil {
		return nil, err
	}

	// 选项必须属于本题，跨题引用直接拒绝而不是按错判0分
	var chosen *model.QuestionOption
	for i := range question.Options {
		if question.Options[i].ID == optionID {
			chosen = &question.Options[i]
			break
		}
	}
	if chosen == nil {
		return nil, util.ErrInvalidReference
	}

	score := 0
	if chosen.IsCorrect {
		score = question.Points
	}

	qs := &model.QuestionSubmission{
		MissionSubmissionID: submission.ID,
		QuestionID:          question.ID,
		Type:                model.MultipleChoice,
		SubmittedAt:         time.Now(),
		Score:               &score,
		SelectedOptionID:    &optionID,
	}

	if err := s.writeAndRecompute(submission.MissionID, qs); err != nil {
		return nil, err
	}
	return qs, nil
}

// SubmitCode 提交编程题作答。先在事务外完成代码评测（可能耗时数秒），
// 再在事务内写入作答并重算总分。得分为通过用例占比乘以题目分值（向下取整），
// 零用例视为全部通过，得满分
func (s *MissionService) SubmitCode(ctx context.Context, userID, submissionID, questionID uint, code string) (*model.QuestionSubmission, *EvaluationResult, error) {
	if code == "" {
		return nil, nil, util.ErrInvalidInput
	}

	submission, question, err := s.checkSubmissionTarget(userID, submissionID, questionID, model.Code)
	if err != nil {
		return nil, nil, err
	}

	// 重复提交在评测前就拦下，避免白跑一次判题
	if _, err := s.submissionRepo.FindQuestionSubmission(submission.ID, question.ID); err == nil {
		return nil, nil, util.ErrDuplicateSubmission
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	result, err := s.evaluationService.Evaluate(ctx, userID, question, code)
	if err != nil {
		return nil, nil, err
	}

	score := scaleScore(result.Cases, question.Points)

	qs := &model.QuestionSubmission{
		MissionSubmissionID: submission.ID,
		QuestionID:          question.ID,
		Type:                model.Code,
		SubmittedAt:         time.Now(),
		Score:               &score,
		SubmittedCode:       code,
	}

	if err := s.writeAndRecompute(submission.MissionID, qs); err != nil {
		return nil, nil, err
	}
	return qs, result, nil
}

// checkSubmissionTarget 校验作答归属与题目归属，全部通过后返回加载好的双方。
// 所有校验先于任何持久化写入完成
func (s *MissionService) checkSubmissionTarget(userID, submissionID, questionID uint, wantType model.QuestionType) (*model.MissionSubmission, *model.Question, error) {
	submission, err := s.submissionRepo.FindByID(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrSubmissionNotFound
		}
		return nil, nil, err
	}
	if submission.UserID != userID {
		return nil, nil, util.ErrPermissionDenied
	}

	question, err := s.missionRepo.FindQuestionByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrQuestionNotFound
		}
		return nil, nil, err
	}
	// 题目必须属于作答记录对应的Mission
	if question.MissionID != submission.MissionID {
		return nil, nil, util.ErrInvalidReference
	}
	if question.Type != wantType {
		return nil, nil, util.ErrQuestionTypeError
	}

	return submission, question, nil
}

// writeAndRecompute 在一个事务内写入单题作答并重算父记录的派生总分。
// 先以行锁取出父记录，保证并发提交两道题时后提交者能看到先提交者的分数
func (s *MissionService) writeAndRecompute(missionID uint, qs *model.QuestionSubmission) error {
	mission, err := s.missionRepo.FindByID(missionID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		locked, err := s.submissionRepo.FindForUpdate(tx, qs.MissionSubmissionID)
		if err != nil {
			return err
		}

		if err := s.submissionRepo.CreateQuestionSubmission(tx, qs); err != nil {
			return err
		}

		return s.recompute(tx, locked.ID, mission.PassingScore)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return util.ErrDuplicateSubmission
		}
		return err
	}
	return nil
}

// recompute 总分 = 所有已判分子作答之和，空值不计入；及格线按Mission配置
func (s *MissionService) recompute(tx *gorm.DB, submissionID uint, passingScore int) error {
	children, err := s.submissionRepo.FindQuestionSubmissions(tx, submissionID)
	if err != nil {
		return err
	}

	total := 0
	for _, child := range children {
		if child.Score != nil {
			total += *child.Score
		}
	}

	return s.submissionRepo.UpdateDerivedScore(tx, submissionID, total, total >= passingScore)
}

// scaleScore 按通过用例比例映射到题目分值，零用例按全部通过计
func scaleScore(cases []model.EvaluationCase, points int) int {
	if len(cases) == 0 {
		return points
	}
	passed := 0
	for _, c := range cases {
		if c.Passed {
			passed++
		}
	}
	return points * passed / len(cases)
}
