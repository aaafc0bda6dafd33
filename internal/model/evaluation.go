package model

import "encoding/json"

// 单个测试用例的判定结论
const (
	VerdictPassed         = "passed"
	VerdictWrongOutput    = "wrong_output"
	VerdictTimedOut       = "timed_out"
	VerdictRuntimeFailure = "runtime_failure"
)

// EvaluationCase 一个测试用例的执行结果，序列化后存入审计记录
type EvaluationCase struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Passed   bool   `json:"passed"`
	Verdict  string `json:"verdict"`
	Detail   string `json:"detail,omitempty"` // 判题失败时的诊断信息
}

// CodeEvaluation 每次代码评测的审计记录，无论成败都会落库
// swagger:model CodeEvaluation
type CodeEvaluation struct {
	UUIDBase
	UserID        uint            `gorm:"index;not null" json:"userId"`
	QuestionID    uint            `gorm:"index;not null" json:"questionId"`
	SubmittedCode string          `gorm:"type:text" json:"submittedCode"`
	Results       json.RawMessage `gorm:"type:json" json:"results"`
	AllPassed     bool            `gorm:"default:false" json:"allPassed"`
}

func (CodeEvaluation) TableName() string {
	return "code_evaluations"
}
