package judge

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Limits 单次执行的资源上限
type Limits struct {
	TimeLimit     time.Duration // 墙钟限制，超时强制终止
	MemoryLimitMB int           // 虚拟内存上限，仅Linux强制，其余平台尽力而为
}

type FailureKind string

const (
	TimedOut       FailureKind = "timed_out"
	RuntimeFailure FailureKind = "runtime_failure"
)

// Failure 一次执行的分类失败，作为error返回但不会向上层逃逸成异常，
// 评测引擎把它吸收为该测试用例的失败结论
type Failure struct {
	Kind   FailureKind
	Detail string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Detail)
}

// Backend 在一次性的隔离执行环境中运行一段不可信代码
// 每次调用互不共享任何状态，本身不落库
type Backend interface {
	Run(ctx context.Context, code, input string, limits Limits) (string, error)
}

var ErrUnsupportedLanguage = errors.New("unsupported language")

// Registry 语言标签到判题后端的封闭注册表
// 新增语言在 NewRegistry 里显式登记，不做运行时动态扩展
type Registry struct {
	backends map[string]Backend
}

func NewRegistry() *Registry {
	r := &Registry{backends: make(map[string]Backend)}
	r.Register("python", NewPythonBackend())
	r.Register("javascript", NewNodeBackend())
	return r
}

func (r *Registry) Register(lang string, backend Backend) {
	r.backends[strings.ToLower(lang)] = backend
}

// Get 解析语言标签，未注册的语言返回 ErrUnsupportedLanguage
func (r *Registry) Get(lang string) (Backend, error) {
	backend, ok := r.backends[strings.ToLower(lang)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	return backend, nil
}

func (r *Registry) Languages() []string {
	langs := make([]string, 0, len(r.backends))
	for lang := range r.backends {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
