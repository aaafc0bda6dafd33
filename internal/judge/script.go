package judge

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// ScriptBackend 解释型语言的判题后端，把代码写入一次性临时目录后交给解释器执行
type ScriptBackend struct {
	name        string
	interpreter []string // 解释器命令及固定参数
	ext         string   // 源文件扩展名
}

func NewScriptBackend(name string, interpreter []string, ext string) *ScriptBackend {
	return &ScriptBackend{name: name, interpreter: interpreter, ext: ext}
}

func NewPythonBackend() *ScriptBackend {
	return NewScriptBackend("python", []string{"python3"}, ".py")
}

func NewNodeBackend() *ScriptBackend {
	return NewScriptBackend("javascript", []string{"node"}, ".js")
}

func (b *ScriptBackend) Run(ctx context.Context, code, input string, limits Limits) (string, error) {
	workdir, err := os.MkdirTemp("", "judge-"+b.name+"-*")
	if err != nil {
		return "", &Failure{Kind: RuntimeFailure, Detail: fmt.Sprintf("create workdir: %v", err)}
	}
	defer os.RemoveAll(workdir)

	srcPath := filepath.Join(workdir, "main"+b.ext)
	if err := os.WriteFile(srcPath, []byte(code), 0644); err != nil {
		return "", &Failure{Kind: RuntimeFailure, Detail: fmt.Sprintf("write source: %v", err)}
	}

	runCtx, cancel := context.WithTimeout(ctx, limits.TimeLimit)
	defer cancel()

	var cmd *exec.Cmd
	if runtime.GOOS == "linux" && limits.MemoryLimitMB > 0 {
		// 通过 ulimit -v 限制虚拟内存，exec 保证解释器直接继承限制
		sh := fmt.Sprintf("ulimit -v %d; exec %s %q",
			limits.MemoryLimitMB*1024, strings.Join(b.interpreter, " "), srcPath)
		cmd = exec.CommandContext(runCtx, "/bin/sh", "-c", sh)
	} else {
		args := append(append([]string{}, b.interpreter[1:]...), srcPath)
		cmd = exec.CommandContext(runCtx, b.interpreter[0], args...)
	}

	cmd.Dir = workdir
	cmd.Stdin = strings.NewReader(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	cmd.SysProcAttr = sysProcAttr()
	// 孙进程占着stdout不退出时，Wait 最多再等一秒
	cmd.WaitDelay = time.Second

	if err := cmd.Start(); err != nil {
		return "", &Failure{Kind: RuntimeFailure, Detail: fmt.Sprintf("start %s: %v", b.name, err)}
	}

	waitErr := cmd.Wait()
	killProcessGroup(cmd)

	if runCtx.Err() == context.DeadlineExceeded {
		return "", &Failure{
			Kind:   TimedOut,
			Detail: fmt.Sprintf("execution exceeded %s", limits.TimeLimit),
		}
	}

	if waitErr != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = waitErr.Error()
		}
		return "", &Failure{Kind: RuntimeFailure, Detail: detail}
	}

	// 退出码为0但有stderr输出，同样按运行失败处理
	if stderr.Len() > 0 {
		return "", &Failure{Kind: RuntimeFailure, Detail: strings.TrimSpace(stderr.String())}
	}

	return stdout.String(), nil
}
