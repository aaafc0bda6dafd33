package judge

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requirePython(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not installed")
	}
}

func testLimits() Limits {
	return Limits{TimeLimit: 5 * time.Second, MemoryLimitMB: 256}
}

func TestScriptBackendEchoesStdin(t *testing.T) {
	requirePython(t)
	b := NewPythonBackend()

	out, err := b.Run(context.Background(), "print(input())", "hello\n", testLimits())
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestScriptBackendPreservesExactOutput(t *testing.T) {
	requirePython(t)
	b := NewPythonBackend()

	// 不做任何换行归一化，print自带的换行原样保留
	out, err := b.Run(context.Background(), "print(5)", "", testLimits())
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)

	out, err = b.Run(context.Background(), "import sys; sys.stdout.write('5')", "", testLimits())
	require.NoError(t, err)
	assert.Equal(t, "5", out)
}

func TestScriptBackendTimedOut(t *testing.T) {
	requirePython(t)
	b := NewPythonBackend()

	start := time.Now()
	_, err := b.Run(context.Background(), "while True: pass", "", Limits{TimeLimit: time.Second, MemoryLimitMB: 256})

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, TimedOut, failure.Kind)
	// 超时后不能挂住调用方
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestScriptBackendRuntimeFailure(t *testing.T) {
	requirePython(t)
	b := NewPythonBackend()

	_, err := b.Run(context.Background(), "raise ValueError('boom')", "", testLimits())

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, RuntimeFailure, failure.Kind)
	assert.Contains(t, failure.Detail, "boom")
}

func TestScriptBackendStderrIsFailure(t *testing.T) {
	requirePython(t)
	b := NewPythonBackend()

	// 退出码为0但写了stderr，同样判运行失败
	code := "import sys; sys.stderr.write('warning'); print('ok')"
	_, err := b.Run(context.Background(), code, "", testLimits())

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, RuntimeFailure, failure.Kind)
	assert.Contains(t, failure.Detail, "warning")
}

func TestScriptBackendIsolatedRuns(t *testing.T) {
	requirePython(t)
	b := NewPythonBackend()

	// 每次执行各自独立的工作目录，前一次写的文件对后一次不可见
	_, err := b.Run(context.Background(), "open('marker.txt','w').write('x')", "", testLimits())
	require.NoError(t, err)

	out, err := b.Run(context.Background(), "import os; print(os.path.exists('marker.txt'))", "", testLimits())
	require.NoError(t, err)
	assert.Equal(t, "False\n", out)
}

func TestScriptBackendMissingInterpreter(t *testing.T) {
	b := NewScriptBackend("ghost", []string{"definitely-not-a-real-interpreter"}, ".x")

	_, err := b.Run(context.Background(), "whatever", "", Limits{TimeLimit: time.Second})

	var failure *Failure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, RuntimeFailure, failure.Kind)
}
