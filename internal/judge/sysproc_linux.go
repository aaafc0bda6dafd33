//go:build linux

package judge

import (
	"os/exec"
	"syscall"
)

// sysProcAttr 让子进程进入独立进程组，超时后可以整组清理
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// killProcessGroup 杀掉子进程所在的整个进程组，清理解释器再派生的孙进程
func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
