//go:build linux && !(mips || mipsle || mips64 || mips64le)

package runner

// sigsetSize is the kernel sigset_t size in bytes (_NSIG/8).
const sigsetSize = 8
