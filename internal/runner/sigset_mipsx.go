//go:build linux && (mips || mipsle || mips64 || mips64le)

package runner

// sigsetSize is the kernel sigset_t size in bytes; mips has 128 signals.
const sigsetSize = 16
