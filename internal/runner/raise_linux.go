package runner

import (
	"os/signal"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// kernelSigaction is large enough for the kernel's struct sigaction on
// every linux architecture. Zeroed, it reads as SIG_DFL with no flags
// and an empty mask whatever the field order (mips puts flags first).
type kernelSigaction [4]uint64

// resetDefault sets the kernel disposition of sig to SIG_DFL. Dropping
// the Go handler matters: the runtime ignores some signals (SIGUSR1,
// SIGPIPE) and dumps goroutines on others (SIGQUIT, SIGABRT) instead of
// dying the way the child did.
func resetDefault(sig syscall.Signal) {
	signal.Reset(sig)
	var act kernelSigaction
	_ = rtSigaction(sig, &act, nil)
}

func rtSigaction(sig syscall.Signal, act, old *kernelSigaction) error {
	_, _, errno := unix.RawSyscall6(unix.SYS_RT_SIGACTION, uintptr(sig),
		uintptr(unsafe.Pointer(act)), uintptr(unsafe.Pointer(old)), sigsetSize, 0, 0)
	if errno != 0 {
		return errno
	}
	return nil
}
