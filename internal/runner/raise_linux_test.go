package runner

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRtSigaction_KernelAcceptsSigsetSize(t *testing.T) {
	var old kernelSigaction
	require.NoError(t, rtSigaction(syscall.SIGUSR2, nil, &old))
}

func TestResetDefault_InstallsSIGDFL(t *testing.T) {
	// SIGWINCH is ignored by default, so leaving it at SIG_DFL is harmless.
	resetDefault(syscall.SIGWINCH)

	var old kernelSigaction
	require.NoError(t, rtSigaction(syscall.SIGWINCH, nil, &old))
	assert.Equal(t, kernelSigaction{}, old)
}
