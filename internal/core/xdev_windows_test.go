//go:build windows

package core

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/windows"
)

func TestIsCrossDevice(t *testing.T) {
	notSame := &os.LinkError{Op: "rename", Old: `C:\a\mod`, New: `D:\b\mod`, Err: windows.ERROR_NOT_SAME_DEVICE}

	assert.True(t, isCrossDevice(notSame))
	assert.True(t, isCrossDevice(fmt.Errorf("moving mod: %w", notSame)))
	assert.False(t, isCrossDevice(&os.LinkError{Op: "rename", Old: `C:\a`, New: `C:\b`, Err: windows.ERROR_FILE_NOT_FOUND}))
	assert.False(t, isCrossDevice(nil))
}
