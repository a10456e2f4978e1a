package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLambdaUploadDir(t *testing.T) {
	assert.Equal(t, filepath.Join(os.TempDir(), "uploads"), lambdaUploadDir(""))
	assert.Equal(t, "/mnt/efs/uploads", lambdaUploadDir("/mnt/efs/uploads"))
}
