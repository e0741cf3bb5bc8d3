package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olareport/internal/shared/testutil"
	"olareport/pkg/contracts"
	"olareport/pkg/contracts/domain"
)

func TestHealthService_ReadinessCheck(t *testing.T) {
	blocked := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0644))

	tests := []struct {
		name      string
		outputDir string
		directory *domain.UserDirectory
		want      string
	}{
		{name: "ready", outputDir: t.TempDir(), directory: domain.DefaultUserDirectory(), want: "ready"},
		{name: "streaming only", outputDir: "", directory: domain.DefaultUserDirectory(), want: "ready"},
		{name: "empty directory", outputDir: "", directory: domain.NewUserDirectory(), want: "not_ready"},
		{name: "output is a file", outputDir: filepath.Join(blocked, "sub"), directory: domain.DefaultUserDirectory(), want: "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			hs := NewHealthService(tt.outputDir, tt.directory, logger)

			status := hs.ReadinessCheck(context.Background())
			assert.Equal(t, tt.want, status.Status)
			assert.Len(t, status.Services, 2)
		})
	}
}

func TestHealthService_Probes(t *testing.T) {
	hs := NewHealthService("", domain.DefaultUserDirectory(), nil)

	health := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, contracts.Version, health.Version)

	live := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "goroutines")

	version := hs.Version()
	assert.Equal(t, contracts.Version, version["version"])
	assert.Equal(t, contracts.GetVersionString(), version["name"])
}
