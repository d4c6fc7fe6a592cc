package service_test

import (
	"testing"

	"github.com/clusterlens/api/service"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeCPU(t *testing.T) {
	tests := []struct {
		name           string
		raw            string
		wantMillicores int64
		wantCores      float64
	}{
		{"nanocores", "500000000n", 500, 0.5},
		{"nanocores rounding", "1499999n", 1, 0},
		{"empty", "", 0, 0},
		{"millicores", "250m", 250, 0.25},
		{"whole cores", "4", 4000, 4},
		{"garbage", "not-a-number", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.NormalizeCPU(tt.raw)
			assert.Equal(t, tt.wantMillicores, got.Millicores)
			assert.Equal(t, tt.wantCores, got.Cores)
		})
	}
}

func TestNormalizeCPUKeepsRaw(t *testing.T) {
	got := service.NormalizeCPU("500000000n")
	assert.Equal(t, "500000000n", got.Raw)

	// empty input normalizes as "0"
	got = service.NormalizeCPU("")
	assert.Equal(t, "0", got.Raw)
}

func TestNormalizeMemory(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantBytes int64
	}{
		{"kibibytes", "1024Ki", 1048576},
		{"empty", "", 0},
		{"plain bytes", "2048", 2048},
		{"mebibytes", "64Mi", 64 * 1024 * 1024},
		{"garbage", "many", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.NormalizeMemory(tt.raw)
			assert.Equal(t, tt.wantBytes, got.Bytes)
		})
	}
}

func TestNormalizeMemoryDerivedUnits(t *testing.T) {
	got := service.NormalizeMemory("1572864Ki") // 1.5 GiB
	assert.Equal(t, int64(1610612736), got.Bytes)
	assert.Equal(t, 1536.0, got.Megabytes)
	assert.Equal(t, 1.5, got.Gigabytes)
}
