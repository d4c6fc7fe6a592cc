package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/clusterlens/api/domain"
	"k8s.io/apimachinery/pkg/api/resource"
)

// Quantity normalization for orchestrator-native strings. Usage samples from
// the metrics backend arrive as nanocores ("500000000n") and kibibytes
// ("128Ki"); capacity values arrive as plain Kubernetes quantities ("4",
// "250m", "16Gi"). Both functions are total: bad input normalizes to zero.

// NormalizeCPU converts a CPU quantity string into millicores and cores.
// Unsuffixed values are parsed as Kubernetes quantities, so "4" means four
// whole cores.
func NormalizeCPU(raw string) domain.CPUQuantity {
	if raw == "" {
		raw = "0"
	}
	out := domain.CPUQuantity{Raw: raw}

	var millicores int64
	if strings.HasSuffix(raw, "n") {
		if n, err := strconv.ParseInt(strings.TrimSuffix(raw, "n"), 10, 64); err == nil {
			millicores = int64(math.Round(float64(n) / 1e6))
		}
	} else if q, err := resource.ParseQuantity(raw); err == nil {
		millicores = q.MilliValue()
	}

	out.Millicores = millicores
	out.Cores = round2(float64(millicores) / 1000)
	return out
}

// NormalizeMemory converts a memory quantity string into bytes and derived
// units.
func NormalizeMemory(raw string) domain.MemoryQuantity {
	if raw == "" {
		raw = "0"
	}
	out := domain.MemoryQuantity{Raw: raw}

	var bytes int64
	if strings.HasSuffix(raw, "Ki") {
		if n, err := strconv.ParseInt(strings.TrimSuffix(raw, "Ki"), 10, 64); err == nil {
			bytes = n * 1024
		}
	} else if q, err := resource.ParseQuantity(raw); err == nil {
		bytes = q.Value()
	}

	out.Bytes = bytes
	out.Megabytes = round2(float64(bytes) / (1 << 20))
	out.Gigabytes = round2(float64(bytes) / (1 << 30))
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
