package service

import (
	"context"
	"fmt"

	"github.com/clusterlens/api/domain"
	"github.com/clusterlens/api/pkg/logger"
	apiv1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
)

// Metrics enrichment is best-effort: the metrics backend is an optional
// cluster add-on, so every failure here degrades to an empty map instead of
// crossing the orchestrator boundary.

// buildPodMetricsMap fetches the cluster-wide pod metrics listing and keys
// it by "namespace/name". Container usage is summed as raw integers before a
// single normalization pass, so rounding error does not compound across
// containers. The first container's raw strings are kept for traceability.
func (svc *Service) buildPodMetricsMap(ctx context.Context) domain.MetricsMap {
	list, err := svc.k8s.ListPodMetrics(ctx)
	if err != nil {
		logger.Logger(ctx).Warn().Err(err).Msg("pod metrics unavailable, proceeding without usage data")
		return domain.MetricsMap{}
	}

	m := make(domain.MetricsMap, len(list.Items))
	for i := range list.Items {
		pm := &list.Items[i]

		var cpuNanos, memBytes int64
		var rawCPU, rawMem string
		for ci := range pm.Containers {
			usage := pm.Containers[ci].Usage
			cpu := usage[apiv1.ResourceCPU]
			mem := usage[apiv1.ResourceMemory]
			cpuNanos += cpu.ScaledValue(resource.Nano)
			memBytes += mem.Value()
			if ci == 0 {
				rawCPU = cpu.String()
				rawMem = mem.String()
			}
		}

		sample := &domain.MetricsSample{
			Name:      pm.Name,
			Namespace: pm.Namespace,
			Timestamp: pm.Timestamp.Time,
			Window:    pm.Window.Duration.String(),
			CPU:       NormalizeCPU(fmt.Sprintf("%dn", cpuNanos)),
			Memory:    NormalizeMemory(fmt.Sprintf("%d", memBytes)),
		}
		if rawCPU != "" {
			sample.CPU.Raw = rawCPU
		}
		if rawMem != "" {
			sample.Memory.Raw = rawMem
		}
		m[domain.PodMetricsKey(pm.Namespace, pm.Name)] = sample
	}
	return m
}

// buildNodeMetricsMap fetches the node metrics listing keyed by node name.
// Node samples carry a single measurement, no summation needed.
func (svc *Service) buildNodeMetricsMap(ctx context.Context) domain.MetricsMap {
	list, err := svc.k8s.ListNodeMetrics(ctx)
	if err != nil {
		logger.Logger(ctx).Warn().Err(err).Msg("node metrics unavailable, proceeding without usage data")
		return domain.MetricsMap{}
	}

	m := make(domain.MetricsMap, len(list.Items))
	for i := range list.Items {
		nm := &list.Items[i]
		cpu := nm.Usage[apiv1.ResourceCPU]
		mem := nm.Usage[apiv1.ResourceMemory]
		m[nm.Name] = &domain.MetricsSample{
			Name:      nm.Name,
			Timestamp: nm.Timestamp.Time,
			Window:    nm.Window.Duration.String(),
			CPU:       NormalizeCPU(cpu.String()),
			Memory:    NormalizeMemory(mem.String()),
		}
	}
	return m
}
