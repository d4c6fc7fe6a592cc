package service

import (
	"github.com/clusterlens/api/domain"
	apiv1 "k8s.io/api/core/v1"
)

// countPodsBy builds phase histograms from one full pod listing in a single
// pass. Pods for which keyFn yields an empty key are not counted anywhere.
// Phases outside the recognized set only bump the total.
func countPodsBy(pods []apiv1.Pod, keyFn func(*apiv1.Pod) string) map[string]*domain.PhaseCounts {
	counts := make(map[string]*domain.PhaseCounts)
	for i := range pods {
		pod := &pods[i]
		key := keyFn(pod)
		if key == "" {
			continue
		}
		pc, ok := counts[key]
		if !ok {
			pc = &domain.PhaseCounts{}
			counts[key] = pc
		}
		pc.Total++
		switch pod.Status.Phase {
		case apiv1.PodRunning:
			pc.Running++
		case apiv1.PodPending:
			pc.Pending++
		case apiv1.PodFailed:
			pc.Failed++
		case apiv1.PodSucceeded:
			pc.Succeeded++
		}
	}
	return counts
}

func countPodsByNode(pods []apiv1.Pod) map[string]*domain.PhaseCounts {
	return countPodsBy(pods, func(p *apiv1.Pod) string { return p.Spec.NodeName })
}

func countPodsByNamespace(pods []apiv1.Pod) map[string]*domain.PhaseCounts {
	return countPodsBy(pods, func(p *apiv1.Pod) string { return p.Namespace })
}

// countsFor resolves the histogram for one explicitly queried group. Groups
// absent from the listing yield zeroed counts, not a missing entry.
func countsFor(counts map[string]*domain.PhaseCounts, key string) domain.PhaseCounts {
	if pc, ok := counts[key]; ok {
		return *pc
	}
	return domain.PhaseCounts{}
}
