package service

import (
	"context"
	"sync"

	"github.com/clusterlens/api/domain"
	"github.com/clusterlens/api/pkg/logger"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ListNodes returns the enriched node listing. The metrics fetch and the
// pod-count fetch are independent reads with no ordering dependency, so they
// are issued concurrently and joined before transforming.
func (svc *Service) ListNodes(ctx context.Context) ([]*domain.Node, error) {
	list, err := svc.k8s.ListNodes(ctx)
	if err != nil {
		return nil, mapUpstreamErr(err, "list nodes")
	}

	var metrics domain.MetricsMap
	var counts map[string]*domain.PhaseCounts
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		metrics = svc.buildNodeMetricsMap(ctx)
	}()
	go func() {
		defer wg.Done()
		counts = svc.podCountsByNode(ctx)
	}()
	wg.Wait()

	out := make([]*domain.Node, 0, len(list.Items))
	for i := range list.Items {
		node := &list.Items[i]
		out = append(out, transformNode(node, metrics, countsFor(counts, node.Name)))
	}
	return out, nil
}

// GetNode returns one enriched node. A node with no pods still carries a
// zeroed histogram.
func (svc *Service) GetNode(ctx context.Context, name string) (*domain.Node, error) {
	node, err := svc.k8s.GetNode(ctx, name)
	if err != nil {
		return nil, mapUpstreamErr(err, "get node "+name)
	}

	var metrics domain.MetricsMap
	var counts map[string]*domain.PhaseCounts
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		metrics = svc.buildNodeMetricsMap(ctx)
	}()
	go func() {
		defer wg.Done()
		counts = svc.podCountsByNode(ctx)
	}()
	wg.Wait()

	return transformNode(node, metrics, countsFor(counts, name)), nil
}

// podCountsByNode fetches the full pod listing and groups it by node.
// Best-effort: a failed listing degrades to zeroed counts.
func (svc *Service) podCountsByNode(ctx context.Context) map[string]*domain.PhaseCounts {
	pods, err := svc.k8s.ListPods(ctx, metav1.NamespaceAll)
	if err != nil {
		logger.Logger(ctx).Warn().Err(err).Msg("pod listing for node counts unavailable, using zeroed counts")
		return map[string]*domain.PhaseCounts{}
	}
	return countPodsByNode(pods.Items)
}
