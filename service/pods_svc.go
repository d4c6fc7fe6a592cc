package service

import (
	"context"

	"github.com/clusterlens/api/domain"
)

// ListPods returns the enriched pod listing for one namespace, or the whole
// cluster when namespace is empty. The listing order of the upstream
// response is preserved.
func (svc *Service) ListPods(ctx context.Context, namespace string) ([]*domain.Pod, error) {
	list, err := svc.k8s.ListPods(ctx, namespace)
	if err != nil {
		return nil, mapUpstreamErr(err, "list pods")
	}

	metrics := svc.buildPodMetricsMap(ctx)

	out := make([]*domain.Pod, 0, len(list.Items))
	for i := range list.Items {
		out = append(out, transformPod(&list.Items[i], metrics))
	}
	return out, nil
}

// GetPod returns one enriched pod. A missing pod surfaces as ErrNotFound.
func (svc *Service) GetPod(ctx context.Context, namespace, name string) (*domain.Pod, error) {
	pod, err := svc.k8s.GetPod(ctx, namespace, name)
	if err != nil {
		return nil, mapUpstreamErr(err, "get pod "+namespace+"/"+name)
	}

	metrics := svc.buildPodMetricsMap(ctx)
	return transformPod(pod, metrics), nil
}
