package service

import (
	"context"

	"github.com/clusterlens/api/domain"
	"github.com/clusterlens/api/pkg/logger"
	apiv1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ListNamespaces returns the enriched namespace listing with per-namespace
// pod histograms. No usage metrics exist for namespaces.
func (svc *Service) ListNamespaces(ctx context.Context) ([]*domain.Namespace, error) {
	list, err := svc.k8s.ListNamespaces(ctx)
	if err != nil {
		return nil, mapUpstreamErr(err, "list namespaces")
	}

	counts := svc.podCountsByNamespace(ctx)

	out := make([]*domain.Namespace, 0, len(list.Items))
	for i := range list.Items {
		ns := &list.Items[i]
		out = append(out, transformNamespace(ns, countsFor(counts, ns.Name)))
	}
	return out, nil
}

func (svc *Service) GetNamespace(ctx context.Context, name string) (*domain.Namespace, error) {
	ns, err := svc.k8s.GetNamespace(ctx, name)
	if err != nil {
		return nil, mapUpstreamErr(err, "get namespace "+name)
	}

	counts := svc.podCountsByNamespace(ctx)
	return transformNamespace(ns, countsFor(counts, name)), nil
}

// CreateNamespace is a pass-through create, outside the aggregation core.
func (svc *Service) CreateNamespace(ctx context.Context, name string, labels map[string]string) (*domain.Namespace, error) {
	ns := &apiv1.Namespace{
		ObjectMeta: metav1.ObjectMeta{
			Name:   name,
			Labels: labels,
		},
	}
	created, err := svc.k8s.CreateNamespace(ctx, ns)
	if err != nil {
		return nil, mapUpstreamErr(err, "create namespace "+name)
	}
	return transformNamespace(created, domain.PhaseCounts{}), nil
}

func (svc *Service) podCountsByNamespace(ctx context.Context) map[string]*domain.PhaseCounts {
	pods, err := svc.k8s.ListPods(ctx, metav1.NamespaceAll)
	if err != nil {
		logger.Logger(ctx).Warn().Err(err).Msg("pod listing for namespace counts unavailable, using zeroed counts")
		return map[string]*domain.PhaseCounts{}
	}
	return countPodsByNamespace(pods.Items)
}
