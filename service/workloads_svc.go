package service

import (
	"context"
	"fmt"
	"time"

	"github.com/clusterlens/api/domain"
	"k8s.io/apimachinery/pkg/types"
)

func (svc *Service) ListDeployments(ctx context.Context, namespace string) ([]*domain.Deployment, error) {
	list, err := svc.k8s.ListDeployments(ctx, namespace)
	if err != nil {
		return nil, mapUpstreamErr(err, "list deployments")
	}

	out := make([]*domain.Deployment, 0, len(list.Items))
	for i := range list.Items {
		out = append(out, transformDeployment(&list.Items[i]))
	}
	return out, nil
}

func (svc *Service) GetDeployment(ctx context.Context, namespace, name string) (*domain.Deployment, error) {
	dep, err := svc.k8s.GetDeployment(ctx, namespace, name)
	if err != nil {
		return nil, mapUpstreamErr(err, "get deployment "+namespace+"/"+name)
	}
	return transformDeployment(dep), nil
}

// RestartDeployment triggers a rolling restart by stamping the pod template,
// the same strategic merge patch kubectl rollout restart issues.
func (svc *Service) RestartDeployment(ctx context.Context, namespace, name string) error {
	patch := fmt.Sprintf(
		`{"spec":{"template":{"metadata":{"annotations":{"kubectl.kubernetes.io/restartedAt":%q}}}}}`,
		time.Now().UTC().Format(time.RFC3339),
	)
	err := svc.k8s.PatchDeployment(ctx, namespace, name, types.StrategicMergePatchType, []byte(patch))
	if err != nil {
		return mapUpstreamErr(err, "restart deployment "+namespace+"/"+name)
	}
	return nil
}

func (svc *Service) ListServices(ctx context.Context, namespace string) ([]*domain.Service, error) {
	list, err := svc.k8s.ListServices(ctx, namespace)
	if err != nil {
		return nil, mapUpstreamErr(err, "list services")
	}

	out := make([]*domain.Service, 0, len(list.Items))
	for i := range list.Items {
		out = append(out, transformService(&list.Items[i]))
	}
	return out, nil
}

func (svc *Service) GetService(ctx context.Context, namespace, name string) (*domain.Service, error) {
	s, err := svc.k8s.GetService(ctx, namespace, name)
	if err != nil {
		return nil, mapUpstreamErr(err, "get service "+namespace+"/"+name)
	}
	return transformService(s), nil
}

func (svc *Service) ListIngresses(ctx context.Context, namespace string) ([]*domain.Ingress, error) {
	list, err := svc.k8s.ListIngresses(ctx, namespace)
	if err != nil {
		return nil, mapUpstreamErr(err, "list ingresses")
	}

	out := make([]*domain.Ingress, 0, len(list.Items))
	for i := range list.Items {
		out = append(out, transformIngress(&list.Items[i]))
	}
	return out, nil
}

func (svc *Service) GetIngress(ctx context.Context, namespace, name string) (*domain.Ingress, error) {
	ing, err := svc.k8s.GetIngress(ctx, namespace, name)
	if err != nil {
		return nil, mapUpstreamErr(err, "get ingress "+namespace+"/"+name)
	}
	return transformIngress(ing), nil
}
