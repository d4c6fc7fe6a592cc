package service

import (
	"github.com/clusterlens/api/adapter/kubernetes"
	"github.com/clusterlens/api/config"
	"github.com/clusterlens/api/domain"
	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"github.com/pkg/errors"
)

// Params holds the parameters for creating a new Service
type Params struct {
	K8sAdapter kubernetes.K8sAdapter
	Config     *config.ConsoleConfig
}

// NewService creates a new Service instance
func NewService(params Params) (*Service, error) {
	if params.K8sAdapter == nil {
		return nil, errors.New("K8sAdapter is required")
	}
	cfg := params.Config
	if cfg == nil {
		cfg = &config.ConsoleConfig{}
	}
	svc := &Service{
		k8s: params.K8sAdapter,
		cfg: cfg,
	}
	return svc, nil
}

// Service aggregates raw cluster listings into enriched records and bridges
// interactive streaming sessions. It holds no mutable state; every call
// fetches live data through the shared adapter.
type Service struct {
	k8s kubernetes.K8sAdapter
	cfg *config.ConsoleConfig
}

// mapUpstreamErr folds an upstream client error into the domain taxonomy.
// NotFound stays distinguishable from connectivity failure.
func mapUpstreamErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if apierrors.IsNotFound(err) {
		return errors.Wrapf(domain.ErrNotFound, "%s: %v", what, err)
	}
	return errors.Wrapf(domain.ErrClusterUnreachable, "%s: %v", what, err)
}
