package app

import (
	"time"

	"github.com/clusterlens/api/adapter/kubernetes"
	"github.com/clusterlens/api/config"
	"github.com/clusterlens/api/domain"
	"github.com/clusterlens/api/rest"
	"github.com/clusterlens/api/service"
	"go.uber.org/fx"
)

func ConfigModule(cfg config.ConsoleConfig) fx.Option {
	return fx.Options(
		fx.Provide(func() *config.ConsoleConfig {
			return &cfg
		}),
		fx.Provide(func(consoleCfg *config.ConsoleConfig) config.ServerConfig {
			return consoleCfg.Server
		}),
		fx.Provide(func(consoleCfg *config.ConsoleConfig) config.KubernetesConfig {
			return consoleCfg.Kubernetes
		}),
	)
}

// AdapterModule creates an Fx module that provides the Kubernetes adapter.
func AdapterModule() fx.Option {
	return fx.Provide(func(kubeCfg config.KubernetesConfig) (kubernetes.K8sAdapter, error) {
		return kubernetes.NewK8SAdapter(kubernetes.Options{
			KubeConfigPath: kubeCfg.KubeConfigPath,
			InCluster:      kubeCfg.InCluster,
			QPS:            kubeCfg.QPS,
			Burst:          kubeCfg.Burst,
			Timeout:        time.Duration(kubeCfg.TimeoutSeconds) * time.Second,
		})
	})
}

// ServiceModule creates an Fx module that provides the aggregation service,
// returning domain.Console.
func ServiceModule() fx.Option {
	return fx.Provide(func(adapter kubernetes.K8sAdapter, cfg *config.ConsoleConfig) (domain.Console, error) {
		return service.NewService(service.Params{
			K8sAdapter: adapter,
			Config:     cfg,
		})
	})
}

// HandlerModule creates an Fx module that provides the REST handler, return *rest.Handler
func HandlerModule() fx.Option {
	return fx.Provide(func(svc domain.Console, cfg *config.ConsoleConfig) (*rest.Handler, error) {
		return rest.NewHandler(rest.Params{
			Svc:    svc,
			Config: cfg,
		})
	})
}
