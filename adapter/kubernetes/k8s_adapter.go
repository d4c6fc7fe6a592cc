package kubernetes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	apiv1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/version"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	metricsv1beta1 "k8s.io/metrics/pkg/apis/metrics/v1beta1"
	metricsclient "k8s.io/metrics/pkg/client/clientset/versioned"
)

// Define error types
var (
	ErrNoKubeConfig      = errors.New("no Kubernetes configuration available")
	ErrKubeClientNotInit = errors.New("Kubernetes client not initialized")
	ErrNoExecConfig      = errors.New("no REST config available for exec")
)

// IOStreams bundles the byte streams attached to a remote exec session.
// Under a TTY the remote side merges stderr into stdout, so ErrOut is
// typically left nil for interactive sessions.
type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// LogOptions controls a log stream opened through the adapter.
type LogOptions struct {
	Follow     bool
	TailLines  *int64
	Timestamps bool
}

// K8sAdapter is the single upstream capability every orchestrator consumes.
// It is created once at startup and shared read-only; the underlying
// clientsets are safe for concurrent use.
type K8sAdapter interface {
	ListNodes(ctx context.Context) (*apiv1.NodeList, error)
	GetNode(ctx context.Context, name string) (*apiv1.Node, error)
	ListPods(ctx context.Context, namespace string) (*apiv1.PodList, error)
	GetPod(ctx context.Context, namespace, name string) (*apiv1.Pod, error)
	ListNamespaces(ctx context.Context) (*apiv1.NamespaceList, error)
	GetNamespace(ctx context.Context, name string) (*apiv1.Namespace, error)
	CreateNamespace(ctx context.Context, ns *apiv1.Namespace) (*apiv1.Namespace, error)
	ListDeployments(ctx context.Context, namespace string) (*appsv1.DeploymentList, error)
	GetDeployment(ctx context.Context, namespace, name string) (*appsv1.Deployment, error)
	PatchDeployment(ctx context.Context, namespace, name string, pt types.PatchType, data []byte) error
	ListServices(ctx context.Context, namespace string) (*apiv1.ServiceList, error)
	GetService(ctx context.Context, namespace, name string) (*apiv1.Service, error)
	ListIngresses(ctx context.Context, namespace string) (*networkingv1.IngressList, error)
	GetIngress(ctx context.Context, namespace, name string) (*networkingv1.Ingress, error)

	ListNodeMetrics(ctx context.Context) (*metricsv1beta1.NodeMetricsList, error)
	ListPodMetrics(ctx context.Context) (*metricsv1beta1.PodMetricsList, error)

	ServerVersion() (*version.Info, error)

	// Exec runs command in the target container with a TTY attached,
	// relaying the given streams. Blocks until the remote process exits or
	// ctx is cancelled.
	Exec(ctx context.Context, namespace, pod, container string, command []string, streams IOStreams) error
	// OpenLogStream opens a log stream for the target container. The caller
	// owns the returned reader and must close it.
	OpenLogStream(ctx context.Context, namespace, pod, container string, opts LogOptions) (io.ReadCloser, error)
	// WatchPods delivers pod lifecycle events to handler until ctx ends.
	WatchPods(ctx context.Context, namespace string, handler PodEventHandler) error
}

type k8sClient struct {
	kubeClient    kubernetes.Interface
	metricsClient metricsclient.Interface
	restConfig    *rest.Config
}

func (k *k8sClient) ListNodes(ctx context.Context) (*apiv1.NodeList, error) {
	return k.kubeClient.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
}

func (k *k8sClient) GetNode(ctx context.Context, name string) (*apiv1.Node, error) {
	return k.kubeClient.CoreV1().Nodes().Get(ctx, name, metav1.GetOptions{})
}

func (k *k8sClient) ListPods(ctx context.Context, namespace string) (*apiv1.PodList, error) {
	return k.kubeClient.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
}

func (k *k8sClient) GetPod(ctx context.Context, namespace, name string) (*apiv1.Pod, error) {
	return k.kubeClient.CoreV1().Pods(namespace).Get(ctx, name, metav1.GetOptions{})
}

func (k *k8sClient) ListNamespaces(ctx context.Context) (*apiv1.NamespaceList, error) {
	return k.kubeClient.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
}

func (k *k8sClient) GetNamespace(ctx context.Context, name string) (*apiv1.Namespace, error) {
	return k.kubeClient.CoreV1().Namespaces().Get(ctx, name, metav1.GetOptions{})
}

func (k *k8sClient) CreateNamespace(ctx context.Context, ns *apiv1.Namespace) (*apiv1.Namespace, error) {
	return k.kubeClient.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{})
}

func (k *k8sClient) ListDeployments(ctx context.Context, namespace string) (*appsv1.DeploymentList, error) {
	return k.kubeClient.AppsV1().Deployments(namespace).List(ctx, metav1.ListOptions{})
}

func (k *k8sClient) GetDeployment(ctx context.Context, namespace, name string) (*appsv1.Deployment, error) {
	return k.kubeClient.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
}

func (k *k8sClient) PatchDeployment(ctx context.Context, namespace, name string, pt types.PatchType, data []byte) error {
	_, err := k.kubeClient.AppsV1().Deployments(namespace).Patch(ctx, name, pt, data, metav1.PatchOptions{})
	return err
}

func (k *k8sClient) ListServices(ctx context.Context, namespace string) (*apiv1.ServiceList, error) {
	return k.kubeClient.CoreV1().Services(namespace).List(ctx, metav1.ListOptions{})
}

func (k *k8sClient) GetService(ctx context.Context, namespace, name string) (*apiv1.Service, error) {
	return k.kubeClient.CoreV1().Services(namespace).Get(ctx, name, metav1.GetOptions{})
}

func (k *k8sClient) ListIngresses(ctx context.Context, namespace string) (*networkingv1.IngressList, error) {
	return k.kubeClient.NetworkingV1().Ingresses(namespace).List(ctx, metav1.ListOptions{})
}

func (k *k8sClient) GetIngress(ctx context.Context, namespace, name string) (*networkingv1.Ingress, error) {
	return k.kubeClient.NetworkingV1().Ingresses(namespace).Get(ctx, name, metav1.GetOptions{})
}

func (k *k8sClient) ListNodeMetrics(ctx context.Context) (*metricsv1beta1.NodeMetricsList, error) {
	return k.metricsClient.MetricsV1beta1().NodeMetricses().List(ctx, metav1.ListOptions{})
}

func (k *k8sClient) ListPodMetrics(ctx context.Context) (*metricsv1beta1.PodMetricsList, error) {
	return k.metricsClient.MetricsV1beta1().PodMetricses(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
}

func (k *k8sClient) ServerVersion() (*version.Info, error) {
	return k.kubeClient.Discovery().ServerVersion()
}

// Options contains Kubernetes adapter options
type Options struct {
	KubeConfigPath string
	InCluster      bool
	QPS            float32
	Burst          int
	Timeout        time.Duration
}

// NewK8SAdapter creates a new Kubernetes adapter based on configuration.
// Supports two modes:
// 1. When running inside the cluster, use in-cluster configuration
// 2. When running outside the cluster, use kubeconfig configuration
func NewK8SAdapter(options Options) (K8sAdapter, error) {
	var config *rest.Config
	var err error

	if options.InCluster {
		config, err = rest.InClusterConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create in-cluster config: %w", err)
		}
	} else if options.KubeConfigPath != "" {
		config, err = clientcmd.BuildConfigFromFlags("", options.KubeConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to build kubeconfig from %s: %w", options.KubeConfigPath, err)
		}
	} else {
		return nil, ErrNoKubeConfig
	}

	config.Timeout = options.Timeout
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	config.QPS = options.QPS
	if config.QPS == 0 {
		config.QPS = 20
	}
	config.Burst = options.Burst
	if config.Burst == 0 {
		config.Burst = 50
	}

	kubeClient, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kubernetes client: %w", err)
	}

	mClient, err := metricsclient.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics client: %w", err)
	}

	return &k8sClient{
		kubeClient:    kubeClient,
		metricsClient: mClient,
		restConfig:    config,
	}, nil
}

// NewK8SAdapterWithClients builds an adapter around existing clientsets.
// Used by tests with the fake clientsets; restConfig may be nil, in which
// case Exec is unavailable.
func NewK8SAdapterWithClients(kube kubernetes.Interface, metrics metricsclient.Interface, restConfig *rest.Config) K8sAdapter {
	return &k8sClient{
		kubeClient:    kube,
		metricsClient: metrics,
		restConfig:    restConfig,
	}
}
