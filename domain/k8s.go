package domain

import (
	"time"
)

// CPUQuantity is the canonical representation of a CPU quantity. Raw keeps
// the orchestrator-native string for traceability.
type CPUQuantity struct {
	Raw        string  `json:"raw"`
	Millicores int64   `json:"millicores"`
	Cores      float64 `json:"cores"`
}

// MemoryQuantity is the canonical representation of a memory quantity.
type MemoryQuantity struct {
	Raw       string  `json:"raw"`
	Bytes     int64   `json:"bytes"`
	Megabytes float64 `json:"megabytes"`
	Gigabytes float64 `json:"gigabytes"`
}

// MetricsSample is one live usage snapshot for a pod or node. Samples are
// rebuilt on every call and never persisted.
type MetricsSample struct {
	Name      string         `json:"name"`
	Namespace string         `json:"namespace,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Window    string         `json:"window"`
	CPU       CPUQuantity    `json:"cpu"`
	Memory    MemoryQuantity `json:"memory"`
}

// MetricsMap joins resource identity to its usage sample. Pod keys are
// "namespace/name", node keys are the bare node name. A missing key means no
// metrics are available for that resource, which is a valid state.
type MetricsMap map[string]*MetricsSample

// PodMetricsKey builds the composite join key for pod samples. Pod names are
// only unique within a namespace.
func PodMetricsKey(namespace, name string) string {
	return namespace + "/" + name
}

// PhaseCounts is a pod phase histogram for one node or namespace.
type PhaseCounts struct {
	Total     int `json:"total"`
	Running   int `json:"running"`
	Pending   int `json:"pending"`
	Failed    int `json:"failed"`
	Succeeded int `json:"succeeded"`
}

// ResourceValues holds cpu/memory quantity strings as declared on a
// container, defaulted to "0" when absent.
type ResourceValues struct {
	CPU    string `json:"cpu"`
	Memory string `json:"memory"`
}

// PodResources carries the requests and limits attached to a pod.
type PodResources struct {
	Requests ResourceValues `json:"requests"`
	Limits   ResourceValues `json:"limits"`
}

// PodStatus is the flattened status view of a pod.
type PodStatus struct {
	Phase    string `json:"phase"`
	Ready    bool   `json:"ready"`
	Restarts int32  `json:"restarts"`
	PodIP    string `json:"podIP,omitempty"`
	HostIP   string `json:"hostIP,omitempty"`
}

// Pod is the enriched pod record.
type Pod struct {
	Name       string            `json:"name"`
	Namespace  string            `json:"namespace"`
	NodeName   string            `json:"nodeName"`
	Status     PodStatus         `json:"status"`
	Containers []string          `json:"containers"`
	Resources  PodResources      `json:"resources"`
	Labels     map[string]string `json:"labels,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	Metrics    *MetricsSample    `json:"metrics"`
}

// NodeCapacity is the normalized capacity/allocatable view of a node.
type NodeCapacity struct {
	CPU    CPUQuantity    `json:"cpu"`
	Memory MemoryQuantity `json:"memory"`
	Pods   int64          `json:"pods"`
}

// Node is the enriched node record.
type Node struct {
	Name           string            `json:"name"`
	Roles          []string          `json:"roles"`
	Ready          bool              `json:"ready"`
	Unschedulable  bool              `json:"unschedulable"`
	InternalIP     string            `json:"internalIP,omitempty"`
	KubeletVersion string            `json:"kubeletVersion,omitempty"`
	OSImage        string            `json:"osImage,omitempty"`
	Architecture   string            `json:"architecture,omitempty"`
	KernelVersion  string            `json:"kernelVersion,omitempty"`
	Capacity       NodeCapacity      `json:"capacity"`
	Allocatable    NodeCapacity      `json:"allocatable"`
	Labels         map[string]string `json:"labels,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	Pods           PhaseCounts       `json:"pods"`
	Metrics        *MetricsSample    `json:"metrics"`
}

// Namespace is the enriched namespace record.
type Namespace struct {
	Name      string            `json:"name"`
	Phase     string            `json:"phase"`
	Labels    map[string]string `json:"labels,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	Pods      PhaseCounts       `json:"pods"`
}

// DeploymentReplicas is the flattened replica status of a deployment.
type DeploymentReplicas struct {
	Desired   int32 `json:"desired"`
	Ready     int32 `json:"ready"`
	Available int32 `json:"available"`
	Updated   int32 `json:"updated"`
}

// Deployment is the enriched deployment record.
type Deployment struct {
	Name      string             `json:"name"`
	Namespace string             `json:"namespace"`
	Replicas  DeploymentReplicas `json:"replicas"`
	Strategy  string             `json:"strategy"`
	Images    []string           `json:"images"`
	Labels    map[string]string  `json:"labels,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
}

// ServicePort is the flattened port view of a service.
type ServicePort struct {
	Name       string `json:"name,omitempty"`
	Port       int32  `json:"port"`
	TargetPort string `json:"targetPort"`
	NodePort   int32  `json:"nodePort,omitempty"`
	Protocol   string `json:"protocol"`
}

// Service is the enriched service record.
type Service struct {
	Name       string            `json:"name"`
	Namespace  string            `json:"namespace"`
	Type       string            `json:"type"`
	ClusterIP  string            `json:"clusterIP,omitempty"`
	ExternalIP string            `json:"externalIP,omitempty"`
	Ports      []ServicePort     `json:"ports"`
	Selector   map[string]string `json:"selector,omitempty"`
	Labels     map[string]string `json:"labels,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// IngressRule is the flattened host/path/backend view of one ingress rule.
type IngressRule struct {
	Host    string `json:"host,omitempty"`
	Path    string `json:"path"`
	Service string `json:"service"`
	Port    int32  `json:"port"`
}

// Ingress is the enriched ingress record.
type Ingress struct {
	Name      string            `json:"name"`
	Namespace string            `json:"namespace"`
	Class     string            `json:"class,omitempty"`
	Rules     []IngressRule     `json:"rules"`
	Addresses []string          `json:"addresses,omitempty"`
	Labels    map[string]string `json:"labels,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Cluster is the summary view of one cluster. Placeholders for configured
// but unconnected clusters carry only Name with Reachable false.
type Cluster struct {
	Name      string         `json:"name"`
	Reachable bool           `json:"reachable"`
	Version   string         `json:"version,omitempty"`
	Nodes     int            `json:"nodes"`
	Pods      PhaseCounts    `json:"pods"`
	Capacity  NodeCapacity   `json:"capacity"`
	Metrics   *MetricsSample `json:"metrics,omitempty"`
}
