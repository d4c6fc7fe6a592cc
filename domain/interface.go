package domain

import (
	"context"
)

// ExecTarget identifies the remote process a terminal session attaches to.
type ExecTarget struct {
	Namespace string
	Pod       string
	Container string
	Shell     string
}

// LogTarget identifies the container a log-follow session tails.
type LogTarget struct {
	Namespace string
	Pod       string
	Container string
}

// Close codes for the client-facing duplex channel, mirroring websocket
// close-frame semantics.
const (
	CloseNormal = 1000
	CloseError  = 1011
)

// ClientChannel is the duplex byte channel a streaming session relays
// against. The rest layer wraps a websocket connection into this; tests use
// an in-memory implementation.
type ClientChannel interface {
	// Read blocks until the next inbound client payload, the channel
	// closing, or an error.
	Read() ([]byte, error)
	// Write sends one outbound payload to the client verbatim.
	Write(p []byte) error
	// Close closes the channel with the given close code and reason.
	// Idempotent.
	Close(code int, reason string) error
}

// Console is the aggregation surface consumed by the REST/WS layer.
type Console interface {
	ListPods(ctx context.Context, namespace string) ([]*Pod, error)
	GetPod(ctx context.Context, namespace, name string) (*Pod, error)
	ListNodes(ctx context.Context) ([]*Node, error)
	GetNode(ctx context.Context, name string) (*Node, error)
	ListNamespaces(ctx context.Context) ([]*Namespace, error)
	GetNamespace(ctx context.Context, name string) (*Namespace, error)
	CreateNamespace(ctx context.Context, name string, labels map[string]string) (*Namespace, error)
	ListDeployments(ctx context.Context, namespace string) ([]*Deployment, error)
	GetDeployment(ctx context.Context, namespace, name string) (*Deployment, error)
	RestartDeployment(ctx context.Context, namespace, name string) error
	ListServices(ctx context.Context, namespace string) ([]*Service, error)
	GetService(ctx context.Context, namespace, name string) (*Service, error)
	ListIngresses(ctx context.Context, namespace string) ([]*Ingress, error)
	GetIngress(ctx context.Context, namespace, name string) (*Ingress, error)
	GetCluster(ctx context.Context) (*Cluster, error)
	ListClusters(ctx context.Context) ([]*Cluster, error)

	// BridgeTerminal relays bytes between the client channel and an
	// interactive shell in the target container until either side closes.
	BridgeTerminal(ctx context.Context, ch ClientChannel, target ExecTarget) error
	// BridgeLogStream relays a follow-mode log tail to the client channel
	// until either side closes.
	BridgeLogStream(ctx context.Context, ch ClientChannel, target LogTarget) error
	// WatchPods pushes pod lifecycle events to the client channel until
	// either side closes. An empty namespace watches the whole cluster.
	WatchPods(ctx context.Context, ch ClientChannel, namespace string) error
}
