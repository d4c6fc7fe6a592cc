package service

import (
	"context"
	"fmt"

	"github.com/clusterlens/api/domain"
	"github.com/clusterlens/api/pkg/logger"
	apiv1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const defaultClusterName = "default"

// GetCluster summarizes the connected cluster: server version, node count,
// aggregated capacity and cluster-wide pod histogram. Version and node
// listing are fatal; the pod histogram degrades to zeroes.
func (svc *Service) GetCluster(ctx context.Context) (*domain.Cluster, error) {
	ver, err := svc.k8s.ServerVersion()
	if err != nil {
		return nil, mapUpstreamErr(err, "server version")
	}

	nodes, err := svc.k8s.ListNodes(ctx)
	if err != nil {
		return nil, mapUpstreamErr(err, "list nodes")
	}

	var pods domain.PhaseCounts
	podList, err := svc.k8s.ListPods(ctx, metav1.NamespaceAll)
	if err != nil {
		logger.Logger(ctx).Warn().Err(err).Msg("pod listing for cluster summary unavailable, using zeroed counts")
	} else {
		for _, pc := range countPodsByNamespace(podList.Items) {
			pods.Total += pc.Total
			pods.Running += pc.Running
			pods.Pending += pc.Pending
			pods.Failed += pc.Failed
			pods.Succeeded += pc.Succeeded
		}
	}

	var cpuMillicores, memBytes, podCap int64
	for i := range nodes.Items {
		capacity := nodes.Items[i].Status.Capacity
		if q, ok := capacity[apiv1.ResourceCPU]; ok {
			cpuMillicores += q.MilliValue()
		}
		if q, ok := capacity[apiv1.ResourceMemory]; ok {
			memBytes += q.Value()
		}
		if q, ok := capacity[apiv1.ResourcePods]; ok {
			podCap += q.Value()
		}
	}

	return &domain.Cluster{
		Name:      svc.clusterName(),
		Reachable: true,
		Version:   ver.GitVersion,
		Nodes:     len(nodes.Items),
		Pods:      pods,
		Capacity: domain.NodeCapacity{
			CPU:    NormalizeCPU(fmt.Sprintf("%dm", cpuMillicores)),
			Memory: NormalizeMemory(fmt.Sprintf("%d", memBytes)),
			Pods:   podCap,
		},
	}, nil
}

// ListClusters reports the live cluster followed by placeholders for the
// clusters named in config but not connected to this process. Placeholders
// stay unpopulated; this is a presentation concern, not federation.
func (svc *Service) ListClusters(ctx context.Context) ([]*domain.Cluster, error) {
	live, err := svc.GetCluster(ctx)
	if err != nil {
		return nil, err
	}

	out := []*domain.Cluster{live}
	for _, entry := range svc.cfg.Clusters {
		if entry.Name == live.Name {
			continue
		}
		out = append(out, &domain.Cluster{
			Name:      entry.Name,
			Reachable: false,
		})
	}
	return out, nil
}

func (svc *Service) clusterName() string {
	if len(svc.cfg.Clusters) > 0 && svc.cfg.Clusters[0].Name != "" {
		return svc.cfg.Clusters[0].Name
	}
	return defaultClusterName
}
