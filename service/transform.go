package service

import (
	"sort"
	"strings"

	"github.com/clusterlens/api/domain"
	appsv1 "k8s.io/api/apps/v1"
	apiv1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
)

const nodeRoleLabel = "node-role.kubernetes.io"

// transformPod flattens one raw pod into the enriched record, attaching the
// matched metrics sample or nil. Deterministic and side-effect free.
func transformPod(pod *apiv1.Pod, metrics domain.MetricsMap) *domain.Pod {
	var restarts int32
	for _, cs := range pod.Status.ContainerStatuses {
		restarts += cs.RestartCount
	}

	containers := make([]string, 0, len(pod.Spec.Containers))
	for _, c := range pod.Spec.Containers {
		containers = append(containers, c.Name)
	}

	return &domain.Pod{
		Name:      pod.Name,
		Namespace: pod.Namespace,
		NodeName:  pod.Spec.NodeName,
		Status: domain.PodStatus{
			Phase:    string(pod.Status.Phase),
			Ready:    isPodReady(pod),
			Restarts: restarts,
			PodIP:    pod.Status.PodIP,
			HostIP:   pod.Status.HostIP,
		},
		Containers: containers,
		Resources:  podResources(pod),
		Labels:     pod.Labels,
		CreatedAt:  pod.CreationTimestamp.Time,
		Metrics:    metrics[domain.PodMetricsKey(pod.Namespace, pod.Name)],
	}
}

// isPodReady reports whether a Ready condition with status exactly "True"
// exists. Anything else, including a missing condition, is not ready.
func isPodReady(pod *apiv1.Pod) bool {
	for _, cond := range pod.Status.Conditions {
		if cond.Type == apiv1.PodReady {
			return cond.Status == apiv1.ConditionTrue
		}
	}
	return false
}

// podResources collects cpu/memory requests and limits across containers.
// For each field independently the first non-empty value wins. This
// undercounts multi-container pods; it mirrors the externally observed
// totals of the original console and is kept on purpose rather than
// switching to summation.
func podResources(pod *apiv1.Pod) domain.PodResources {
	res := domain.PodResources{
		Requests: domain.ResourceValues{CPU: "0", Memory: "0"},
		Limits:   domain.ResourceValues{CPU: "0", Memory: "0"},
	}
	reqCPU, reqMem, limCPU, limMem := "", "", "", ""
	for _, c := range pod.Spec.Containers {
		if reqCPU == "" {
			if q, ok := c.Resources.Requests[apiv1.ResourceCPU]; ok {
				reqCPU = q.String()
			}
		}
		if reqMem == "" {
			if q, ok := c.Resources.Requests[apiv1.ResourceMemory]; ok {
				reqMem = q.String()
			}
		}
		if limCPU == "" {
			if q, ok := c.Resources.Limits[apiv1.ResourceCPU]; ok {
				limCPU = q.String()
			}
		}
		if limMem == "" {
			if q, ok := c.Resources.Limits[apiv1.ResourceMemory]; ok {
				limMem = q.String()
			}
		}
	}
	if reqCPU != "" {
		res.Requests.CPU = reqCPU
	}
	if reqMem != "" {
		res.Requests.Memory = reqMem
	}
	if limCPU != "" {
		res.Limits.CPU = limCPU
	}
	if limMem != "" {
		res.Limits.Memory = limMem
	}
	return res
}

// transformNode flattens one raw node, attaching its phase histogram and
// metrics sample.
func transformNode(node *apiv1.Node, metrics domain.MetricsMap, pods domain.PhaseCounts) *domain.Node {
	var internalIP string
	for _, addr := range node.Status.Addresses {
		if addr.Type == apiv1.NodeInternalIP {
			internalIP = addr.Address
			break
		}
	}

	return &domain.Node{
		Name:           node.Name,
		Roles:          nodeRoles(node.Labels),
		Ready:          isNodeReady(node),
		Unschedulable:  node.Spec.Unschedulable,
		InternalIP:     internalIP,
		KubeletVersion: node.Status.NodeInfo.KubeletVersion,
		OSImage:        node.Status.NodeInfo.OSImage,
		Architecture:   node.Status.NodeInfo.Architecture,
		KernelVersion:  node.Status.NodeInfo.KernelVersion,
		Capacity:       nodeCapacity(node.Status.Capacity),
		Allocatable:    nodeCapacity(node.Status.Allocatable),
		Labels:         node.Labels,
		CreatedAt:      node.CreationTimestamp.Time,
		Pods:           pods,
		Metrics:        metrics[node.Name],
	}
}

// nodeRoles extracts the role names from node-role labels. Label keys are
// visited in sorted order so the result is stable across calls.
func nodeRoles(labels map[string]string) []string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	roles := []string{}
	for _, k := range keys {
		if !strings.Contains(k, nodeRoleLabel) {
			continue
		}
		if role := strings.TrimPrefix(k, nodeRoleLabel+"/"); role != "" && role != k {
			roles = append(roles, role)
		} else {
			roles = append(roles, k)
		}
	}
	return roles
}

func isNodeReady(node *apiv1.Node) bool {
	for _, cond := range node.Status.Conditions {
		if cond.Type == apiv1.NodeReady {
			return cond.Status == apiv1.ConditionTrue
		}
	}
	return false
}

func nodeCapacity(rl apiv1.ResourceList) domain.NodeCapacity {
	out := domain.NodeCapacity{
		CPU:    NormalizeCPU(""),
		Memory: NormalizeMemory(""),
	}
	if q, ok := rl[apiv1.ResourceCPU]; ok {
		out.CPU = NormalizeCPU(q.String())
	}
	if q, ok := rl[apiv1.ResourceMemory]; ok {
		out.Memory = NormalizeMemory(q.String())
	}
	if q, ok := rl[apiv1.ResourcePods]; ok {
		out.Pods = q.Value()
	}
	return out
}

func transformNamespace(ns *apiv1.Namespace, pods domain.PhaseCounts) *domain.Namespace {
	return &domain.Namespace{
		Name:      ns.Name,
		Phase:     string(ns.Status.Phase),
		Labels:    ns.Labels,
		CreatedAt: ns.CreationTimestamp.Time,
		Pods:      pods,
	}
}

func transformDeployment(dep *appsv1.Deployment) *domain.Deployment {
	var desired int32
	if dep.Spec.Replicas != nil {
		desired = *dep.Spec.Replicas
	}

	images := make([]string, 0, len(dep.Spec.Template.Spec.Containers))
	for _, c := range dep.Spec.Template.Spec.Containers {
		images = append(images, c.Image)
	}

	return &domain.Deployment{
		Name:      dep.Name,
		Namespace: dep.Namespace,
		Replicas: domain.DeploymentReplicas{
			Desired:   desired,
			Ready:     dep.Status.ReadyReplicas,
			Available: dep.Status.AvailableReplicas,
			Updated:   dep.Status.UpdatedReplicas,
		},
		Strategy:  string(dep.Spec.Strategy.Type),
		Images:    images,
		Labels:    dep.Labels,
		CreatedAt: dep.CreationTimestamp.Time,
	}
}

func transformService(svc *apiv1.Service) *domain.Service {
	ports := make([]domain.ServicePort, 0, len(svc.Spec.Ports))
	for _, p := range svc.Spec.Ports {
		ports = append(ports, domain.ServicePort{
			Name:       p.Name,
			Port:       p.Port,
			TargetPort: p.TargetPort.String(),
			NodePort:   p.NodePort,
			Protocol:   string(p.Protocol),
		})
	}

	var externalIP string
	if len(svc.Spec.ExternalIPs) > 0 {
		externalIP = svc.Spec.ExternalIPs[0]
	} else if len(svc.Status.LoadBalancer.Ingress) > 0 {
		externalIP = svc.Status.LoadBalancer.Ingress[0].IP
	}

	return &domain.Service{
		Name:       svc.Name,
		Namespace:  svc.Namespace,
		Type:       string(svc.Spec.Type),
		ClusterIP:  svc.Spec.ClusterIP,
		ExternalIP: externalIP,
		Ports:      ports,
		Selector:   svc.Spec.Selector,
		Labels:     svc.Labels,
		CreatedAt:  svc.CreationTimestamp.Time,
	}
}

func transformIngress(ing *networkingv1.Ingress) *domain.Ingress {
	rules := []domain.IngressRule{}
	for _, rule := range ing.Spec.Rules {
		if rule.HTTP == nil {
			continue
		}
		for _, path := range rule.HTTP.Paths {
			r := domain.IngressRule{
				Host: rule.Host,
				Path: path.Path,
			}
			if path.Backend.Service != nil {
				r.Service = path.Backend.Service.Name
				r.Port = path.Backend.Service.Port.Number
			}
			rules = append(rules, r)
		}
	}

	addresses := []string{}
	for _, lb := range ing.Status.LoadBalancer.Ingress {
		if lb.IP != "" {
			addresses = append(addresses, lb.IP)
		} else if lb.Hostname != "" {
			addresses = append(addresses, lb.Hostname)
		}
	}

	var class string
	if ing.Spec.IngressClassName != nil {
		class = *ing.Spec.IngressClassName
	}

	return &domain.Ingress{
		Name:      ing.Name,
		Namespace: ing.Namespace,
		Class:     class,
		Rules:     rules,
		Addresses: addresses,
		Labels:    ing.Labels,
		CreatedAt: ing.CreationTimestamp.Time,
	}
}
