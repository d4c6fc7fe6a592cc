package kubernetes

import (
	"context"
	"fmt"
	"io"

	apiv1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/remotecommand"
)

// Exec attaches an interactive TTY session to the target container over
// SPDY. The remote merges stderr into stdout while a TTY is allocated, so
// only In/Out are wired.
func (k *k8sClient) Exec(ctx context.Context, namespace, pod, container string, command []string, streams IOStreams) error {
	if k.restConfig == nil {
		return ErrNoExecConfig
	}
	if len(command) == 0 {
		return fmt.Errorf("exec command must not be empty")
	}

	req := k.kubeClient.CoreV1().RESTClient().Post().
		Resource("pods").
		Name(pod).
		Namespace(namespace).
		SubResource("exec")

	req.VersionedParams(&apiv1.PodExecOptions{
		Container: container,
		Command:   command,
		Stdin:     streams.In != nil,
		Stdout:    streams.Out != nil,
		Stderr:    streams.ErrOut != nil,
		TTY:       true,
	}, scheme.ParameterCodec)

	executor, err := remotecommand.NewSPDYExecutor(k.restConfig, "POST", req.URL())
	if err != nil {
		return fmt.Errorf("failed to create exec session for %s/%s/%s: %w", namespace, pod, container, err)
	}

	return executor.StreamWithContext(ctx, remotecommand.StreamOptions{
		Stdin:  streams.In,
		Stdout: streams.Out,
		Stderr: streams.ErrOut,
		Tty:    true,
	})
}

// OpenLogStream opens the kubelet log stream for the target container.
func (k *k8sClient) OpenLogStream(ctx context.Context, namespace, pod, container string, opts LogOptions) (io.ReadCloser, error) {
	logOpts := &apiv1.PodLogOptions{
		Container:  container,
		Follow:     opts.Follow,
		TailLines:  opts.TailLines,
		Timestamps: opts.Timestamps,
	}
	req := k.kubeClient.CoreV1().Pods(namespace).GetLogs(pod, logOpts)
	stream, err := req.Stream(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open log stream for %s/%s/%s: %w", namespace, pod, container, err)
	}
	return stream, nil
}
