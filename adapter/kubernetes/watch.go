package kubernetes

import (
	"context"
	"errors"

	apiv1 "k8s.io/api/core/v1"
	"k8s.io/client-go/informers"
	kcache "k8s.io/client-go/tools/cache"
)

// PodEventHandler receives one pod lifecycle event. evt is one of the
// upstream watch verbs: ADDED, MODIFIED, DELETED.
type PodEventHandler func(evt string, pod *apiv1.Pod)

const (
	EventAdded    = "ADDED"
	EventModified = "MODIFIED"
	EventDeleted  = "DELETED"
)

// WatchPods runs a shared informer over the pod resource and calls handler
// for every event until ctx ends. The informer replays the existing pods as
// ADDED events once its initial list completes, then follows live changes.
// An empty namespace watches the whole cluster.
func (k *k8sClient) WatchPods(ctx context.Context, namespace string, handler PodEventHandler) error {
	opts := []informers.SharedInformerOption{}
	if namespace != "" {
		opts = append(opts, informers.WithNamespace(namespace))
	}
	// Zero resync period: the watch connection itself handles reconnects.
	factory := informers.NewSharedInformerFactoryWithOptions(k.kubeClient, 0, opts...)
	podInformer := factory.Core().V1().Pods().Informer()

	_, err := podInformer.AddEventHandler(kcache.ResourceEventHandlerFuncs{
		AddFunc: func(obj interface{}) {
			if pod, ok := obj.(*apiv1.Pod); ok {
				handler(EventAdded, pod)
			}
		},
		UpdateFunc: func(oldObj, newObj interface{}) {
			if pod, ok := newObj.(*apiv1.Pod); ok {
				handler(EventModified, pod)
			}
		},
		DeleteFunc: func(obj interface{}) {
			switch t := obj.(type) {
			case *apiv1.Pod:
				handler(EventDeleted, t)
			case kcache.DeletedFinalStateUnknown:
				if pod, ok := t.Obj.(*apiv1.Pod); ok {
					handler(EventDeleted, pod)
				}
			}
		},
	})
	if err != nil {
		return err
	}

	stopCh := make(chan struct{})
	defer close(stopCh)
	factory.Start(stopCh)

	// Wait on ctx, not stopCh: stopCh only closes on return, and a caller
	// gone before the initial sync must still unblock this call.
	if ok := kcache.WaitForCacheSync(ctx.Done(), podInformer.HasSynced); !ok {
		return errors.New("pod informer failed to sync")
	}

	<-ctx.Done()
	return nil
}
