package service

import (
	"context"
	"encoding/json"

	"github.com/clusterlens/api/domain"
	"github.com/clusterlens/api/pkg/logger"
	"github.com/pkg/errors"
	apiv1 "k8s.io/api/core/v1"
)

// WatchPods streams pod lifecycle events to the client channel until the
// client closes or ctx ends. Each event carries the enriched pod record
// without usage metrics.
func (svc *Service) WatchPods(ctx context.Context, ch domain.ClientChannel, namespace string) error {
	s := newStreamSession(ch)
	log := logger.Logger(ctx)

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Inbound payloads carry no meaning for a watch; any client-side read
	// outcome ends the session.
	go func() {
		for {
			if _, err := ch.Read(); err != nil {
				cancel()
				return
			}
		}
	}()

	log.Info().
		Str("session", s.id).
		Str("namespace", namespace).
		Msg("opening pod watch session")

	s.state = stateRelaying

	err := svc.k8s.WatchPods(sessionCtx, namespace, func(evt string, pod *apiv1.Pod) {
		payload, merr := json.Marshal(domain.PodEvent{Type: evt, Pod: transformPod(pod, nil)})
		if merr != nil {
			log.Warn().Err(merr).Str("session", s.id).Msg("dropping unencodable pod event")
			return
		}
		if werr := ch.Write(payload); werr != nil {
			cancel()
		}
	})

	s.state = stateClosed
	switch {
	case sessionCtx.Err() != nil:
		log.Debug().Str("session", s.id).Msg("pod watch session closed")
		ch.Close(domain.CloseNormal, "")
		return nil
	case err != nil:
		log.Warn().Err(err).Str("session", s.id).Msg("pod watch failed")
		ch.Close(domain.CloseError, err.Error())
		return errors.Wrapf(domain.ErrStreamRelay, "session %s: %v", s.id, err)
	default:
		ch.Close(domain.CloseNormal, "")
		return nil
	}
}
