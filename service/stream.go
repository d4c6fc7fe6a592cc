package service

import (
	"context"
	stderrors "errors"
	"io"

	"github.com/clusterlens/api/adapter/kubernetes"
	"github.com/clusterlens/api/domain"
	"github.com/clusterlens/api/pkg/logger"
	"github.com/pkg/errors"
	"github.com/rs/xid"
	utilexec "k8s.io/client-go/util/exec"
)

// A streaming session walks four states: resolving the target container,
// opening the remote channel, relaying bytes, closed. Each session owns its
// streams exclusively; there is no cross-session state.
type sessionState int

const (
	stateResolvingContainer sessionState = iota
	stateOpeningRemote
	stateRelaying
	stateClosed
)

type streamSession struct {
	id    string
	ch    domain.ClientChannel
	state sessionState
}

func newStreamSession(ch domain.ClientChannel) *streamSession {
	return &streamSession{
		id:    xid.New().String(),
		ch:    ch,
		state: stateResolvingContainer,
	}
}

// failSetup closes the client channel with an abnormal code and an error
// payload. Used for every failure before the relay state.
func (s *streamSession) failSetup(ctx context.Context, err error) error {
	s.state = stateClosed
	logger.Logger(ctx).Warn().Err(err).Str("session", s.id).Msg("stream session setup failed")
	s.ch.Close(domain.CloseError, err.Error())
	return errors.Wrapf(domain.ErrStreamSetup, "session %s: %v", s.id, err)
}

// channelWriter adapts a ClientChannel into an io.Writer so remote output
// can be pumped into it verbatim.
type channelWriter struct {
	ch domain.ClientChannel
}

func (w channelWriter) Write(p []byte) (int, error) {
	// ch.Write must not retain p; copy because the relay reuses buffers.
	buf := make([]byte, len(p))
	copy(buf, p)
	if err := w.ch.Write(buf); err != nil {
		return 0, err
	}
	return len(p), nil
}

// BridgeTerminal attaches the client channel to an interactive shell inside
// the target container and relays bytes both ways until either side closes.
// There is no timeout: a silent client with a living remote process holds
// the session open.
func (svc *Service) BridgeTerminal(ctx context.Context, ch domain.ClientChannel, target domain.ExecTarget) error {
	s := newStreamSession(ch)
	log := logger.Logger(ctx)

	container, err := svc.resolveContainer(ctx, target.Namespace, target.Pod, target.Container)
	if err != nil {
		return s.failSetup(ctx, err)
	}

	shell := target.Shell
	if shell == "" {
		shell = svc.cfg.Stream.DefaultShell
	}
	if shell == "" {
		shell = "/bin/sh"
	}

	log.Info().
		Str("session", s.id).
		Str("pod", target.Namespace+"/"+target.Pod).
		Str("container", container).
		Str("shell", shell).
		Msg("opening terminal session")

	s.state = stateOpeningRemote

	// Client bytes flow into the remote stdin through a pipe so the two
	// failure domains stay independent: a clean client close cancels the
	// whole exec, a client transport error only seals stdin and lets
	// in-flight output drain.
	stdinReader, stdinWriter := io.Pipe()
	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		defer stdinWriter.Close()
		for {
			p, err := ch.Read()
			if err != nil {
				if stderrors.Is(err, domain.ErrChannelClosed) {
					log.Debug().Str("session", s.id).Msg("client closed terminal session")
					cancel()
				} else {
					log.Debug().Err(err).Str("session", s.id).Msg("client channel error, sealing stdin")
					stdinWriter.CloseWithError(err)
				}
				return
			}
			if _, werr := stdinWriter.Write(p); werr != nil {
				return
			}
		}
	}()

	s.state = stateRelaying

	// TTY mode merges stderr into stdout on the remote side, so a single
	// outbound writer carries the combined stream.
	err = svc.k8s.Exec(sessionCtx, target.Namespace, target.Pod, container, []string{shell}, kubernetes.IOStreams{
		In:  stdinReader,
		Out: channelWriter{ch: ch},
	})

	s.state = stateClosed
	stdinReader.Close()

	switch {
	case err == nil:
		log.Info().Str("session", s.id).Msg("remote process exited")
		ch.Close(domain.CloseNormal, "process exited")
		return nil
	case sessionCtx.Err() != nil:
		// Client went away first; nothing left to tell it.
		ch.Close(domain.CloseNormal, "")
		return nil
	default:
		var exitErr utilexec.ExitError
		if stderrors.As(err, &exitErr) {
			// Non-zero exit is still a terminal exit status, not a relay
			// failure.
			log.Info().Str("session", s.id).Int("code", exitErr.ExitStatus()).Msg("remote process exited")
			ch.Close(domain.CloseNormal, "process exited")
			return nil
		}
		log.Warn().Err(err).Str("session", s.id).Msg("terminal session failed")
		ch.Close(domain.CloseError, err.Error())
		return errors.Wrapf(domain.ErrStreamRelay, "session %s: %v", s.id, err)
	}
}

// BridgeLogStream tails the target container's log to the client channel
// until the stream ends or the client closes.
func (svc *Service) BridgeLogStream(ctx context.Context, ch domain.ClientChannel, target domain.LogTarget) error {
	s := newStreamSession(ch)
	log := logger.Logger(ctx)

	container, err := svc.resolveContainer(ctx, target.Namespace, target.Pod, target.Container)
	if err != nil {
		return s.failSetup(ctx, err)
	}

	s.state = stateOpeningRemote

	tail := svc.cfg.Stream.TailLines
	if tail <= 0 {
		tail = 1000
	}
	stream, err := svc.k8s.OpenLogStream(ctx, target.Namespace, target.Pod, container, kubernetes.LogOptions{
		Follow:     true,
		TailLines:  &tail,
		Timestamps: false,
	})
	if err != nil {
		return s.failSetup(ctx, err)
	}
	defer stream.Close()

	log.Info().
		Str("session", s.id).
		Str("pod", target.Namespace+"/"+target.Pod).
		Str("container", container).
		Msg("opening log session")

	s.state = stateRelaying

	// Any client-side read outcome ends the session: inbound payloads carry
	// no meaning for a log tail, and close or error both mean the client is
	// done listening.
	clientGone := make(chan struct{})
	go func() {
		for {
			if _, err := ch.Read(); err != nil {
				// Mark the client gone before unblocking the relay's read.
				close(clientGone)
				stream.Close()
				return
			}
		}
	}()

	buf := make([]byte, 4096)
	for {
		n, rerr := stream.Read(buf)
		if n > 0 {
			out := make([]byte, n)
			copy(out, buf[:n])
			if werr := ch.Write(out); werr != nil {
				s.state = stateClosed
				log.Debug().Err(werr).Str("session", s.id).Msg("client write failed, ending log session")
				ch.Close(domain.CloseError, werr.Error())
				return nil
			}
		}
		if rerr != nil {
			s.state = stateClosed
			select {
			case <-clientGone:
				// Client triggered the stream close; clean shutdown.
				ch.Close(domain.CloseNormal, "")
				return nil
			default:
			}
			if rerr == io.EOF {
				log.Info().Str("session", s.id).Msg("log stream ended")
				ch.Close(domain.CloseNormal, "log stream ended")
				return nil
			}
			log.Warn().Err(rerr).Str("session", s.id).Msg("log stream failed")
			ch.Close(domain.CloseError, rerr.Error())
			return nil
		}
	}
}

// resolveContainer picks the target container, defaulting to the first one
// declared in the pod spec. A pod with zero containers is a setup error.
func (svc *Service) resolveContainer(ctx context.Context, namespace, pod, container string) (string, error) {
	if container != "" {
		return container, nil
	}
	p, err := svc.k8s.GetPod(ctx, namespace, pod)
	if err != nil {
		return "", mapUpstreamErr(err, "resolve container for "+namespace+"/"+pod)
	}
	if len(p.Spec.Containers) == 0 {
		return "", errors.Wrapf(domain.ErrNoContainers, "pod %s/%s", namespace, pod)
	}
	return p.Spec.Containers[0].Name, nil
}
