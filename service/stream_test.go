package service_test

import (
	"context"
	stderrors "errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/clusterlens/api/adapter/kubernetes"
	"github.com/clusterlens/api/config"
	"github.com/clusterlens/api/domain"
	"github.com/clusterlens/api/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apiv1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	utilexec "k8s.io/client-go/util/exec"
)

// fakeStreamAdapter stubs the three upstream calls the bridges touch. The
// embedded interface panics on anything else, which is what a bridge test
// wants: no listing call should ever happen here.
type fakeStreamAdapter struct {
	kubernetes.K8sAdapter

	pod       *apiv1.Pod
	getPodErr error

	execFn    func(ctx context.Context, streams kubernetes.IOStreams) error
	execCalls atomic.Int32

	logFn       func() (io.ReadCloser, error)
	lastLogOpts kubernetes.LogOptions
}

func (f *fakeStreamAdapter) GetPod(ctx context.Context, namespace, name string) (*apiv1.Pod, error) {
	if f.getPodErr != nil {
		return nil, f.getPodErr
	}
	return f.pod, nil
}

func (f *fakeStreamAdapter) Exec(ctx context.Context, namespace, pod, container string, command []string, streams kubernetes.IOStreams) error {
	f.execCalls.Add(1)
	return f.execFn(ctx, streams)
}

func (f *fakeStreamAdapter) OpenLogStream(ctx context.Context, namespace, pod, container string, opts kubernetes.LogOptions) (io.ReadCloser, error) {
	f.lastLogOpts = opts
	return f.logFn()
}

type chanMsg struct {
	p   []byte
	err error
}

// fakeChannel is an in-memory duplex channel standing in for a websocket.
type fakeChannel struct {
	inbound chan chanMsg

	mu     sync.Mutex
	writes [][]byte
	closed bool
	code   int
	reason string
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{inbound: make(chan chanMsg, 16)}
}

func (c *fakeChannel) Read() ([]byte, error) {
	m, ok := <-c.inbound
	if !ok {
		return nil, domain.ErrChannelClosed
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.p, nil
}

func (c *fakeChannel) Write(p []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, p)
	return nil
}

func (c *fakeChannel) Close(code int, reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.code = code
	c.reason = reason
	return nil
}

func (c *fakeChannel) send(p []byte)    { c.inbound <- chanMsg{p: p} }
func (c *fakeChannel) fail(err error)   { c.inbound <- chanMsg{err: err} }
func (c *fakeChannel) closeFromClient() { close(c.inbound) }

func (c *fakeChannel) closeState() (int, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.code, c.reason
}
func (c *fakeChannel) output() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var b strings.Builder
	for _, w := range c.writes {
		b.Write(w)
	}
	return b.String()
}

func newStreamService(t *testing.T, adapter *fakeStreamAdapter, cfg *config.ConsoleConfig) *service.Service {
	t.Helper()
	svc, err := service.NewService(service.Params{K8sAdapter: adapter, Config: cfg})
	require.NoError(t, err)
	return svc
}

func targetPod(containers ...string) *apiv1.Pod {
	pod := &apiv1.Pod{ObjectMeta: metav1.ObjectMeta{Name: "web-1", Namespace: "default"}}
	for _, name := range containers {
		pod.Spec.Containers = append(pod.Spec.Containers, apiv1.Container{Name: name})
	}
	return pod
}

func TestBridgeTerminalZeroContainersFailsBeforeOpeningRemote(t *testing.T) {
	adapter := &fakeStreamAdapter{pod: targetPod()}
	svc := newStreamService(t, adapter, nil)
	ch := newFakeChannel()

	err := svc.BridgeTerminal(context.Background(), ch, domain.ExecTarget{
		Namespace: "default", Pod: "web-1",
	})

	require.Error(t, err)
	assert.True(t, stderrors.Is(err, domain.ErrStreamSetup))
	assert.Equal(t, int32(0), adapter.execCalls.Load(), "no remote channel may open when setup fails")
	code, _ := ch.closeState()
	assert.Equal(t, domain.CloseError, code)
}

func TestBridgeTerminalRelaysBothWays(t *testing.T) {
	var stdin string
	adapter := &fakeStreamAdapter{
		pod: targetPod("app", "sidecar"),
		execFn: func(ctx context.Context, streams kubernetes.IOStreams) error {
			b, err := io.ReadAll(streams.In)
			if err != nil {
				return err
			}
			stdin = string(b)
			_, _ = streams.Out.Write([]byte("total 0\n"))
			return nil
		},
	}
	svc := newStreamService(t, adapter, nil)
	ch := newFakeChannel()
	ch.send([]byte("ls\n"))
	ch.closeFromClient()

	err := svc.BridgeTerminal(context.Background(), ch, domain.ExecTarget{
		Namespace: "default", Pod: "web-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "ls\n", stdin, "client bytes reach remote stdin")
	assert.Equal(t, "total 0\n", ch.output(), "remote output reaches the client")
	code, _ := ch.closeState()
	assert.Equal(t, domain.CloseNormal, code)
}

func TestBridgeTerminalNonZeroExitClosesNormally(t *testing.T) {
	adapter := &fakeStreamAdapter{
		pod: targetPod("app"),
		execFn: func(ctx context.Context, streams kubernetes.IOStreams) error {
			return utilexec.CodeExitError{
				Err:  stderrors.New("command terminated with exit code 1"),
				Code: 1,
			}
		},
	}
	svc := newStreamService(t, adapter, nil)
	ch := newFakeChannel()
	ch.closeFromClient()

	err := svc.BridgeTerminal(context.Background(), ch, domain.ExecTarget{
		Namespace: "default", Pod: "web-1",
	})

	require.NoError(t, err, "a non-zero exit status is a normal session end")
	code, reason := ch.closeState()
	assert.Equal(t, domain.CloseNormal, code)
	assert.Equal(t, "process exited", reason)
}

func TestBridgeTerminalClientTransportErrorSealsStdin(t *testing.T) {
	adapter := &fakeStreamAdapter{
		pod: targetPod("app"),
		execFn: func(ctx context.Context, streams kubernetes.IOStreams) error {
			_, err := io.ReadAll(streams.In)
			return err
		},
	}
	svc := newStreamService(t, adapter, nil)
	ch := newFakeChannel()
	ch.fail(stderrors.New("connection reset"))

	err := svc.BridgeTerminal(context.Background(), ch, domain.ExecTarget{
		Namespace: "default", Pod: "web-1",
	})

	require.Error(t, err)
	assert.True(t, stderrors.Is(err, domain.ErrStreamRelay), "a failure after the remote opened is a relay error")
	assert.False(t, stderrors.Is(err, domain.ErrStreamSetup))
	code, _ := ch.closeState()
	assert.Equal(t, domain.CloseError, code)
	ch.closeFromClient()
}

func TestBridgeTerminalExplicitContainerSkipsLookup(t *testing.T) {
	adapter := &fakeStreamAdapter{
		getPodErr: stderrors.New("must not be called"),
		execFn: func(ctx context.Context, streams kubernetes.IOStreams) error {
			return nil
		},
	}
	svc := newStreamService(t, adapter, nil)
	ch := newFakeChannel()
	ch.closeFromClient()

	err := svc.BridgeTerminal(context.Background(), ch, domain.ExecTarget{
		Namespace: "default", Pod: "web-1", Container: "sidecar",
	})

	require.NoError(t, err)
	assert.Equal(t, int32(1), adapter.execCalls.Load())
}

func TestBridgeLogStreamEndsOnEOF(t *testing.T) {
	adapter := &fakeStreamAdapter{
		pod: targetPod("app"),
		logFn: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("line1\nline2\n")), nil
		},
	}
	svc := newStreamService(t, adapter, nil)
	ch := newFakeChannel()

	err := svc.BridgeLogStream(context.Background(), ch, domain.LogTarget{
		Namespace: "default", Pod: "web-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "line1\nline2\n", ch.output())
	code, reason := ch.closeState()
	assert.Equal(t, domain.CloseNormal, code)
	assert.Equal(t, "log stream ended", reason)
	assert.True(t, adapter.lastLogOpts.Follow)
	require.NotNil(t, adapter.lastLogOpts.TailLines)
	assert.Equal(t, int64(1000), *adapter.lastLogOpts.TailLines, "tail default applies when config is empty")
	ch.closeFromClient()
}

func TestBridgeLogStreamTailFromConfig(t *testing.T) {
	adapter := &fakeStreamAdapter{
		pod: targetPod("app"),
		logFn: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("")), nil
		},
	}
	cfg := &config.ConsoleConfig{}
	cfg.Stream.TailLines = 50
	svc := newStreamService(t, adapter, cfg)
	ch := newFakeChannel()

	err := svc.BridgeLogStream(context.Background(), ch, domain.LogTarget{
		Namespace: "default", Pod: "web-1",
	})

	require.NoError(t, err)
	require.NotNil(t, adapter.lastLogOpts.TailLines)
	assert.Equal(t, int64(50), *adapter.lastLogOpts.TailLines)
	ch.closeFromClient()
}

// blockingStream never yields data until closed, like a follow-mode log on a
// quiet container.
type blockingStream struct {
	done chan struct{}
	once sync.Once
}

func newBlockingStream() *blockingStream {
	return &blockingStream{done: make(chan struct{})}
}

func (b *blockingStream) Read(p []byte) (int, error) {
	<-b.done
	return 0, stderrors.New("stream closed")
}

func (b *blockingStream) Close() error {
	b.once.Do(func() { close(b.done) })
	return nil
}

func TestBridgeLogStreamClientCloseStopsTail(t *testing.T) {
	stream := newBlockingStream()
	adapter := &fakeStreamAdapter{
		pod:   targetPod("app"),
		logFn: func() (io.ReadCloser, error) { return stream, nil },
	}
	svc := newStreamService(t, adapter, nil)
	ch := newFakeChannel()
	ch.closeFromClient()

	err := svc.BridgeLogStream(context.Background(), ch, domain.LogTarget{
		Namespace: "default", Pod: "web-1",
	})

	require.NoError(t, err)
	code, _ := ch.closeState()
	assert.Equal(t, domain.CloseNormal, code, "a client-initiated close is a clean shutdown")
}

func TestBridgeLogStreamOpenFailureFailsSetup(t *testing.T) {
	adapter := &fakeStreamAdapter{
		pod: targetPod("app"),
		logFn: func() (io.ReadCloser, error) {
			return nil, stderrors.New("container not running")
		},
	}
	svc := newStreamService(t, adapter, nil)
	ch := newFakeChannel()

	err := svc.BridgeLogStream(context.Background(), ch, domain.LogTarget{
		Namespace: "default", Pod: "web-1",
	})

	require.Error(t, err)
	assert.True(t, stderrors.Is(err, domain.ErrStreamSetup))
	code, _ := ch.closeState()
	assert.Equal(t, domain.CloseError, code)
}
