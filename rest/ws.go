package rest

import (
	"net/http"
	"sync"
	"time"

	"github.com/clusterlens/api/domain"
	"github.com/clusterlens/api/pkg/logger"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  8192,
	WriteBufferSize: 8192,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsChannel adapts a websocket connection to the domain's duplex channel.
// Writes are serialized; gorilla connections allow a single writer.
type wsChannel struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	closeOnce sync.Once
}

func (c *wsChannel) Read() ([]byte, error) {
	_, p, err := c.conn.ReadMessage()
	if err != nil {
		if isCleanClose(err) {
			return nil, domain.ErrChannelClosed
		}
		return nil, err
	}
	return p, nil
}

// isCleanClose reports whether a read error means the peer ended the
// session on purpose. Browsers often close without a status frame, so
// NoStatusReceived counts as clean.
func isCleanClose(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	)
}

func (c *wsChannel) Write(p []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteMessage(websocket.BinaryMessage, p)
}

func (c *wsChannel) Close(code int, reason string) error {
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(code, reason),
			time.Now().Add(time.Second),
		)
		c.writeMu.Unlock()
		c.conn.Close()
	})
	return nil
}

// PodExec upgrades the connection and bridges it onto an interactive shell
// in the target pod. Runs until the session ends.
func (h *Handler) PodExec(c echo.Context) error {
	r := c.Request()
	ctx := r.Context()

	conn, err := upgrader.Upgrade(c.Response().Writer, r, nil)
	if err != nil {
		logger.Logger(ctx).Warn().Err(err).Msg("websocket upgrade failed")
		return nil
	}

	target := domain.ExecTarget{
		Namespace: c.Param("namespace"),
		Pod:       c.Param("name"),
		Container: c.QueryParam("container"),
		Shell:     c.QueryParam("shell"),
	}
	if err := h.Svc.BridgeTerminal(ctx, &wsChannel{conn: conn}, target); err != nil {
		logger.Logger(ctx).Warn().Err(err).Msg("terminal session ended with error")
	}
	return nil
}

// PodLogs upgrades the connection and tails the target container's log into
// it. Runs until the session ends.
func (h *Handler) PodLogs(c echo.Context) error {
	r := c.Request()
	ctx := r.Context()

	conn, err := upgrader.Upgrade(c.Response().Writer, r, nil)
	if err != nil {
		logger.Logger(ctx).Warn().Err(err).Msg("websocket upgrade failed")
		return nil
	}

	target := domain.LogTarget{
		Namespace: c.Param("namespace"),
		Pod:       c.Param("name"),
		Container: c.QueryParam("container"),
	}
	if err := h.Svc.BridgeLogStream(ctx, &wsChannel{conn: conn}, target); err != nil {
		logger.Logger(ctx).Warn().Err(err).Msg("log session ended with error")
	}
	return nil
}

// PodWatch upgrades the connection and pushes pod lifecycle events into it.
// Runs until the session ends.
func (h *Handler) PodWatch(c echo.Context) error {
	r := c.Request()
	ctx := r.Context()

	conn, err := upgrader.Upgrade(c.Response().Writer, r, nil)
	if err != nil {
		logger.Logger(ctx).Warn().Err(err).Msg("websocket upgrade failed")
		return nil
	}

	if err := h.Svc.WatchPods(ctx, &wsChannel{conn: conn}, c.QueryParam("namespace")); err != nil {
		logger.Logger(ctx).Warn().Err(err).Msg("watch session ended with error")
	}
	return nil
}
