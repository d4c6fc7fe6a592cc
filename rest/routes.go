package rest

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (h *Handler) SetupRoutes(engine *echo.Echo) {
	engine.GET("/healthz", h.echoHandler(h.HealthCheck))
	engine.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := engine.Group("/api", echo.WrapMiddleware(LoggerMiddleware))
	// v1 routes
	{
		apiV1 := api.Group("/v1")

		apiV1.GET("/pods", h.echoHandler(h.ListPods))
		apiV1.GET("/pods/:namespace/:name", h.echoHandlerWithParams(h.GetPod))

		apiV1.GET("/nodes", h.echoHandler(h.ListNodes))
		apiV1.GET("/nodes/:name", h.echoHandlerWithParams(h.GetNode))

		apiV1.GET("/namespaces", h.echoHandler(h.ListNamespaces))
		apiV1.GET("/namespaces/:name", h.echoHandlerWithParams(h.GetNamespace))
		apiV1.POST("/namespaces", h.echoHandler(h.CreateNamespace))

		apiV1.GET("/deployments", h.echoHandler(h.ListDeployments))
		apiV1.GET("/deployments/:namespace/:name", h.echoHandlerWithParams(h.GetDeployment))
		apiV1.POST("/deployments/:namespace/:name/restart", h.echoHandlerWithParams(h.RestartDeployment))

		apiV1.GET("/services", h.echoHandler(h.ListServices))
		apiV1.GET("/services/:namespace/:name", h.echoHandlerWithParams(h.GetService))

		apiV1.GET("/ingresses", h.echoHandler(h.ListIngresses))
		apiV1.GET("/ingresses/:namespace/:name", h.echoHandlerWithParams(h.GetIngress))

		apiV1.GET("/cluster", h.echoHandler(h.GetCluster))
		apiV1.GET("/clusters", h.echoHandler(h.ListClusters))
	}

	// Streaming endpoints hijack the connection, so they bypass the wrapped
	// logging middleware and its buffering response writer.
	ws := engine.Group("/api/v1")
	{
		ws.GET("/pods/:namespace/:name/exec", h.PodExec)
		ws.GET("/pods/:namespace/:name/logs", h.PodLogs)
		ws.GET("/pods/watch", h.PodWatch)
	}
}

func (h *Handler) echoHandler(handlerFunc func(w http.ResponseWriter, r *http.Request)) echo.HandlerFunc {
	return echo.WrapHandler(http.HandlerFunc(handlerFunc))
}

// echoHandlerWithParams wraps a handler function and injects path parameters into request context
func (h *Handler) echoHandlerWithParams(handlerFunc func(w http.ResponseWriter, r *http.Request)) echo.HandlerFunc {
	return func(c echo.Context) error {
		r := c.Request()
		// Store path params in request context
		for _, name := range c.ParamNames() {
			r = r.WithContext(context.WithValue(r.Context(), pathParamKey(name), c.Param(name)))
		}
		handlerFunc(c.Response().Writer, r)
		return nil
	}
}

// pathParamKey is a type for path parameter context keys
type pathParamKey string

// GetPathParam retrieves a path parameter from request context
func (h *Handler) GetPathParam(r *http.Request, name string) string {
	if val, ok := r.Context().Value(pathParamKey(name)).(string); ok {
		return val
	}
	return ""
}
