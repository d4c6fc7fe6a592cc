package rest

import (
	"net/http"
)

func (h *Handler) ListPods(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pods, err := h.Svc.ListPods(ctx, r.URL.Query().Get("namespace"))
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	h.Data(ctx, w, pods)
}

func (h *Handler) GetPod(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pod, err := h.Svc.GetPod(ctx, h.GetPathParam(r, "namespace"), h.GetPathParam(r, "name"))
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	h.Data(ctx, w, pod)
}

func (h *Handler) ListNodes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	nodes, err := h.Svc.ListNodes(ctx)
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	h.Data(ctx, w, nodes)
}

func (h *Handler) GetNode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	node, err := h.Svc.GetNode(ctx, h.GetPathParam(r, "name"))
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	h.Data(ctx, w, node)
}

func (h *Handler) ListNamespaces(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	namespaces, err := h.Svc.ListNamespaces(ctx)
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	h.Data(ctx, w, namespaces)
}

func (h *Handler) GetNamespace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ns, err := h.Svc.GetNamespace(ctx, h.GetPathParam(r, "name"))
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	h.Data(ctx, w, ns)
}

// CreateNamespaceRequest is the payload for namespace creation.
type CreateNamespaceRequest struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels,omitempty"`
}

func (h *Handler) CreateNamespace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req CreateNamespaceRequest
	if err := h.JSONBind(r, &req); err != nil {
		h.ErrorResponse(ctx, w, http.StatusBadRequest, "Invalid JSON format: "+err.Error())
		return
	}
	if req.Name == "" {
		h.ErrorResponse(ctx, w, http.StatusBadRequest, "name is required")
		return
	}
	ns, err := h.Svc.CreateNamespace(ctx, req.Name, req.Labels)
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	h.JSONResponse(ctx, w, http.StatusCreated, DataResponse{Success: true, Data: ns})
}

func (h *Handler) ListDeployments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deps, err := h.Svc.ListDeployments(ctx, r.URL.Query().Get("namespace"))
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	h.Data(ctx, w, deps)
}

func (h *Handler) GetDeployment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dep, err := h.Svc.GetDeployment(ctx, h.GetPathParam(r, "namespace"), h.GetPathParam(r, "name"))
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	h.Data(ctx, w, dep)
}

func (h *Handler) RestartDeployment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	err := h.Svc.RestartDeployment(ctx, h.GetPathParam(r, "namespace"), h.GetPathParam(r, "name"))
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	h.SuccessResponse(ctx, w, "Deployment restart triggered")
}

func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	services, err := h.Svc.ListServices(ctx, r.URL.Query().Get("namespace"))
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	h.Data(ctx, w, services)
}

func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	svc, err := h.Svc.GetService(ctx, h.GetPathParam(r, "namespace"), h.GetPathParam(r, "name"))
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	h.Data(ctx, w, svc)
}

func (h *Handler) ListIngresses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ingresses, err := h.Svc.ListIngresses(ctx, r.URL.Query().Get("namespace"))
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	h.Data(ctx, w, ingresses)
}

func (h *Handler) GetIngress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ing, err := h.Svc.GetIngress(ctx, h.GetPathParam(r, "namespace"), h.GetPathParam(r, "name"))
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	h.Data(ctx, w, ing)
}

func (h *Handler) GetCluster(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cluster, err := h.Svc.GetCluster(ctx)
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	h.Data(ctx, w, cluster)
}

func (h *Handler) ListClusters(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clusters, err := h.Svc.ListClusters(ctx)
	if err != nil {
		h.HandleError(ctx, w, err)
		return
	}
	h.Data(ctx, w, clusters)
}
