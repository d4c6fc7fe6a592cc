package domain

// Pod watch event verbs, following the upstream watch vocabulary.
const (
	PodEventAdded    = "ADDED"
	PodEventModified = "MODIFIED"
	PodEventDeleted  = "DELETED"
)

// PodEvent is one pod lifecycle event pushed over a watch session. The pod
// record carries no usage metrics; a watch reports lifecycle, not
// consumption.
type PodEvent struct {
	Type string `json:"type"`
	Pod  *Pod   `json:"pod"`
}
