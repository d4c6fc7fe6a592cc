package domain

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// Define error types
var (
	ErrNotFound           = stderrors.New("resource not found")
	ErrClusterUnreachable = stderrors.New("cluster unreachable")
	ErrInvalidResponse    = stderrors.New("invalid response shape from upstream")
	ErrNoContainers       = stderrors.New("pod has no containers")
	ErrStreamSetup        = stderrors.New("stream setup failed")
	ErrStreamRelay        = stderrors.New("stream relay failed")

	// ErrChannelClosed is returned by ClientChannel.Read when the client
	// closed the channel cleanly, as opposed to a transport error.
	ErrChannelClosed = stderrors.New("client channel closed")
)

func IsNotFound(err error) bool {
	return stderrors.Is(errors.Cause(err), ErrNotFound) || stderrors.Is(err, ErrNotFound)
}

func IsClusterUnreachable(err error) bool {
	return stderrors.Is(errors.Cause(err), ErrClusterUnreachable) || stderrors.Is(err, ErrClusterUnreachable)
}
