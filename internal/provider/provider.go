// Package provider wraps external search services behind one Adapter
// interface. Every adapter normalizes its own wire format into model.Hit and
// classifies failures into model.ProviderError kinds at its boundary.
package provider

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/agenthands/metasearch/internal/core/model"
)

type Adapter interface {
	Name() model.Source
	Search(ctx context.Context, query string, maxResults int) ([]model.Hit, error)
}

// kindForStatus maps an HTTP status code to a provider error kind.
func kindForStatus(code int) model.ErrorKind {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return model.KindAuth
	case code == http.StatusTooManyRequests || code == http.StatusPaymentRequired:
		return model.KindQuota
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return model.KindTimeout
	default:
		return model.KindNetwork
	}
}

// kindForTransport classifies an error returned before any response arrived.
func kindForTransport(err error) model.ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return model.KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return model.KindTimeout
	}
	return model.KindNetwork
}
