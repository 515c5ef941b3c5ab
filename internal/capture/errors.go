package capture

import (
	"context"
	"errors"
	"net"
	"syscall"

	"har-capture/internal/domain"
)

// classifyTransportError maps a transport-level failure onto the closed error
// set. Codes for recognizable conditions mirror the errno names HAR consumers
// expect; anything else passes through as NETWORK_ERROR with the transport's
// message verbatim.
func classifyTransportError(err error) *domain.CaptureError {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewTimedOut(err)
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return domain.NewTimedOut(err)
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &domain.CaptureError{Code: domain.CodeDNSNotFound, Message: dnsErr.Error(), Cause: err}
	}
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return &domain.CaptureError{Code: domain.CodeConnRefused, Message: err.Error(), Cause: err}
	case errors.Is(err, syscall.ECONNRESET):
		return &domain.CaptureError{Code: domain.CodeConnReset, Message: err.Error(), Cause: err}
	case errors.Is(err, syscall.EPIPE):
		return &domain.CaptureError{Code: domain.CodeBrokenPipe, Message: err.Error(), Cause: err}
	}
	return &domain.CaptureError{Code: domain.CodeNetwork, Message: err.Error(), Cause: err}
}
