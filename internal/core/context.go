package core

import "context"

type contextKey string

const (
	ctxKeyIPAddress contextKey = "audit_ip"
	ctxKeyUserAgent contextKey = "audit_ua"
	ctxKeyRequestID contextKey = "audit_request_id"
)

// RequestInfo is the caller metadata attached to audit entries.
type RequestInfo struct {
	IPAddress string
	UserAgent string
	RequestID string
}

// ContextWithRequestInfo stores caller metadata for audit logging.
func ContextWithRequestInfo(ctx context.Context, info RequestInfo) context.Context {
	ctx = context.WithValue(ctx, ctxKeyIPAddress, info.IPAddress)
	ctx = context.WithValue(ctx, ctxKeyUserAgent, info.UserAgent)
	return context.WithValue(ctx, ctxKeyRequestID, info.RequestID)
}

// RequestInfoFromContext returns whatever caller metadata ctx carries.
func RequestInfoFromContext(ctx context.Context) RequestInfo {
	return RequestInfo{
		IPAddress: stringValue(ctx, ctxKeyIPAddress),
		UserAgent: stringValue(ctx, ctxKeyUserAgent),
		RequestID: stringValue(ctx, ctxKeyRequestID),
	}
}

func stringValue(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
