// AngelaMos | 2026
// context.go

package middleware

import "context"

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	AccessKey    contextKey = "access"
)

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
