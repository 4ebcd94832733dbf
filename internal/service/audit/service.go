package audit

import (
	"context"

	"github.com/jwalitptl/vetclinic-api/pkg/logger"
)

// Service writes an audit trail of domain writes to the structured log.
type Service struct {
	log *logger.Logger
}

func NewService(log *logger.Logger) *Service {
	return &Service{log: log.WithFields(map[string]interface{}{"component": "audit"})}
}

type LogOptions struct {
	Changes  interface{}
	Metadata map[string]interface{}
}

// Log records that actorID performed action on the given entity. A zero
// actorID means the system itself acted.
func (s *Service) Log(ctx context.Context, actorID int64, action, entityType string, entityID int64, opts *LogOptions) {
	if s == nil {
		return
	}

	fields := map[string]interface{}{
		"actor_id":    actorID,
		"action":      action,
		"entity_type": entityType,
		"entity_id":   entityID,
	}
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		fields["request_id"] = requestID
	}
	if opts != nil {
		if opts.Changes != nil {
			fields["changes"] = opts.Changes
		}
		for k, v := range opts.Metadata {
			fields[k] = v
		}
	}

	s.log.Info("audit", fields)
}

type contextKey string

// RequestIDKey is the context key under which the HTTP layer stores the
// request id so audit entries can be correlated with access logs.
const RequestIDKey contextKey = "request_id"
