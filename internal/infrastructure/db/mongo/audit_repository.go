package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/splitpay/auth-service/internal/core/domain"
)

const auditCollection = "auth_events"

// AuditRepository persists the authentication audit trail.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuthEvent struct {
	Kind    string `bson:"kind"`
	Email   string `bson:"email"`
	UserID  string `bson:"user_id,omitempty"`
	Outcome string `bson:"outcome"`
	TraceID string `bson:"trace_id,omitempty"`
	At      int64  `bson:"at"`
}

func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuthEvent) error {
	doc := mongoAuthEvent{
		Kind:    string(event.Kind),
		Email:   event.Email,
		UserID:  event.UserID,
		Outcome: event.Outcome,
		TraceID: event.TraceID,
		At:      event.At.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}
