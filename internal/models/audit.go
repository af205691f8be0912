package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditRecord describes one write request against the API.
type AuditRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	RequestID string             `bson:"request_id,omitempty" json:"requestId,omitempty"`
	UserID    string             `bson:"user_id,omitempty" json:"userId,omitempty"`
	Role      Role               `bson:"role,omitempty" json:"role,omitempty"`
	Method    string             `bson:"method" json:"method"`
	Path      string             `bson:"path" json:"path"`
	Status    int                `bson:"status" json:"status"`
	IPAddress string             `bson:"ip_address,omitempty" json:"ipAddress,omitempty"`
	Browser   string             `bson:"browser,omitempty" json:"browser,omitempty"`
	OS        string             `bson:"os,omitempty" json:"os,omitempty"`
	Mobile    bool               `bson:"mobile" json:"mobile"`
	LatencyMs int64              `bson:"latency_ms" json:"latencyMs"`
}
