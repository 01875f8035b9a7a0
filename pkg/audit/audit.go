package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/celebrelabs/celebre-backend/pkg/config"
	"github.com/celebrelabs/celebre-backend/pkg/logger"
)

// Event is a single administrative action recorded for audit purposes.
type Event struct {
	Action     string         `json:"action"`
	CallerUID  string         `json:"caller_uid"`
	SupplierID string         `json:"supplier_id,omitempty"`
	Outcome    string         `json:"outcome"`
	Details    map[string]any `json:"details,omitempty"`
	At         time.Time      `json:"at"`
}

// Recorder writes audit events to the structured log and, when a topic is
// configured, publishes them to Pub/Sub. Publishing is best-effort: a publish
// failure is logged and never surfaces to the request path.
type Recorder struct {
	logg      *logger.Logger
	client    *pubsub.Client
	publisher *pubsub.Publisher
}

// NewRecorder wires the audit sink. An empty topic leaves the recorder log-only.
func NewRecorder(ctx context.Context, gcp config.GCPConfig, cfg config.PubSubConfig, logg *logger.Logger) (*Recorder, error) {
	rec := &Recorder{logg: logg}

	topic := strings.TrimSpace(cfg.AuditTopic)
	if topic == "" {
		return rec, nil
	}

	client, err := pubsub.NewClient(ctx, gcp.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}
	rec.client = client
	rec.publisher = client.Publisher(topicResourceName(gcp.ProjectID, topic))
	return rec, nil
}

func topicResourceName(projectID, topic string) string {
	if strings.HasPrefix(topic, "projects/") {
		return topic
	}
	return fmt.Sprintf("projects/%s/topics/%s", projectID, topic)
}

// Record logs the event and publishes it when a topic is configured.
func (r *Recorder) Record(ctx context.Context, ev Event) {
	if r == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	if r.logg != nil {
		fields := map[string]any{
			"audit_action": ev.Action,
			"caller_uid":   ev.CallerUID,
			"outcome":      ev.Outcome,
		}
		if ev.SupplierID != "" {
			fields["supplier_id"] = ev.SupplierID
		}
		logCtx := r.logg.WithFields(ctx, fields)
		r.logg.Info(logCtx, "audit.event")
	}

	if r.publisher == nil {
		return
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		if r.logg != nil {
			r.logg.Error(ctx, "audit.encode_failed", err)
		}
		return
	}

	result := r.publisher.Publish(ctx, &pubsub.Message{
		Data:       payload,
		Attributes: map[string]string{"action": ev.Action},
	})
	if _, err := result.Get(ctx); err != nil {
		if r.logg != nil {
			r.logg.Error(ctx, "audit.publish_failed", err)
		}
	}
}

// Close releases the Pub/Sub client resources.
func (r *Recorder) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}
