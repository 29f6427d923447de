package realtime

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	EventApplicationReceived = "application_received"
	EventApplicationHired    = "application_hired"
	EventApplicationRejected = "application_rejected"
)

type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Notifier pushes events to connected sockets and publishes them on
// "notifications:<user id>" for other instances and push workers.
type Notifier struct {
	Hub *Hub
	RDB *redis.Client
	Log *logrus.Logger
}

func NewNotifier(hub *Hub, rdb *redis.Client, log *logrus.Logger) *Notifier {
	return &Notifier{Hub: hub, RDB: rdb, Log: log}
}

func (n *Notifier) Notify(ctx context.Context, userID uuid.UUID, ev Event) {
	if n.Hub != nil {
		n.Hub.SendToUser(userID, ev)
	}
	if n.RDB == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := n.RDB.Publish(ctx, "notifications:"+userID.String(), payload).Err(); err != nil && n.Log != nil {
		n.Log.WithError(err).WithField("user_id", userID).Warn("notify: redis publish failed")
	}
}
