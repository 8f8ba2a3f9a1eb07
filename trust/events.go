package trust

import (
	"github.com/vocdoni/trustledger/log"
	"github.com/vocdoni/trustledger/types"
)

// Operation identifies the kind of access reported by a ScoreQueried
// notification.
type Operation string

// OperationRecord is emitted when a score enters through recordEvent.
const OperationRecord Operation = "RECORD"

// Notifier receives the notifications emitted by the service. The record
// path emits TrustEventRecorded and ScoreQueried; the live statistics read
// emits StatisticsViewed (the only read with an observable external
// effect).
type Notifier interface {
	TrustEventRecorded(user types.UserKey, eventCount uint32)
	ScoreQueried(user types.UserKey, op Operation)
	StatisticsViewed(user types.UserKey, stats types.Statistics)
}

// LogNotifier writes every notification to the structured log. It is the
// notifier the daemon installs.
type LogNotifier struct{}

func (LogNotifier) TrustEventRecorded(user types.UserKey, eventCount uint32) {
	log.Infow("trust event recorded", "user", user.String(), "eventCount", eventCount)
}

func (LogNotifier) ScoreQueried(user types.UserKey, op Operation) {
	log.Debugw("score queried", "user", user.String(), "operation", string(op))
}

func (LogNotifier) StatisticsViewed(user types.UserKey, stats types.Statistics) {
	log.Debugw("statistics viewed",
		"user", user.String(),
		"eventCount", stats.EventCount,
		"lastActivity", stats.LastActivity,
	)
}

// Notification is one delivered event, used by ChanNotifier.
type Notification struct {
	Kind  string
	User  types.UserKey
	Count uint32
	Op    Operation
	Stats types.Statistics
}

// Notification kinds delivered by ChanNotifier.
const (
	NotificationRecorded    = "TrustEventRecorded"
	NotificationQueried     = "ScoreQueried"
	NotificationStatsViewed = "StatisticsViewed"
)

// ChanNotifier delivers notifications on a buffered channel. Delivery is
// best-effort: a full channel drops the notification rather than blocking
// the service.
type ChanNotifier struct {
	C chan Notification
}

// NewChanNotifier creates a ChanNotifier with the given buffer size.
func NewChanNotifier(buffer int) *ChanNotifier {
	return &ChanNotifier{C: make(chan Notification, buffer)}
}

func (n *ChanNotifier) deliver(notification Notification) {
	select {
	case n.C <- notification:
	default:
	}
}

func (n *ChanNotifier) TrustEventRecorded(user types.UserKey, eventCount uint32) {
	n.deliver(Notification{Kind: NotificationRecorded, User: user, Count: eventCount})
}

func (n *ChanNotifier) ScoreQueried(user types.UserKey, op Operation) {
	n.deliver(Notification{Kind: NotificationQueried, User: user, Op: op})
}

func (n *ChanNotifier) StatisticsViewed(user types.UserKey, stats types.Statistics) {
	n.deliver(Notification{Kind: NotificationStatsViewed, User: user, Stats: stats})
}
