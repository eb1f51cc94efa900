package rabbit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okutransport/ride-coordinator/internal/domain/models"
	"github.com/okutransport/ride-coordinator/pkg/hasher"
)

// ApprovalNotifier hands approval changes to the notification workers,
// which e-mail the driver.
type ApprovalNotifier struct {
	client Publisher
}

func NewApprovalNotifier(client Publisher) *ApprovalNotifier {
	return &ApprovalNotifier{
		client: client,
	}
}

type approvalMessage struct {
	Template string `json:"template"`
	To       string `json:"to"`
	models.ApprovalEvent
}

// NotifyApprovalChanged publishes with routing key driver.approval.<status>.
func (n *ApprovalNotifier) NotifyApprovalChanged(ctx context.Context, evt models.ApprovalEvent) error {
	const op = "ApprovalNotifier.NotifyApprovalChanged"

	status := strings.ToLower(evt.To.String())
	key := fmt.Sprintf("driver.approval.%s", status)
	id := hasher.Fingerprint(evt.DriverID, evt.From.String(), evt.To.String(), evt.ChangedAt.UTC().Format(time.RFC3339Nano))

	msg := approvalMessage{
		Template:      "driver_" + status,
		To:            evt.DriverID,
		ApprovalEvent: evt,
	}
	return publishJSON(ctx, n.client, op, NotificationExchange, key, id, msg)
}
