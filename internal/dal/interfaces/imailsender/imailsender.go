package imailsender

import (
	"context"

	"github.com/corray333/backend-labs/status/internal/service/models/mail"
)

// IMailSender hands a message to the email delivery subsystem. Delivery is
// best effort; retries are the subsystem's concern.
type IMailSender interface {
	Send(ctx context.Context, msg mail.Message) error
}
