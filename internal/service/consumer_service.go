package service

import (
	"context"
	"encoding/json"
	"time"

	"curamind-be/internal/pkg/logger"
	"curamind-be/internal/pkg/mailer"

	"github.com/ThreeDotsLabs/watermill/message"
)

const maxMailAttempts = 3

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber   message.Subscriber
	topicName    string
	emailService mailer.IEmailService
	logger       logger.ILogger
	retryDelay   time.Duration
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:   subscriber,
		topicName:    topicName,
		emailService: emailService,
		logger:       log,
		retryDelay:   2 * time.Second,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks. A gochannel nack redelivers instantly, so
// retries happen here with a fixed delay instead.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var mail mailer.Mail
	if err := json.Unmarshal(msg.Payload, &mail); err != nil {
		cs.logger.Error("MAIL", "Dropping malformed mail message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	for attempt := 1; attempt <= maxMailAttempts; attempt++ {
		err := cs.emailService.Send(mail)
		if err == nil {
			cs.logger.Info("MAIL", "Mail sent", map[string]interface{}{"to": mail.To, "subject": mail.Subject})
			return
		}

		cs.logger.Warn("MAIL", "Mail delivery failed", map[string]interface{}{
			"to":      mail.To,
			"attempt": attempt,
			"error":   err.Error(),
		})

		if attempt == maxMailAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(cs.retryDelay):
		}
	}

	cs.logger.Error("MAIL", "Giving up on mail", map[string]interface{}{"to": mail.To, "subject": mail.Subject})
}
