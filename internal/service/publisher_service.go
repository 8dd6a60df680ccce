package service

import (
	"context"
	"encoding/json"

	"curamind-be/internal/pkg/mailer"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// IPublisherService queues outbound mail so request handlers never wait on SMTP.
type IPublisherService interface {
	SendMail(ctx context.Context, mail mailer.Mail) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (ps *publisherService) SendMail(ctx context.Context, mail mailer.Mail) error {
	payload, err := json.Marshal(mail)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return ps.publisher.Publish(ps.topicName, msg)
}
