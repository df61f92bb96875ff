package mail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Message is one transactional email
type Message struct {
	ToEmail  string
	ToName   string
	Subject  string
	HTML     string
	Category string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendRequest struct {
	From     address   `json:"from"`
	To       []address `json:"to"`
	Subject  string    `json:"subject"`
	HTML     string    `json:"html"`
	Category string    `json:"category,omitempty"`
}

type sendResponse struct {
	Success    bool     `json:"success"`
	MessageIDs []string `json:"message_ids"`
	Errors     []string `json:"errors"`
}

var _ Mailer = (*MailtrapClient)(nil)

// MailtrapClient delivers messages through the Mailtrap sending API
type MailtrapClient struct {
	endpoint string
	token    string
	from     address
	timeout  time.Duration
}

func NewMailtrapClient(endpoint, token, fromEmail, fromName string, timeout time.Duration) *MailtrapClient {
	return &MailtrapClient{
		endpoint: endpoint,
		token:    token,
		from:     address{Email: fromEmail, Name: fromName},
		timeout:  timeout,
	}
}

func (m *MailtrapClient) Send(ctx context.Context, msg Message) error {
	if msg.ToEmail == "" {
		return errors.New("mailtrap: missing recipient")
	}

	timeout := m.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return fmt.Errorf("mailtrap: %w", context.DeadlineExceeded)
	}

	agent := fiber.Post(m.endpoint)
	agent.Set(fiber.HeaderAuthorization, "Bearer "+m.token)
	agent.Timeout(timeout)
	agent.JSON(sendRequest{
		From:     m.from,
		To:       []address{{Email: msg.ToEmail, Name: msg.ToName}},
		Subject:  msg.Subject,
		HTML:     msg.HTML,
		Category: msg.Category,
	})

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("mailtrap: %w", errs[0])
	}

	var resp sendResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("mailtrap: status %d: decode response: %w: %q", status, err, snippet(body))
	}

	if status != fiber.StatusOK || !resp.Success {
		return fmt.Errorf("mailtrap: status %d: %v", status, resp.Errors)
	}

	logrus.WithFields(logrus.Fields{
		"category":    msg.Category,
		"message_ids": resp.MessageIDs,
	}).Debug("email sent")
	return nil
}

// snippet trims a response body for error messages
func snippet(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}

var _ Mailer = LogMailer{}

// LogMailer only logs the messages it is given; it stands in when no
// Mailtrap token is configured
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg Message) error {
	logrus.WithFields(logrus.Fields{
		"to":       msg.ToEmail,
		"subject":  msg.Subject,
		"category": msg.Category,
	}).Info("email delivery disabled, message dropped")
	return nil
}
