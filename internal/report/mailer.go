package report

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESAPI is the subset of the SESv2 client the mailer uses.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Mailer emails run summaries to operators through SES. Callers treat a send
// failure as non-fatal; the run already succeeded or failed on its own.
type Mailer struct {
	client     SESAPI
	from       string
	recipients []string
}

// NewMailer wraps an SESv2 client.
func NewMailer(client SESAPI, from string, recipients []string) *Mailer {
	return &Mailer{client: client, from: from, recipients: recipients}
}

// SendSummary mails the plain-text run report.
func (m *Mailer) SendSummary(ctx context.Context, s *Summary) error {
	subject := fmt.Sprintf("[attendee-sync] %s run %s: %d created, %d failed",
		s.Mode, s.RunID[:8], s.Stats.Created, s.Stats.Failed)

	_, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination:      &types.Destination{ToAddresses: m.recipients},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(s.Text()), Charset: aws.String("UTF-8")},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("sending summary email: %w", err)
	}
	return nil
}
