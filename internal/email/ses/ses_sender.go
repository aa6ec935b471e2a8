package ses

import (
	"context"
	"fmt"
	"html"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"quotegen/internal/port"
)

// sendEmailAPI is the slice of the SES client the sender uses.
type sendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type sesSender struct {
	client      sendEmailAPI
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed QuoteMailer.
func NewSESSender(region, fromAddress, fromName string) (port.QuoteMailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return newSender(sesv2.NewFromConfig(cfg), fromAddress, fromName), nil
}

func newSender(client sendEmailAPI, fromAddress, fromName string) *sesSender {
	return &sesSender{client: client, fromAddress: fromAddress, fromName: fromName}
}

func (s *sesSender) SendQuoteLink(ctx context.Context, msg port.QuoteEmail) error {
	subject := fmt.Sprintf("Your Ontop quote for %s", msg.ClientName)
	htmlBody := buildQuoteHTML(msg)
	textBody := buildQuoteText(msg)
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{msg.ToEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func greeting(name string) string {
	if name == "" {
		return "Hi,"
	}
	return fmt.Sprintf("Hi %s,", name)
}

func buildQuoteText(msg port.QuoteEmail) string {
	return fmt.Sprintf("%s\n\n%s prepared an employment cost quote for %s.\nDownload %s here:\n%s\n\nOntop Team",
		greeting(msg.ToName), msg.SenderName, msg.ClientName, msg.FileName, msg.Link)
}

func buildQuoteHTML(msg port.QuoteEmail) string {
	link := html.EscapeString(msg.Link)
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Your employment cost quote</h2>
  <p>%s</p>
  <p>%s prepared an employment cost quote for <strong>%s</strong>.</p>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #FF6B9D; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Download %s</a>
  </p>
  <p>Or copy and paste this link into your browser:</p>
  <p style="word-break: break-all; color: #666;">%s</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Ontop - Global Employment Solutions</p>
</body>
</html>`,
		html.EscapeString(greeting(msg.ToName)),
		html.EscapeString(msg.SenderName),
		html.EscapeString(msg.ClientName),
		link,
		html.EscapeString(msg.FileName),
		link)
}
