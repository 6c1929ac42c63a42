// internal/common/aws/ses.go
package aws

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"estate-workers/internal/models"
)

// SESService is the part of the SES client the email sender uses.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

const emailFooter = "Luxury Real Estate"

var emailTemplate = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html>
<head>
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
.container { max-width: 600px; margin: 0 auto; padding: 20px; }
.header { background: #2c3e50; color: white; padding: 20px; text-align: center; }
.content { padding: 20px; background: #f9f9f9; }
.footer { padding: 20px; text-align: center; color: #666; font-size: 12px; }
</style>
</head>
<body>
<div class="container">
<div class="header"><h2>{{.Title}}</h2></div>
<div class="content">
{{if .ImageURL}}<img src="{{.ImageURL}}" style="max-width: 100%; height: auto; margin-bottom: 20px;">{{end}}
<p>{{.Body}}</p>
</div>
<div class="footer"><p>{{.Footer}}</p></div>
</div>
</body>
</html>`))

// EmailSender delivers notification emails through SES.
type EmailSender struct {
	client    SESService
	fromEmail string
}

// LoadConfig resolves AWS credentials from the default chain for region.
func LoadConfig(ctx context.Context, region string) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

func NewSESService(cfg aws.Config) *ses.Client {
	return ses.NewFromConfig(cfg)
}

func NewEmailSender(client SESService, fromEmail string) *EmailSender {
	return &EmailSender{client: client, fromEmail: fromEmail}
}

func (s *EmailSender) SendEmail(ctx context.Context, to string, msg models.ChannelMessage) error {
	html, err := RenderEmail(msg)
	if err != nil {
		return err
	}

	_, err = s.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Title)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(msg.Title + "\n\n" + msg.Body)},
				Html: &types.Content{Data: aws.String(html)},
			},
		},
		Source: aws.String(s.fromEmail),
	})
	if err != nil {
		return fmt.Errorf("ses send to %s: %w", to, err)
	}
	return nil
}

// RenderEmail builds the HTML body: title header, optional image, body text, footer.
func RenderEmail(msg models.ChannelMessage) (string, error) {
	var buf bytes.Buffer
	err := emailTemplate.Execute(&buf, struct {
		Title, Body, ImageURL, Footer string
	}{msg.Title, msg.Body, msg.ImageURL, emailFooter})
	if err != nil {
		return "", fmt.Errorf("render email: %w", err)
	}
	return buf.String(), nil
}
