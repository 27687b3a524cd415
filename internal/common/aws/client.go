// internal/common/aws/client.go
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// LoadConfig resolves credentials from the default chain for region.
func LoadConfig(ctx context.Context, region string) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

// NewPublisherFromConfig builds a Publisher backed by the real SNS client.
func NewPublisherFromConfig(cfg aws.Config) *Publisher {
	return NewPublisher(sns.NewFromConfig(cfg))
}

// NewMailerFromConfig builds a Mailer backed by the real SES client.
func NewMailerFromConfig(cfg aws.Config, from string) *Mailer {
	return NewMailer(ses.NewFromConfig(cfg), from)
}
