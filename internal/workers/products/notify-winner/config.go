// internal/workers/products/notify-winner/config.go
package notifywinner

import (
	"fmt"
	"time"

	"dropship-workers/internal/common/config"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Subject       string        `mapstructure:"subject"`

	SNSEnabled bool   `mapstructure:"sns_enabled"`
	TopicARN   string `mapstructure:"topic_arn"`

	EmailEnabled bool     `mapstructure:"email_enabled"`
	ToEmails     []string `mapstructure:"to_emails"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       15 * time.Second,
		Subject:       "Winning product detected",
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if !c.SNSEnabled && !c.EmailEnabled {
		return fmt.Errorf("at least one of sns or email must be enabled")
	}
	if c.SNSEnabled && c.TopicARN == "" {
		return fmt.Errorf("topic_arn is required when sns is enabled")
	}
	if c.EmailEnabled && len(c.ToEmails) == 0 {
		return fmt.Errorf("to_emails is required when email is enabled")
	}
	return nil
}

func createConfigFromAppConfig(appConfig *config.Config, custom *Config) *Config {
	if custom != nil {
		return custom
	}

	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}

	aws := appConfig.Integrations.AWS
	cfg.SNSEnabled = aws.SNS.Enabled
	cfg.TopicARN = aws.SNS.TopicARN
	cfg.EmailEnabled = aws.SES.Enabled
	cfg.ToEmails = aws.SES.ToEmails

	w := config.GetWorkerConfig(appConfig, TaskType)
	cfg.Enabled = w.Enabled
	if w.MaxJobsActive > 0 {
		cfg.MaxJobsActive = w.MaxJobsActive
	}
	if w.Timeout > 0 {
		cfg.Timeout = config.GetDuration(w.Timeout)
	}

	return cfg
}
