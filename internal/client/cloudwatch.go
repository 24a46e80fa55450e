package client

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
)

// AuthOptions selects the AWS region and credentials used to read notices
// forwarded to CloudWatch Logs.
type AuthOptions struct {
	Region  string
	Profile string
}

// NewCloudWatchOptions builds config load options. The profile comes from
// the flag or AWS_PROFILE; without a profile, static credentials from
// AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY are used when both are set.
// Anything left unset falls back to the SDK's default resolution.
func NewCloudWatchOptions(o AuthOptions) []func(*config.LoadOptions) error {
	var cfgOpts []func(*config.LoadOptions) error
	if o.Region != "" {
		cfgOpts = append(cfgOpts, config.WithRegion(o.Region))
	}
	profile := o.Profile
	if profile == "" {
		profile = os.Getenv("AWS_PROFILE")
	}
	if profile != "" {
		return append(cfgOpts, config.WithSharedConfigProfile(profile))
	}
	key, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if key != "" && secret != "" {
		provider := credentials.NewStaticCredentialsProvider(key, secret, os.Getenv("AWS_SESSION_TOKEN"))
		cfgOpts = append(cfgOpts, config.WithCredentialsProvider(provider))
	}
	return cfgOpts
}

// NewCloudWatchClient loads AWS configuration with the given options and
// returns a CloudWatch Logs client.
func NewCloudWatchClient(ctx context.Context, cfgOpts ...func(*config.LoadOptions) error) (*cloudwatchlogs.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, cfgOpts...)
	if err != nil {
		return nil, err
	}
	return cloudwatchlogs.NewFromConfig(cfg), nil
}
