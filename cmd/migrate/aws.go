package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	"github.com/tngss/attendee-sync/internal/config"
	"github.com/tngss/attendee-sync/internal/report"
)

func loadAWS(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Store.AWSRegion)}
	if profile := cfg.Store.GetAWSProfile(); profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	c, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("loading AWS config: %w", err)
	}
	return c, nil
}

func newArchiver(ctx context.Context, cfg *config.Config) (*report.Archiver, error) {
	c, err := loadAWS(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return report.NewArchiver(s3.NewFromConfig(c), cfg.Store.S3Bucket), nil
}

func newMailer(ctx context.Context, cfg *config.Config) (*report.Mailer, error) {
	c, err := loadAWS(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return report.NewMailer(sesv2.NewFromConfig(c), cfg.Mailer.FromEmail, cfg.Mailer.Recipients), nil
}
