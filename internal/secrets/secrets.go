package secrets

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/pkg/errors"

	"github.com/impuestosrd/impuestosrd-api/internal/logging"
)

// Client reads secrets from AWS Secrets Manager.
type Client struct {
	svc    *secretsmanager.Client
	logger *logging.Logger
}

// NewClient loads the default AWS configuration chain.
func NewClient(ctx context.Context, region string) (*Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "loading AWS config")
	}

	return &Client{
		svc:    secretsmanager.NewFromConfig(cfg),
		logger: logging.NewLogger("secrets"),
	}, nil
}

// GetSecretString returns the secret stored under arn. A secret holding a
// JSON object with a single key yields that key's value.
func (c *Client) GetSecretString(ctx context.Context, arn string) (string, error) {
	out, err := c.svc.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(arn),
	})
	if err != nil {
		return "", errors.Wrap(err, "fetching secret")
	}
	if out.SecretString == nil || *out.SecretString == "" {
		return "", errors.Errorf("secret %s has no string value", arn)
	}

	c.logger.Info("Secret fetched", logging.Fields{"secret_arn": arn})
	return unwrapSecret(*out.SecretString), nil
}

// ResolvePassword returns the secret behind arn, or fallback when arn is
// empty or the lookup fails.
func ResolvePassword(ctx context.Context, arn, region, fallback string) string {
	if arn == "" {
		return fallback
	}

	client, err := NewClient(ctx, region)
	if err == nil {
		var secret string
		if secret, err = client.GetSecretString(ctx, arn); err == nil {
			return secret
		}
	}

	logging.Error("Falling back to DB_PASSWORD", logging.Fields{
		"secret_arn": arn,
		"error":      err,
	})
	return fallback
}

func unwrapSecret(raw string) string {
	var kv map[string]string
	if err := json.Unmarshal([]byte(raw), &kv); err == nil && len(kv) == 1 {
		for _, v := range kv {
			return v
		}
	}
	return raw
}
