package utils

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
)

var rekClient *rekognition.Client

// RekClient returns the Rekognition client, initializing it on first use.
// Initialization failures are returned, not fatal; a misconfigured region
// should fail the request, never the process.
func RekClient() (*rekognition.Client, error) {
	if rekClient != nil {
		return rekClient, nil
	}

	awsRegion := os.Getenv("AWS_REGION")
	if awsRegion == "" {
		return nil, errors.New("AWS_REGION not set")
	}
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}
	rekClient = rekognition.NewFromConfig(cfg)
	return rekClient, nil
}
