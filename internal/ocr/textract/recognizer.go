// Package textract recognizes text with AWS Textract.
package textract

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"docanalyzer/internal/config"
)

// DetectAPI is the subset of the Textract client used here.
type DetectAPI interface {
	DetectDocumentText(ctx context.Context, params *textract.DetectDocumentTextInput, optFns ...func(*textract.Options)) (*textract.DetectDocumentTextOutput, error)
}

// Recognizer implements port.TextRecognizer with synchronous text detection.
type Recognizer struct {
	client DetectAPI
}

// NewRecognizer creates a Textract-backed recognizer.
func NewRecognizer(ctx context.Context, cfg *config.OCRConfig) (*Recognizer, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.AWSRegion))

	if cfg.AWSAccessKey != "" && cfg.AWSSecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKey, cfg.AWSSecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return NewRecognizerWithClient(textract.NewFromConfig(awsCfg)), nil
}

// NewRecognizerWithClient wraps an existing client (used in tests).
func NewRecognizerWithClient(client DetectAPI) *Recognizer {
	return &Recognizer{client: client}
}

func (r *Recognizer) Recognize(ctx context.Context, data []byte, _ string) (string, error) {
	out, err := r.client.DetectDocumentText(ctx, &textract.DetectDocumentTextInput{
		Document: &types.Document{Bytes: data},
	})
	if err != nil {
		return "", fmt.Errorf("textract detect: %w", err)
	}

	var lines []string
	for _, block := range out.Blocks {
		if block.BlockType == types.BlockTypeLine {
			lines = append(lines, aws.ToString(block.Text))
		}
	}
	return strings.Join(lines, "\n"), nil
}
