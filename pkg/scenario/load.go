package scenario

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/vango-dev/gatefx/internal/errors"
)

// MaxScenarioSize bounds how much of a scenario object is read.
const MaxScenarioSize = 4 << 20

// ObjectGetter is the part of *s3.Client used to fetch scenarios.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// LoadFile reads a scenario from disk. The extension selects the format.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.FromError(err, "G203")
	}
	return Parse(data, FormatFromPath(path), path)
}

// LoadS3 reads a scenario object. The key's extension selects the format.
func LoadS3(ctx context.Context, client ObjectGetter, bucket, key string) (*Scenario, error) {
	source := "s3://" + bucket + "/" + key
	if client == nil {
		return nil, errors.New("G203").
			WithSuggestion("configure an S3 region to load " + source)
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.New("G203").Wrap(fmt.Errorf("get %s: %w", source, err))
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, MaxScenarioSize+1))
	if err != nil {
		return nil, errors.New("G203").Wrap(fmt.Errorf("read %s: %w", source, err))
	}
	if len(data) > MaxScenarioSize {
		return nil, errors.New("G203").Wrap(fmt.Errorf("%s is larger than %d bytes", source, MaxScenarioSize))
	}

	return Parse(data, FormatFromPath(key), source)
}

// ParseS3URI splits s3://bucket/key. ok is false for anything else.
func ParseS3URI(ref string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(ref, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// Load reads ref from S3 when it is an s3:// URI and from disk otherwise.
// client may be nil when no S3 refs are expected.
func Load(ctx context.Context, ref string, client ObjectGetter) (*Scenario, error) {
	if strings.HasPrefix(ref, "s3://") {
		bucket, key, ok := ParseS3URI(ref)
		if !ok {
			return nil, errors.New("G203").WithSuggestion("use s3://bucket/key")
		}
		return LoadS3(ctx, client, bucket, key)
	}
	return LoadFile(ref)
}
