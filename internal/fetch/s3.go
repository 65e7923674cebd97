package fetch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3API is the slice of the S3 client the fetcher needs. Tests substitute a
// fake; production code gets a real client from the AWS config chain.
type s3API interface {
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

func (f *Fetcher) client(ctx context.Context) (s3API, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.s3c != nil {
		return f.s3c, nil
	}
	var loadOpts []func(*awsconfig.LoadOptions) error
	if f.s3opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(f.s3opts.Region))
	}
	if f.s3opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(f.s3opts.AccessKey, f.s3opts.SecretKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	f.s3c = s3.NewFromConfig(cfg, func(o *s3.Options) {
		if f.s3opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(f.s3opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return f.s3c, nil
}

// splitS3URI splits s3://bucket/key/prefix into bucket and key prefix.
func splitS3URI(uri string) (bucket, prefix string, err error) {
	rest := strings.TrimPrefix(uri, S3Prefix)
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("malformed s3 uri %q", uri)
	}
	return bucket, strings.TrimSuffix(prefix, "/"), nil
}

// fetchS3 downloads an object (src names one key) or a whole prefix (src
// names a "directory") into dst, preserving relative layout.
func (f *Fetcher) fetchS3(ctx context.Context, src, dst string) error {
	bucket, prefix, err := splitS3URI(src)
	if err != nil {
		return err
	}
	c, err := f.client(ctx)
	if err != nil {
		return err
	}
	var token *string
	found := false
	for {
		out, err := c.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return fmt.Errorf("list s3://%s/%s: %w", bucket, prefix, err)
		}
		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") {
				continue // directory marker
			}
			target := dst
			if key != prefix {
				rel := strings.TrimPrefix(strings.TrimPrefix(key, prefix), "/")
				if rel == "" || strings.Contains(rel, "..") {
					continue
				}
				target = filepath.Join(dst, filepath.FromSlash(rel))
			}
			if err := f.downloadObject(ctx, c, bucket, key, target); err != nil {
				return err
			}
			found = true
		}
		if !aws.ToBool(out.IsTruncated) {
			break
		}
		token = out.NextContinuationToken
	}
	if !found {
		return fmt.Errorf("s3://%s/%s: no objects", bucket, prefix)
	}
	return nil
}

func (f *Fetcher) downloadObject(ctx context.Context, c s3API, bucket, key, target string) error {
	out, err := c.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	defer func() { _ = out.Body.Close() }()
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("mkdir for %s: %w", target, err)
	}
	fh, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	if _, err := io.Copy(fh, out.Body); err != nil {
		_ = fh.Close()
		return fmt.Errorf("write %s: %w", target, err)
	}
	return fh.Close()
}
