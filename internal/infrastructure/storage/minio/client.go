package minio

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"

	"github.com/turtacn/OncoTerm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/OncoTerm/pkg/errors"
)

// MinIOAPI is the slice of the minio-go client the snapshot store uses.
// GetObject is narrowed to io.ReadCloser so tests can serve bytes without a
// live server.
type MinIOAPI interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	SetBucketLifecycle(ctx context.Context, bucketName string, config *lifecycle.Configuration) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	CopyObject(ctx context.Context, dst minio.CopyDestOptions, src minio.CopySrcOptions) (minio.UploadInfo, error)
}

// apiAdapter bridges *minio.Client to MinIOAPI: the SDK's GetObject returns
// the concrete *minio.Object, which already satisfies io.ReadCloser.
type apiAdapter struct {
	*minio.Client
}

func (a apiAdapter) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return a.Client.GetObject(ctx, bucketName, objectName, opts)
}

type BucketConfig struct {
	Snapshots string `mapstructure:"snapshots"`
	Reports   string `mapstructure:"reports"`
}

type MinIOConfig struct {
	Endpoint            string       `mapstructure:"endpoint"`
	AccessKeyID         string       `mapstructure:"access_key_id"`
	SecretAccessKey     string       `mapstructure:"secret_access_key"`
	UseSSL              bool         `mapstructure:"use_ssl"`
	Region              string       `mapstructure:"region"`
	Buckets             BucketConfig `mapstructure:"buckets"`
	ReportRetentionDays int          `mapstructure:"report_retention_days"`
}

type Client struct {
	client MinIOAPI
	config *MinIOConfig
	logger logging.Logger
}

// NewClient connects, verifies reachability and creates the buckets if they
// are missing.
func NewClient(cfg *MinIOConfig, log logging.Logger) (*Client, error) {
	applyDefaults(cfg)
	if log == nil {
		log = logging.NewNopLogger()
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create minio client")
	}

	client := &Client{
		client: apiAdapter{mc},
		config: cfg,
		logger: log.Named("minio"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := client.client.ListBuckets(ctx); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to connect to minio")
	}
	if err := client.EnsureBuckets(ctx); err != nil {
		return nil, err
	}
	if err := client.setupLifecycleRules(ctx); err != nil {
		return nil, err
	}

	log.Info("minio client connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.Bool("ssl", cfg.UseSSL),
	)
	return client, nil
}

// NewClientWithAPI is the test seam; it skips connectivity and bucket setup.
func NewClientWithAPI(api MinIOAPI, cfg *MinIOConfig, log logging.Logger) *Client {
	applyDefaults(cfg)
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Client{client: api, config: cfg, logger: log.Named("minio")}
}

func applyDefaults(cfg *MinIOConfig) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.Buckets.Snapshots == "" {
		cfg.Buckets.Snapshots = "oncoterm-snapshots"
	}
	if cfg.Buckets.Reports == "" {
		cfg.Buckets.Reports = "oncoterm-reports"
	}
	if cfg.ReportRetentionDays == 0 {
		cfg.ReportRetentionDays = 30
	}
}

func (c *Client) EnsureBuckets(ctx context.Context) error {
	for _, bucket := range []string{c.config.Buckets.Snapshots, c.config.Buckets.Reports} {
		exists, err := c.client.BucketExists(ctx, bucket)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to check bucket existence")
		}
		if !exists {
			if err := c.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: c.config.Region}); err != nil {
				return errors.Wrap(err, errors.ErrCodeInternal, fmt.Sprintf("failed to create bucket %s", bucket))
			}
			c.logger.Info("created bucket", logging.String("bucket", bucket))
		}
	}
	return nil
}

// setupLifecycleRules expires old run reports.  Dictionary snapshots are kept
// indefinitely so past runs stay reproducible.
func (c *Client) setupLifecycleRules(ctx context.Context) error {
	reports := lifecycle.NewConfiguration()
	reports.Rules = []lifecycle.Rule{
		{
			ID:     "reports-cleanup",
			Status: "Enabled",
			Expiration: lifecycle.Expiration{
				Days: lifecycle.ExpirationDays(c.config.ReportRetentionDays),
			},
		},
	}
	if err := c.client.SetBucketLifecycle(ctx, c.config.Buckets.Reports, reports); err != nil {
		c.logger.Warn("failed to set lifecycle for reports bucket", logging.Err(err))
	}
	return nil
}

// API exposes the underlying client slice.
func (c *Client) API() MinIOAPI {
	return c.client
}

// SnapshotBucket returns the bucket holding dictionary snapshots.
func (c *Client) SnapshotBucket() string { return c.config.Buckets.Snapshots }

// ReportBucket returns the bucket holding run reports.
func (c *Client) ReportBucket() string { return c.config.Buckets.Reports }

type HealthStatus struct {
	Healthy        bool
	Latency        time.Duration
	BucketStatuses map[string]bool
	Error          string
}

func (c *Client) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	start := time.Now()
	_, err := c.client.ListBuckets(ctx)
	latency := time.Since(start)

	status := &HealthStatus{
		Healthy:        err == nil,
		Latency:        latency,
		BucketStatuses: make(map[string]bool),
	}
	if err != nil {
		status.Error = err.Error()
		return status, err
	}

	for _, b := range []string{c.config.Buckets.Snapshots, c.config.Buckets.Reports} {
		exists, _ := c.client.BucketExists(ctx, b)
		status.BucketStatuses[b] = exists
		if !exists {
			status.Healthy = false
			status.Error = fmt.Sprintf("bucket %s missing", b)
		}
	}
	return status, nil
}

//Personal.AI order the ending
