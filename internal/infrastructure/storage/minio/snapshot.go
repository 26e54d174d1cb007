package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/OncoTerm/internal/domain/ontology"
	"github.com/turtacn/OncoTerm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/OncoTerm/pkg/errors"
)

const (
	snapshotSchemaVersion = "v1"
	snapshotTimeLayout    = "20060102T150405Z"
	latestName            = "latest.json"
	jsonContentType       = "application/json"
)

// Snapshot is a persisted set of source extracts for one field type.  The
// dictionary builder can rebuild an identical dictionary from it without
// touching the remote sources.
type Snapshot struct {
	Field         ontology.FieldType       `json:"field"`
	CreatedAt     time.Time                `json:"created_at"`
	SchemaVersion string                   `json:"schema_version"`
	Sources       []ontology.SourceExtract `json:"sources"`
}

// SnapshotInfo describes one stored snapshot object.
type SnapshotInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// SnapshotStore persists dictionary snapshots and run reports as JSON
// objects.  Snapshots are immutable once written; "latest" is a copy that is
// replaced on every save.
type SnapshotStore struct {
	client *Client
	logger logging.Logger
	now    func() time.Time
}

func NewSnapshotStore(client *Client, log logging.Logger) *SnapshotStore {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &SnapshotStore{
		client: client,
		logger: log.Named("minio.snapshots"),
		now:    time.Now,
	}
}

func snapshotPrefix(field ontology.FieldType) string {
	return fmt.Sprintf("snapshots/%s/", field)
}

func latestKey(field ontology.FieldType) string {
	return snapshotPrefix(field) + latestName
}

// Save writes a new timestamped snapshot and repoints latest at it.  Returns
// the object key of the timestamped copy.
func (s *SnapshotStore) Save(ctx context.Context, field ontology.FieldType, sources []ontology.SourceExtract) (string, error) {
	if len(sources) == 0 {
		return "", errors.New(errors.ErrCodeValidation, "snapshot requires at least one source extract")
	}

	snap := Snapshot{
		Field:         field,
		CreatedAt:     s.now().UTC(),
		SchemaVersion: snapshotSchemaVersion,
		Sources:       sources,
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal snapshot")
	}

	bucket := s.client.SnapshotBucket()
	key := snapshotPrefix(field) + snap.CreatedAt.Format(snapshotTimeLayout) + ".json"

	if err := s.put(ctx, bucket, key, data); err != nil {
		return "", err
	}

	if _, err := s.client.API().CopyObject(ctx,
		minio.CopyDestOptions{Bucket: bucket, Object: latestKey(field)},
		minio.CopySrcOptions{Bucket: bucket, Object: key},
	); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to update latest snapshot")
	}

	records := 0
	for _, src := range sources {
		records += len(src.Records)
	}
	s.logger.Info("snapshot saved",
		logging.String("field", string(field)),
		logging.String("key", key),
		logging.Int("sources", len(sources)),
		logging.Int("records", records),
	)
	return key, nil
}

// LoadLatest loads the most recently saved snapshot for a field type.
func (s *SnapshotStore) LoadLatest(ctx context.Context, field ontology.FieldType) (*Snapshot, error) {
	snap, err := s.Load(ctx, latestKey(field))
	if err != nil {
		return nil, err
	}
	if snap.Field != field {
		return nil, errors.Newf(errors.ErrCodeSnapshotCorrupt,
			"snapshot at %s declares field %q", latestKey(field), snap.Field)
	}
	return snap, nil
}

// LatestSources returns the extracts from the latest snapshot for a field
// type.  It serves the dictionary builder, which only needs the source data.
func (s *SnapshotStore) LatestSources(ctx context.Context, field ontology.FieldType) ([]ontology.SourceExtract, error) {
	snap, err := s.LoadLatest(ctx, field)
	if err != nil {
		return nil, err
	}
	return snap.Sources, nil
}

// Load reads and validates one snapshot object by key.
func (s *SnapshotStore) Load(ctx context.Context, key string) (*Snapshot, error) {
	bucket := s.client.SnapshotBucket()

	obj, err := s.client.API().GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, classifyObjectError(err, key)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		// minio defers missing-key errors to the first read.
		return nil, classifyObjectError(err, key)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSnapshotCorrupt, fmt.Sprintf("snapshot %s is not valid JSON", key))
	}
	if snap.Field == "" || len(snap.Sources) == 0 {
		return nil, errors.Newf(errors.ErrCodeSnapshotCorrupt, "snapshot %s has no usable content", key)
	}
	return &snap, nil
}

// List returns the timestamped snapshots for a field type, newest first.  The
// latest pointer is excluded.
func (s *SnapshotStore) List(ctx context.Context, field ontology.FieldType) ([]SnapshotInfo, error) {
	bucket := s.client.SnapshotBucket()
	objects := s.client.API().ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    snapshotPrefix(field),
		Recursive: true,
	})

	var infos []SnapshotInfo
	for obj := range objects {
		if obj.Err != nil {
			return nil, errors.Wrap(obj.Err, errors.ErrCodeInternal, "failed to list snapshots")
		}
		if obj.Key == latestKey(field) {
			continue
		}
		infos = append(infos, SnapshotInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key > infos[j].Key })
	return infos, nil
}

// Delete removes one timestamped snapshot.  The latest pointer is left alone.
func (s *SnapshotStore) Delete(ctx context.Context, key string) error {
	err := s.client.API().RemoveObject(ctx, s.client.SnapshotBucket(), key, minio.RemoveObjectOptions{})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to delete snapshot")
	}
	return nil
}

// SaveReport stores a run report in the reports bucket under the run id.
func (s *SnapshotStore) SaveReport(ctx context.Context, runID string, report interface{}) (string, error) {
	if runID == "" {
		return "", errors.New(errors.ErrCodeValidation, "run id required")
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal report")
	}
	key := "reports/" + runID + ".json"
	if err := s.put(ctx, s.client.ReportBucket(), key, data); err != nil {
		return "", err
	}
	return key, nil
}

func (s *SnapshotStore) put(ctx context.Context, bucket, key string, data []byte) error {
	_, err := s.client.API().PutObject(ctx, bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: jsonContentType},
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, fmt.Sprintf("failed to store object %s", key))
	}
	return nil
}

func classifyObjectError(err error, key string) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
		return errors.NotFound(fmt.Sprintf("snapshot %s not found", key))
	}
	return errors.Wrap(err, errors.ErrCodeInternal, fmt.Sprintf("failed to read object %s", key))
}

//Personal.AI order the ending
