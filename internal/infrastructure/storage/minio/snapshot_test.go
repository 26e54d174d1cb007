package minio

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/OncoTerm/internal/domain/ontology"
	"github.com/turtacn/OncoTerm/pkg/errors"
)

// fakeObjectStore is an in-memory MinIOAPI.
type fakeObjectStore struct {
	mu      sync.Mutex
	buckets map[string]map[string][]byte
}

func newFakeObjectStore(buckets ...string) *fakeObjectStore {
	s := &fakeObjectStore{buckets: make(map[string]map[string][]byte)}
	for _, b := range buckets {
		s.buckets[b] = make(map[string][]byte)
	}
	return s
}

func (s *fakeObjectStore) ListBuckets(context.Context) ([]minio.BucketInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var infos []minio.BucketInfo
	for name := range s.buckets {
		infos = append(infos, minio.BucketInfo{Name: name})
	}
	return infos, nil
}

func (s *fakeObjectStore) BucketExists(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.buckets[name]
	return ok, nil
}

func (s *fakeObjectStore) MakeBucket(_ context.Context, name string, _ minio.MakeBucketOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets[name] = make(map[string][]byte)
	return nil
}

func (s *fakeObjectStore) SetBucketLifecycle(context.Context, string, *lifecycle.Configuration) error {
	return nil
}

func (s *fakeObjectStore) PutObject(_ context.Context, bucket, key string, reader io.Reader, _ int64, _ minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	objects, ok := s.buckets[bucket]
	if !ok {
		return minio.UploadInfo{}, minio.ErrorResponse{Code: "NoSuchBucket"}
	}
	objects[key] = data
	return minio.UploadInfo{Bucket: bucket, Key: key, Size: int64(len(data))}, nil
}

func (s *fakeObjectStore) GetObject(_ context.Context, bucket, key string, _ minio.GetObjectOptions) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.buckets[bucket][key]
	if !ok {
		return nil, minio.ErrorResponse{Code: "NoSuchKey"}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeObjectStore) StatObject(_ context.Context, bucket, key string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.buckets[bucket][key]
	if !ok {
		return minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"}
	}
	return minio.ObjectInfo{Key: key, Size: int64(len(data))}, nil
}

func (s *fakeObjectStore) RemoveObject(_ context.Context, bucket, key string, _ minio.RemoveObjectOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets[bucket], key)
	return nil
}

func (s *fakeObjectStore) ListObjects(_ context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo)
	go func() {
		defer close(ch)
		s.mu.Lock()
		defer s.mu.Unlock()
		for key, data := range s.buckets[bucket] {
			if opts.Prefix != "" && !strings.HasPrefix(key, opts.Prefix) {
				continue
			}
			ch <- minio.ObjectInfo{Key: key, Size: int64(len(data))}
		}
	}()
	return ch
}

func (s *fakeObjectStore) CopyObject(_ context.Context, dst minio.CopyDestOptions, src minio.CopySrcOptions) (minio.UploadInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.buckets[src.Bucket][src.Object]
	if !ok {
		return minio.UploadInfo{}, minio.ErrorResponse{Code: "NoSuchKey"}
	}
	s.buckets[dst.Bucket][dst.Object] = append([]byte(nil), data...)
	return minio.UploadInfo{Bucket: dst.Bucket, Key: dst.Object}, nil
}

func newTestStore(t *testing.T) (*SnapshotStore, *fakeObjectStore) {
	t.Helper()
	cfg := &MinIOConfig{Endpoint: "localhost:9000"}
	applyDefaults(cfg)
	fake := newFakeObjectStore(cfg.Buckets.Snapshots, cfg.Buckets.Reports)
	client := NewClientWithAPI(fake, cfg, nil)
	return NewSnapshotStore(client, nil), fake
}

func drugSources() []ontology.SourceExtract {
	return []ontology.SourceExtract{
		{
			Name: "chembl",
			Records: []ontology.SourceRecord{
				{ID: "CHEMBL4297844", Label: "TRASTUZUMAB DERUXTECAN", Aliases: []string{"Enhertu", "DS-8201"}},
			},
		},
	}
}

func TestSnapshotStore_SaveAndLoadLatest(t *testing.T) {
	store, _ := newTestStore(t)

	key, err := store.Save(context.Background(), ontology.FieldDrug, drugSources())
	require.NoError(t, err)
	assert.Contains(t, key, "snapshots/drug/")

	snap, err := store.LoadLatest(context.Background(), ontology.FieldDrug)
	require.NoError(t, err)
	assert.Equal(t, ontology.FieldDrug, snap.Field)
	assert.Equal(t, snapshotSchemaVersion, snap.SchemaVersion)
	require.Len(t, snap.Sources, 1)
	assert.Equal(t, "CHEMBL4297844", snap.Sources[0].Records[0].ID)
}

func TestSnapshotStore_LoadLatest_Missing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.LoadLatest(context.Background(), ontology.FieldDisease)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestSnapshotStore_Load_Corrupt(t *testing.T) {
	store, fake := newTestStore(t)

	bucket := store.client.SnapshotBucket()
	fake.buckets[bucket]["snapshots/drug/bad.json"] = []byte("{truncated")

	_, err := store.Load(context.Background(), "snapshots/drug/bad.json")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSnapshotCorrupt))
}

func TestSnapshotStore_Load_EmptySources(t *testing.T) {
	store, fake := newTestStore(t)

	bucket := store.client.SnapshotBucket()
	fake.buckets[bucket]["snapshots/drug/empty.json"] = []byte(`{"field":"drug","sources":[]}`)

	_, err := store.Load(context.Background(), "snapshots/drug/empty.json")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSnapshotCorrupt))
}

func TestSnapshotStore_Save_RejectsEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Save(context.Background(), ontology.FieldDrug, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestSnapshotStore_ListExcludesLatest(t *testing.T) {
	store, _ := newTestStore(t)

	// Distinct timestamps so the two saves get distinct keys.
	times := []time.Time{
		time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		time.Date(2026, 1, 3, 3, 4, 5, 0, time.UTC),
	}
	store.now = func() time.Time {
		next := times[0]
		times = times[1:]
		return next
	}

	_, err := store.Save(context.Background(), ontology.FieldDrug, drugSources())
	require.NoError(t, err)
	second, err := store.Save(context.Background(), ontology.FieldDrug, drugSources())
	require.NoError(t, err)

	infos, err := store.List(context.Background(), ontology.FieldDrug)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, second, infos[0].Key)
	for _, info := range infos {
		assert.NotContains(t, info.Key, latestName)
	}
}

func TestSnapshotStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)

	key, err := store.Save(context.Background(), ontology.FieldDrug, drugSources())
	require.NoError(t, err)
	require.NoError(t, store.Delete(context.Background(), key))

	_, err = store.Load(context.Background(), key)
	assert.True(t, errors.IsNotFound(err))

	// Latest is an independent copy and survives.
	_, err = store.LoadLatest(context.Background(), ontology.FieldDrug)
	assert.NoError(t, err)
}

func TestSnapshotStore_SaveReport(t *testing.T) {
	store, fake := newTestStore(t)

	key, err := store.SaveReport(context.Background(), "run-42", map[string]int{"entities": 7})
	require.NoError(t, err)
	assert.Equal(t, "reports/run-42.json", key)

	data := fake.buckets[store.client.ReportBucket()][key]
	assert.Contains(t, string(data), `"entities": 7`)
}

func TestClient_HealthCheck(t *testing.T) {
	cfg := &MinIOConfig{Endpoint: "localhost:9000"}
	applyDefaults(cfg)
	fake := newFakeObjectStore(cfg.Buckets.Snapshots)
	client := NewClientWithAPI(fake, cfg, nil)

	status, err := client.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Healthy)
	assert.Contains(t, status.Error, cfg.Buckets.Reports)

	require.NoError(t, client.EnsureBuckets(context.Background()))
	status, err = client.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Healthy)
}

//Personal.AI order the ending
