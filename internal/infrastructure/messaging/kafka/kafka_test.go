package kafka

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/OncoTerm/internal/domain/ontology"
	"github.com/turtacn/OncoTerm/pkg/errors"
)

// fakeWriter records written messages.
type fakeWriter struct {
	messages []kafka.Message
	fail     bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.fail {
		return errors.New(errors.ErrCodeInternal, "broker down")
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

// fakeReader serves a fixed message sequence, then blocks on ctx.
type fakeReader struct {
	messages  []kafka.Message
	committed []kafka.Message
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.messages) == 0 {
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error { return nil }

func TestEventEnvelope_RoundTrip(t *testing.T) {
	payload := EntityEnrichedPayload{
		RunID:   "run-1",
		EntryID: "entry-1",
		Entity: &ontology.EnrichedEntity{
			Source: map[string]interface{}{"drugName": "Enhertu"},
			Ontology: map[ontology.FieldType]*ontology.FieldSummary{
				ontology.FieldDrug: {PrimaryID: "CHEMBL4297844", MatchStatus: ontology.StatusAliasMatch, Confidence: 1.0},
			},
		},
	}

	env, err := NewEventEnvelope(TopicEntityEnriched, "oncoterm", payload)
	require.NoError(t, err)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, "v1", env.SchemaVersion)

	msg, err := env.ToMessage(TopicEntityEnriched, payload.EntryID)
	require.NoError(t, err)
	assert.Equal(t, []byte("entry-1"), msg.Key)

	parsed, err := ParseEnvelope(msg)
	require.NoError(t, err)
	assert.Equal(t, env.EventID, parsed.EventID)

	var decoded EntityEnrichedPayload
	require.NoError(t, parsed.DecodePayload(&decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	assert.Equal(t, "CHEMBL4297844", decoded.Entity.Ontology[ontology.FieldDrug].PrimaryID)
}

func TestParseEnvelope_EmptyValue(t *testing.T) {
	_, err := ParseEnvelope(kafka.Message{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeIntakeMalformed))
}

func TestProducer_PublishEntityEnriched(t *testing.T) {
	writer := &fakeWriter{}
	producer := NewProducerWithWriter(writer, nil)

	err := producer.PublishEntityEnriched(context.Background(), EntityEnrichedPayload{
		RunID:   "run-1",
		EntryID: "entry-1",
		Entity:  &ontology.EnrichedEntity{Source: map[string]interface{}{}},
	})
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)
	assert.Equal(t, TopicEntityEnriched, writer.messages[0].Topic)
	assert.Equal(t, int64(1), producer.Sent())
}

func TestProducer_PublishFailureCounted(t *testing.T) {
	producer := NewProducerWithWriter(&fakeWriter{fail: true}, nil)

	env, err := NewEventEnvelope(TopicRunCompleted, "oncoterm", RunCompletedPayload{RunID: "run-1"})
	require.NoError(t, err)

	err = producer.Publish(context.Background(), TopicRunCompleted, "run-1", env)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodePublishFailed))
	assert.Equal(t, int64(1), producer.Failed())
}

func TestProducer_ClosedRejectsPublish(t *testing.T) {
	producer := NewProducerWithWriter(&fakeWriter{}, nil)
	require.NoError(t, producer.Close())

	env, _ := NewEventEnvelope(TopicRunCompleted, "oncoterm", RunCompletedPayload{})
	err := producer.Publish(context.Background(), TopicRunCompleted, "x", env)
	assert.ErrorIs(t, err, ErrProducerClosed)
}

func intakeMessage(t *testing.T, entryID string) kafka.Message {
	t.Helper()
	env, err := NewEventEnvelope(TopicEntryReceived, "oncoterm", EntryReceivedPayload{
		ReceivedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	msg, err := env.ToMessage(TopicEntryReceived, entryID)
	require.NoError(t, err)
	return msg
}

func TestConsumer_Run_HandlesAndCommits(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{
		intakeMessage(t, "entry-1"),
		intakeMessage(t, "entry-2"),
	}}
	consumer := NewConsumerWithReader(reader, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		// Cancel once both fixed messages are through.
		for consumer.Processed() < 2 {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()

	var handled atomic.Int32
	err := consumer.Run(ctx, func(_ context.Context, env *EventEnvelope) error {
		handled.Add(1)
		assert.Equal(t, TopicEntryReceived, env.EventType)
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(2), handled.Load())
	assert.Len(t, reader.committed, 2)
	assert.Equal(t, int64(2), consumer.Processed())
}

func TestConsumer_Run_DeadLettersRejected(t *testing.T) {
	deadWriter := &fakeWriter{}
	deadLetter := NewProducerWithWriter(deadWriter, nil)

	reader := &fakeReader{messages: []kafka.Message{
		{Topic: TopicEntryReceived, Key: []byte("bad"), Value: []byte("not json")},
	}}
	consumer := NewConsumerWithReader(reader, deadLetter, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := consumer.Run(ctx, func(context.Context, *EventEnvelope) error {
		t.Fatal("handler must not see malformed envelopes")
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.Len(t, deadWriter.messages, 1)
	assert.Equal(t, TopicDeadLetter, deadWriter.messages[0].Topic)
	assert.Equal(t, int64(1), consumer.Rejected())
	// The poison message is still committed so the partition advances.
	assert.Len(t, reader.committed, 1)
}

func TestTopicManager_CreateTopic(t *testing.T) {
	conn := &fakeConn{}
	manager := NewTopicManagerWithConn(conn, nil)

	err := manager.EnsureDefaultTopics(context.Background())
	require.NoError(t, err)
	assert.Len(t, conn.created, len(DefaultTopics()))
	assert.Equal(t, TopicEntryReceived, conn.created[0].Topic)
}

func TestTopicManager_CreateTopicValidation(t *testing.T) {
	manager := NewTopicManagerWithConn(&fakeConn{}, nil)

	err := manager.CreateTopic(context.Background(), TopicConfig{Name: ""})
	require.Error(t, err)
	err = manager.CreateTopic(context.Background(), TopicConfig{Name: "x", NumPartitions: 0})
	require.Error(t, err)
}

type fakeConn struct {
	created []kafka.TopicConfig
}

func (c *fakeConn) CreateTopics(topics ...kafka.TopicConfig) error {
	c.created = append(c.created, topics...)
	return nil
}

func (c *fakeConn) ReadPartitions(_ ...string) ([]kafka.Partition, error) {
	return nil, nil
}

func (c *fakeConn) Close() error { return nil }

func TestDefaultTopics_Retention(t *testing.T) {
	for _, topic := range DefaultTopics() {
		assert.Greater(t, topic.RetentionMs, int64(0), topic.Name)
		assert.Greater(t, topic.NumPartitions, 0, topic.Name)
	}
}

//Personal.AI order the ending
