package kafka

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockKafkaConn struct {
	created    []kafka.TopicConfig
	createErr  error
	partitions map[string][]kafka.Partition
}

func (m *mockKafkaConn) CreateTopics(topics ...kafka.TopicConfig) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, topics...)
	return nil
}

func (m *mockKafkaConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	var out []kafka.Partition
	for _, t := range topics {
		out = append(out, m.partitions[t]...)
	}
	return out, nil
}

func (m *mockKafkaConn) Close() error { return nil }

func TestEventEnvelope_RoundTrip(t *testing.T) {
	payload := ContractAnalyzedPayload{RequestID: "req-1", ContractType: "Employment Agreement", CompositeScore: 42, HighRiskClauses: []int{3}}
	env, err := NewEventEnvelope(EventContractAnalyzed, "contractlens-api", payload)
	require.NoError(t, err)
	env.TraceID = "trace-9"

	pm, err := env.ToMessage(TopicContractAnalyzed)
	require.NoError(t, err)
	assert.Equal(t, EventContractAnalyzed, pm.Headers["event_type"])
	assert.Equal(t, "v1", pm.Headers["schema_version"])
	assert.Equal(t, "trace-9", pm.Headers["trace_id"])

	back, err := MessageToEventEnvelope(&Message{Value: pm.Value})
	require.NoError(t, err)
	assert.Equal(t, env.EventID, back.EventID)

	var decoded ContractAnalyzedPayload
	require.NoError(t, back.DecodePayload(&decoded))
	assert.Equal(t, "req-1", decoded.RequestID)
	assert.Equal(t, 42, decoded.CompositeScore)
	assert.Equal(t, []int{3}, decoded.HighRiskClauses)
}

func TestMessageToEventEnvelope_Invalid(t *testing.T) {
	_, err := MessageToEventEnvelope(&Message{})
	assert.Error(t, err)
	_, err = MessageToEventEnvelope(&Message{Value: []byte("{not json")})
	assert.Error(t, err)
}

func TestDecodePayload_Empty(t *testing.T) {
	var p ContractAnalyzedPayload
	assert.NoError(t, (&EventEnvelope{}).DecodePayload(&p))
	assert.Error(t, (&EventEnvelope{Payload: []byte(`"str"`)}).DecodePayload(&p))
}

func TestCreateTopic(t *testing.T) {
	conn := &mockKafkaConn{}
	m := newTopicManagerWithConn(conn, nil)

	require.NoError(t, m.CreateTopic(context.Background(), TopicConfig{
		Name: "x", NumPartitions: 1, ReplicationFactor: 1, RetentionMs: 1000, CleanupPolicy: "delete",
	}))
	require.Len(t, conn.created, 1)
	assert.Len(t, conn.created[0].ConfigEntries, 2)

	assert.Error(t, m.CreateTopic(context.Background(), TopicConfig{NumPartitions: 1, ReplicationFactor: 1}))
	assert.Error(t, m.CreateTopic(context.Background(), TopicConfig{Name: "x", ReplicationFactor: 1}))
}

func TestCreateTopic_AlreadyExists(t *testing.T) {
	conn := &mockKafkaConn{
		createErr:  stderrors.New("topic already exists"),
		partitions: map[string][]kafka.Partition{"x": {{Topic: "x"}}},
	}
	m := newTopicManagerWithConn(conn, nil)
	assert.NoError(t, m.CreateTopic(context.Background(), TopicConfig{Name: "x", NumPartitions: 1, ReplicationFactor: 1}))

	conn.partitions = nil
	assert.Error(t, m.CreateTopic(context.Background(), TopicConfig{Name: "x", NumPartitions: 1, ReplicationFactor: 1}))
}

func TestEnsureTopics_Defaults(t *testing.T) {
	conn := &mockKafkaConn{}
	m := newTopicManagerWithConn(conn, nil)
	require.NoError(t, m.EnsureTopics(context.Background(), DefaultTopics("a", "b", 0)))

	names := make([]string, 0, len(conn.created))
	for _, c := range conn.created {
		names = append(names, c.Topic)
		assert.Equal(t, 1, c.ReplicationFactor)
	}
	assert.Equal(t, []string{"a", "b", TopicDeadLetterDefault}, names)
}

//Personal.AI order the ending
