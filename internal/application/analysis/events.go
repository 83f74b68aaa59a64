package analysis

import (
	"context"

	"github.com/turtacn/ContractLens/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ContractLens/pkg/types/contract"
)

// EventSource is the source_service stamped on published envelopes.
const EventSource = "contractlens-analysis"

// EnvelopeProducer is the part of kafka.Producer the publisher needs.
type EnvelopeProducer interface {
	PublishEnvelope(ctx context.Context, topic string, env *kafka.EventEnvelope) error
}

// KafkaPublisher announces finished runs on two topics: a summary on the
// analysis topic and the audit record on the audit topic.
type KafkaPublisher struct {
	producer      EnvelopeProducer
	analysisTopic string
	auditTopic    string
}

func NewKafkaPublisher(producer EnvelopeProducer, analysisTopic, auditTopic string) *KafkaPublisher {
	if analysisTopic == "" {
		analysisTopic = kafka.TopicContractAnalyzed
	}
	if auditTopic == "" {
		auditTopic = kafka.TopicAuditLog
	}
	return &KafkaPublisher{producer: producer, analysisTopic: analysisTopic, auditTopic: auditTopic}
}

// Publish sends both envelopes.  Both are attempted; the first error is
// returned.
func (p *KafkaPublisher) Publish(ctx context.Context, resp *AnalyzeResponse) error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	summary, err := kafka.NewEventEnvelope(kafka.EventContractAnalyzed, EventSource, AnalyzedPayload(resp))
	if err == nil {
		summary.TraceID = resp.RequestID
		err = p.producer.PublishEnvelope(ctx, p.analysisTopic, summary)
	}
	keep(err)

	record, err := kafka.NewEventEnvelope(kafka.EventAuditRecorded, EventSource, resp.Audit)
	if err == nil {
		record.TraceID = resp.RequestID
		err = p.producer.PublishEnvelope(ctx, p.auditTopic, record)
	}
	keep(err)

	return firstErr
}

// AnalyzedPayload condenses a response into the contract.analyzed event body.
func AnalyzedPayload(resp *AnalyzeResponse) kafka.ContractAnalyzedPayload {
	res := resp.Result
	high := []int{}
	for _, e := range res.RiskAnalysis.ClauseRisks {
		if e.RiskLevel == contract.RiskHigh {
			high = append(high, e.ClauseNumber)
		}
	}
	out := kafka.ContractAnalyzedPayload{
		RequestID:       resp.RequestID,
		ContractType:    res.ContractOverview.ContractType,
		Language:        string(res.Language),
		ClauseCount:     len(res.Clauses.Clauses),
		HighRiskClauses: high,
		CompositeScore:  res.RiskScore.Composite,
		Interpretation:  res.RiskScore.Interpretation,
	}
	if resp.Audit != nil {
		out.Degraded = resp.Audit.Degraded()
		out.AnalyzedAt = resp.Audit.TimestampUTC
	}
	return out
}

//Personal.AI order the ending
