package service

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Grade event subjects published to NATS.
const (
	SubjectGradeUpdated    = "lumora.grades.updated"
	SubjectRegradeFinished = "lumora.grades.regraded"
)

// GradeEvent is the payload broadcast when an effective score changes.
type GradeEvent struct {
	GradeID        uint      `json:"grade_id"`
	UserID         uint      `json:"user_id"`
	QuestionID     uint      `json:"question_id"`
	EffectiveScore float64   `json:"effective_score"`
	CreditReason   string    `json:"credit_reason"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// RegradeEvent is the payload broadcast when a topic regrade finishes.
type RegradeEvent struct {
	TopicID       uint      `json:"topic_id"`
	GradesVisited int       `json:"grades_visited"`
	GradesChanged int       `json:"grades_changed"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// GradeEventPublisher broadcasts grading events to interested consumers.
// Publishing is best effort; failures are logged and never fail the grading
// transaction that triggered them.
type GradeEventPublisher interface {
	PublishGradeUpdated(event GradeEvent)
	PublishRegradeFinished(event RegradeEvent)
}

type natsGradeEventPublisher struct {
	conn   *nats.Conn
	logger zerolog.Logger
}

// NewGradeEventPublisher constructs a NATS-backed publisher. A nil
// connection yields a publisher that drops events, which keeps single-node
// deployments working without a broker.
func NewGradeEventPublisher(conn *nats.Conn, logger zerolog.Logger) GradeEventPublisher {
	return &natsGradeEventPublisher{
		conn:   conn,
		logger: logger.With().Str("component", "grade_events").Logger(),
	}
}

func (p *natsGradeEventPublisher) PublishGradeUpdated(event GradeEvent) {
	p.publish(SubjectGradeUpdated, event)
}

func (p *natsGradeEventPublisher) PublishRegradeFinished(event RegradeEvent) {
	p.publish(SubjectRegradeFinished, event)
}

func (p *natsGradeEventPublisher) publish(subject string, event interface{}) {
	if p.conn == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Str("subject", subject).Msg("failed to encode grade event")
		return
	}

	if err := p.conn.Publish(subject, payload); err != nil {
		p.logger.Warn().Err(err).Str("subject", subject).Msg("failed to publish grade event")
	}
}
