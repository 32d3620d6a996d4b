package entity

import (
	"time"

	"shopsight-gateway/internal/domain"
)

// MongoRequestLogDoc represents a question audit entry in MongoDB. The
// correlation id doubles as the document id.
type MongoRequestLogDoc struct {
	ID               string     `bson:"_id"`
	StoreDomain      string     `bson:"storeDomain"`
	Question         string     `bson:"question"`
	Context          string     `bson:"context,omitempty"`
	Answer           string     `bson:"answer,omitempty"`
	Confidence       string     `bson:"confidence,omitempty"`
	ProcessingTimeMs float64    `bson:"processingTimeMs,omitempty"`
	RequestIP        string     `bson:"requestIp,omitempty"`
	UserAgent        string     `bson:"userAgent,omitempty"`
	CreatedAt        time.Time  `bson:"createdAt"`
	RespondedAt      *time.Time `bson:"respondedAt,omitempty"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoRequestLogDoc) ToDomain() *domain.RequestLog {
	return &domain.RequestLog{
		ID:               d.ID,
		StoreDomain:      d.StoreDomain,
		Question:         d.Question,
		Context:          d.Context,
		Answer:           d.Answer,
		Confidence:       d.Confidence,
		ProcessingTimeMs: d.ProcessingTimeMs,
		RequestIP:        d.RequestIP,
		UserAgent:        d.UserAgent,
		CreatedAt:        d.CreatedAt,
		RespondedAt:      d.RespondedAt,
	}
}

// MongoRequestLogDocFromDomain converts a domain entity to a MongoDB document
func MongoRequestLogDocFromDomain(entry *domain.RequestLog) *MongoRequestLogDoc {
	return &MongoRequestLogDoc{
		ID:               entry.ID,
		StoreDomain:      entry.StoreDomain,
		Question:         entry.Question,
		Context:          entry.Context,
		Answer:           entry.Answer,
		Confidence:       entry.Confidence,
		ProcessingTimeMs: entry.ProcessingTimeMs,
		RequestIP:        entry.RequestIP,
		UserAgent:        entry.UserAgent,
		CreatedAt:        entry.CreatedAt,
		RespondedAt:      entry.RespondedAt,
	}
}
