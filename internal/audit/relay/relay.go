// Package relay streams committed audit entries from the transactional
// outbox to the compliance Kafka topic. The outbox lives in the same
// database as the trail, so the relay only ever sees entries whose entity
// mutation committed.
package relay

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	defaultPollInterval = 2 * time.Second
	batchSize           = 100
)

type Relay struct {
	db       *sql.DB
	client   *kgo.Client
	topic    string
	logger   *slog.Logger
	interval time.Duration
}

// New connects to the Kafka seed brokers and makes sure the compliance topic
// exists before the first poll.
func New(db *sql.DB, seeds []string, topic string, logger *slog.Logger) (*Relay, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(seeds...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}

	adm := kadm.NewClient(client)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	resps, err := adm.CreateTopics(ctx, 1, 1, nil, topic)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("create topic %q: %w", topic, err)
	}
	for _, resp := range resps {
		if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
			client.Close()
			return nil, fmt.Errorf("create topic %q: %w", topic, resp.Err)
		}
	}

	return &Relay{
		db:       db,
		client:   client,
		topic:    topic,
		logger:   logger,
		interval: defaultPollInterval,
	}, nil
}

// Run polls the outbox until the context is cancelled. Publish failures leave
// rows in place for the next tick; the relay is at-least-once and consumers
// dedupe on entry ID.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer r.client.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.publishBatch(ctx); err != nil {
				r.logger.WarnContext(ctx, "outbox publish failed", "error", err)
			}
		}
	}
}

func (r *Relay) publishBatch(ctx context.Context) error {
	const query = `
		SELECT id, payload FROM audit_outbox
		ORDER BY created_at ASC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, batchSize)
	if err != nil {
		return fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var (
		ids     []uuid.UUID
		records []*kgo.Record
	)
	for rows.Next() {
		var (
			rowID   uuid.UUID
			payload []byte
		)
		if err := rows.Scan(&rowID, &payload); err != nil {
			return fmt.Errorf("scan outbox row: %w", err)
		}
		ids = append(ids, rowID)
		records = append(records, &kgo.Record{Topic: r.topic, Value: payload})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate outbox: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	if err := r.client.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return fmt.Errorf("produce audit batch: %w", err)
	}

	published := make([]string, len(ids))
	for i, u := range ids {
		published[i] = u.String()
	}
	const del = `DELETE FROM audit_outbox WHERE id = ANY($1::uuid[])`
	if _, err := r.db.ExecContext(ctx, del, pq.Array(published)); err != nil {
		return fmt.Errorf("clear outbox: %w", err)
	}
	r.logger.DebugContext(ctx, "published audit batch", "count", len(records))
	return nil
}
