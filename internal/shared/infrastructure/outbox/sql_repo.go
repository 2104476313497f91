package outbox

import (
	"context"
	"time"

	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/database"
)

const messageColumns = `id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
	payload, metadata, created_at, published_at, next_retry_at, retry_count,
	last_error, dead_lettered_at, dead_letter_reason`

// SQLRepository stores the outbox in PostgreSQL or SQLite.
// Queries are written with '?' placeholders and rebound per driver.
type SQLRepository struct {
	conn   database.Connection
	driver database.Driver
	now    func() time.Time
}

// NewSQLRepository creates an outbox repository on conn.
func NewSQLRepository(conn database.Connection) *SQLRepository {
	return &SQLRepository{
		conn:   conn,
		driver: conn.Driver(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *SQLRepository) exec(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// SaveBatch inserts msgs and sets their IDs. Without a transaction in ctx
// the batch still commits atomically in its own transaction.
func (r *SQLRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	if len(msgs) == 0 {
		return nil
	}
	if _, ok := database.TxInfoFromContext(ctx); ok {
		return r.insertAll(ctx, r.exec(ctx), msgs)
	}

	tx, err := r.conn.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := r.insertAll(ctx, tx, msgs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *SQLRepository) insertAll(ctx context.Context, exec database.Executor, msgs []*Message) error {
	query := r.driver.Rebind(`
		INSERT INTO outbox (
			event_id, aggregate_type, aggregate_id, event_type, routing_key,
			payload, metadata, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	for _, msg := range msgs {
		metadata := msg.Metadata
		if len(metadata) == 0 {
			metadata = []byte("{}")
		}
		err := exec.QueryRow(ctx, query,
			msg.EventID.String(),
			msg.AggregateType,
			msg.AggregateID,
			msg.EventType,
			msg.RoutingKey,
			string(msg.Payload),
			string(metadata),
			r.driver.Time(msg.CreatedAt),
		).Scan(&msg.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetUnpublished returns due, undelivered, non-dead messages oldest first.
func (r *SQLRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	query := r.driver.Rebind(`SELECT ` + messageColumns + `
		FROM outbox
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY created_at, id
		LIMIT ?`)

	return database.QueryAll(ctx, r.exec(ctx), scanMessage, query, r.driver.Time(r.now()), limit)
}

// MarkPublished records a successful publish.
func (r *SQLRepository) MarkPublished(ctx context.Context, id int64) error {
	query := r.driver.Rebind(`UPDATE outbox SET published_at = ?, dead_lettered_at = NULL WHERE id = ?`)
	_, err := r.exec(ctx).Exec(ctx, query, r.driver.Time(r.now()), id)
	return err
}

// MarkFailed bumps the retry count and schedules the next attempt.
func (r *SQLRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	query := r.driver.Rebind(`
		UPDATE outbox
		SET retry_count = retry_count + 1, last_error = ?, next_retry_at = ?
		WHERE id = ?`)
	_, err := r.exec(ctx).Exec(ctx, query, errMsg, r.driver.Time(nextRetryAt), id)
	return err
}

// MarkDead takes a message out of rotation.
func (r *SQLRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	query := r.driver.Rebind(`
		UPDATE outbox
		SET retry_count = retry_count + 1, last_error = ?, dead_lettered_at = ?, dead_letter_reason = ?
		WHERE id = ?`)
	_, err := r.exec(ctx).Exec(ctx, query, reason, r.driver.Time(r.now()), reason, id)
	return err
}

// DeleteOld removes messages published before the cutoff.
func (r *SQLRepository) DeleteOld(ctx context.Context, before time.Time) (int64, error) {
	query := r.driver.Rebind(`DELETE FROM outbox WHERE published_at IS NOT NULL AND published_at < ?`)
	result, err := r.exec(ctx).Exec(ctx, query, r.driver.Time(before))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Counts reports the pending and dead-lettered backlog.
func (r *SQLRepository) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := r.exec(ctx).QueryRow(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN published_at IS NULL AND dead_lettered_at IS NULL THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN dead_lettered_at IS NOT NULL THEN 1 ELSE 0 END), 0)
		FROM outbox`).Scan(&c.Pending, &c.Dead)
	return c, err
}

func scanMessage(row database.Row) (*Message, error) {
	var (
		m                           Message
		eventID                     string
		payload, metadata           []byte
		createdAt, publishedAt      database.NullTime
		nextRetryAt, deadLetteredAt database.NullTime
		lastError, deadLetterReason *string
	)
	err := row.Scan(
		&m.ID, &eventID, &m.AggregateType, &m.AggregateID, &m.EventType, &m.RoutingKey,
		&payload, &metadata, &createdAt, &publishedAt, &nextRetryAt, &m.RetryCount,
		&lastError, &deadLetteredAt, &deadLetterReason,
	)
	if err != nil {
		return nil, err
	}

	if err := m.EventID.UnmarshalText([]byte(eventID)); err != nil {
		return nil, err
	}
	m.Payload = payload
	m.Metadata = metadata
	m.CreatedAt = createdAt.Time
	m.PublishedAt = publishedAt.Ptr()
	m.NextRetryAt = nextRetryAt.Ptr()
	m.DeadLetteredAt = deadLetteredAt.Ptr()
	m.LastError = lastError
	m.DeadLetterReason = deadLetterReason
	return &m, nil
}
