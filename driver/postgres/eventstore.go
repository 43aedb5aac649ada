// Package postgres provides a durable EventStore backed by PostgreSQL.
//
// Events live in a domain_events table keyed by (aggregate_id, version) and a
// aggregate_versions table holds the per-aggregate checkpoint. An append
// re-reads the checkpoint, compares it against the expected version and
// writes the new events plus the updated checkpoint inside one transaction.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"

	"github.com/meridianbank/ledgercore"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Ensure that we satisfy the ledgercore.EventStore interface
var _ ledgercore.EventStore = &EventStore{}

// pqUniqueViolation is the postgres error code for unique_violation
const pqUniqueViolation = "23505"

// EventStore a postgres event store implementation
type EventStore struct {
	db       *sql.DB
	registry *ledgercore.PayloadRegistry
	logger   ledgercore.Logger
	metrics  ledgercore.Metrics
}

// NewEventStore returns a new postgres.EventStore
func NewEventStore(
	db *sql.DB,
	registry *ledgercore.PayloadRegistry,
	logger ledgercore.Logger,
	metrics ledgercore.Metrics,
) (*EventStore, error) {
	switch {
	case db == nil:
		return nil, ledgercore.InvalidArgumentError("db")
	case registry == nil:
		return nil, ledgercore.InvalidArgumentError("registry")
	}
	if logger == nil {
		logger = ledgercore.NopLogger
	}
	if metrics == nil {
		metrics = ledgercore.NopMetrics
	}

	return &EventStore{
		db:       db,
		registry: registry,
		logger:   logger,
		metrics:  metrics,
	}, nil
}

// Create creates the tables and indexes needed for the event store
func (e *EventStore) Create(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS domain_events (
			no BIGSERIAL PRIMARY KEY,
			event_id UUID NOT NULL UNIQUE,
			aggregate_id TEXT NOT NULL,
			event_name TEXT NOT NULL,
			payload JSONB NOT NULL,
			occurred_at TIMESTAMPTZ NOT NULL,
			version BIGINT NOT NULL,
			UNIQUE (aggregate_id, version)
		)`,
		`CREATE INDEX IF NOT EXISTS domain_events_name_idx ON domain_events (event_name)`,
		`CREATE INDEX IF NOT EXISTS domain_events_payload_idx ON domain_events USING GIN (payload jsonb_path_ops)`,
		`CREATE TABLE IF NOT EXISTS aggregate_versions (
			aggregate_id TEXT PRIMARY KEY,
			version BIGINT NOT NULL
		)`,
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	for _, query := range queries {
		if _, err := tx.ExecContext(ctx, query); err != nil {
			if errRollback := tx.Rollback(); errRollback != nil {
				e.logger.WithError(errRollback).WithField("query", query).Error("could not rollback transaction")
			}

			return err
		}
	}

	return tx.Commit()
}

// ReadStream returns all events for the aggregate ordered by ascending version
func (e *EventStore) ReadStream(ctx context.Context, aggregateID string) ([]ledgercore.DomainEvent, error) {
	rows, err := e.db.QueryContext(
		ctx,
		`SELECT event_id, event_name, payload, occurred_at, version
		 FROM domain_events
		 WHERE aggregate_id = $1
		 ORDER BY version ASC`,
		aggregateID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []ledgercore.DomainEvent
	for rows.Next() {
		var (
			rawEventID string
			eventName  string
			rawPayload []byte
			occurredAt time.Time
			version    int
		)
		if err := rows.Scan(&rawEventID, &eventName, &rawPayload, &occurredAt, &version); err != nil {
			return nil, err
		}

		eventID, err := uuid.Parse(rawEventID)
		if err != nil {
			return nil, err
		}

		payload, err := e.registry.CreatePayload(eventName)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(rawPayload, payload); err != nil {
			return nil, err
		}

		events = append(events, ledgercore.DomainEvent{
			EventID:     eventID,
			AggregateID: aggregateID,
			EventName:   eventName,
			Payload:     payload,
			OccurredAt:  occurredAt,
			Version:     version,
		})
	}

	return events, rows.Err()
}

// AppendToStream writes the events and the updated checkpoint in one
// transaction, failing with a *ledgercore.ConcurrencyError when the
// checkpoint does not match expectedVersion.
//
// Two appends racing to create the same stream both read an absent
// checkpoint, so the loser is caught by the unique constraint on
// (aggregate_id, version) in domain_events instead of the version
// comparison; the resulting unique_violation is reported as a concurrency
// conflict as well.
func (e *EventStore) AppendToStream(
	ctx context.Context,
	aggregateID string,
	events []ledgercore.DomainEvent,
	expectedVersion int,
) error {
	if len(events) == 0 {
		return nil
	}

	start := time.Now()

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := e.appendInTx(ctx, tx, aggregateID, events, expectedVersion); err != nil {
		if errRollback := tx.Rollback(); errRollback != nil {
			e.logger.WithError(errRollback).WithField("aggregate_id", aggregateID).Error("could not rollback transaction")
		}

		return concurrencyFromUniqueViolation(err, aggregateID, expectedVersion)
	}

	if err := tx.Commit(); err != nil {
		return concurrencyFromUniqueViolation(err, aggregateID, expectedVersion)
	}

	for _, event := range events {
		e.metrics.EventAppended(event.EventName)
	}
	e.metrics.AppendDuration(time.Since(start))

	e.logger.
		WithField("aggregate_id", aggregateID).
		WithField("count", len(events)).
		WithField("version", expectedVersion+len(events)).
		Debug("appended events to stream")

	return nil
}

func (e *EventStore) appendInTx(
	ctx context.Context,
	tx *sql.Tx,
	aggregateID string,
	events []ledgercore.DomainEvent,
	expectedVersion int,
) error {
	currentVersion := ledgercore.VersionNotPersisted
	err := tx.QueryRowContext(
		ctx,
		`SELECT version FROM aggregate_versions WHERE aggregate_id = $1 FOR UPDATE`,
		aggregateID,
	).Scan(&currentVersion)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	if currentVersion != expectedVersion {
		return &ledgercore.ConcurrencyError{
			AggregateID:     aggregateID,
			ExpectedVersion: expectedVersion,
			ActualVersion:   currentVersion,
		}
	}

	version := expectedVersion
	for _, event := range events {
		version++

		payload, err := json.Marshal(event.Payload)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO domain_events (event_id, aggregate_id, event_name, payload, occurred_at, version)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			event.EventID.String(),
			aggregateID,
			event.EventName,
			payload,
			event.OccurredAt,
			version,
		); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO aggregate_versions (aggregate_id, version) VALUES ($1, $2)
		 ON CONFLICT (aggregate_id) DO UPDATE SET version = EXCLUDED.version`,
		aggregateID,
		version,
	)

	return err
}

// LookupAggregateIDs returns the ids of aggregates whose event of the given
// name carries payloadField equal to value
func (e *EventStore) LookupAggregateIDs(ctx context.Context, eventName, payloadField, value string) ([]string, error) {
	rows, err := e.db.QueryContext(
		ctx,
		`SELECT DISTINCT aggregate_id FROM domain_events WHERE event_name = $1 AND payload->>$2 = $3`,
		eventName,
		payloadField,
		value,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var aggregateIDs []string
	for rows.Next() {
		var aggregateID string
		if err := rows.Scan(&aggregateID); err != nil {
			return nil, err
		}

		aggregateIDs = append(aggregateIDs, aggregateID)
	}

	return aggregateIDs, rows.Err()
}

func concurrencyFromUniqueViolation(err error, aggregateID string, expectedVersion int) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		// The aborted transaction cannot re-read the checkpoint; the racing
		// writer is at least one version ahead of what we expected.
		return &ledgercore.ConcurrencyError{
			AggregateID:     aggregateID,
			ExpectedVersion: expectedVersion,
			ActualVersion:   expectedVersion + 1,
		}
	}

	return err
}
