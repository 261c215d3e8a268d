package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/dispatch_coordination_system/internal/models"
	"github.com/shenikar/dispatch_coordination_system/internal/service"
)

const incidentColumns = `
			id,
			title,
			description,
			ST_Y(location::geometry) as latitude,
			ST_X(location::geometry) as longitude,
			status,
			severity,
			notified_authorities,
			created_at,
			updated_at`

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client, cacheTTL time.Duration) service.IncidentRepository {
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIncident(row rowScanner) (*models.Incident, error) {
	incident := &models.Incident{}
	var notified []string
	err := row.Scan(
		&incident.ID,
		&incident.Title,
		&incident.Description,
		&incident.Coordinate.Latitude,
		&incident.Coordinate.Longitude,
		&incident.Status,
		&incident.Severity,
		&notified,
		&incident.CreatedAt,
		&incident.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	incident.NotifiedAuthorities = make([]models.AuthorityID, 0, len(notified))
	for _, id := range notified {
		incident.NotifiedAuthorities = append(incident.NotifiedAuthorities, models.AuthorityID(id))
	}
	return incident, nil
}

func authorityStrings(ids []models.AuthorityID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// GetByID возвращает инцидент по его UUID вместе с журналом заметок
func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := `SELECT` + incidentColumns + `
		FROM incidents
		WHERE id = $1;
	`
	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}

	notes, err := r.listNotes(ctx, id)
	if err != nil {
		return nil, err
	}
	incident.Notes = notes
	return incident, nil
}

func (r *IncidentRepository) listNotes(ctx context.Context, id uuid.UUID) ([]models.Note, error) {
	query := `
		SELECT author, text, created_at
		FROM incident_notes
		WHERE incident_id = $1
		ORDER BY created_at, id;
	`
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list incident notes: %w", err)
	}
	defer rows.Close()

	notes := make([]models.Note, 0)
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(&note.Author, &note.Text, &note.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan incident note row: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error notes iteration: %w", err)
	}
	return notes, nil
}

// ListIncidents возвращает список инцидентов с фильтром и пагинацией
func (r *IncidentRepository) ListIncidents(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error) {
	// рассчитываем смещение
	offset := (filter.Page - 1) * filter.PageSize

	var (
		conditions []string
		args       []any
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Severity != "" {
		args = append(args, string(filter.Severity))
		conditions = append(conditions, fmt.Sprintf("severity = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, filter.PageSize, offset)

	query := fmt.Sprintf(`SELECT`+incidentColumns+`
		FROM incidents
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d;
	`, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}

// UpdateStatus атомарно применяет изменение статуса: блокирует строку, проверяет,
// что инцидент не закрыт, объединяет множество оповещенных служб и дописывает заметку.
// Метки времени ставит база, чтобы все экземпляры сервиса работали по одним часам.
func (r *IncidentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, change models.StatusChange) (*models.Incident, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current models.Status
	err = tx.QueryRow(ctx, `SELECT status FROM incidents WHERE id = $1 FOR UPDATE;`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s not found for update: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock incident: %w", err)
	}
	if current.IsTerminal() {
		return nil, fmt.Errorf("incident %s is %s: %w", id, current, models.ErrInvalidTransition)
	}

	query := `
		UPDATE incidents SET
			status = $1,
			severity = $2,
			notified_authorities = (
				SELECT COALESCE(array_agg(a ORDER BY ord), '{}')
				FROM (
					SELECT a, MIN(ord) AS ord
					FROM unnest(notified_authorities || $3::text[]) WITH ORDINALITY AS t(a, ord)
					GROUP BY a
				) merged
			),
			updated_at = NOW()
		WHERE id = $4;
	`
	if _, err := tx.Exec(ctx, query,
		string(change.Status),
		string(change.Severity),
		authorityStrings(change.NotifiedAuthorities),
		id,
	); err != nil {
		return nil, fmt.Errorf("failed to update incident status: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO incident_notes (incident_id, author, text, created_at)
		VALUES ($1, $2, $3, NOW());
	`, id, change.Note.Author, change.Note.Text); err != nil {
		return nil, fmt.Errorf("failed to append incident note: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit status update: %w", err)
	}

	return r.GetByID(ctx, id)
}

func cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("incident:%s", id.String())
}

// GetIncidentFromCache пытается получить инцидент из Redis
func (r *IncidentRepository) GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	val, err := r.redisClient.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// SetIncidentCache сохраняет инцидент в Redis
func (r *IncidentRepository) SetIncidentCache(ctx context.Context, incident *models.Incident) error {
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, cacheKey(incident.ID), val, r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// InvalidateIncidentCache удаляет инцидент из Redis кэша
func (r *IncidentRepository) InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error {
	if err := r.redisClient.Del(ctx, cacheKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}
