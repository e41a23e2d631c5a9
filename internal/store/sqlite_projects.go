package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rfconstrucoes/obra/internal/types"
)

// ListProjects returns all projects, newest first.
func (s *SQLiteStore) ListProjects(ctx context.Context) ([]types.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, category, status, image_url, progress,
		       start_date, completion_date, gallery, video_url, created_at, updated_at
		FROM projects
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var projects []types.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}

	return projects, nil
}

// InsertProject stores a new project and returns it with its generated ID.
func (s *SQLiteStore) InsertProject(ctx context.Context, p types.Project) (*types.Project, error) {
	now := time.Now().UTC()
	p.ID = ulid.Make().String()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Gallery == nil {
		p.Gallery = []types.GalleryItem{}
	}

	galleryJSON, err := json.Marshal(p.Gallery)
	if err != nil {
		return nil, fmt.Errorf("marshal gallery: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO projects (id, title, description, category, status, image_url, progress,
		                      start_date, completion_date, gallery, video_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Title, p.Description, string(p.Category), string(p.Status), p.ImageURL, p.Progress,
		nullString(p.StartDate), nullString(p.CompletionDate), string(galleryJSON), nullString(p.VideoURL),
		p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}

	return &p, nil
}

// UpdateProject replaces the stored project matching p.ID.
func (s *SQLiteStore) UpdateProject(ctx context.Context, p types.Project) (*types.Project, error) {
	p.UpdatedAt = time.Now().UTC()
	if p.Gallery == nil {
		p.Gallery = []types.GalleryItem{}
	}

	galleryJSON, err := json.Marshal(p.Gallery)
	if err != nil {
		return nil, fmt.Errorf("marshal gallery: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE projects
		SET title = ?, description = ?, category = ?, status = ?, image_url = ?, progress = ?,
		    start_date = ?, completion_date = ?, gallery = ?, video_url = ?, updated_at = ?
		WHERE id = ?
	`, p.Title, p.Description, string(p.Category), string(p.Status), p.ImageURL, p.Progress,
		nullString(p.StartDate), nullString(p.CompletionDate), string(galleryJSON), nullString(p.VideoURL),
		p.UpdatedAt.Format(time.RFC3339), p.ID)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	// created_at is immutable and not part of the update; carry the
	// stored value forward so callers get the confirmed row back.
	var createdAt string
	if err := s.db.QueryRowContext(ctx, "SELECT created_at FROM projects WHERE id = ?", p.ID).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("read project created_at: %w", err)
	}
	p.CreatedAt = parseTime(createdAt)

	return &p, nil
}

// DeleteProject removes a project. Deleting an absent row is a no-op.
func (s *SQLiteStore) DeleteProject(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

// scanProject scans a row into a Project, handling gallery JSON and nullable columns.
func scanProject(scanner interface{ Scan(...any) error }) (*types.Project, error) {
	var p types.Project
	var category, status string
	var startDate, completionDate, videoURL sql.NullString
	var galleryJSON string
	var createdAt, updatedAt string

	err := scanner.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&category,
		&status,
		&p.ImageURL,
		&p.Progress,
		&startDate,
		&completionDate,
		&galleryJSON,
		&videoURL,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Category = types.ProjectCategory(category)
	p.Status = types.ProjectStatus(status)
	p.StartDate = startDate.String
	p.CompletionDate = completionDate.String
	p.VideoURL = videoURL.String

	p.Gallery = []types.GalleryItem{}
	if galleryJSON != "" {
		if err := json.Unmarshal([]byte(galleryJSON), &p.Gallery); err != nil {
			return nil, fmt.Errorf("parse gallery JSON: %w", err)
		}
	}

	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)

	return &p, nil
}

// nullString maps an empty string to NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
