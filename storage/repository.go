// Package storage keeps a content repository in a local sqlite database so
// the editor can run without a remote API.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"draftui/config"
	"draftui/repository"
)

// LocalRepository implements repository.Client on top of sqlite. Responses
// are rendered as the same documents the REST API answers with.
type LocalRepository struct {
	db *sql.DB
}

var _ repository.Client = (*LocalRepository)(nil)

// NewLocalRepository opens (or creates) repository.db in dataDir.
func NewLocalRepository(dataDir string) (*LocalRepository, error) {
	dbPath := filepath.Join(dataDir, "repository.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := &LocalRepository{db: db}

	if err := repo.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return repo, nil
}

func (r *LocalRepository) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS content_types (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		identifier TEXT NOT NULL UNIQUE,
		names TEXT NOT NULL,
		field_definitions TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS contents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		remote_id TEXT NOT NULL,
		name TEXT NOT NULL,
		content_type TEXT NOT NULL,
		main_language TEXT NOT NULL,
		main_location_id INTEGER NOT NULL DEFAULT 0,
		current_version_no INTEGER NOT NULL DEFAULT 0,
		published INTEGER NOT NULL DEFAULT 0,
		modified DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS versions (
		content_id INTEGER NOT NULL,
		version_no INTEGER NOT NULL,
		status TEXT NOT NULL,
		language_codes TEXT NOT NULL,
		fields TEXT NOT NULL,
		modified DATETIME NOT NULL,
		PRIMARY KEY (content_id, version_no)
	);
	CREATE TABLE IF NOT EXISTS locations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		parent_id INTEGER NOT NULL,
		content_id INTEGER NOT NULL,
		path_string TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_contents_name ON contents(name);
	`

	if _, err := r.db.Exec(schema); err != nil {
		return err
	}

	if err := r.migrateSchema(); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}

	return nil
}

// migrateSchema adds columns introduced after the first release.
func (r *LocalRepository) migrateSchema() error {
	hasPublished, err := r.columnExists("contents", "published")
	if err != nil {
		return fmt.Errorf("failed to check for published column: %w", err)
	}

	if !hasPublished {
		if _, err := r.db.Exec(`ALTER TABLE contents ADD COLUMN published INTEGER NOT NULL DEFAULT 0`); err != nil {
			return fmt.Errorf("failed to add published column: %w", err)
		}
	}

	return nil
}

// columnExists checks if a column exists in a table using PRAGMA table_info
func (r *LocalRepository) columnExists(tableName, columnName string) (bool, error) {
	rows, err := r.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", tableName))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name string
		var dataType string
		var notNull int
		var defaultValue interface{}
		var pk int

		if err := rows.Scan(&cid, &name, &dataType, &notNull, &defaultValue, &pk); err != nil {
			return false, err
		}

		if name == columnName {
			return true, nil
		}
	}

	return false, rows.Err()
}

// Close closes the database.
func (r *LocalRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks the database answers.
func (r *LocalRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// SaveContentType inserts or replaces a content type by identifier and sets
// its id.
func (r *LocalRepository) SaveContentType(ctx context.Context, ct *repository.ContentType) error {
	names, err := json.Marshal(ct.Names)
	if err != nil {
		return fmt.Errorf("failed to marshal names: %w", err)
	}
	defs, err := json.Marshal(ct.FieldDefinitions)
	if err != nil {
		return fmt.Errorf("failed to marshal field definitions: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
	INSERT INTO content_types (identifier, names, field_definitions) VALUES (?, ?, ?)
	ON CONFLICT(identifier) DO UPDATE SET names = excluded.names, field_definitions = excluded.field_definitions
	`, ct.Identifier, string(names), string(defs))
	if err != nil {
		return fmt.Errorf("failed to save content type: %w", err)
	}

	return r.db.QueryRowContext(ctx, `SELECT id FROM content_types WHERE identifier = ?`, ct.Identifier).Scan(&ct.ID)
}

func (r *LocalRepository) LoadContentType(ctx context.Context, identifier string) (*repository.ContentType, error) {
	var ct repository.ContentType
	var names, defs string

	err := r.db.QueryRowContext(ctx, `
	SELECT id, identifier, names, field_definitions FROM content_types WHERE identifier = ?
	`, identifier).Scan(&ct.ID, &ct.Identifier, &names, &defs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("content type %q: %w", identifier, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load content type: %w", err)
	}

	if err := json.Unmarshal([]byte(names), &ct.Names); err != nil {
		return nil, fmt.Errorf("failed to unmarshal names: %w", err)
	}
	if err := json.Unmarshal([]byte(defs), &ct.FieldDefinitions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal field definitions: %w", err)
	}

	return &ct, nil
}

// CreateLocation places a content under parentID, or at the root when
// parentID is 0.
func (r *LocalRepository) CreateLocation(ctx context.Context, parentID, contentID int) (*repository.Location, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	loc, err := createLocation(ctx, tx, parentID, contentID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit location: %w", err)
	}
	return loc, nil
}

func createLocation(ctx context.Context, tx *sql.Tx, parentID, contentID int) (*repository.Location, error) {
	parentPath := "/"
	if parentID != 0 {
		if err := tx.QueryRowContext(ctx, `SELECT path_string FROM locations WHERE id = ?`, parentID).Scan(&parentPath); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("parent location %d: %w", parentID, repository.ErrNotFound)
			}
			return nil, fmt.Errorf("failed to load parent location: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO locations (parent_id, content_id, path_string) VALUES (?, ?, '')`, parentID, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert location: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	loc := &repository.Location{
		ID:         int(id),
		ParentID:   parentID,
		ContentID:  contentID,
		PathString: fmt.Sprintf("%s%d/", parentPath, id),
	}
	if _, err := tx.ExecContext(ctx, `UPDATE locations SET path_string = ? WHERE id = ?`, loc.PathString, loc.ID); err != nil {
		return nil, fmt.Errorf("failed to set location path: %w", err)
	}
	return loc, nil
}

func (r *LocalRepository) LoadLocation(ctx context.Context, id int) (*repository.Location, error) {
	var loc repository.Location
	err := r.db.QueryRowContext(ctx, `
	SELECT id, parent_id, content_id, path_string FROM locations WHERE id = ?
	`, id).Scan(&loc.ID, &loc.ParentID, &loc.ContentID, &loc.PathString)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("location %d: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load location: %w", err)
	}
	return &loc, nil
}

// CreateContent stores a new content with a first draft version and a
// location under the parent.
func (r *LocalRepository) CreateContent(ctx context.Context, params repository.CreateContentParams) (*repository.Response, error) {
	if params.ContentType == nil || params.ParentLocation == nil {
		return nil, fmt.Errorf("content type and parent location are required")
	}

	fields, err := fieldsFromInput(params.Fields, params.ContentType, params.LanguageCode)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	content := repository.Content{
		RemoteID:              uuid.New().String(),
		Name:                  contentName(fields, params.ContentType.Identifier),
		ContentTypeIdentifier: params.ContentType.Identifier,
		MainLanguageCode:      params.LanguageCode,
		CurrentVersionNo:      1,
		Modified:              now,
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
	INSERT INTO contents (remote_id, name, content_type, main_language, current_version_no, published, modified)
	VALUES (?, ?, ?, ?, ?, 0, ?)
	`, content.RemoteID, content.Name, content.ContentTypeIdentifier, content.MainLanguageCode, content.CurrentVersionNo, content.Modified)
	if err != nil {
		return nil, fmt.Errorf("failed to insert content: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	content.ID = int(id)

	loc, err := createLocation(ctx, tx, params.ParentLocation.ID, content.ID)
	if err != nil {
		return nil, err
	}
	content.MainLocationID = loc.ID
	if _, err := tx.ExecContext(ctx, `UPDATE contents SET main_location_id = ? WHERE id = ?`, loc.ID, content.ID); err != nil {
		return nil, fmt.Errorf("failed to set main location: %w", err)
	}

	version := repository.Version{
		ContentID:     content.ID,
		VersionNo:     1,
		Status:        repository.VersionStatusDraft,
		LanguageCodes: []string{params.LanguageCode},
		Fields:        fields,
		Modified:      now,
	}
	if err := insertVersion(ctx, tx, version); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit content: %w", err)
	}

	if config.DebugLog != nil {
		config.DebugLog.Debug().Str("component", "LocalRepository").Int("contentId", content.ID).Msg("content created")
	}

	doc, err := repository.ContentDocument(content, &version)
	if err != nil {
		return nil, fmt.Errorf("failed to render content: %w", err)
	}
	return &repository.Response{Status: http.StatusCreated, Document: doc}, nil
}

// SaveVersion merges the submitted fields into a draft. A VersionNo of 0
// copies the current version into a new draft first.
func (r *LocalRepository) SaveVersion(ctx context.Context, params repository.SaveVersionParams) (*repository.Response, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	content, err := loadContent(ctx, tx, params.ContentID)
	if err != nil {
		return nil, err
	}

	versionNo := params.VersionNo
	if versionNo == 0 {
		versionNo = content.CurrentVersionNo
	}
	version, err := loadVersion(ctx, tx, params.ContentID, versionNo)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	if params.VersionNo == 0 || version.Status != repository.VersionStatusDraft {
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version_no), 0) + 1 FROM versions WHERE content_id = ?`, params.ContentID).Scan(&version.VersionNo); err != nil {
			return nil, fmt.Errorf("failed to allocate version number: %w", err)
		}
		version.Status = repository.VersionStatusDraft
		version.Modified = now
		if err := insertVersion(ctx, tx, *version); err != nil {
			return nil, err
		}
	}

	updates, err := fieldsFromInput(params.Fields, nil, params.LanguageCode)
	if err != nil {
		return nil, err
	}
	version.Fields = mergeFields(version.Fields, updates)
	if !containsString(version.LanguageCodes, params.LanguageCode) && params.LanguageCode != "" {
		version.LanguageCodes = append(version.LanguageCodes, params.LanguageCode)
	}
	version.Modified = now

	if err := updateVersion(ctx, tx, *version); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE contents SET modified = ? WHERE id = ?`, now, params.ContentID); err != nil {
		return nil, fmt.Errorf("failed to touch content: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit version: %w", err)
	}

	doc, err := repository.VersionDocument(*version)
	if err != nil {
		return nil, fmt.Errorf("failed to render version: %w", err)
	}
	return &repository.Response{Status: http.StatusOK, Document: doc}, nil
}

// Publish marks a version as the published current version of its content.
func (r *LocalRepository) Publish(ctx context.Context, contentID, versionNo int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := loadVersion(ctx, tx, contentID, versionNo); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE versions SET status = ? WHERE content_id = ? AND status = ?`,
		repository.VersionStatusArchived, contentID, repository.VersionStatusPublished); err != nil {
		return fmt.Errorf("failed to archive previous version: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE versions SET status = ? WHERE content_id = ? AND version_no = ?`,
		repository.VersionStatusPublished, contentID, versionNo); err != nil {
		return fmt.Errorf("failed to publish version: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE contents SET current_version_no = ?, published = 1, modified = ? WHERE id = ?`,
		versionNo, time.Now().UTC().Truncate(time.Second), contentID); err != nil {
		return fmt.Errorf("failed to update content: %w", err)
	}

	return tx.Commit()
}

func (r *LocalRepository) LoadContent(ctx context.Context, id int) (*repository.Content, error) {
	return loadContent(ctx, r.db, id)
}

func (r *LocalRepository) LoadVersion(ctx context.Context, contentID, versionNo int) (*repository.Version, error) {
	return loadVersion(ctx, r.db, contentID, versionNo)
}

// LoadContents returns the existing contents among ids, in the order of ids.
func (r *LocalRepository) LoadContents(ctx context.Context, ids []int) ([]repository.Content, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	found, err := queryContents(ctx, r.db, `WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]repository.Content, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}
	out := make([]repository.Content, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// Search lists contents whose name contains query, most recently modified
// first.
func (r *LocalRepository) Search(ctx context.Context, query string, limit int) ([]repository.Content, error) {
	if limit <= 0 {
		limit = 25
	}
	pattern := "%" + strings.ToLower(query) + "%"
	return queryContents(ctx, r.db, `WHERE LOWER(name) LIKE ? ORDER BY modified DESC, id DESC LIMIT ?`, pattern, limit)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const contentColumns = `SELECT id, remote_id, name, content_type, main_language, main_location_id, current_version_no, published, modified FROM contents `

func scanContent(scan func(dest ...any) error) (repository.Content, error) {
	var c repository.Content
	err := scan(
		&c.ID,
		&c.RemoteID,
		&c.Name,
		&c.ContentTypeIdentifier,
		&c.MainLanguageCode,
		&c.MainLocationID,
		&c.CurrentVersionNo,
		&c.Published,
		&c.Modified,
	)
	return c, err
}

func loadContent(ctx context.Context, q querier, id int) (*repository.Content, error) {
	c, err := scanContent(q.QueryRowContext(ctx, contentColumns+`WHERE id = ?`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("content %d: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	return &c, nil
}

func queryContents(ctx context.Context, q querier, where string, args ...any) ([]repository.Content, error) {
	rows, err := q.QueryContext(ctx, contentColumns+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contents: %w", err)
	}
	defer rows.Close()

	var contents []repository.Content
	for rows.Next() {
		c, err := scanContent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content: %w", err)
		}
		contents = append(contents, c)
	}
	return contents, rows.Err()
}

func loadVersion(ctx context.Context, q querier, contentID, versionNo int) (*repository.Version, error) {
	var v repository.Version
	var langs, fields string

	err := q.QueryRowContext(ctx, `
	SELECT content_id, version_no, status, language_codes, fields, modified
	FROM versions WHERE content_id = ? AND version_no = ?
	`, contentID, versionNo).Scan(&v.ContentID, &v.VersionNo, &v.Status, &langs, &fields, &v.Modified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("version %d of content %d: %w", versionNo, contentID, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load version: %w", err)
	}

	if langs != "" {
		v.LanguageCodes = strings.Split(langs, ",")
	}
	if err := json.Unmarshal([]byte(fields), &v.Fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fields: %w", err)
	}
	v.Href = repository.VersionHref(v.ContentID, v.VersionNo)
	return &v, nil
}

func insertVersion(ctx context.Context, tx *sql.Tx, v repository.Version) error {
	fields, err := json.Marshal(v.Fields)
	if err != nil {
		return fmt.Errorf("failed to marshal fields: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
	INSERT INTO versions (content_id, version_no, status, language_codes, fields, modified)
	VALUES (?, ?, ?, ?, ?, ?)
	`, v.ContentID, v.VersionNo, v.Status, strings.Join(v.LanguageCodes, ","), string(fields), v.Modified)
	if err != nil {
		return fmt.Errorf("failed to insert version: %w", err)
	}
	return nil
}

func updateVersion(ctx context.Context, tx *sql.Tx, v repository.Version) error {
	fields, err := json.Marshal(v.Fields)
	if err != nil {
		return fmt.Errorf("failed to marshal fields: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
	UPDATE versions SET status = ?, language_codes = ?, fields = ?, modified = ?
	WHERE content_id = ? AND version_no = ?
	`, v.Status, strings.Join(v.LanguageCodes, ","), string(fields), v.Modified, v.ContentID, v.VersionNo)
	if err != nil {
		return fmt.Errorf("failed to update version: %w", err)
	}
	return nil
}

func fieldsFromInput(inputs []repository.FieldInput, ct *repository.ContentType, languageCode string) ([]repository.Field, error) {
	fields := make([]repository.Field, 0, len(inputs))
	for _, in := range inputs {
		raw, err := json.Marshal(in.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal field %s: %w", in.FieldDefinitionIdentifier, err)
		}
		lang := in.LanguageCode
		if lang == "" {
			lang = languageCode
		}
		field := repository.Field{
			FieldDefinitionIdentifier: in.FieldDefinitionIdentifier,
			LanguageCode:              lang,
			Value:                     raw,
		}
		if ct != nil {
			for _, def := range ct.FieldDefinitions {
				if def.Identifier == in.FieldDefinitionIdentifier {
					field.FieldTypeIdentifier = def.FieldTypeIdentifier
				}
			}
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// mergeFields replaces the values of existing fields and appends unknown
// ones.
func mergeFields(existing, updates []repository.Field) []repository.Field {
	merged := append([]repository.Field(nil), existing...)
	for _, u := range updates {
		replaced := false
		for i := range merged {
			if merged[i].FieldDefinitionIdentifier == u.FieldDefinitionIdentifier {
				merged[i].Value = u.Value
				merged[i].LanguageCode = u.LanguageCode
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, u)
		}
	}
	return merged
}

func contentName(fields []repository.Field, fallback string) string {
	for _, id := range []string{"title", "name"} {
		for _, f := range fields {
			if f.FieldDefinitionIdentifier != id {
				continue
			}
			var s string
			if err := json.Unmarshal(f.Value, &s); err == nil && s != "" {
				return s
			}
		}
	}
	return fallback
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
