package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/hszk-dev/mediamind/internal/domain/model"
	"github.com/hszk-dev/mediamind/internal/domain/repository"
	"github.com/hszk-dev/mediamind/internal/infrastructure/metrics"
)

// subRecordTables are cleared and rewritten on every upsert.
var subRecordTables = []string{"links", "work_experiences", "educations", "media", "code_snippets"}

// ProfileRepository implements repository.ProfileRepository using PostgreSQL.
type ProfileRepository struct {
	db TxBeginner
}

// NewProfileRepository creates a new ProfileRepository instance.
func NewProfileRepository(db TxBeginner) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Upsert writes the profile row and replaces all sub-records in one transaction.
// Sub-records without an ID are assigned one.
func (r *ProfileRepository) Upsert(ctx context.Context, p *model.Profile) (bool, error) {
	const upsertQuery = `
		INSERT INTO profiles (id, user_id, first_name, last_name, bio, elevator_pitch, business_email, phone_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			bio = EXCLUDED.bio,
			elevator_pitch = EXCLUDED.elevator_pitch,
			business_email = EXCLUDED.business_email,
			phone_number = EXCLUDED.phone_number
		RETURNING id, (xmax = 0) AS created
	`

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// no-op after a successful commit
		_ = tx.Rollback(ctx)
	}()

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryInsert, metrics.TableProfiles).Inc()
	var (
		profileID uuid.UUID
		created   bool
	)
	err = tx.QueryRow(ctx, upsertQuery,
		uuid.New(),
		p.UserID,
		p.FirstName,
		p.LastName,
		p.Bio,
		p.ElevatorPitch,
		p.BusinessEmail,
		p.PhoneNumber,
	).Scan(&profileID, &created)
	if err != nil {
		return false, fmt.Errorf("failed to upsert profile: %w", err)
	}

	if !created {
		for _, table := range subRecordTables {
			if _, err := tx.Exec(ctx, "DELETE FROM "+table+" WHERE profile_id = $1", profileID); err != nil {
				return false, fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
	}

	if err := insertSubRecords(ctx, tx, profileID, p); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit profile: %w", err)
	}

	p.ID = profileID
	return created, nil
}

func insertSubRecords(ctx context.Context, tx pgx.Tx, profileID uuid.UUID, p *model.Profile) error {
	for i := range p.Links {
		l := &p.Links[i]
		l.ID = ensureID(l.ID)
		if _, err := tx.Exec(ctx,
			`INSERT INTO links (id, profile_id, link_type, url) VALUES ($1, $2, $3, $4)`,
			l.ID, profileID, l.LinkType, l.URL,
		); err != nil {
			return fmt.Errorf("failed to insert link: %w", err)
		}
	}

	for i := range p.WorkExperiences {
		w := &p.WorkExperiences[i]
		w.ID = ensureID(w.ID)
		if _, err := tx.Exec(ctx,
			`INSERT INTO work_experiences (id, profile_id, company_name, role, start_date, end_date, description) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			w.ID, profileID, w.CompanyName, w.Role, w.StartDate, w.EndDate, w.Description,
		); err != nil {
			return fmt.Errorf("failed to insert work experience: %w", err)
		}
	}

	for i := range p.Educations {
		e := &p.Educations[i]
		e.ID = ensureID(e.ID)
		if _, err := tx.Exec(ctx,
			`INSERT INTO educations (id, profile_id, institution_name, degree, field_of_study, start_date, end_date, description) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			e.ID, profileID, e.InstitutionName, e.Degree, e.FieldOfStudy, e.StartDate, e.EndDate, e.Description,
		); err != nil {
			return fmt.Errorf("failed to insert education: %w", err)
		}
	}

	for i := range p.Media {
		m := &p.Media[i]
		m.ID = ensureID(m.ID)
		if _, err := tx.Exec(ctx,
			`INSERT INTO media (id, profile_id, media_type, url, title, description) VALUES ($1, $2, $3, $4, $5, $6)`,
			m.ID, profileID, m.MediaType, m.URL, m.Title, m.Description,
		); err != nil {
			return fmt.Errorf("failed to insert media: %w", err)
		}
	}

	for i := range p.CodeSnippets {
		s := &p.CodeSnippets[i]
		s.ID = ensureID(s.ID)
		if _, err := tx.Exec(ctx,
			`INSERT INTO code_snippets (id, profile_id, title, code, language) VALUES ($1, $2, $3, $4, $5)`,
			s.ID, profileID, s.Title, s.Code, s.Language,
		); err != nil {
			return fmt.Errorf("failed to insert code snippet: %w", err)
		}
	}

	return nil
}

// GetByUserID loads the profile row, then its sub-records concurrently.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	const query = `
		SELECT id, user_id, first_name, last_name, bio, elevator_pitch, business_email, phone_number,
			profile_picture_key, profile_picture_content_type
		FROM profiles
		WHERE user_id = $1
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableProfiles).Inc()
	var p model.Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.FirstName,
		&p.LastName,
		&p.Bio,
		&p.ElevatorPitch,
		&p.BusinessEmail,
		&p.PhoneNumber,
		&p.PictureKey,
		&p.PictureContentType,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		links, err := querySubRecords(gctx, r.db,
			`SELECT id, link_type, url FROM links WHERE profile_id = $1`, p.ID,
			func(row pgx.Rows) (model.Link, error) {
				var l model.Link
				err := row.Scan(&l.ID, &l.LinkType, &l.URL)
				return l, err
			})
		p.Links = links
		return err
	})

	g.Go(func() error {
		exps, err := querySubRecords(gctx, r.db,
			`SELECT id, company_name, role, start_date, end_date, description FROM work_experiences WHERE profile_id = $1 ORDER BY start_date DESC`, p.ID,
			func(row pgx.Rows) (model.WorkExperience, error) {
				var w model.WorkExperience
				err := row.Scan(&w.ID, &w.CompanyName, &w.Role, &w.StartDate, &w.EndDate, &w.Description)
				return w, err
			})
		p.WorkExperiences = exps
		return err
	})

	g.Go(func() error {
		edus, err := querySubRecords(gctx, r.db,
			`SELECT id, institution_name, degree, field_of_study, start_date, end_date, description FROM educations WHERE profile_id = $1 ORDER BY start_date DESC`, p.ID,
			func(row pgx.Rows) (model.Education, error) {
				var e model.Education
				err := row.Scan(&e.ID, &e.InstitutionName, &e.Degree, &e.FieldOfStudy, &e.StartDate, &e.EndDate, &e.Description)
				return e, err
			})
		p.Educations = edus
		return err
	})

	g.Go(func() error {
		media, err := querySubRecords(gctx, r.db,
			`SELECT id, media_type, url, title, description FROM media WHERE profile_id = $1`, p.ID,
			func(row pgx.Rows) (model.Media, error) {
				var m model.Media
				err := row.Scan(&m.ID, &m.MediaType, &m.URL, &m.Title, &m.Description)
				return m, err
			})
		p.Media = media
		return err
	})

	g.Go(func() error {
		snippets, err := querySubRecords(gctx, r.db,
			`SELECT id, title, code, language FROM code_snippets WHERE profile_id = $1`, p.ID,
			func(row pgx.Rows) (model.CodeSnippet, error) {
				var s model.CodeSnippet
				err := row.Scan(&s.ID, &s.Title, &s.Code, &s.Language)
				return s, err
			})
		p.CodeSnippets = snippets
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load profile details: %w", err)
	}

	return &p, nil
}

func querySubRecords[T any](ctx context.Context, db DBTX, query string, profileID uuid.UUID, scan func(pgx.Rows) (T, error)) ([]T, error) {
	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableProfiles).Inc()
	rows, err := db.Query(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	return out, rows.Err()
}

// Exists reports whether the user has a profile.
func (r *ProfileRepository) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM profiles WHERE user_id = $1)`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableProfiles).Inc()
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check profile existence: %w", err)
	}

	return exists, nil
}

// ListPublic returns profile summaries, optionally filtered by a
// case-insensitive substring match.
func (r *ProfileRepository) ListPublic(ctx context.Context, search string) ([]*model.PublicProfile, error) {
	const baseQuery = `
		SELECT user_id, first_name, last_name, bio, elevator_pitch
		FROM profiles
	`
	const searchFilter = `
		WHERE first_name ILIKE $1
			OR last_name ILIKE $1
			OR bio ILIKE $1
			OR elevator_pitch ILIKE $1
	`

	query := baseQuery
	var args []any
	if search = strings.TrimSpace(search); search != "" {
		query += searchFilter
		args = append(args, "%"+escapeLike(search)+"%")
	}
	query += ` ORDER BY last_name NULLS LAST, first_name NULLS LAST`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableProfiles).Inc()
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query public profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]*model.PublicProfile, 0)
	for rows.Next() {
		var p model.PublicProfile
		if err := rows.Scan(&p.UserID, &p.FirstName, &p.LastName, &p.Bio, &p.ElevatorPitch); err != nil {
			return nil, fmt.Errorf("failed to scan public profile: %w", err)
		}
		profiles = append(profiles, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating public profiles: %w", err)
	}

	return profiles, nil
}

// SetPicture records where the user's picture is stored.
func (r *ProfileRepository) SetPicture(ctx context.Context, userID uuid.UUID, key, contentType string) error {
	const query = `
		UPDATE profiles
		SET profile_picture_key = $2, profile_picture_content_type = $3
		WHERE user_id = $1
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryUpdate, metrics.TableProfiles).Inc()
	tag, err := r.db.Exec(ctx, query, userID, key, nullString(contentType))
	if err != nil {
		return fmt.Errorf("failed to set profile picture: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrProfileNotFound
	}

	return nil
}

// AddMedia inserts a gallery item for the user's profile.
func (r *ProfileRepository) AddMedia(ctx context.Context, userID uuid.UUID, m *model.Media) error {
	const query = `
		INSERT INTO media (id, profile_id, media_type, url, title, description)
		SELECT $1, p.id, $3, $4, $5, $6
		FROM profiles p
		WHERE p.user_id = $2
	`

	m.ID = ensureID(m.ID)

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryInsert, metrics.TableProfiles).Inc()
	tag, err := r.db.Exec(ctx, query, m.ID, userID, m.MediaType, m.URL, m.Title, m.Description)
	if err != nil {
		return fmt.Errorf("failed to insert media: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrProfileNotFound
	}

	return nil
}

// GetMedia loads one gallery item owned by the user's profile.
func (r *ProfileRepository) GetMedia(ctx context.Context, userID, mediaID uuid.UUID) (*model.Media, error) {
	const query = `
		SELECT m.id, m.media_type, m.url, m.title, m.description
		FROM media m
		JOIN profiles p ON p.id = m.profile_id
		WHERE p.user_id = $1 AND m.id = $2
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableProfiles).Inc()
	var m model.Media
	err := r.db.QueryRow(ctx, query, userID, mediaID).Scan(&m.ID, &m.MediaType, &m.URL, &m.Title, &m.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrMediaNotFound
		}
		return nil, fmt.Errorf("failed to get media: %w", err)
	}

	return &m, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func ensureID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}

// Compile-time verification that ProfileRepository implements repository.ProfileRepository.
var _ repository.ProfileRepository = (*ProfileRepository)(nil)
