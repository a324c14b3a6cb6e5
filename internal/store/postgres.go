package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"portfolio/api/internal/portfolio"
	"portfolio/api/internal/util"
)

const metaID = "main"
const legacyID = "data-v1"

// PostgresStore is the remote store adapter: one meta row plus four ordered
// collections, all written with replace semantics.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ReadOnce fetches the meta record and all four collections in parallel.
// Sections fail independently; the snapshot records which ones arrived.
func (s *PostgresStore) ReadOnce(ctx context.Context) Snapshot {
	snap := Snapshot{Errors: map[string]error{}}

	var mu sync.Mutex
	var wg sync.WaitGroup

	run := func(section string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				snap.Errors[section] = err
				mu.Unlock()
			}
		}()
	}

	run("meta", func() error {
		meta, ok, err := s.readMeta(ctx)
		if err != nil {
			return err
		}
		if ok {
			mu.Lock()
			meta.apply(&snap.Remote)
			mu.Unlock()
		}
		return nil
	})
	run("projects", func() error {
		projects, err := s.readProjects(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		snap.Remote.HasProjects = true
		snap.Remote.Projects = projects
		mu.Unlock()
		return nil
	})
	run("internships", func() error {
		internships, err := s.readInternships(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		snap.Remote.HasInternships = true
		snap.Remote.Internships = internships
		mu.Unlock()
		return nil
	})
	run("skills", func() error {
		skills, err := s.readSkills(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		snap.Remote.HasSkills = true
		snap.Remote.Skills = skills
		mu.Unlock()
		return nil
	})
	run("achievements", func() error {
		achievements, err := s.readAchievements(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		snap.Remote.HasAchievements = true
		snap.Remote.Achievements = achievements
		mu.Unlock()
		return nil
	})

	wg.Wait()
	return snap
}

func (s *PostgresStore) readMeta(ctx context.Context) (MetaRow, bool, error) {
	const query = `
		SELECT name, headline, about, profile_image, profile_caption, resume,
			contact_email, contact_phone, contact_linkedin, contact_github,
			default_theme, last_update
		FROM portfolio_meta WHERE id = $1
	`
	var m MetaRow
	err := s.db.QueryRowContext(ctx, query, metaID).Scan(
		&m.Name, &m.Headline, &m.About, &m.ProfileImage, &m.ProfileCaption, &m.Resume,
		&m.ContactEmail, &m.ContactPhone, &m.ContactLinked, &m.ContactGitHub,
		&m.DefaultTheme, &m.LastUpdate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return MetaRow{}, false, nil
	}
	if err != nil {
		return MetaRow{}, false, fmt.Errorf("read meta: %w", err)
	}
	return m, true, nil
}

func (s *PostgresStore) readProjects(ctx context.Context) ([]portfolio.Project, error) {
	const query = `
		SELECT title, description, link, source, tech, thumbnail, demo_video, screenshots
		FROM portfolio_projects ORDER BY sort_order, seq
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read projects: %w", err)
	}
	defer rows.Close()

	projects := []portfolio.Project{}
	for rows.Next() {
		var p portfolio.Project
		var screenshots []byte
		if err := rows.Scan(&p.Title, &p.Desc, &p.Link, &p.Source, &p.Tech, &p.Thumbnail, &p.DemoVideo, &screenshots); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		if len(screenshots) > 0 {
			_ = json.Unmarshal(screenshots, &p.Screenshots)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *PostgresStore) readInternships(ctx context.Context) ([]portfolio.Internship, error) {
	const query = `
		SELECT company, role, body, link, period
		FROM portfolio_internships ORDER BY sort_order, seq
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read internships: %w", err)
	}
	defer rows.Close()

	internships := []portfolio.Internship{}
	for rows.Next() {
		var in portfolio.Internship
		if err := rows.Scan(&in.Company, &in.Role, &in.Text, &in.Link, &in.Period); err != nil {
			return nil, fmt.Errorf("scan internship: %w", err)
		}
		internships = append(internships, in)
	}
	return internships, rows.Err()
}

func (s *PostgresStore) readSkills(ctx context.Context) (portfolio.SkillSet, error) {
	const query = `
		SELECT name, link, level, kind
		FROM portfolio_skills ORDER BY sort_order, seq
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return portfolio.SkillSet{}, fmt.Errorf("read skills: %w", err)
	}
	defer rows.Close()

	set := portfolio.SkillSet{Technical: []portfolio.Skill{}, Soft: []portfolio.Skill{}}
	for rows.Next() {
		var sk portfolio.Skill
		var kind string
		if err := rows.Scan(&sk.Name, &sk.Link, &sk.Level, &kind); err != nil {
			return portfolio.SkillSet{}, fmt.Errorf("scan skill: %w", err)
		}
		if kind == "soft" {
			set.Soft = append(set.Soft, sk)
		} else {
			set.Technical = append(set.Technical, sk)
		}
	}
	return set, rows.Err()
}

func (s *PostgresStore) readAchievements(ctx context.Context) ([]string, error) {
	const query = `SELECT body FROM portfolio_achievements ORDER BY sort_order, seq`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read achievements: %w", err)
	}
	defer rows.Close()

	achievements := []string{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		achievements = append(achievements, body)
	}
	return achievements, rows.Err()
}

// WriteAll replaces the remote copy of the document: the meta row is
// upserted and each collection is cleared and rewritten with sort_order
// assigned 0..n-1. Each collection is replaced in its own transaction, so
// two writers racing can interleave per-collection rewrites; that matches
// the previous implementations and the single-owner editing assumption.
// Returns the last_update stamp written to the meta row.
func (s *PostgresStore) WriteAll(ctx context.Context, doc portfolio.Document) (int64, error) {
	lastUpdate := time.Now().UnixMilli()

	if err := s.writeMeta(ctx, metaFromDocument(doc, lastUpdate)); err != nil {
		return 0, err
	}
	if err := s.writeProjects(ctx, doc.Projects); err != nil {
		return 0, err
	}
	if err := s.writeInternships(ctx, doc.Internships); err != nil {
		return 0, err
	}
	if err := s.writeSkills(ctx, doc.Skills); err != nil {
		return 0, err
	}
	if err := s.writeAchievements(ctx, doc.Achievements); err != nil {
		return 0, err
	}
	return lastUpdate, nil
}

func (s *PostgresStore) writeMeta(ctx context.Context, m MetaRow) error {
	const query = `
		INSERT INTO portfolio_meta (
			id, name, headline, about, profile_image, profile_caption, resume,
			contact_email, contact_phone, contact_linkedin, contact_github,
			default_theme, last_update, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,NOW())
		ON CONFLICT (id) DO UPDATE SET
			name=EXCLUDED.name, headline=EXCLUDED.headline, about=EXCLUDED.about,
			profile_image=EXCLUDED.profile_image, profile_caption=EXCLUDED.profile_caption,
			resume=EXCLUDED.resume, contact_email=EXCLUDED.contact_email,
			contact_phone=EXCLUDED.contact_phone, contact_linkedin=EXCLUDED.contact_linkedin,
			contact_github=EXCLUDED.contact_github, default_theme=EXCLUDED.default_theme,
			last_update=EXCLUDED.last_update, updated_at=NOW()
	`
	_, err := s.db.ExecContext(ctx, query, metaID,
		m.Name, m.Headline, m.About, m.ProfileImage, m.ProfileCaption, m.Resume,
		m.ContactEmail, m.ContactPhone, m.ContactLinked, m.ContactGitHub,
		m.DefaultTheme, m.LastUpdate,
	)
	if err != nil {
		return fmt.Errorf("write meta: %w", err)
	}
	return nil
}

func (s *PostgresStore) replaceCollection(ctx context.Context, table string, insert func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s rewrite: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear %s: %w", table, err)
	}
	if err := insert(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("rewrite %s: %w", table, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s rewrite: %w", table, err)
	}
	return nil
}

func (s *PostgresStore) writeProjects(ctx context.Context, projects []portfolio.Project) error {
	return s.replaceCollection(ctx, "portfolio_projects", func(tx *sql.Tx) error {
		const query = `
			INSERT INTO portfolio_projects (id, title, description, link, source, tech, thumbnail, demo_video, screenshots, sort_order)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		`
		for i, p := range projects {
			screenshots, err := json.Marshal(p.Screenshots)
			if err != nil {
				return err
			}
			if p.Screenshots == nil {
				screenshots = []byte("[]")
			}
			if _, err := tx.ExecContext(ctx, query, util.NewID("prj"),
				p.Title, p.Desc, p.Link, p.Source, p.Tech, p.Thumbnail, p.DemoVideo, screenshots, i); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *PostgresStore) writeInternships(ctx context.Context, internships []portfolio.Internship) error {
	return s.replaceCollection(ctx, "portfolio_internships", func(tx *sql.Tx) error {
		const query = `
			INSERT INTO portfolio_internships (id, company, role, body, link, period, sort_order)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`
		for i, in := range internships {
			if _, err := tx.ExecContext(ctx, query, util.NewID("int"),
				in.Company, in.Role, in.Text, in.Link, in.Period, i); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *PostgresStore) writeSkills(ctx context.Context, skills portfolio.SkillSet) error {
	return s.replaceCollection(ctx, "portfolio_skills", func(tx *sql.Tx) error {
		const query = `
			INSERT INTO portfolio_skills (id, name, link, level, kind, sort_order)
			VALUES ($1,$2,$3,$4,$5,$6)
		`
		for i, sk := range skills.Technical {
			if _, err := tx.ExecContext(ctx, query, util.NewID("skl"), sk.Name, sk.Link, sk.Level, "technical", i); err != nil {
				return err
			}
		}
		for i, sk := range skills.Soft {
			if _, err := tx.ExecContext(ctx, query, util.NewID("skl"), sk.Name, sk.Link, sk.Level, "soft", i); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *PostgresStore) writeAchievements(ctx context.Context, achievements []string) error {
	return s.replaceCollection(ctx, "portfolio_achievements", func(tx *sql.Tx) error {
		const query = `INSERT INTO portfolio_achievements (id, body, sort_order) VALUES ($1,$2,$3)`
		for i, body := range achievements {
			if _, err := tx.ExecContext(ctx, query, util.NewID("ach"), body, i); err != nil {
				return err
			}
		}
		return nil
	})
}

// MigrateLegacy moves the old single-document layout into the collections
// layout on first contact: only when a legacy document exists and the new
// layout is still empty. At-most-once in intent; a crash mid-migration can
// leave both shapes partially populated, which the next successful WriteAll
// heals.
func (s *PostgresStore) MigrateLegacy(ctx context.Context) (bool, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM portfolio_legacy WHERE id = $1 AND migrated_at IS NULL`, legacyID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read legacy doc: %w", err)
	}

	empty, err := s.collectionsEmpty(ctx)
	if err != nil {
		return false, err
	}
	if !empty {
		// New layout already populated: mark the legacy doc consumed.
		_, err := s.db.ExecContext(ctx, `UPDATE portfolio_legacy SET migrated_at = NOW() WHERE id = $1`, legacyID)
		return false, err
	}

	var doc portfolio.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false, fmt.Errorf("decode legacy doc: %w", err)
	}

	if _, err := s.WriteAll(ctx, portfolio.Normalize(doc)); err != nil {
		return false, fmt.Errorf("migrate legacy doc: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE portfolio_legacy SET migrated_at = NOW() WHERE id = $1`, legacyID); err != nil {
		return true, fmt.Errorf("mark legacy migrated: %w", err)
	}
	return true, nil
}

func (s *PostgresStore) collectionsEmpty(ctx context.Context) (bool, error) {
	const query = `
		SELECT (SELECT COUNT(*) FROM portfolio_meta)
			+ (SELECT COUNT(*) FROM portfolio_projects)
			+ (SELECT COUNT(*) FROM portfolio_internships)
			+ (SELECT COUNT(*) FROM portfolio_skills)
			+ (SELECT COUNT(*) FROM portfolio_achievements)
	`
	var count int
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return false, fmt.Errorf("count collections: %w", err)
	}
	return count == 0, nil
}
