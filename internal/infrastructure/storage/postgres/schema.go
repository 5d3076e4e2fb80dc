package postgres

import (
	"context"
	"fmt"

	"electa/pkg/logger"
)

// Migrate creates all tables needed by the application.
// Safe to call multiple times: every statement uses IF NOT EXISTS.
func Migrate(ctx context.Context, pool *Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	logger.Info(ctx, "database schema is up to date")
	return nil
}

const schema = `
-- Users mirrored from the identity provider
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    version INTEGER NOT NULL DEFAULT 1,
    sso_id TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'Student' CHECK (role IN ('Admin', 'Student', 'Instructor')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Quota-bearing course buckets
CREATE TABLE IF NOT EXISTS courses (
    id UUID PRIMARY KEY,
    version INTEGER NOT NULL DEFAULT 1,
    name TEXT NOT NULL UNIQUE,
    tech_quota INTEGER NOT NULL DEFAULT 0 CHECK (tech_quota >= 0),
    hum_quota INTEGER NOT NULL DEFAULT 0 CHECK (hum_quota >= 0),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Selectable electives
CREATE TABLE IF NOT EXISTS electives (
    id UUID PRIMARY KEY,
    version INTEGER NOT NULL DEFAULT 1,
    code TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    description TEXT,
    instructor TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL CHECK (category IN ('Tech', 'Hum')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Elective to course mapping
CREATE TABLE IF NOT EXISTS elective_courses (
    elective_id UUID NOT NULL REFERENCES electives(id) ON DELETE CASCADE,
    course_id UUID NOT NULL REFERENCES courses(id),
    PRIMARY KEY (elective_id, course_id)
);

CREATE INDEX IF NOT EXISTS idx_elective_courses_course ON elective_courses(course_id);

-- Ranked selections
CREATE TABLE IF NOT EXISTS choices (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    elective_id UUID NOT NULL REFERENCES electives(id) ON DELETE CASCADE,
    priority INTEGER NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT uq_user_elective UNIQUE (user_id, elective_id),
    -- Deferrable so a single UPDATE can renumber ranks without transient conflicts
    CONSTRAINT uq_user_priority UNIQUE (user_id, priority) DEFERRABLE INITIALLY DEFERRED,
    CONSTRAINT chk_priority_range CHECK (priority >= 1 AND priority <= 5)
);

CREATE INDEX IF NOT EXISTS idx_choices_user ON choices(user_id);
CREATE INDEX IF NOT EXISTS idx_choices_elective ON choices(elective_id);

-- Audit trail of catalog and account mutations
CREATE TABLE IF NOT EXISTS sys_audit (
    id UUID PRIMARY KEY,
    entity_type TEXT NOT NULL,
    entity_id UUID NOT NULL,
    action TEXT NOT NULL,
    user_id TEXT NOT NULL DEFAULT '',
    user_email TEXT NOT NULL DEFAULT '',
    changes JSONB,
    changes_compressed BYTEA,
    compression_algo TEXT NOT NULL DEFAULT 'none',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_sys_audit_entity ON sys_audit(entity_type, entity_id);
`
