package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id                  TEXT PRIMARY KEY,
	user_id             TEXT NOT NULL,
	title               TEXT NOT NULL,
	status              TEXT NOT NULL DEFAULT 'pending',
	deadline            DATETIME,
	scheduled_time      DATETIME,
	estimated_minutes   INTEGER,
	total_focus_minutes INTEGER NOT NULL DEFAULT 0,
	last_active_at      DATETIME,
	created_at          DATETIME NOT NULL,
	updated_at          DATETIME NOT NULL,
	completed_at        DATETIME
);

CREATE TABLE IF NOT EXISTS focus_sessions (
	id                  TEXT PRIMARY KEY,
	task_id             TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	user_id             TEXT NOT NULL,
	state               TEXT NOT NULL DEFAULT 'active',
	duration_minutes    INTEGER NOT NULL DEFAULT 0,
	accumulated_minutes INTEGER NOT NULL DEFAULT 0,
	started_at          DATETIME NOT NULL,
	active_since        DATETIME,
	ended_at            DATETIME
);

CREATE TABLE IF NOT EXISTS abandonments (
	id                 TEXT PRIMARY KEY,
	task_id            TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	user_id            TEXT NOT NULL,
	focus_session_id   TEXT,
	started_at         DATETIME NOT NULL,
	last_active_at     DATETIME NOT NULL,
	abandoned_at       DATETIME NOT NULL,
	duration_minutes   INTEGER NOT NULL DEFAULT 0,
	abandonment_type   TEXT NOT NULL DEFAULT 'long_inactivity',
	inactivity_minutes INTEGER NOT NULL DEFAULT 0,
	auto_detected      INTEGER NOT NULL DEFAULT 1,
	reason             TEXT,
	resumed            INTEGER NOT NULL DEFAULT 0,
	resumed_at         DATETIME
);

CREATE TABLE IF NOT EXISTS notifications (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	type        TEXT NOT NULL,
	title       TEXT NOT NULL,
	message     TEXT NOT NULL,
	action_type TEXT NOT NULL DEFAULT '',
	task_id     TEXT,
	data        TEXT NOT NULL DEFAULT '{}',
	created_at  DATETIME NOT NULL,
	read_at     DATETIME
);

CREATE TABLE IF NOT EXISTS user_stats (
	user_id                  TEXT PRIMARY KEY,
	total_tasks              INTEGER NOT NULL DEFAULT 0,
	completed_tasks          INTEGER NOT NULL DEFAULT 0,
	pending_tasks            INTEGER NOT NULL DEFAULT 0,
	in_progress_tasks        INTEGER NOT NULL DEFAULT 0,
	completion_rate          REAL NOT NULL DEFAULT 0,
	total_focus_minutes      INTEGER NOT NULL DEFAULT 0,
	total_focus_sessions     INTEGER NOT NULL DEFAULT 0,
	average_session_duration INTEGER NOT NULL DEFAULT 0,
	current_streak           INTEGER NOT NULL DEFAULT 0,
	longest_streak           INTEGER NOT NULL DEFAULT 0,
	last_calculated_at       DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks(user_id);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_last_active ON tasks(status, last_active_at);
CREATE INDEX IF NOT EXISTS idx_sessions_task_state ON focus_sessions(task_id, state);
CREATE INDEX IF NOT EXISTS idx_abandonments_task_resumed ON abandonments(task_id, resumed);
CREATE INDEX IF NOT EXISTS idx_abandonments_abandoned_at ON abandonments(abandoned_at);
CREATE INDEX IF NOT EXISTS idx_notifications_cooldown ON notifications(task_id, action_type, created_at);
CREATE INDEX IF NOT EXISTS idx_notifications_user_read ON notifications(user_id, read_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
