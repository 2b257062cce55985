package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Table names.
const (
	TableKV           = "kv"
	TablePlans        = "career_plans"
	TableProgress     = "plan_progress"
	TableChatMessages = "chat_messages"
	TableLLMEvents    = "llm_request_events"
)

// migrations are applied in order on every Open. Each must be idempotent.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS career_plans (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		objective TEXT NOT NULL DEFAULT '',
		estimated_duration TEXT NOT NULL DEFAULT '',
		total_phases INTEGER NOT NULL DEFAULT 0,
		plan_content TEXT NOT NULL DEFAULT '{}',
		user_answers TEXT NOT NULL DEFAULT '{}',
		status TEXT NOT NULL DEFAULT 'active',
		is_primary INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS career_plans_user ON career_plans (user_id, status)`,
	`CREATE TABLE IF NOT EXISTS plan_progress (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		plan_id TEXT NOT NULL,
		completed_phases TEXT NOT NULL DEFAULT '[]',
		completed_projects TEXT NOT NULL DEFAULT '[]',
		expanded_phases TEXT NOT NULL DEFAULT '[1]',
		last_updated TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS plan_progress_user_plan ON plan_progress (user_id, plan_id)`,
	`CREATE TABLE IF NOT EXISTS chat_messages (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS chat_messages_user ON chat_messages (user_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL,
		timestamp TEXT NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL DEFAULT '',
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms INTEGER NOT NULL DEFAULT 0,
		success INTEGER NOT NULL DEFAULT 1,
		error_message TEXT NOT NULL DEFAULT '',
		request_body TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
}

// tableColumns lists the columns reachable through the Tables backend.
// Identifiers outside this set are rejected before any SQL is built.
var tableColumns = map[string][]string{
	TablePlans: {
		"id", "user_id", "title", "description", "objective", "estimated_duration",
		"total_phases", "plan_content", "user_answers", "status", "is_primary",
		"created_at", "updated_at",
	},
	TableProgress: {
		"id", "user_id", "plan_id", "completed_phases", "completed_projects",
		"expanded_phases", "last_updated",
	},
	TableChatMessages: {
		"id", "user_id", "role", "content", "created_at",
	},
}

func migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
