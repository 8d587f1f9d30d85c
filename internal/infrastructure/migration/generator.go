package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"zavod/internal/shared/logger"
)

// Generator creates migration script files in the goose annotation format,
// so generated files and hand-written ones run through the same strategy.
type Generator struct {
	scriptsPath string
	logger      logger.Interface
}

func NewGenerator(scriptsPath string, log logger.Interface) *Generator {
	return &Generator{
		scriptsPath: scriptsPath,
		logger:      log.With("component", "migration.generator"),
	}
}

// CreateMigration creates an empty migration file with up/down sections.
func (g *Generator) CreateMigration(name string) error {
	g.logger.Infow("creating new migration", "name", name)

	timestamp := time.Now().Format("20060102150405")
	fileName := fmt.Sprintf("%s_%s.sql", timestamp, name)
	filePath := filepath.Join(g.scriptsPath, fileName)

	if err := os.MkdirAll(g.scriptsPath, 0755); err != nil {
		return fmt.Errorf("failed to create scripts directory: %w", err)
	}

	if err := g.writeFile(filePath, g.migrationTemplate(name)); err != nil {
		return fmt.Errorf("failed to create migration file: %w", err)
	}

	g.logger.Infow("migration file created", "file", filePath)
	return nil
}

// CreateBaselineMigration creates the initial schema migration for all
// pipeline tables.
func (g *Generator) CreateBaselineMigration() error {
	g.logger.Infow("creating baseline schema migration")

	filePath := filepath.Join(g.scriptsPath, "00001_baseline.sql")

	if err := os.MkdirAll(g.scriptsPath, 0755); err != nil {
		return fmt.Errorf("failed to create scripts directory: %w", err)
	}

	if err := g.writeFile(filePath, baselineSQL); err != nil {
		return fmt.Errorf("failed to create baseline migration: %w", err)
	}

	g.logger.Infow("baseline migration created", "file", filePath)
	return nil
}

func (g *Generator) writeFile(filePath, content string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(content)
	return err
}

func (g *Generator) migrationTemplate(name string) string {
	return fmt.Sprintf(`-- Migration: %s
-- Created: %s

-- +goose Up


-- +goose Down

`, name, time.Now().Format("2006-01-02 15:04:05"))
}

const baselineSQL = `-- Migration: baseline
-- Creates every table of the publication pipeline.

-- +goose Up
CREATE TABLE IF NOT EXISTS projects (
    id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'active',
    timezone VARCHAR(64) NOT NULL DEFAULT 'UTC',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    INDEX idx_projects_status (status)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;

CREATE TABLE IF NOT EXISTS budgets (
    id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    project_id BIGINT UNSIGNED NOT NULL,
    daily_budget DOUBLE NOT NULL DEFAULT 0,
    weekly_budget DOUBLE NOT NULL DEFAULT 0,
    monthly_budget DOUBLE NOT NULL DEFAULT 0,
    token_limit BIGINT NOT NULL DEFAULT 0,
    video_seconds_limit BIGINT NOT NULL DEFAULT 0,
    publication_limit BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    INDEX idx_budgets_project_id (project_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;

CREATE TABLE IF NOT EXISTS usage_records (
    id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    budget_id BIGINT UNSIGNED NOT NULL,
    project_id BIGINT UNSIGNED NOT NULL,
    usage_date TIMESTAMP NOT NULL,
    token_used BIGINT NOT NULL DEFAULT 0,
    video_seconds_used BIGINT NOT NULL DEFAULT 0,
    publications_used BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    INDEX idx_usage_records_budget_id (budget_id),
    INDEX idx_usage_project_date (project_id, usage_date)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;

CREATE TABLE IF NOT EXISTS content_items (
    id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    project_id BIGINT UNSIGNED NOT NULL,
    channel VARCHAR(100),
    format VARCHAR(50),
    body LONGTEXT NOT NULL,
    metadata JSON,
    status VARCHAR(20) NOT NULL DEFAULT 'ready',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    INDEX idx_content_items_project_id (project_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;

CREATE TABLE IF NOT EXISTS qc_reports (
    id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    project_id BIGINT UNSIGNED NOT NULL,
    content_item_id BIGINT UNSIGNED NOT NULL,
    score DOUBLE NOT NULL DEFAULT 0,
    passed BOOLEAN NOT NULL DEFAULT FALSE,
    reasons JSON,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    INDEX idx_qc_reports_project_id (project_id),
    INDEX idx_qc_item_created (content_item_id, created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;

CREATE TABLE IF NOT EXISTS publications (
    id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    project_id BIGINT UNSIGNED NOT NULL,
    content_item_id BIGINT UNSIGNED NOT NULL,
    platform VARCHAR(20) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'scheduled',
    scheduled_at TIMESTAMP NOT NULL,
    idempotency_key VARCHAR(100) NOT NULL,
    attempt_count INT NOT NULL DEFAULT 0,
    platform_post_id VARCHAR(100),
    platform_post_url VARCHAR(500),
    published_at TIMESTAMP NULL,
    last_error TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    UNIQUE KEY uk_publication_project_key (project_id, idempotency_key),
    INDEX idx_publications_content_item_id (content_item_id),
    INDEX idx_publication_project_status (project_id, status),
    INDEX idx_publication_status_due (status, scheduled_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;

CREATE TABLE IF NOT EXISTS integration_tokens (
    id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    project_id BIGINT UNSIGNED NOT NULL,
    provider VARCHAR(20) NOT NULL,
    token_encrypted TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    UNIQUE KEY uk_token_project_provider (project_id, provider)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;

CREATE TABLE IF NOT EXISTS tasks (
    id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    sid VARCHAR(50) NOT NULL,
    name VARCHAR(100) NOT NULL,
    payload JSON,
    run_at TIMESTAMP NOT NULL,
    idempotency_key VARCHAR(100),
    open TINYINT UNSIGNED,
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    attempts INT NOT NULL DEFAULT 0,
    max_attempts INT NOT NULL DEFAULT 5,
    last_error TEXT,
    claimed_at TIMESTAMP NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    UNIQUE KEY uk_tasks_sid (sid),
    UNIQUE KEY uk_task_open_key (idempotency_key, open),
    INDEX idx_task_status_run (name, run_at, status),
    INDEX idx_tasks_claimed_at (claimed_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;

CREATE TABLE IF NOT EXISTS alerts (
    id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    project_id BIGINT UNSIGNED NOT NULL,
    alert_type VARCHAR(50) NOT NULL,
    severity VARCHAR(20) NOT NULL,
    message TEXT NOT NULL,
    metadata JSON,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    INDEX idx_alert_project_created (project_id, created_at),
    INDEX idx_alerts_alert_type (alert_type)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;

-- +goose Down
DROP TABLE IF EXISTS alerts;
DROP TABLE IF EXISTS tasks;
DROP TABLE IF EXISTS integration_tokens;
DROP TABLE IF EXISTS publications;
DROP TABLE IF EXISTS qc_reports;
DROP TABLE IF EXISTS content_items;
DROP TABLE IF EXISTS usage_records;
DROP TABLE IF EXISTS budgets;
DROP TABLE IF EXISTS projects;
`
