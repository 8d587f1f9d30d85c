package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Database table names
	TableProjects          = "projects"
	TableBudgets           = "budgets"
	TableUsageRecords      = "usage_records"
	TablePublications      = "publications"
	TableTasks             = "tasks"
	TableAlerts            = "alerts"
	TableIntegrationTokens = "integration_tokens"
	TableContentItems      = "content_items"
	TableQCReports         = "qc_reports"

	// Project status
	ProjectStatusActive   = "active"
	ProjectStatusArchived = "archived"

	// Alert types raised by the pipeline
	AlertTypeBudgetExceeded    = "budget_exceeded"
	AlertTypePublicationFailed = "publication_failed"

	// Alert severities
	AlertSeverityInfo     = "info"
	AlertSeverityWarning  = "warning"
	AlertSeverityCritical = "critical"

	// Integration providers
	ProviderTelegram = "telegram"
	ProviderVK       = "vk"

	// Dispatcher task names
	TaskPublishPublication = "publish_publication"
)
