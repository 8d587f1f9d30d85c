package usecases

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"zavod/internal/application/budget/dto"
	"zavod/internal/shared/logger"
)

// ExportReportUseCase renders a usage report as CSV for operational review.
type ExportReportUseCase struct {
	report *BuildReportUseCase
	logger logger.Interface
}

func NewExportReportUseCase(report *BuildReportUseCase, logger logger.Interface) *ExportReportUseCase {
	return &ExportReportUseCase{
		report: report,
		logger: logger,
	}
}

// Execute writes one row per (window, dimension) plus an is_blocked trailer.
// Pct and remaining stay empty for unlimited dimensions.
func (uc *ExportReportUseCase) Execute(ctx context.Context, projectID uint, at time.Time, out io.Writer) error {
	report, err := uc.report.Execute(ctx, projectID, at)
	if err != nil {
		return err
	}
	return uc.Write(report, out)
}

// Write renders an already-built report.
func (uc *ExportReportUseCase) Write(report *dto.UsageReport, out io.Writer) error {
	w := csv.NewWriter(out)

	if err := w.Write([]string{"window", "dimension", "used", "limit", "pct", "remaining"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, window := range report.Windows {
		for _, dim := range window.Dimensions {
			row := []string{
				window.Window,
				dim.Dimension,
				strconv.FormatInt(dim.Used, 10),
				strconv.FormatInt(dim.Limit, 10),
				"",
				"",
			}
			if dim.Pct != nil {
				row[4] = strconv.FormatFloat(*dim.Pct, 'f', -1, 64)
			}
			if dim.Remaining != nil {
				row[5] = strconv.FormatInt(*dim.Remaining, 10)
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
		}
	}

	trailer := []string{"is_blocked", strconv.FormatBool(report.IsBlocked), "", "", "", ""}
	if err := w.Write(trailer); err != nil {
		return fmt.Errorf("failed to write csv trailer: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	uc.logger.Debugw("budget report exported",
		"project_id", report.ProjectID,
		"windows", len(report.Windows),
	)
	return nil
}
