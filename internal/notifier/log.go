package notifier

import "log/slog"

// Ensure LogNotifier implements Notifier.
var _ Notifier = (*LogNotifier)(nil)

// LogNotifier writes run summaries to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each run summary via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the run totals plus one line per source. Returns nil (stdout
// logging does not fail).
func (n *LogNotifier) Notify(summary Summary) error {
	n.logger.Info("run complete",
		"query", summary.Report.Query,
		"total_records", summary.Report.TotalRecords,
		"inserted", summary.Inserted,
		"skipped", summary.Skipped,
		"elapsed", summary.Report.Elapsed.String(),
	)
	for _, source := range summary.Report.Order {
		stats := summary.Report.Sources[source]
		args := []any{
			"source", source,
			"records", stats.Records,
			"pages_fetched", stats.PagesFetched,
			"pages_failed", stats.PagesFailed,
		}
		if stats.Error != "" {
			args = append(args, "error", stats.Error)
		}
		n.logger.Info("source summary", args...)
	}
	for _, warning := range summary.Warnings {
		n.logger.Warn("run warning", "warning", warning)
	}
	return nil
}
