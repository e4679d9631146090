package notifier

import "github.com/minhtran99/jobflow/internal/model"

// Summary is what one collection run produced, for delivery to an operator.
type Summary struct {
	Report   model.RunReport
	Inserted int
	Skipped  int
	Warnings []string
}

// Notifier delivers a run summary to an operator channel.
type Notifier interface {
	Notify(summary Summary) error
}
