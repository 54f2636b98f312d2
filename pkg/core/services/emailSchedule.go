package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/weekday-rota/pkg/db"
	"github.com/jakechorley/weekday-rota/pkg/render"
)

// FailedEmail records a recipient the schedule could not be sent to
type FailedEmail struct {
	Email string
	Error string
}

// EmailSchedule sends the latest schedule as a plain-text table to each recipient.
// Returns the addresses that were sent to and those that failed; it is an error
// only when every send fails, and the failures are still returned alongside it.
func EmailSchedule(ctx context.Context, store db.ScheduleStore, gmailClient GmailClient, logger *zap.Logger, recipients []string) ([]string, []FailedEmail, error) {
	if len(recipients) == 0 {
		return nil, nil, fmt.Errorf("no recipients configured")
	}

	schedule, err := LatestSchedule(ctx, store, logger)
	if err != nil {
		return nil, nil, err
	}

	subject := scheduleTitle(schedule)
	body := emailBody(schedule)

	sent := []string{}
	failed := []FailedEmail{}

	for _, to := range recipients {
		logger.Info("Sending schedule email", zap.String("email", to))

		if err := gmailClient.SendEmail(ctx, to, subject, body); err != nil {
			logger.Warn("Failed to send schedule email", zap.String("email", to), zap.Error(err))
			failed = append(failed, FailedEmail{Email: to, Error: err.Error()})
			continue
		}

		sent = append(sent, to)
	}

	if len(failed) == len(recipients) {
		return sent, failed, fmt.Errorf("all %d schedule email send attempts failed", len(failed))
	}

	logger.Debug("Email schedule completed", zap.Int("sent", len(sent)), zap.Int("failed", len(failed)))
	return sent, failed, nil
}

func emailBody(schedule *StoredSchedule) string {
	var b strings.Builder
	b.WriteString("Hello,\n\nHere is the current shift schedule.\n\n")
	b.WriteString(render.ScheduleTable(schedule.Grid(), render.Plain))
	b.WriteString("\n\n")
	b.WriteString(render.Legend)
	b.WriteString("\n")
	b.WriteString(render.Caption(schedule.Outcome.Shortfalls))
	b.WriteString("\n")
	return b.String()
}
