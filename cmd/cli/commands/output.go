package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jakechorley/weekday-rota/pkg/core/model"
	"github.com/jakechorley/weekday-rota/pkg/core/services"
	"github.com/jakechorley/weekday-rota/pkg/render"
)

// renderMode picks plain output when asked or when stdout is not a terminal
func renderMode(plain bool) render.Mode {
	if plain {
		return render.Plain
	}
	if info, err := os.Stdout.Stat(); err == nil && info.Mode()&os.ModeCharDevice == 0 {
		return render.Plain
	}
	return render.Styled
}

func printSchedule(w io.Writer, schedule *services.StoredSchedule, mode render.Mode) {
	fmt.Fprintln(w)
	if !schedule.WeekStart.IsZero() {
		fmt.Fprintf(w, "Week of %s\n", schedule.WeekStart.Format("Mon Jan 02 2006"))
	}
	if schedule.RunID != "" {
		fmt.Fprintf(w, "Run:       %s (%s)\n", schedule.RunID, schedule.CreatedAt.Local().Format(time.DateTime))
	}
	fmt.Fprintf(w, "Day order: %s\n\n", schedule.DayOrder)

	fmt.Fprintln(w, render.ScheduleTable(schedule.Grid(), mode))
	fmt.Fprintln(w, render.Legend)
	fmt.Fprintln(w, render.Caption(schedule.Outcome.Shortfalls))

	for _, warning := range schedule.Outcome.Warnings {
		fmt.Fprintf(w, "⚠️  %s\n", warning)
	}
	fmt.Fprintln(w)
}

// parseWeek accepts a YYYY-MM-DD date, or "next" for the coming week
func parseWeek(value string, now time.Time) (time.Time, error) {
	switch value {
	case "":
		return time.Time{}, nil
	case "next":
		return services.MondayOf(now).AddDate(0, 0, 7), nil
	case "this":
		return services.MondayOf(now), nil
	}

	week, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("week must be YYYY-MM-DD, \"this\" or \"next\": %w", err)
	}
	return services.MondayOf(week), nil
}

func parseDay(value string) (model.Weekday, error) {
	day, err := model.ParseWeekday(value)
	if err != nil {
		return "", fmt.Errorf("invalid day: %w", err)
	}
	return day, nil
}
