package service

import (
	"context"
	"errors"
	"math"

	"lg/weight-tracker-api/internal/model"
	"lg/weight-tracker-api/internal/store"
)

// InsightDays is the default length of the insight window.
const InsightDays = 7

// maxInsightDays bounds the window so one request can't fan out into years of
// daily queries.
const maxInsightDays = 366

// Summarize rolls one day's entries into a summary for the given profile
// metrics. The returned value shares no memory with foods or exercises.
func Summarize(date model.Date, pm model.ProfileMetrics, foods []model.FoodLog, exercises []model.ExerciseLog) model.DailySummary {
	s := model.DailySummary{
		Date:        date,
		FoodLog:     append([]model.FoodLog{}, foods...),
		ExerciseLog: append([]model.ExerciseLog{}, exercises...),
	}
	for _, f := range foods {
		s.IntakeKcal += f.Kcal
		s.Macros.Protein += f.Protein
		s.Macros.Fat += f.Fat
		s.Macros.Carbs += f.Carbs
	}
	for _, e := range exercises {
		s.BurnKcal += e.KcalBurn
	}
	s.NetKcal = s.IntakeKcal - s.BurnKcal
	s.TargetIntake = math.Max(pm.TDEE-float64(pm.Deficit), 0)
	s.Remaining = s.TargetIntake - s.NetKcal
	return s
}

// Aggregate builds an insight from a window of daily summaries and the full
// weight history (oldest first).
func Aggregate(days []model.DailySummary, history []model.WeightEntry) model.Insight {
	in := model.Insight{Days: days}
	if len(days) > 0 {
		var net float64
		for _, d := range days {
			net += d.NetKcal
			if d.HasData() {
				in.DaysLogged++
			}
		}
		in.AvgNet = net / float64(len(days))
	}
	if len(history) > 0 {
		first, last := history[0].Weight, history[len(history)-1].Weight
		in.WeightChange = last - first
		if first != 0 {
			in.WeightChangePct = in.WeightChange / first * 100
		}
	}
	return in
}

func summarize(ctx context.Context, tx store.Tx, userID int64, date model.Date, pm model.ProfileMetrics) (model.DailySummary, error) {
	foods, err := tx.FoodLogsOn(ctx, userID, date)
	if err != nil {
		return model.DailySummary{}, err
	}
	exercises, err := tx.ExerciseLogsOn(ctx, userID, date)
	if err != nil {
		return model.DailySummary{}, err
	}
	return Summarize(date, pm, foods, exercises), nil
}

// insight summarizes the days-long window ending at end, oldest day first.
func insight(ctx context.Context, tx store.Tx, userID int64, end model.Date, pm model.ProfileMetrics, days int) (model.Insight, error) {
	window := make([]model.DailySummary, 0, days)
	for i := days - 1; i >= 0; i-- {
		s, err := summarize(ctx, tx, userID, end.AddDays(-i), pm)
		if err != nil {
			return model.Insight{}, err
		}
		window = append(window, s)
	}
	history, err := tx.WeightHistory(ctx, userID)
	if err != nil {
		return model.Insight{}, err
	}
	return Aggregate(window, history), nil
}

// DailySummary rolls up the user's food and exercise on date.
func (t *Tracker) DailySummary(ctx context.Context, userID int64, date model.Date, pm model.ProfileMetrics) (model.DailySummary, error) {
	var s model.DailySummary
	err := t.store.InTx(ctx, func(tx store.Tx) error {
		var err error
		s, err = summarize(ctx, tx, userID, date, pm)
		return err
	})
	return s, err
}

// InsightWindow summarizes the days ending at end (inclusive). days <= 0 means
// InsightDays.
func (t *Tracker) InsightWindow(ctx context.Context, userID int64, end model.Date, pm model.ProfileMetrics, days int) (model.Insight, error) {
	if days <= 0 {
		days = InsightDays
	}
	if days > maxInsightDays {
		return model.Insight{}, model.Invalid("days", "must be at most %d", maxInsightDays)
	}
	var in model.Insight
	err := t.store.InTx(ctx, func(tx store.Tx) error {
		var err error
		in, err = insight(ctx, tx, userID, end, pm, days)
		return err
	})
	return in, err
}

// Session rebuilds the full view-model for one user and date. Profile,
// Summary and Insight stay nil until the user has saved a profile.
func (t *Tracker) Session(ctx context.Context, userID int64, date model.Date) (model.Session, error) {
	sess := model.Session{Date: date, ExerciseTypes: t.mets.Types()}
	err := t.store.InTx(ctx, func(tx store.Tx) error {
		u, err := tx.UserByID(ctx, userID)
		if err != nil {
			return err
		}
		sess.User = u.Summary()

		if sess.Profile, err = loadMetrics(ctx, tx, userID); err != nil {
			return err
		}
		if sess.Profile != nil {
			summary, err := summarize(ctx, tx, userID, date, *sess.Profile)
			if err != nil {
				return err
			}
			sess.Summary = &summary
			in, err := insight(ctx, tx, userID, date, *sess.Profile, InsightDays)
			if err != nil {
				return err
			}
			sess.Insight = &in
		}

		if sess.WeightHistory, err = tx.WeightHistory(ctx, userID); err != nil {
			return err
		}
		if sess.Workouts, err = tx.WorkoutLogs(ctx, userID); err != nil {
			return err
		}
		items, err := tx.FoodItems(ctx, &userID)
		if err != nil {
			return err
		}
		sess.FoodGroups = GroupItems(items)
		return nil
	})
	if errors.Is(err, model.ErrNotFound) {
		return model.Session{}, model.ErrUserNotFound
	}
	return sess, err
}
