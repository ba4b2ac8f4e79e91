// Package service implements the tracker's operations on top of a
// transactional store. Every exported method runs in exactly one
// store transaction.
package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"lg/weight-tracker-api/internal/credential"
	"lg/weight-tracker-api/internal/exercise"
	"lg/weight-tracker-api/internal/metabolic"
	"lg/weight-tracker-api/internal/model"
	"lg/weight-tracker-api/internal/store"
)

// MinPasswordLen is the shortest password Register accepts.
const MinPasswordLen = 6

// Tracker is the operation surface used by the HTTP API and the CLI.
type Tracker struct {
	store       store.Store
	mets        exercise.Table
	allowGlobal bool
}

type Option func(*Tracker)

// WithMETs replaces the MET table used for exercise burn estimates.
func WithMETs(t exercise.Table) Option {
	return func(tr *Tracker) { tr.mets = t }
}

// WithGlobalItems controls whether signed-in users may add shared catalog
// items. Defaults to true.
func WithGlobalItems(allow bool) Option {
	return func(tr *Tracker) { tr.allowGlobal = allow }
}

func New(s store.Store, opts ...Option) *Tracker {
	t := &Tracker{store: s, mets: exercise.DefaultTable, allowGlobal: true}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ExerciseTypes lists the known exercise kinds, sorted.
func (t *Tracker) ExerciseTypes() []string {
	return t.mets.Types()
}

/* ─── Accounts ───────────────────────────────────────────────────────── */

// normalizeUsername trims and lowercases so uniqueness is case-insensitive.
func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Register creates a user. The unique index on username decides duplicates,
// so two concurrent registrations can't both succeed.
func (t *Tracker) Register(ctx context.Context, username, password string) (model.UserSummary, error) {
	username = normalizeUsername(username)
	if username == "" {
		return model.UserSummary{}, model.Invalid("username", "is required")
	}
	if err := maxLen("username", username, maxUsernameLen); err != nil {
		return model.UserSummary{}, err
	}
	if len(password) < MinPasswordLen {
		return model.UserSummary{}, model.Invalid("password", "must be at least %d characters", MinPasswordLen)
	}

	hash, salt, err := credential.HashPassword(password)
	if err != nil {
		return model.UserSummary{}, err
	}

	var u model.User
	err = t.store.InTx(ctx, func(tx store.Tx) error {
		var err error
		u, err = tx.CreateUser(ctx, username, hash, salt)
		return err
	})
	if err != nil {
		log.Printf("[Register] username=%s: %v", username, err)
		return model.UserSummary{}, err
	}
	log.Printf("[Register] created user id=%d", u.ID)
	return u.Summary(), nil
}

// Authenticate checks a username/password pair. ok is false for an unknown
// user or a wrong password; err is reserved for storage failures.
func (t *Tracker) Authenticate(ctx context.Context, username, password string) (summary model.UserSummary, ok bool, err error) {
	username = normalizeUsername(username)

	var u model.User
	err = t.store.InTx(ctx, func(tx store.Tx) error {
		var err error
		u, err = tx.UserByUsername(ctx, username)
		return err
	})
	if errors.Is(err, model.ErrNotFound) {
		// Same work as a real check so response timing doesn't reveal
		// whether the username exists.
		credential.VerifyDummy(password)
		log.Printf("[Authenticate] unknown username=%s", username)
		return model.UserSummary{}, false, nil
	}
	if err != nil {
		return model.UserSummary{}, false, err
	}
	if !credential.VerifyPassword(password, u.PasswordHash, u.PasswordSalt) {
		log.Printf("[Authenticate] bad password for user id=%d", u.ID)
		return model.UserSummary{}, false, nil
	}
	return u.Summary(), true, nil
}

// User returns the public view of userID.
func (t *Tracker) User(ctx context.Context, userID int64) (model.UserSummary, error) {
	var u model.User
	err := t.store.InTx(ctx, func(tx store.Tx) error {
		var err error
		u, err = tx.UserByID(ctx, userID)
		return err
	})
	if errors.Is(err, model.ErrNotFound) {
		return model.UserSummary{}, model.ErrUserNotFound
	}
	return u.Summary(), err
}

// DeleteAccount removes the user; profile, logs and personal catalog items
// go with it.
func (t *Tracker) DeleteAccount(ctx context.Context, userID int64) error {
	return t.store.InTx(ctx, func(tx store.Tx) error {
		n, err := tx.DeleteUser(ctx, userID)
		if err != nil {
			return err
		}
		if n == 0 {
			return model.ErrUserNotFound
		}
		log.Printf("[DeleteAccount] deleted user id=%d", userID)
		return nil
	})
}

/* ─── Profile ────────────────────────────────────────────────────────── */

// ProfileInput is the raw profile form. Gender and Activity are parsed
// case-insensitively.
type ProfileInput struct {
	Age      int
	Gender   string
	HeightCM int
	WeightKG float64
	Activity string
	Deficit  int
}

func (in ProfileInput) toProfile(userID int64) (model.Profile, error) {
	if in.Age <= 0 {
		return model.Profile{}, model.Invalid("age", "must be greater than 0")
	}
	if in.HeightCM <= 0 {
		return model.Profile{}, model.Invalid("height_cm", "must be greater than 0")
	}
	if !finite(in.WeightKG) || in.WeightKG <= 0 {
		return model.Profile{}, model.Invalid("weight_kg", "must be greater than 0")
	}
	gender, err := metabolic.ParseGender(in.Gender)
	if err != nil {
		return model.Profile{}, model.Invalid("gender", "must be Male or Female")
	}
	activity, err := metabolic.ParseActivityLevel(in.Activity)
	if err != nil {
		return model.Profile{}, model.Invalid("activity", "must be one of Sedentary, Light, Moderate, Intense")
	}
	return model.Profile{
		UserID:   userID,
		Age:      in.Age,
		Gender:   gender,
		HeightCM: in.HeightCM,
		WeightKG: in.WeightKG,
		Activity: activity,
		Deficit:  in.Deficit,
	}, nil
}

// Metrics derives BMR and TDEE for p.
func Metrics(p model.Profile) model.ProfileMetrics {
	bmr := metabolic.BMR(p.WeightKG, float64(p.HeightCM), p.Age, p.Gender)
	return model.ProfileMetrics{Profile: p, BMR: bmr, TDEE: metabolic.TDEE(bmr, p.Activity)}
}

// SaveProfile creates or overwrites the user's profile.
func (t *Tracker) SaveProfile(ctx context.Context, userID int64, in ProfileInput) (model.ProfileMetrics, error) {
	p, err := in.toProfile(userID)
	if err != nil {
		return model.ProfileMetrics{}, err
	}
	var saved model.Profile
	err = t.store.InTx(ctx, func(tx store.Tx) error {
		if _, err := tx.UserByID(ctx, userID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.ErrUserNotFound
			}
			return err
		}
		saved, err = tx.UpsertProfile(ctx, p)
		return err
	})
	if err != nil {
		log.Printf("[SaveProfile] user id=%d: %v", userID, err)
		return model.ProfileMetrics{}, err
	}
	return Metrics(saved), nil
}

// LoadProfile returns nil when the user hasn't saved a profile yet.
func (t *Tracker) LoadProfile(ctx context.Context, userID int64) (*model.ProfileMetrics, error) {
	var pm *model.ProfileMetrics
	err := t.store.InTx(ctx, func(tx store.Tx) error {
		var err error
		pm, err = loadMetrics(ctx, tx, userID)
		return err
	})
	return pm, err
}

func loadMetrics(ctx context.Context, tx store.Tx, userID int64) (*model.ProfileMetrics, error) {
	p, err := tx.ProfileByUser(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	pm := Metrics(p)
	return &pm, nil
}
