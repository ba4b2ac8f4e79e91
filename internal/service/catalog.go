package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"

	"lg/weight-tracker-api/internal/model"
	"lg/weight-tracker-api/internal/store"
)

// DefaultCategory is used for catalog items without one.
const DefaultCategory = "Other"

// ListItems returns the global catalog plus, for a signed-in user, their
// personal items, ordered by name. A nil userID sees globals only.
func (t *Tracker) ListItems(ctx context.Context, userID *int64) ([]model.FoodItem, error) {
	var items []model.FoodItem
	err := t.store.InTx(ctx, func(tx store.Tx) error {
		var err error
		items, err = tx.FoodItems(ctx, userID)
		return err
	})
	return items, err
}

// ItemInput is a new catalog template. MakeGlobal shares it with every user.
type ItemInput struct {
	Name       string
	Measure    string
	Kcal       float64
	Protein    float64
	Fat        float64
	Carbs      float64
	Category   string
	MakeGlobal bool
}

// AddItem saves a template. Anonymous callers can't add anything; global
// items also need the allow-global policy switched on.
func (t *Tracker) AddItem(ctx context.Context, userID *int64, in ItemInput) (model.FoodItem, error) {
	if userID == nil {
		return model.FoodItem{}, model.ErrForbidden
	}
	if in.MakeGlobal && !t.allowGlobal {
		return model.FoodItem{}, model.ErrForbidden
	}
	it, err := in.toItem()
	if err != nil {
		return model.FoodItem{}, err
	}
	if !in.MakeGlobal {
		it.OwnerID = userID
	}

	var saved model.FoodItem
	err = t.store.InTx(ctx, func(tx store.Tx) error {
		var err error
		saved, err = tx.InsertFoodItem(ctx, it)
		return err
	})
	if err != nil {
		log.Printf("[AddItem] user id=%d name=%q: %v", *userID, it.Name, err)
		return model.FoodItem{}, err
	}
	if saved.Global() {
		log.Printf("[AddItem] user id=%d added global item id=%d", *userID, saved.ID)
	}
	return saved, nil
}

func (in ItemInput) toItem() (model.FoodItem, error) {
	it := model.FoodItem{
		Name:     strings.TrimSpace(in.Name),
		Measure:  strings.TrimSpace(in.Measure),
		Kcal:     in.Kcal,
		Protein:  in.Protein,
		Fat:      in.Fat,
		Carbs:    in.Carbs,
		Category: strings.TrimSpace(in.Category),
	}
	if it.Name == "" {
		return model.FoodItem{}, model.Invalid("name", "is required")
	}
	if err := validNutrition(it.Kcal, it.Protein, it.Fat, it.Carbs); err != nil {
		return model.FoodItem{}, err
	}
	if it.Measure == "" {
		it.Measure = DefaultMeasure
	}
	if it.Category == "" {
		it.Category = DefaultCategory
	}
	for _, f := range []struct {
		name, v string
		n       int
	}{{"name", it.Name, maxNameLen}, {"measure", it.Measure, maxMeasureLen}, {"category", it.Category, maxCategoryLen}} {
		if err := maxLen(f.name, f.v, f.n); err != nil {
			return model.FoodItem{}, err
		}
	}
	return it, nil
}

// DeleteItems removes the caller's own items among ids. Global items and
// other users' items are left alone without error.
func (t *Tracker) DeleteItems(ctx context.Context, userID int64, ids []int64) error {
	return t.store.InTx(ctx, func(tx store.Tx) error {
		_, err := tx.DeleteFoodItems(ctx, userID, ids)
		return err
	})
}

// GroupItems buckets items by category, categories ascending. Items keep
// their input order inside a group.
func GroupItems(items []model.FoodItem) []model.FoodGroup {
	byCat := make(map[string][]model.FoodItem)
	for _, it := range items {
		cat := it.Category
		if cat == "" {
			cat = DefaultCategory
		}
		byCat[cat] = append(byCat[cat], it)
	}
	cats := make([]string, 0, len(byCat))
	for c := range byCat {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	groups := make([]model.FoodGroup, 0, len(cats))
	for _, c := range cats {
		groups = append(groups, model.FoodGroup{Category: c, Items: byCat[c]})
	}
	return groups
}

/* ─── Seeding ────────────────────────────────────────────────────────── */

// SeedCatalog loads global items from CSV when the catalog is empty and
// returns how many were inserted. The header must name a "food" or "name"
// column; measure, kcal, protein, fat, carbs and category are optional.
// Repeated names keep their first row.
func (t *Tracker) SeedCatalog(ctx context.Context, r io.Reader) (int, error) {
	items, err := parseCatalogCSV(r)
	if err != nil {
		return 0, err
	}

	inserted := 0
	err = t.store.InTx(ctx, func(tx store.Tx) error {
		n, err := tx.CountFoodItems(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		for _, it := range items {
			if _, err := tx.InsertFoodItem(ctx, it); err != nil {
				return fmt.Errorf("seed %q: %w", it.Name, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.Printf("[SeedCatalog] inserted %d items", inserted)
	return inserted, nil
}

func parseCatalogCSV(r io.Reader) ([]model.FoodItem, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	nameCol, ok := col["food"]
	if !ok {
		if nameCol, ok = col["name"]; !ok {
			return nil, errors.New("csv header needs a food or name column")
		}
	}

	field := func(rec []string, key string) string {
		if i, ok := col[key]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}
	number := func(rec []string, key string, line int) (float64, error) {
		v := field(rec, key)
		if v == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("line %d: %s: %w", line, key, err)
		}
		return f, nil
	}

	var items []model.FoodItem
	seen := make(map[string]bool)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		name := ""
		if nameCol < len(rec) {
			name = strings.TrimSpace(rec[nameCol])
		}
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		in := ItemInput{Name: name, Measure: field(rec, "measure"), Category: field(rec, "category")}
		if in.Kcal, err = number(rec, "kcal", line); err != nil {
			return nil, err
		}
		if in.Protein, err = number(rec, "protein", line); err != nil {
			return nil, err
		}
		if in.Fat, err = number(rec, "fat", line); err != nil {
			return nil, err
		}
		if in.Carbs, err = number(rec, "carbs", line); err != nil {
			return nil, err
		}
		it, err := in.toItem()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		items = append(items, it)
	}
	return items, nil
}
