package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/ganfan/internal/model"
	"github.com/sakif/ganfan/internal/repository"
)

// MealStore exposes the meal methods of DB under the MealRepository
// interface. DB cannot implement it directly because UserRepository already
// claims the Create method name.
type MealStore struct {
	db *DB
}

var _ repository.MealRepository = (*MealStore)(nil)

// Meals returns the meal repository backed by this database.
func (db *DB) Meals() *MealStore {
	return &MealStore{db: db}
}

// Create appends a record to its owner's collection. ID and CreatedAt are
// assigned here unless the caller already set them.
//
// The list-valued fields are stored as JSON text columns: they are never
// queried individually, only read back whole.
func (s *MealStore) Create(ctx context.Context, record *model.MealRecord) error {
	if record.ID == "" {
		record.ID = xid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	companion, err := encodeList(record.Companion)
	if err != nil {
		return fmt.Errorf("sqlite: encoding companions: %w", err)
	}
	dishes, err := encodeList(record.DishItems)
	if err != nil {
		return fmt.Errorf("sqlite: encoding dishes: %w", err)
	}
	tastes, err := encodeList(record.Tastes)
	if err != nil {
		return fmt.Errorf("sqlite: encoding tastes: %w", err)
	}
	photos, err := encodeList(record.Photos)
	if err != nil {
		return fmt.Errorf("sqlite: encoding photos: %w", err)
	}

	_, err = s.db.conn.ExecContext(ctx,
		`INSERT INTO meals (id, user_id, date, meal_type, source, companion, dish_items,
		                    tastes, cost, photos, note, cuisine, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.UserID,
		record.Date,
		string(record.MealType),
		string(record.Source),
		companion,
		dishes,
		tastes,
		record.Cost,
		photos,
		record.Note,
		record.Cuisine,
		record.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting meal for user %s: %w", record.UserID, err)
	}
	return nil
}

// ListByUser returns every record of the user ordered by insertion.
func (s *MealStore) ListByUser(ctx context.Context, userID string) ([]model.MealRecord, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT id, user_id, date, meal_type, source, companion, dish_items,
		        tastes, cost, photos, note, cuisine, created_at
		 FROM meals
		 WHERE user_id = ?
		 ORDER BY seq ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing meals for user %s: %w", userID, err)
	}
	defer rows.Close()

	records := []model.MealRecord{}
	for rows.Next() {
		var (
			r                                 model.MealRecord
			mealType, source                  string
			companion, dishes, tastes, photos string
			createdMillis                     int64
		)
		if err := rows.Scan(
			&r.ID, &r.UserID, &r.Date, &mealType, &source,
			&companion, &dishes, &tastes, &r.Cost, &photos,
			&r.Note, &r.Cuisine, &createdMillis,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning meal row: %w", err)
		}

		r.MealType = model.MealType(mealType)
		r.Source = model.SourceType(source)
		r.CreatedAt = time.UnixMilli(createdMillis)

		if err := decodeList(companion, &r.Companion); err != nil {
			return nil, fmt.Errorf("sqlite: decoding companions of meal %s: %w", r.ID, err)
		}
		if err := decodeList(dishes, &r.DishItems); err != nil {
			return nil, fmt.Errorf("sqlite: decoding dishes of meal %s: %w", r.ID, err)
		}
		if err := decodeList(tastes, &r.Tastes); err != nil {
			return nil, fmt.Errorf("sqlite: decoding tastes of meal %s: %w", r.ID, err)
		}
		if err := decodeList(photos, &r.Photos); err != nil {
			return nil, fmt.Errorf("sqlite: decoding photos of meal %s: %w", r.ID, err)
		}

		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating meals: %w", err)
	}

	return records, nil
}

// encodeList stores nil slices as "[]" so reads never see null.
func encodeList[T any](list []T) (string, error) {
	if list == nil {
		list = []T{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeList[T any](raw string, dst *[]T) error {
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return err
	}
	if *dst == nil {
		*dst = []T{}
	}
	return nil
}
