package main

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON. All
// day-boundary logic in this service works on calendar dates, never on
// wall-clock instants, so this is the only date shape handlers exchange.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns into DateOnly. NULL values zero the time and return nil so that
// *DateOnly pointer fields can be set to nil by pgx's NULL handling.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// userProfile maps to user_profiles. One row per user with the biometric
// inputs for goal computation. All biometric fields are nullable so a
// freshly-created row works before onboarding completes — computeGoals falls
// back to defaults until every required field is present.
type userProfile struct {
	UserID             int      `json:"user_id"              db:"user_id"`
	HeightCM           *float64 `json:"height_cm"            db:"height_cm"`
	WeightKG           *float64 `json:"weight_kg"            db:"weight_kg"`
	Age                *int     `json:"age"                  db:"age"`
	Gender             *string  `json:"gender"               db:"gender"`
	ActivityLevel      *string  `json:"activity_level"       db:"activity_level"`
	WeightGoal         *string  `json:"weight_goal"          db:"weight_goal"`
	DailyCalorieTarget *int     `json:"daily_calorie_target" db:"daily_calorie_target"`
	StartingWeightKG   *float64 `json:"starting_weight_kg"   db:"starting_weight_kg"`

	// Per-nutrient overrides. Each non-NULL value replaces the computed figure
	// for that field only; the rest stay computed.
	FocusProteinG *int `json:"focus_protein_g" db:"focus_protein_g"`
	FocusCarbsG   *int `json:"focus_carbs_g"   db:"focus_carbs_g"`
	FocusFatG     *int `json:"focus_fat_g"     db:"focus_fat_g"`
	FocusFiberG   *int `json:"focus_fiber_g"   db:"focus_fiber_g"`
	FocusSugarG   *int `json:"focus_sugar_g"   db:"focus_sugar_g"`
	FocusSodiumMG *int `json:"focus_sodium_mg" db:"focus_sodium_mg"`

	// Computed server-side from the fields above; never stored.
	// db:"-" tells RowToStructByName to skip it during scanning.
	Goals *nutritionGoals `json:"goals,omitempty" db:"-"`
}

// nutritionGoals is the derived daily target set. Recomputed on every profile
// read; never persisted.
type nutritionGoals struct {
	Calories int `json:"calories"`
	ProteinG int `json:"protein_g"`
	CarbsG   int `json:"carbs_g"`
	FatG     int `json:"fat_g"`
	FiberG   int `json:"fiber_g"`
	SugarG   int `json:"sugar_g"`
	SodiumMG int `json:"sodium_mg"`
}

// dailyTotals is the consumed-so-far figures for one calendar day, summed
// from food log items. Exercise calories are tracked separately because they
// raise the budget instead of consuming it.
type dailyTotals struct {
	Calories int     `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// macroProgress is one macro's slice of the aggregate view. Percent is
// uncapped and RemainingG is signed — negative means over target. Any visual
// clamping is the client's job.
type macroProgress struct {
	Percent    float64 `json:"percent"`
	RemainingG float64 `json:"remaining_g"`
	Label      string  `json:"label"`
}

// aggregateView is the transient remaining/percent summary for one day.
// Remaining is signed (negative = over budget) and PercentConsumed is
// uncapped; both round-trip exactly so the client can show true overage.
type aggregateView struct {
	AdjustedGoal    int                      `json:"adjusted_goal"`
	Remaining       int                      `json:"remaining"`
	PercentConsumed int                      `json:"percent_consumed"`
	Macros          map[string]macroProgress `json:"macros"`
}

// streakState maps to activity_streaks. LastCreditedDate is nil until the
// first credit; Count only moves through the rules in checkAndUpdateStreak.
type streakState struct {
	Count            int       `json:"count"              db:"count"`
	LastCreditedDate *DateOnly `json:"last_credited_date" db:"last_credited_date"`
}

// historyPoint is one entry of a weight or step series. IsTemporary marks the
// synthetic "today" point derived from the profile's current value — it is
// displayed but never written to the store, and disappears once a real entry
// for today exists.
type historyPoint struct {
	Date        DateOnly `json:"date"  db:"date"`
	Value       float64  `json:"value" db:"value"`
	IsTemporary bool     `json:"is_temporary,omitempty" db:"-"`
}

// foodLogItem maps to food_log_items. Nullable macro fields use pointers so
// pgx can scan NULLs.
type foodLogItem struct {
	ID        int        `json:"id" db:"id"`
	UserID    int        `json:"user_id" db:"user_id"`
	Date      DateOnly   `json:"date" db:"date"`
	ItemName  string     `json:"item_name" db:"item_name"`
	Type      string     `json:"type" db:"type"`
	Calories  int        `json:"calories" db:"calories"`
	ProteinG  *float64   `json:"protein_g" db:"protein_g"`
	CarbsG    *float64   `json:"carbs_g" db:"carbs_g"`
	FatG      *float64   `json:"fat_g" db:"fat_g"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// featureRequest is one row of the community leaderboard, vote count included.
type featureRequest struct {
	ID          int        `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Votes       int        `json:"votes" db:"votes"`
	CreatedAt   *time.Time `json:"created_at" db:"created_at"`
}

/* ─── Request / response shapes ──────────────────────────────────────── */

// patchProfileRequest is the body for PATCH /api/profile. All fields are
// pointers — only non-nil fields get written to the database.
type patchProfileRequest struct {
	HeightCM           *float64 `json:"height_cm"`
	WeightKG           *float64 `json:"weight_kg"`
	Age                *int     `json:"age"`
	Gender             *string  `json:"gender"`
	ActivityLevel      *string  `json:"activity_level"`
	WeightGoal         *string  `json:"weight_goal"`
	DailyCalorieTarget *int     `json:"daily_calorie_target"`
	StartingWeightKG   *float64 `json:"starting_weight_kg"`
	FocusProteinG      *int     `json:"focus_protein_g"`
	FocusCarbsG        *int     `json:"focus_carbs_g"`
	FocusFatG          *int     `json:"focus_fat_g"`
	FocusFiberG        *int     `json:"focus_fiber_g"`
	FocusSugarG        *int     `json:"focus_sugar_g"`
	FocusSodiumMG      *int     `json:"focus_sodium_mg"`
}

// createFoodLogItemRequest is the body for POST /api/food-log.
type createFoodLogItemRequest struct {
	Date     string   `json:"date"`
	ItemName string   `json:"item_name"`
	Type     string   `json:"type"`
	Calories int      `json:"calories"`
	ProteinG *float64 `json:"protein_g"`
	CarbsG   *float64 `json:"carbs_g"`
	FatG     *float64 `json:"fat_g"`
}

// dailySummary is the response for GET /api/daily: the day's items, totals,
// current goals, and the computed aggregate view.
type dailySummary struct {
	Date             string         `json:"date"`
	Goals            nutritionGoals `json:"goals"`
	Totals           dailyTotals    `json:"totals"`
	ExerciseCalories int            `json:"exercise_calories"`
	View             aggregateView  `json:"view"`
	Items            []foodLogItem  `json:"items"`
}

// addHistoryEntryRequest is the body for POST /api/weight-history and
// POST /api/step-history. Date defaults to today when omitted.
type addHistoryEntryRequest struct {
	Value *float64 `json:"value"`
	Date  *string  `json:"date"`
}

// historyResponse carries a series snapshot plus sync state. Synced=false
// means the remote write failed and the entry only exists locally so far.
type historyResponse struct {
	Points           []historyPoint `json:"points"`
	Synced           bool           `json:"synced"`
	ChangeSinceStart *float64       `json:"change_since_start,omitempty"`
	Warning          string         `json:"warning,omitempty"`
}

// streakResponse is the response for the streak endpoints.
type streakResponse struct {
	Count            int       `json:"count"`
	LastCreditedDate *DateOnly `json:"last_credited_date"`
	CreditedToday    bool      `json:"credited_today"`
}
