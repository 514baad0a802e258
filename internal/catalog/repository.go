// Package catalog stores frames and bikes and resolves the geometry a fit is
// computed against.
package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"cockpit-fit-workers/internal/models"
)

var (
	ErrFrameNotFound = errors.New("frame not found")
	ErrBikeNotFound  = errors.New("bike not found")
)

//go:embed schema.sql
var schemaSQL string

const frameColumns = `id, brand, model, size_label, stack_mm, reach_mm,
	seat_tube_angle_deg, head_tube_angle_deg, head_tube_length_mm, wheelbase_mm`

// Repository reads and writes the frame catalog and rider bikes in Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the catalog tables when they do not exist.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate catalog schema: %w", err)
	}
	return nil
}

func (r *Repository) GetFrame(ctx context.Context, id string) (*models.Frame, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+frameColumns+` FROM frames WHERE id = $1`, id)

	frame, err := scanFrame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrFrameNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get frame %s: %w", id, err)
	}
	return frame, nil
}

// ListFrames returns frames ordered by brand then model. A non-blank search
// matches brand or model case-insensitively.
func (r *Repository) ListFrames(ctx context.Context, search string) ([]models.Frame, error) {
	query := `SELECT ` + frameColumns + ` FROM frames`
	var args []interface{}

	if s := strings.TrimSpace(search); s != "" {
		query += ` WHERE brand ILIKE $1 OR model ILIKE $1`
		args = append(args, "%"+s+"%")
	}
	query += ` ORDER BY brand ASC, model ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list frames: %w", err)
	}
	defer rows.Close()

	frames := []models.Frame{}
	for rows.Next() {
		frame, err := scanFrame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan frame: %w", err)
		}
		frames = append(frames, *frame)
	}
	return frames, rows.Err()
}

// UpsertFrame inserts the frame or updates the row with the same brand,
// model and size label, and returns the row id.
func (r *Repository) UpsertFrame(ctx context.Context, f models.Frame) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO frames (brand, model, size_label, stack_mm, reach_mm,
			seat_tube_angle_deg, head_tube_angle_deg, head_tube_length_mm, wheelbase_mm)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (brand, model, size_label) DO UPDATE SET
			stack_mm = EXCLUDED.stack_mm,
			reach_mm = EXCLUDED.reach_mm,
			seat_tube_angle_deg = EXCLUDED.seat_tube_angle_deg,
			head_tube_angle_deg = EXCLUDED.head_tube_angle_deg,
			head_tube_length_mm = EXCLUDED.head_tube_length_mm,
			wheelbase_mm = EXCLUDED.wheelbase_mm,
			updated_at = now()
		RETURNING id`,
		f.Brand, f.Model, f.SizeLabel, f.StackMm, f.ReachMm,
		f.SeatTubeAngleDeg, f.HeadTubeAngleDeg, f.HeadTubeLengthMm, f.WheelbaseMm,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("upsert frame %s: %w", f.DisplayName(), err)
	}
	return id, nil
}

// GetBike returns the bike only when it belongs to userID.
func (r *Repository) GetBike(ctx context.Context, bikeID, userID string) (*models.Bike, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, frame_id, stem_mm, spacer_mm, bar_reach_category,
			saddle_height_mm, saddle_setback_mm,
			manual_stack_mm, manual_reach_mm, manual_seat_tube_angle_deg,
			manual_head_tube_length_mm, manual_wheelbase_mm,
			created_at, updated_at
		FROM bikes WHERE id = $1 AND user_id = $2`, bikeID, userID)

	var (
		b        models.Bike
		frameID  sql.NullString
		category sql.NullString
		nums     [9]sql.NullFloat64
	)
	err := row.Scan(&b.ID, &b.UserID, &b.Name, &frameID,
		&nums[0], &nums[1], &category, &nums[2], &nums[3],
		&nums[4], &nums[5], &nums[6], &nums[7], &nums[8],
		&b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrBikeNotFound, bikeID)
	}
	if err != nil {
		return nil, fmt.Errorf("get bike %s: %w", bikeID, err)
	}

	if frameID.Valid {
		b.FrameID = &frameID.String
	}
	b.BarReachCategory = category.String
	b.StemMm = nullFloat(nums[0])
	b.SpacerMm = nullFloat(nums[1])
	b.SaddleHeightMm = nullFloat(nums[2])
	b.SaddleSetbackMm = nullFloat(nums[3])
	b.ManualStackMm = nullFloat(nums[4])
	b.ManualReachMm = nullFloat(nums[5])
	b.ManualSeatTubeAngleDeg = nullFloat(nums[6])
	b.ManualHeadTubeLengthMm = nullFloat(nums[7])
	b.ManualWheelbaseMm = nullFloat(nums[8])
	return &b, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanFrame(s scanner) (*models.Frame, error) {
	var (
		f    models.Frame
		opts [4]sql.NullFloat64
	)
	if err := s.Scan(&f.ID, &f.Brand, &f.Model, &f.SizeLabel, &f.StackMm, &f.ReachMm,
		&opts[0], &opts[1], &opts[2], &opts[3]); err != nil {
		return nil, err
	}
	f.SeatTubeAngleDeg = nullFloat(opts[0])
	f.HeadTubeAngleDeg = nullFloat(opts[1])
	f.HeadTubeLengthMm = nullFloat(opts[2])
	f.WheelbaseMm = nullFloat(opts[3])
	return &f, nil
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
