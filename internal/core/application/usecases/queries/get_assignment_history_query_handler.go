package queries

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetAssignmentHistoryQueryHandler struct {
	db *gorm.DB
}

func NewGetAssignmentHistoryQueryHandler(db *gorm.DB) GetAssignmentHistoryQueryHandler {
	return GetAssignmentHistoryQueryHandler{db: db}
}

// Handle returns the order's records, oldest first. An order that was never
// assigned yields an empty slice.
func (h GetAssignmentHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetAssignmentHistoryQuery,
) ([]GetAssignmentHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	history := make([]GetAssignmentHistoryQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			driver_id,
			algorithm,
			candidate_count,
			final_score,
			estimated_minutes,
			estimated_distance_km,
			created_at
		FROM assignment_records
		WHERE order_id = ?
		ORDER BY created_at, id
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry GetAssignmentHistoryQueryResponse
		var id, driverID uuid.UUID
		var algorithm string
		var createdAt time.Time

		err = rows.Scan(
			&id,
			&driverID,
			&algorithm,
			&entry.CandidateCount,
			&entry.FinalScore,
			&entry.EstimatedMinutes,
			&entry.EstimatedDistanceKm,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		if entry.RecordID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if entry.DriverID, err = kernel.UUIDFromBytes(driverID[:]); err != nil {
			return nil, err
		}
		if entry.Algorithm, err = assignment.ParseAlgorithm(algorithm); err != nil {
			return nil, err
		}
		entry.CreatedAt = createdAt.UTC()
		history = append(history, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return history, nil
}
