package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/claude/liftlog/internal/models"
)

// ExerciseFilter narrows the catalog listing. Zero values are ignored.
// Name is a case-insensitive substring match applied client-side.
type ExerciseFilter struct {
	MuscleGroup string
	Equipment   string
	Name        string
}

// ListExercises reads the exercise catalog, optionally filtered.
func (s *Store) ListExercises(ctx context.Context, f ExerciseFilter) ([]models.Exercise, error) {
	q := s.c.From("exercises").
		Select("id, name, muscle_group, primary_equipment, movement_pattern").
		Order("name", true)
	if f.MuscleGroup != "" {
		q = q.Eq("muscle_group", f.MuscleGroup)
	}
	if f.Equipment != "" {
		q = q.Eq("primary_equipment", f.Equipment)
	}

	var rows []models.Exercise
	if err := q.Get(ctx, &rows); err != nil {
		return nil, fmt.Errorf("listing exercises: %w", err)
	}

	if f.Name == "" {
		return rows, nil
	}
	needle := strings.ToLower(f.Name)
	filtered := rows[:0]
	for _, e := range rows {
		if strings.Contains(strings.ToLower(e.Name), needle) {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}
