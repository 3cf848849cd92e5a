// cuaderno-crm/internal/handlers/grade_handler_test.go
package handlers

import (
	"math"
	"testing"

	"cuaderno-crm/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeStudent(t *testing.T) {
	st := &models.Student{FirstName: "Ana", LastName: "García"}
	st.ID = 1
	group := &models.Group{}

	activities := map[uint]models.Activity{
		1: {Category: "examenes", Weight: 2, MaxScore: 10},
		2: {Category: "examenes", Weight: 1, MaxScore: 20},
		3: {Category: "tareas", Weight: 1, MaxScore: 10},
	}
	marks := []models.Mark{
		{ActivityID: 1, StudentID: 1, Score: 8},
		{ActivityID: 2, StudentID: 1, Score: 10}, // 10 из 20 = 5.0 по десятибалльной
		{ActivityID: 3, StudentID: 1, Score: 9},
	}

	summary := summarizeStudent(st, group, marks, activities)
	assert.Equal(t, "García Ana", summary.FullName)
	assert.InDelta(t, 7.0, summary.Categories["examenes"], 1e-9) // (8*2 + 5*1) / 3
	assert.InDelta(t, 9.0, summary.Categories["tareas"], 1e-9)
	assert.InDelta(t, 7.5, summary.Final, 1e-9) // (8*2 + 5*1 + 9*1) / 4
	assert.Equal(t, 3, summary.Graded)
}

func TestSummarizeStudentFormula(t *testing.T) {
	st := &models.Student{FirstName: "Ana", LastName: "García"}
	st.ID = 1
	group := &models.Group{GradingFormula: "examenes*0.6 + tareas*0.4"}

	activities := map[uint]models.Activity{
		1: {Category: "examenes", Weight: 1, MaxScore: 10},
		2: {Category: "tareas", Weight: 1, MaxScore: 10},
	}
	marks := []models.Mark{
		{ActivityID: 1, StudentID: 1, Score: 5},
		{ActivityID: 2, StudentID: 1, Score: 10},
	}

	summary := summarizeStudent(st, group, marks, activities)
	assert.InDelta(t, 7.0, summary.Final, 1e-9) // 5*0.6 + 10*0.4

	// Битая формула не валит отчёт: берётся взвешенное среднее.
	group.GradingFormula = "examenes *** tareas"
	summary = summarizeStudent(st, group, marks, activities)
	assert.InDelta(t, 7.5, summary.Final, 1e-9)
}

// Работы с нулевым весом или максимумом (например, из восстановленной
// резервной копии) не должны давать NaN или бесконечность в итогах.
func TestSummarizeStudentZeroWeightActivities(t *testing.T) {
	st := &models.Student{FirstName: "Ana", LastName: "García"}
	st.ID = 1
	group := &models.Group{}

	activities := map[uint]models.Activity{
		1: {Category: "examenes", Weight: 1, MaxScore: 10},
		2: {Category: "examenes", Weight: 0, MaxScore: 10},
		3: {Category: "tareas", Weight: 1, MaxScore: 0},
	}
	marks := []models.Mark{
		{ActivityID: 1, StudentID: 1, Score: 8},
		{ActivityID: 2, StudentID: 1, Score: 10},
		{ActivityID: 3, StudentID: 1, Score: 5},
	}

	summary := summarizeStudent(st, group, marks, activities)
	require.False(t, math.IsNaN(summary.Final))
	require.False(t, math.IsInf(summary.Final, 0))
	assert.InDelta(t, 8.0, summary.Categories["examenes"], 1e-9)
	assert.NotContains(t, summary.Categories, "tareas")
	assert.InDelta(t, 8.0, summary.Final, 1e-9)

	// Ученик вовсе без корректных работ получает нулевой итог, не NaN.
	summary = summarizeStudent(st, group, marks[1:2], activities)
	assert.Zero(t, summary.Final)
	require.False(t, math.IsNaN(summary.Final))
}
