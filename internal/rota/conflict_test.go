package rota

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/domain"
)

func TestConflictingShifts(t *testing.T) {
	shifts := []*domain.Shift{
		{ID: "s1", UserID: "u1", ShiftTypeID: "st1", ShiftDate: "2025-03-10"},
		{ID: "s2", UserID: "u1", ShiftTypeID: "st2", ShiftDate: "2025-03-11"},
		{ID: "s3", UserID: "u2", ShiftTypeID: "st1", ShiftDate: "2025-03-10"},
	}

	t.Run("同一员工同一天即冲突", func(t *testing.T) {
		conflicts := ConflictingShifts(shifts, "u1", "2025-03-10", "")
		assert.Len(t, conflicts, 1)
		assert.Equal(t, "s1", conflicts[0].ID)
	})

	t.Run("班次模板不同不影响冲突判定", func(t *testing.T) {
		// s1 使用 st1，新班次使用 st3，同一天依旧冲突
		conflicts := ConflictingShifts(shifts, "u1", "2025-03-10", "")
		assert.NotEmpty(t, conflicts)
	})

	t.Run("其他员工同一天不冲突", func(t *testing.T) {
		conflicts := ConflictingShifts(shifts, "u3", "2025-03-10", "")
		assert.Empty(t, conflicts)
	})

	t.Run("更新时排除记录自身", func(t *testing.T) {
		conflicts := ConflictingShifts(shifts, "u1", "2025-03-10", "s1")
		assert.Empty(t, conflicts)
	})

	t.Run("不同日期不冲突", func(t *testing.T) {
		conflicts := ConflictingShifts(shifts, "u1", "2025-03-12", "")
		assert.Empty(t, conflicts)
	})
}
