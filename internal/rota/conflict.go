package rota

import (
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/domain"
)

// ConflictingShifts 返回 shifts 中与 (userID, shiftDate) 冲突的班次。
// 冲突策略为同一员工同一日历日至多一个班次，不比较班次模板的具体
// 时间段是否重叠。excludeID 用于更新场景下排除记录自身。
func ConflictingShifts(shifts []*domain.Shift, userID, shiftDate, excludeID string) []*domain.Shift {
	conflicts := make([]*domain.Shift, 0)

	for _, shift := range shifts {
		if excludeID != "" && shift.ID == excludeID {
			continue
		}
		if shift.UserID != userID {
			continue
		}
		if shift.ShiftDate != shiftDate {
			continue
		}
		conflicts = append(conflicts, shift)
	}

	return conflicts
}
