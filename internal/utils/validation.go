package utils

import (
	"errors"
	"time"
)

// ValidateClockTime 校验 "HH:mm" 格式的时刻字符串。
func ValidateClockTime(value string) error {
	if _, err := time.Parse("15:04", value); err != nil {
		return errors.New("时间格式必须为 HH:mm")
	}
	return nil
}

// ValidateShiftDate 校验 "YYYY-MM-DD" 格式的日期字符串。
// 排班与工时的日期筛选依赖 ISO 日期的字典序，格式必须严格一致。
func ValidateShiftDate(value string) error {
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return errors.New("日期格式必须为 YYYY-MM-DD")
	}
	return nil
}
