package rota

import (
	"math"
	"time"
)

// 每日常规工时上限，超出部分计为加班。
const regularHoursPerDay = 8

// ComputeHours 根据上下班时间与休息时长计算常规工时与加班工时。
// 任一打卡时间缺失时两项均为 0。总工时为负（下班早于上班，或休息
// 超过在岗时长）时不做钳制，原样参与计算。
func ComputeHours(clockIn, clockOut *time.Time, breakMinutes int32) (regular, overtime float64) {
	if clockIn == nil || clockOut == nil {
		return 0, 0
	}

	total := clockOut.Sub(*clockIn).Minutes()/60 - float64(breakMinutes)/60

	regular = math.Min(total, regularHoursPerDay)
	overtime = math.Max(0, total-regularHoursPerDay)

	return round2(regular), round2(overtime)
}

// 四舍五入到小数点后两位，0.5 向远离零的方向舍入。
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
