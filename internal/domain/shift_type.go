package domain

import (
	"time"
)

// ShiftType 是可复用的班次模板，StartTime 和 EndTime 均为 "HH:mm" 格式。
type ShiftType struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	StartTime     string    `json:"startTime"`
	EndTime       string    `json:"endTime"`
	BreakDuration int32     `json:"breakDuration"`
	Color         string    `json:"color"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Version       int32     `json:"-"`
}

type ShiftTypeSummary struct {
	Name          string `json:"name"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	BreakDuration int32  `json:"breakDuration"`
	Color         string `json:"color"`
}
