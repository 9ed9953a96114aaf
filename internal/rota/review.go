package rota

import (
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/domain"
)

// CanReview 判断工时表当前状态是否允许审批。只有 submitted 和
// rejected 两种状态可以进入审批，被驳回的工时表允许重新审批。
// approved 是终态，重复审批同样会被拒绝。
func CanReview(status domain.TimesheetStatus) bool {
	return status == domain.TimesheetSubmitted || status == domain.TimesheetRejected
}

// ReviewStatus 把审批结论映射为工时表状态。
func ReviewStatus(approved bool) domain.TimesheetStatus {
	if approved {
		return domain.TimesheetApproved
	}
	return domain.TimesheetRejected
}

// Mutable 判断工时表是否仍允许修改或删除。
func Mutable(status domain.TimesheetStatus) bool {
	return status != domain.TimesheetApproved
}
