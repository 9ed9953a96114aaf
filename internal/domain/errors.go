package domain

import (
	"errors"
)

// 领域错误。各组件不做恢复，原样上抛到 handler 层，
// 由 handler 统一映射为响应信息。
var (
	// ErrInvalidCredentials 对用户不存在、已停用、密码错误三种情况
	// 返回同一条信息，避免账号枚举。
	ErrInvalidCredentials = errors.New("邮箱不存在或密码错误")
	ErrReferenceNotFound  = errors.New("关联的记录不存在")
	ErrOwnershipViolation = errors.New("无权操作其他员工的记录")
	ErrSchedulingConflict = errors.New("该员工当天已有排班")
	ErrImmutableRecord    = errors.New("已审批通过的工时表不可修改或删除")
	ErrInvalidTransition  = errors.New("当前状态不允许该操作")
	ErrAlreadyMember      = errors.New("该用户已是团队成员")
	ErrNotAMember         = errors.New("该用户不是团队成员")
	// ErrNotFound 同时用于记录不存在与归属不符两种情况，
	// 使外部无法探测他人记录的 ID。
	ErrNotFound = errors.New("记录不存在")
)
