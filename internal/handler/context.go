package handler

type ContextKey string

var (
	IdentityCtxKey  ContextKey = "identity"
	MyInfoCtx       ContextKey = "myInfo"
	UserInfoCtx     ContextKey = "userInfo"
	TeamCtx         ContextKey = "team"
	ShiftTypeCtx    ContextKey = "shiftType"
	ShiftCtx        ContextKey = "shift"
	TimesheetCtx    ContextKey = "timesheet"
	NotificationCtx ContextKey = "notification"
)
