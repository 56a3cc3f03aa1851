package handler

type ContextKey string

var (
	IsAdminCtxKey ContextKey = "isAdmin"
	SubCtxKey     ContextKey = "sub"
	MyInfoCtx     ContextKey = "myInfo"
	UserInfoCtx   ContextKey = "userInfo"
	ShiftTypeCtx  ContextKey = "shiftType"
	ScheduleCtx   ContextKey = "schedule"
)
