package reminder

import (
	"errors"
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/domain"
)

type fakeStore struct {
	schedules  []*domain.Schedule
	shiftTypes map[int64]*domain.ShiftType
	records    map[int64]*domain.AttendanceRecord // 以用户 ID 为键，测试只覆盖单日场景
	nextID     int64

	listErr      error
	shiftTypeErr error

	createdCount int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		shiftTypes: map[int64]*domain.ShiftType{},
		records:    map[int64]*domain.AttendanceRecord{},
	}
}

func (f *fakeStore) ListSchedulesByDate(date time.Time) ([]*domain.Schedule, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.schedules, nil
}

func (f *fakeStore) GetShiftType(id int64) (*domain.ShiftType, error) {
	if f.shiftTypeErr != nil {
		return nil, f.shiftTypeErr
	}
	st, ok := f.shiftTypes[id]
	if !ok {
		return nil, errors.New("班次不存在")
	}
	return st, nil
}

func (f *fakeStore) GetOrCreateAttendanceRecord(userID int64, date time.Time, shiftTypeID *int64) (*domain.AttendanceRecord, error) {
	if record, ok := f.records[userID]; ok {
		return record, nil
	}

	f.nextID++
	f.createdCount++
	record := &domain.AttendanceRecord{
		ID:             f.nextID,
		UserID:         userID,
		WorkDate:       date,
		ShiftTypeID:    shiftTypeID,
		ClockInStatus:  domain.ClockStatusUnclocked,
		ClockOutStatus: domain.ClockStatusUnclocked,
	}
	f.records[userID] = record
	return record, nil
}

func (f *fakeStore) UpdateAttendanceReminded(id int64, clockInReminded *bool, clockOutReminded *bool) error {
	for _, record := range f.records {
		if record.ID != id {
			continue
		}
		// 提醒标志只会从 false 变为 true
		if clockInReminded != nil && *clockInReminded {
			record.ClockInReminded = true
		}
		if clockOutReminded != nil && *clockOutReminded {
			record.ClockOutReminded = true
		}
		return nil
	}
	return errors.New("考勤记录不存在")
}

type dispatchCall struct {
	user    *domain.User
	message string
	kind    domain.ReminderKind
}

type fakeNotifier struct {
	calls []dispatchCall
}

func (f *fakeNotifier) Dispatch(user *domain.User, message string, kind domain.ReminderKind) {
	f.calls = append(f.calls, dispatchCall{user: user, message: message, kind: kind})
}

type fakeLogStore struct {
	logs []*domain.SystemLog
}

func (f *fakeLogStore) CreateSystemLog(log *domain.SystemLog) error {
	f.logs = append(f.logs, log)
	return nil
}

func newTestService(store *fakeStore, settings Settings, notifier *fakeNotifier) *Service {
	return NewService(store, settings, notifier, &fakeLogStore{}, time.Second, time.Minute)
}

func shiftTypeID(id int64) *int64 {
	return &id
}

func dayShift() *domain.ShiftType {
	return &domain.ShiftType{ID: 1, Name: "白班", StartTime: "09:00", EndTime: "18:00", IsActive: true}
}

func activeUser() *domain.User {
	return &domain.User{ID: 10, Username: "zhangsan", FullName: "张三", Email: "zhangsan@example.com", IsActive: true}
}

func TestCheckSchedulesClockInReminder(t *testing.T) {
	store := newFakeStore()
	store.shiftTypes[1] = dayShift()
	store.schedules = []*domain.Schedule{
		{ID: 1, UserID: 10, ShiftTypeID: shiftTypeID(1), User: activeUser()},
	}
	notifier := &fakeNotifier{}
	svc := newTestService(store, &fakeSettings{values: map[string]string{}}, notifier)

	now := time.Date(2026, time.March, 2, 8, 50, 0, 0, time.Local)
	if err := svc.checkSchedules(now); err != nil {
		t.Fatalf("评估失败: %v", err)
	}

	if len(notifier.calls) != 1 {
		t.Fatalf("应发送 1 次提醒，实际发送 %d 次", len(notifier.calls))
	}
	call := notifier.calls[0]
	if call.kind != domain.ReminderKindClockIn {
		t.Errorf("提醒类型应为上班提醒，实际为 %s", call.kind)
	}
	if call.user.ID != 10 {
		t.Errorf("提醒对象应为用户 10，实际为 %d", call.user.ID)
	}

	record := store.records[10]
	if record == nil {
		t.Fatal("应创建考勤记录")
	}
	if !record.ClockInReminded {
		t.Error("发送提醒后应置上班提醒标志")
	}
	if record.ClockOutReminded {
		t.Error("不应置下班提醒标志")
	}
}

func TestCheckSchedulesClockOutReminder(t *testing.T) {
	store := newFakeStore()
	store.shiftTypes[1] = dayShift()
	store.schedules = []*domain.Schedule{
		{ID: 1, UserID: 10, ShiftTypeID: shiftTypeID(1), User: activeUser()},
	}
	notifier := &fakeNotifier{}
	settings := &fakeSettings{values: map[string]string{domain.ConfigKeyWorkOvertime: "30"}}
	svc := newTestService(store, settings, notifier)

	now := time.Date(2026, time.March, 2, 18, 35, 0, 0, time.Local)
	if err := svc.checkSchedules(now); err != nil {
		t.Fatalf("评估失败: %v", err)
	}

	if len(notifier.calls) != 1 {
		t.Fatalf("应发送 1 次提醒，实际发送 %d 次", len(notifier.calls))
	}
	if notifier.calls[0].kind != domain.ReminderKindClockOut {
		t.Errorf("提醒类型应为下班提醒，实际为 %s", notifier.calls[0].kind)
	}
	if !store.records[10].ClockOutReminded {
		t.Error("发送提醒后应置下班提醒标志")
	}
}

// 同一窗口内的重复评估不应重复发送提醒
func TestCheckSchedulesIdempotent(t *testing.T) {
	store := newFakeStore()
	store.shiftTypes[1] = dayShift()
	store.schedules = []*domain.Schedule{
		{ID: 1, UserID: 10, ShiftTypeID: shiftTypeID(1), User: activeUser()},
	}
	notifier := &fakeNotifier{}
	svc := newTestService(store, &fakeSettings{values: map[string]string{}}, notifier)

	for minute := 46; minute <= 59; minute++ {
		now := time.Date(2026, time.March, 2, 8, minute, 0, 0, time.Local)
		if err := svc.checkSchedules(now); err != nil {
			t.Fatalf("评估失败: %v", err)
		}
	}

	if len(notifier.calls) != 1 {
		t.Errorf("窗口内多次评估应只发送 1 次提醒，实际发送 %d 次", len(notifier.calls))
	}
	if store.createdCount != 1 {
		t.Errorf("应只创建 1 条考勤记录，实际创建 %d 条", store.createdCount)
	}
}

func TestCheckSchedulesAlreadyClocked(t *testing.T) {
	store := newFakeStore()
	store.shiftTypes[1] = dayShift()
	store.schedules = []*domain.Schedule{
		{ID: 1, UserID: 10, ShiftTypeID: shiftTypeID(1), User: activeUser()},
	}
	store.records[10] = &domain.AttendanceRecord{
		ID:             1,
		UserID:         10,
		ClockInStatus:  domain.ClockStatusClocked,
		ClockOutStatus: domain.ClockStatusUnclocked,
	}
	notifier := &fakeNotifier{}
	svc := newTestService(store, &fakeSettings{values: map[string]string{}}, notifier)

	now := time.Date(2026, time.March, 2, 8, 50, 0, 0, time.Local)
	if err := svc.checkSchedules(now); err != nil {
		t.Fatalf("评估失败: %v", err)
	}

	if len(notifier.calls) != 0 {
		t.Errorf("已打卡的用户不应收到提醒，实际发送 %d 次", len(notifier.calls))
	}
}

func TestCheckSchedulesSkips(t *testing.T) {
	inactiveUser := activeUser()
	inactiveUser.IsActive = false

	cases := []struct {
		name     string
		schedule *domain.Schedule
	}{
		{"休息日", &domain.Schedule{ID: 1, UserID: 10, ShiftTypeID: shiftTypeID(1), IsRestDay: true, User: activeUser()}},
		{"未指定班次", &domain.Schedule{ID: 2, UserID: 10, User: activeUser()}},
		{"停用用户", &domain.Schedule{ID: 3, UserID: 10, ShiftTypeID: shiftTypeID(1), User: inactiveUser}},
		{"用户信息缺失", &domain.Schedule{ID: 4, UserID: 10, ShiftTypeID: shiftTypeID(1)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			store.shiftTypes[1] = dayShift()
			store.schedules = []*domain.Schedule{tc.schedule}
			notifier := &fakeNotifier{}
			svc := newTestService(store, &fakeSettings{values: map[string]string{}}, notifier)

			now := time.Date(2026, time.March, 2, 8, 50, 0, 0, time.Local)
			if err := svc.checkSchedules(now); err != nil {
				t.Fatalf("评估失败: %v", err)
			}

			if len(notifier.calls) != 0 {
				t.Errorf("不应发送提醒，实际发送 %d 次", len(notifier.calls))
			}
			if store.createdCount != 0 {
				t.Errorf("不应创建考勤记录，实际创建 %d 条", store.createdCount)
			}
		})
	}
}

// 提醒被全局关闭时仍要创建考勤记录，只是不发送提醒
func TestCheckSchedulesReminderDisabled(t *testing.T) {
	store := newFakeStore()
	store.shiftTypes[1] = dayShift()
	store.schedules = []*domain.Schedule{
		{ID: 1, UserID: 10, ShiftTypeID: shiftTypeID(1), User: activeUser()},
	}
	notifier := &fakeNotifier{}
	settings := &fakeSettings{values: map[string]string{domain.ConfigKeyReminderEnabled: "false"}}
	svc := newTestService(store, settings, notifier)

	now := time.Date(2026, time.March, 2, 8, 50, 0, 0, time.Local)
	if err := svc.checkSchedules(now); err != nil {
		t.Fatalf("评估失败: %v", err)
	}

	if len(notifier.calls) != 0 {
		t.Errorf("提醒关闭时不应发送提醒，实际发送 %d 次", len(notifier.calls))
	}
	if store.createdCount != 1 {
		t.Errorf("提醒关闭时仍应创建考勤记录，实际创建 %d 条", store.createdCount)
	}
}

func TestCheckSchedulesOutsideWindow(t *testing.T) {
	store := newFakeStore()
	store.shiftTypes[1] = dayShift()
	store.schedules = []*domain.Schedule{
		{ID: 1, UserID: 10, ShiftTypeID: shiftTypeID(1), User: activeUser()},
	}
	notifier := &fakeNotifier{}
	svc := newTestService(store, &fakeSettings{values: map[string]string{}}, notifier)

	now := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.Local)
	if err := svc.checkSchedules(now); err != nil {
		t.Fatalf("评估失败: %v", err)
	}

	if len(notifier.calls) != 0 {
		t.Errorf("窗口外不应发送提醒，实际发送 %d 次", len(notifier.calls))
	}
	if store.createdCount != 1 {
		t.Errorf("窗口外仍应创建考勤记录，实际创建 %d 条", store.createdCount)
	}
}

// 单条排班的失败不应中断其余排班的评估
func TestCheckSchedulesFailureIsolation(t *testing.T) {
	store := newFakeStore()
	store.shiftTypes[1] = dayShift()
	badUser := &domain.User{ID: 20, Username: "lisi", IsActive: true}
	store.schedules = []*domain.Schedule{
		{ID: 1, UserID: 20, ShiftTypeID: shiftTypeID(99), User: badUser}, // 班次不存在
		{ID: 2, UserID: 10, ShiftTypeID: shiftTypeID(1), User: activeUser()},
	}
	notifier := &fakeNotifier{}
	svc := newTestService(store, &fakeSettings{values: map[string]string{}}, notifier)

	now := time.Date(2026, time.March, 2, 8, 50, 0, 0, time.Local)
	if err := svc.checkSchedules(now); err != nil {
		t.Fatalf("单条排班失败不应导致整体失败: %v", err)
	}

	if len(notifier.calls) != 1 {
		t.Fatalf("正常的排班仍应收到提醒，实际发送 %d 次", len(notifier.calls))
	}
	if notifier.calls[0].user.ID != 10 {
		t.Errorf("提醒对象应为用户 10，实际为 %d", notifier.calls[0].user.ID)
	}
}

func TestCheckSchedulesListError(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("数据库连接失败")
	svc := newTestService(store, &fakeSettings{values: map[string]string{}}, &fakeNotifier{})

	if err := svc.checkSchedules(time.Now()); err == nil {
		t.Error("获取排班失败时应返回错误")
	}
}
