package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/domain"
	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/reminder"
)

// 调度器接口只依赖 reminder.Service，依赖项全部用空实现代替

type stubStore struct{}

func (stubStore) ListSchedulesByDate(date time.Time) ([]*domain.Schedule, error) {
	return nil, nil
}

func (stubStore) GetShiftType(id int64) (*domain.ShiftType, error) {
	return nil, errors.New("不应被调用")
}

func (stubStore) GetOrCreateAttendanceRecord(userID int64, date time.Time, shiftTypeID *int64) (*domain.AttendanceRecord, error) {
	return nil, errors.New("不应被调用")
}

func (stubStore) UpdateAttendanceReminded(id int64, clockInReminded *bool, clockOutReminded *bool) error {
	return errors.New("不应被调用")
}

type stubSettings struct{}

func (stubSettings) GetConfigValue(key string, defaultValue string) (string, error) {
	return defaultValue, nil
}

type stubNotifier struct{}

func (stubNotifier) Dispatch(user *domain.User, message string, kind domain.ReminderKind) {}

type stubLogStore struct{}

func (stubLogStore) CreateSystemLog(log *domain.SystemLog) error {
	return nil
}

func newSchedulerHandler() *Handler {
	svc := reminder.NewService(stubStore{}, stubSettings{}, stubNotifier{}, stubLogStore{}, time.Hour, time.Hour)
	return &Handler{reminder: svc}
}

func statusData(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	resp := decodeResponse(t, rr)
	if !resp.Success {
		t.Fatalf("success 应为 true，message: %q", resp.Message)
	}
	data, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("data 应为调度器状态对象，实际为 %T", resp.Data)
	}
	return data
}

func TestGetSchedulerStatus(t *testing.T) {
	h := newSchedulerHandler()
	rr := httptest.NewRecorder()

	h.GetSchedulerStatus(rr, httptest.NewRequest(http.MethodGet, "/scheduler/status", nil))

	data := statusData(t, rr)
	if data["running"] != false {
		t.Error("未启动时 running 应为 false")
	}
	if data["workerAlive"] != false {
		t.Error("未启动时 workerAlive 应为 false")
	}
	if data["lastCheck"] != nil {
		t.Errorf("未启动时 lastCheck 应为 null，实际为 %v", data["lastCheck"])
	}
}

func TestStartAndStopScheduler(t *testing.T) {
	h := newSchedulerHandler()

	rr := httptest.NewRecorder()
	h.StartScheduler(rr, httptest.NewRequest(http.MethodPost, "/scheduler/start", nil))

	data := statusData(t, rr)
	if data["running"] != true {
		t.Error("启动后 running 应为 true")
	}
	if data["workerAlive"] != true {
		t.Error("启动后 workerAlive 应为 true")
	}

	rr = httptest.NewRecorder()
	h.StopScheduler(rr, httptest.NewRequest(http.MethodPost, "/scheduler/stop", nil))

	data = statusData(t, rr)
	if data["running"] != false {
		t.Error("停止后 running 应为 false")
	}
}

// 重复启动应幂等，响应中状态保持 running
func TestStartSchedulerIdempotent(t *testing.T) {
	h := newSchedulerHandler()

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		h.StartScheduler(rr, httptest.NewRequest(http.MethodPost, "/scheduler/start", nil))

		data := statusData(t, rr)
		if data["running"] != true {
			t.Fatalf("第 %d 次启动后 running 应为 true", i+1)
		}
	}

	rr := httptest.NewRecorder()
	h.StopScheduler(rr, httptest.NewRequest(http.MethodPost, "/scheduler/stop", nil))
	if data := statusData(t, rr); data["running"] != false {
		t.Error("停止后 running 应为 false")
	}
}
