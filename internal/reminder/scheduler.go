package reminder

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/domain"
)

type Status struct {
	Running     bool       `json:"running"`
	WorkerAlive bool       `json:"workerAlive"`
	LastCheck   *time.Time `json:"lastCheck"`
}

// Service 是打卡提醒的调度器。整个进程只持有一个实例，
// 由组合根创建后交给操作接口调用 Start/Stop/Status。
type Service struct {
	store    Store
	settings Settings
	notifier Notifier
	logs     LogStore

	tick    time.Duration
	backoff time.Duration
	now     func() time.Time // 测试时可替换
	sleep   func(time.Duration)

	mu        sync.Mutex
	running   bool
	done      chan struct{}
	lastCheck *time.Time
}

func NewService(store Store, settings Settings, notifier Notifier, logs LogStore, tick time.Duration, backoff time.Duration) *Service {
	return &Service{
		store:    store,
		settings: settings,
		notifier: notifier,
		logs:     logs,
		tick:     tick,
		backoff:  backoff,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Start 启动后台评估循环，已经在运行时不做任何事。
// Stop 只置停止标志，旧的工作协程可能还没退出，先在锁外等待其结束再启动新协程，
// 保证任何时刻至多只有一个工作协程，紧接着的停止再启动也不会出现两个协程同时评估
func (s *Service) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	prev := s.done
	s.mu.Unlock()

	if prev != nil {
		<-prev
	}

	s.mu.Lock()
	if s.running {
		// 等待期间有其他调用抢先启动了
		s.mu.Unlock()
		return
	}
	s.running = true
	s.done = make(chan struct{})
	go s.run(s.done)
	s.mu.Unlock()

	s.logEvent("scheduler_started", "定时任务调度器已启动")
}

// Stop 置停止标志，循环在下一个 tick 边界退出，不会打断正在进行的评估
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.running = false
	s.logEvent("scheduler_stopped", "定时任务调度器已停止")
}

func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	alive := false
	if s.done != nil {
		select {
		case <-s.done:
		default:
			alive = true
		}
	}

	return Status{
		Running:     s.running,
		WorkerAlive: alive,
		LastCheck:   s.lastCheck,
	}
}

func (s *Service) isRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Service) setLastCheck(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCheck = &t
}

func (s *Service) run(done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for range ticker.C {
		if !s.isRunning() {
			return
		}

		// 每秒醒来一次，只在整分钟边界执行评估
		now := s.now()
		if now.Second() != 0 {
			continue
		}

		if err := s.safeCheck(now); err != nil {
			slog.Error("调度器运行错误", "error", err)
			s.logError("scheduler_error", fmt.Sprintf("调度器运行错误: %v", err))
			// 出错后等待较长时间再恢复正常轮询，评估中的错误绝不终止循环
			s.sleep(s.backoff)
			continue
		}

		s.setLastCheck(s.now())
	}
}

// 任何意外的 panic 都转换成错误返回，保证循环存活
func (s *Service) safeCheck(now time.Time) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	return s.checkSchedules(now)
}

func (s *Service) logEvent(logType string, message string) {
	slog.Info(message, "logType", logType)
	s.saveLog(logType, domain.LogLevelInfo, message)
}

func (s *Service) logError(logType string, message string) {
	s.saveLog(logType, domain.LogLevelError, message)
}

func (s *Service) saveLog(logType string, level string, message string) {
	if s.logs == nil {
		return
	}

	// 落库失败不影响调度
	_ = s.logs.CreateSystemLog(&domain.SystemLog{
		LogType:   logType,
		LogLevel:  level,
		Message:   message,
		IPAddress: "127.0.0.1",
		UserAgent: "SchedulerService/1.0",
	})
}
