package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"dayplan/internal/engine"
	logx "dayplan/pkg/logx"
)

// fileStore is a dependency-free persistence backend.
//
// Files:
//   - <prefix>.tasks.json          (task snapshot, atomically replaced)
//   - <prefix>.dates.journal.jsonl (append-only start-date journal)
//   - <prefix>.planlog.jsonl       (append-only JSON Lines)
//
// Start-date changes go to the journal so a planning pass does not rewrite the
// whole snapshot; the journal is periodically compacted into the snapshot.
type fileStore struct {
	log logx.Logger

	mu sync.Mutex

	snapshotPath string
	journalFile  *os.File
	planLogFile  *os.File

	tasks []engine.Task
	byID  map[string]int

	journalWrites int
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("storage.path is required for file driver")
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	prefix := filepath.Join(dir, base)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	snapPath := prefix + ".tasks.json"
	journalPath := prefix + ".dates.journal.jsonl"
	planLogPath := prefix + ".planlog.jsonl"

	tasks, err := loadTaskSnapshot(snapPath)
	if err != nil {
		return nil, err
	}
	byID := indexTasks(tasks)
	_ = replayDateJournal(journalPath, tasks, byID)

	jf, err := os.OpenFile(journalPath, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0o600)
	if err != nil {
		return nil, err
	}
	pf, err := os.OpenFile(planLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		_ = jf.Close()
		return nil, err
	}

	return &fileStore{
		log:          log,
		snapshotPath: snapPath,
		journalFile:  jf,
		planLogFile:  pf,
		tasks:        tasks,
		byID:         byID,
	}, nil
}

func (s *fileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err1, err2 error
	if s.journalFile != nil {
		err1 = s.journalFile.Close()
		s.journalFile = nil
	}
	if s.planLogFile != nil {
		err2 = s.planLogFile.Close()
		s.planLogFile = nil
	}
	if err1 != nil {
		return err1
	}
	return err2
}

func (s *fileStore) LoadTasks(ctx context.Context) ([]engine.Task, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]engine.Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

func (s *fileStore) SaveTasks(ctx context.Context, tasks []engine.Task) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.journalFile == nil {
		return errors.New("store closed")
	}
	s.tasks = make([]engine.Task, len(tasks))
	copy(s.tasks, tasks)
	s.byID = indexTasks(s.tasks)
	return s.compactLocked()
}

func (s *fileStore) UpdateStartDates(ctx context.Context, changes []DateChange) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.journalFile == nil {
		return errors.New("store closed")
	}

	enc := json.NewEncoder(s.journalFile)
	for _, c := range changes {
		idx, ok := s.byID[c.TaskID]
		if !ok {
			continue
		}
		s.tasks[idx].StartDate = c.NewDate
		if err := enc.Encode(c); err != nil {
			return err
		}
		s.journalWrites++
	}
	if s.journalWrites >= 1000 {
		// Best-effort compact.
		if err := s.compactLocked(); err != nil {
			s.log.Debug("task snapshot compact failed", logx.Any("err", err))
		}
	}
	return nil
}

func (s *fileStore) AppendPlanLog(ctx context.Context, e PlanLogEntry) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.planLogFile == nil {
		return errors.New("plan log closed")
	}
	return json.NewEncoder(s.planLogFile).Encode(e)
}

// compactLocked writes the snapshot atomically and truncates the journal.
func (s *fileStore) compactLocked() error {
	tmp := s.snapshotPath + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(f).Encode(s.tasks); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.snapshotPath); err != nil {
		return err
	}
	if err := s.journalFile.Truncate(0); err != nil {
		return err
	}
	if _, err := s.journalFile.Seek(0, 2); err != nil {
		return err
	}
	s.journalWrites = 0
	return nil
}

func indexTasks(tasks []engine.Task) map[string]int {
	m := make(map[string]int, len(tasks))
	for i, t := range tasks {
		m[t.ID] = i
	}
	return m
}

func loadTaskSnapshot(path string) ([]engine.Task, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	var tasks []engine.Task
	if err := json.NewDecoder(f).Decode(&tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func replayDateJournal(path string, tasks []engine.Task, byID map[string]int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var c DateChange
		if err := json.Unmarshal(sc.Bytes(), &c); err != nil {
			continue
		}
		if idx, ok := byID[c.TaskID]; ok {
			tasks[idx].StartDate = c.NewDate
		}
	}
	return sc.Err()
}
