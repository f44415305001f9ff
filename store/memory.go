package store

import "sync"

// MemStore はテスト用のインメモリStore実装。
// シートと同じ行番号の規約（データは2行目から）で動く
type MemStore struct {
	logs      *MemTable
	schedules *MemTable
	sessions  *MemTable
	settings  *MemTable
}

func NewMemStore() *MemStore {
	return &MemStore{
		logs:      &MemTable{},
		schedules: &MemTable{},
		sessions:  &MemTable{},
		settings:  &MemTable{},
	}
}

func (s *MemStore) Logs() Table      { return s.logs }
func (s *MemStore) Schedules() Table { return s.schedules }
func (s *MemStore) Sessions() Table  { return s.sessions }
func (s *MemStore) Settings() Table  { return s.settings }

type MemTable struct {
	mu   sync.Mutex
	rows [][]string
}

func (t *MemTable) Append(row []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	copied := make([]string, len(row))
	copy(copied, row)
	t.rows = append(t.rows, copied)
	return nil
}

func (t *MemTable) Rows() ([][]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([][]string, len(t.rows))
	copy(out, t.rows)
	return out, nil
}

func (t *MemTable) FindRow(col int, value string) (int, []string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, row := range t.rows {
		if col <= len(row) && row[col-1] == value {
			return i + 2, row, nil
		}
	}
	return 0, nil, ErrNotFound
}

func (t *MemTable) FindRows(col int, value string) ([]int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var found []int
	for i, row := range t.rows {
		if col <= len(row) && row[col-1] == value {
			found = append(found, i+2)
		}
	}
	return found, nil
}

func (t *MemTable) ReadCell(rowNum, col int) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := rowNum - 2
	if i < 0 || i >= len(t.rows) || col > len(t.rows[i]) {
		return "", nil
	}
	return t.rows[i][col-1], nil
}

func (t *MemTable) UpdateCell(rowNum, col int, value string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := rowNum - 2
	if i < 0 || i >= len(t.rows) || col > len(t.rows[i]) {
		return ErrNotFound
	}
	t.rows[i][col-1] = value
	return nil
}

func (t *MemTable) DeleteRow(rowNum int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := rowNum - 2
	if i < 0 || i >= len(t.rows) {
		return ErrNotFound
	}
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
	return nil
}
