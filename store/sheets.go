package store

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ワークシート名はスプレッドシート側の契約
const (
	LogSheetName      = "集計"
	ScheduleSheetName = "活動予定"
	SessionSheetName  = "グループ作業"
	SettingSheetName  = "設定"
)

// SheetsStore はGoogle Sheetsをデータベース代わりに使うStore実装
type SheetsStore struct {
	logs      *sheetTable
	schedules *sheetTable
	sessions  *sheetTable
	settings  *sheetTable
}

// NewSheetsStore はサービスアカウントの認証ファイルでSheets APIに接続し、
// 4枚のワークシートの存在を確認する。失敗したら起動を中断させる想定
func NewSheetsStore(ctx context.Context, credentialsFile, spreadsheetID string) (*SheetsStore, error) {
	srv, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets service init failed: %w", err)
	}

	meta, err := srv.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties").Do()
	if err != nil {
		return nil, fmt.Errorf("spreadsheet metadata fetch failed: %w", err)
	}

	sheetIDs := make(map[string]int64)
	for _, s := range meta.Sheets {
		sheetIDs[s.Properties.Title] = s.Properties.SheetId
	}

	table := func(name string) (*sheetTable, error) {
		id, ok := sheetIDs[name]
		if !ok {
			return nil, fmt.Errorf("worksheet %q not found in spreadsheet", name)
		}
		return &sheetTable{srv: srv, spreadsheetID: spreadsheetID, name: name, sheetID: id}, nil
	}

	st := &SheetsStore{}
	if st.logs, err = table(LogSheetName); err != nil {
		return nil, err
	}
	if st.schedules, err = table(ScheduleSheetName); err != nil {
		return nil, err
	}
	if st.sessions, err = table(SessionSheetName); err != nil {
		return nil, err
	}
	if st.settings, err = table(SettingSheetName); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *SheetsStore) Logs() Table      { return s.logs }
func (s *SheetsStore) Schedules() Table { return s.schedules }
func (s *SheetsStore) Sessions() Table  { return s.sessions }
func (s *SheetsStore) Settings() Table  { return s.settings }

type sheetTable struct {
	srv           *sheets.Service
	spreadsheetID string
	name          string
	sheetID       int64
}

func (t *sheetTable) Append(row []string) error {
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}

	_, err := t.srv.Spreadsheets.Values.
		Append(t.spreadsheetID, t.name, &sheets.ValueRange{Values: [][]interface{}{values}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Do()
	return err
}

func (t *sheetTable) Rows() ([][]string, error) {
	resp, err := t.srv.Spreadsheets.Values.Get(t.spreadsheetID, t.name).Do()
	if err != nil {
		return nil, err
	}

	if len(resp.Values) <= 1 {
		return nil, nil
	}

	rows := make([][]string, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] { // 1行目はヘッダ
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (t *sheetTable) FindRow(col int, value string) (int, []string, error) {
	rows, err := t.Rows()
	if err != nil {
		return 0, nil, err
	}

	for i, row := range rows {
		if col <= len(row) && row[col-1] == value {
			return i + 2, row, nil
		}
	}
	return 0, nil, ErrNotFound
}

func (t *sheetTable) FindRows(col int, value string) ([]int, error) {
	rows, err := t.Rows()
	if err != nil {
		return nil, err
	}

	var found []int
	for i, row := range rows {
		if col <= len(row) && row[col-1] == value {
			found = append(found, i+2)
		}
	}
	return found, nil
}

func (t *sheetTable) ReadCell(rowNum, col int) (string, error) {
	resp, err := t.srv.Spreadsheets.Values.Get(t.spreadsheetID, t.cellRange(rowNum, col)).Do()
	if err != nil {
		return "", err
	}
	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		return "", nil
	}
	return fmt.Sprint(resp.Values[0][0]), nil
}

func (t *sheetTable) UpdateCell(rowNum, col int, value string) error {
	_, err := t.srv.Spreadsheets.Values.
		Update(t.spreadsheetID, t.cellRange(rowNum, col), &sheets.ValueRange{
			Values: [][]interface{}{{value}},
		}).
		ValueInputOption("RAW").
		Do()
	return err
}

func (t *sheetTable) DeleteRow(rowNum int) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    t.sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(rowNum - 1), // DimensionRangeは0始まり
					EndIndex:   int64(rowNum),
				},
			},
		}},
	}

	_, err := t.srv.Spreadsheets.BatchUpdate(t.spreadsheetID, req).Do()
	return err
}

func (t *sheetTable) cellRange(rowNum, col int) string {
	return fmt.Sprintf("%s!%s%d", t.name, columnLetter(col), rowNum)
}

func columnLetter(col int) string {
	letters := ""
	for col > 0 {
		col--
		letters = string(rune('A'+col%26)) + letters
		col /= 26
	}
	return letters
}
