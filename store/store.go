package store

import "errors"

// ErrNotFound は検索キーに一致する行がなかったことを示す。
// 通常の分岐条件であり、呼び出し側でエラー扱いにしないこと
var ErrNotFound = errors.New("store: row not found")

// Table はワークシート1枚を行単位で操作するインターフェース。
// 行番号はシート上の番号（1行目がヘッダ、データは2行目から）、列番号は1始まり
type Table interface {
	// Append はデータ行を末尾に追記する
	Append(row []string) error

	// Rows はヘッダを除く全データ行を順番に返す。i番目の行のシート行番号は i+2
	Rows() ([][]string, error)

	// FindRow は指定列がvalueに一致する最初の行を返す
	FindRow(col int, value string) (rowNum int, row []string, err error)

	// FindRows は指定列がvalueに一致する全行の行番号を昇順で返す
	FindRows(col int, value string) ([]int, error)

	ReadCell(rowNum, col int) (string, error)
	UpdateCell(rowNum, col int, value string) error

	// DeleteRow は指定行を削除する。以降の行は1つずつ繰り上がる
	DeleteRow(rowNum int) error
}

// Store は記録簿を構成する4枚のワークシートをまとめたもの
type Store interface {
	Logs() Table      // 集計
	Schedules() Table // 活動予定
	Sessions() Table  // グループ作業
	Settings() Table  // 設定
}
