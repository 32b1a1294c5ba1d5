package event

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatNumber は 10 未満の数を 0 埋めして 2 桁にする。負数はエラー
func FormatNumber(n int) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("%w: %d", ErrNegativeNumber, n)
	}
	if n < 10 {
		return "0" + strconv.Itoa(n), nil
	}
	return strconv.Itoa(n), nil
}

// EncodeDate は日・月・年を YYYY-MM-DD 形式の日付キーにする。
// 暦として正しいかどうかは検証しない
func EncodeDate(day, month, year int) (string, error) {
	m, err := FormatNumber(month)
	if err != nil {
		return "", err
	}
	d, err := FormatNumber(day)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(year) + "-" + m + "-" + d, nil
}

// DecodeDate は YYYY-MM-DD 形式の日付キーを日・月・年に分解する
func DecodeDate(key string) (day, month, year int, err error) {
	parts := strings.Split(key, "-")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	if year, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	if month, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	if day, err = strconv.Atoi(parts[2]); err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	return day, month, year, nil
}
