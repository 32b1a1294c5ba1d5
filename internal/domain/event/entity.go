package event

import "time"

// 会場の営業時間と、同日イベント間に必要な準備・撤収時間（時）
const (
	OpeningHour = 8
	ClosingHour = 22
	BufferHours = 3
)

// Event は会場予約（イベント）エンティティを表す
type Event struct {
	ID          int64
	UserID      int64
	VenueID     int64
	Day         int
	Month       int
	Year        int
	StartTime   int
	EndTime     int
	Guests      int
	IsCancelled bool
}

// Slot は予約しようとしている枠を表す
type Slot struct {
	UserID    int64
	VenueID   int64
	Day       int
	Month     int
	Year      int
	StartTime int
	EndTime   int
	Guests    int
}

// NewEvent は新しいイベントを作成する
func NewEvent(s Slot) *Event {
	return &Event{
		UserID:      s.UserID,
		VenueID:     s.VenueID,
		Day:         s.Day,
		Month:       s.Month,
		Year:        s.Year,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		Guests:      s.Guests,
		IsCancelled: false,
	}
}

// Slot はイベントの現在の枠を返す
func (e *Event) Slot() Slot {
	return Slot{
		UserID:    e.UserID,
		VenueID:   e.VenueID,
		Day:       e.Day,
		Month:     e.Month,
		Year:      e.Year,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		Guests:    e.Guests,
	}
}

// Reschedule は会場・日付・時間・人数を上書きする。所有者とキャンセル状態は変えない
func (e *Event) Reschedule(s Slot) {
	e.VenueID = s.VenueID
	e.Day = s.Day
	e.Month = s.Month
	e.Year = s.Year
	e.StartTime = s.StartTime
	e.EndTime = s.EndTime
	e.Guests = s.Guests
}

// Cancel はイベントをキャンセル済みにする。既にキャンセル済みなら false を返す
func (e *Event) Cancel() bool {
	if e.IsCancelled {
		return false
	}
	e.IsCancelled = true
	return true
}

// DateKey は永続化用の日付キー（YYYY-MM-DD）を返す
func (e *Event) DateKey() (string, error) {
	return EncodeDate(e.Day, e.Month, e.Year)
}

// StartsAt はローカルタイムでの開始時刻を返す
func (e *Event) StartsAt() time.Time {
	return time.Date(e.Year, time.Month(e.Month), e.Day, e.StartTime, 0, 0, 0, time.Local)
}

// HasHappened は now が開始時刻を過ぎているかを返す。終了時刻は見ない
func (e *Event) HasHappened(now time.Time) bool {
	return now.After(e.StartsAt())
}

// WithinOpeningHours は枠が営業時間内かを返す
func (s Slot) WithinOpeningHours() bool {
	return s.StartTime >= OpeningHour && s.EndTime <= ClosingHour
}

// ConflictBounds は既存イベントとの競合判定に使う境界を返す。
// 既存イベントは start >= earliestStart または end <= latestEnd のとき競合とみなす
func (s Slot) ConflictBounds() (earliestStart, latestEnd int) {
	return s.StartTime - BufferHours, s.EndTime + BufferHours
}

// Validate は枠の検証を行う
func (s Slot) Validate() error {
	if s.UserID <= 0 {
		return ErrUserIDRequired
	}
	if s.VenueID <= 0 {
		return ErrVenueIDRequired
	}
	if s.Guests <= 0 {
		return ErrInvalidGuests
	}
	if s.Year <= 0 || s.Month < 1 || s.Month > 12 {
		return ErrInvalidDate
	}
	if s.Day < 1 || s.Day > daysIn(s.Month, s.Year) {
		return ErrInvalidDate
	}
	if s.StartTime < 0 || s.EndTime > 24 || s.StartTime >= s.EndTime {
		return ErrInvalidTimeRange
	}
	return nil
}

func daysIn(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
