package event

import "github.com/sanosuguru/go-venue-booking/internal/pkg/apperr"

// Event ドメインのエラー定義
var (
	ErrEventNotFound        = apperr.New(apperr.KindNotFound, "イベントが見つかりません")
	ErrUserIDRequired       = apperr.New(apperr.KindValidation, "ユーザーIDは必須です")
	ErrVenueIDRequired      = apperr.New(apperr.KindValidation, "会場IDは必須です")
	ErrInvalidGuests        = apperr.New(apperr.KindValidation, "人数は1以上である必要があります")
	ErrInvalidDate          = apperr.New(apperr.KindValidation, "日付が不正です")
	ErrInvalidTimeRange     = apperr.New(apperr.KindValidation, "終了時刻は開始時刻より後である必要があります")
	ErrTimeSlotUnavailable  = apperr.New(apperr.KindConflict, "指定の時間帯は予約できません")
	ErrGuestsExceedCapacity = apperr.New(apperr.KindConflict, "会場の収容人数を超えています")
	ErrEventCancelled       = apperr.New(apperr.KindConflict, "キャンセル済みのイベントは更新できません")
	ErrNotEventOwner        = apperr.New(apperr.KindForbidden, "このイベントの所有者ではありません")
	ErrSlotBusy             = apperr.New(apperr.KindConflict, "同じ会場・日付の予約が処理中です")
	ErrEventDecode          = apperr.New(apperr.KindDecode, "データベースからイベントを取得できませんでした")
	ErrNegativeNumber       = apperr.New(apperr.KindValidation, "負の数は指定できません")
	ErrInvalidDateKey       = apperr.New(apperr.KindValidation, "日付キーの形式が不正です")
)
