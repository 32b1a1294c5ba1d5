package venue

import "github.com/sanosuguru/go-venue-booking/internal/pkg/apperr"

// Venue ドメインのエラー定義
var (
	ErrVenueNotFound       = apperr.New(apperr.KindNotFound, "会場が見つかりません")
	ErrVenueFieldsRequired = apperr.New(apperr.KindValidation, "会場名・住所・郵便番号は必須です")
	ErrInvalidState        = apperr.New(apperr.KindValidation, "州コードが不正です")
	ErrInvalidCapacity     = apperr.New(apperr.KindValidation, "収容人数は1以上である必要があります")
	ErrInvalidHourlyRate   = apperr.New(apperr.KindValidation, "時間単価は0より大きい必要があります")
	ErrAdminRequired       = apperr.New(apperr.KindForbidden, "管理者のみ操作できます")
	ErrVenueDecode         = apperr.New(apperr.KindDecode, "データベースから会場を取得できませんでした")
)
