package user

import "github.com/sanosuguru/go-venue-booking/internal/pkg/apperr"

// User ドメインのエラー定義
var (
	ErrUserNotFound         = apperr.New(apperr.KindNotFound, "指定のメールアドレスのユーザーは存在しません")
	ErrEmailAlreadyExists   = apperr.New(apperr.KindValidation, "このメールアドレスのアカウントは既に存在します")
	ErrRegistrationRequired = apperr.New(apperr.KindValidation, "登録情報が不足しています")
	ErrCredentialsRequired  = apperr.New(apperr.KindValidation, "メールアドレスまたはパスワードがありません")
	ErrInvalidPassword      = apperr.New(apperr.KindUnauthorized, "パスワードが正しくありません")
	ErrInvalidToken         = apperr.New(apperr.KindUnauthorized, "認証トークンが不正です")
	ErrUserDecode           = apperr.New(apperr.KindDecode, "データベースからユーザーを取得できませんでした")
)
