package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// Codeはレスポンスエンベロープの`code`フィールドにそのまま使用される
// （0は成功を意味するため、エラーは必ず非ゼロ）。
type APIError struct {
	Code     int    // エンベロープのエラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, auth, ownership, system
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	// CodeOK は成功を表す。
	CodeOK = 0
	// CodeValidation は必須フィールドの欠落・不正を表す。
	CodeValidation = 1001
	// CodeIdentityUnresolved は呼び出しコンテキストから
	// 呼び出し元のopenidを特定できないことを表す。
	CodeIdentityUnresolved = 1002
	// CodeNotFound は参照先レコードが存在しないことを表す。
	CodeNotFound = 1003
	// CodeForbidden はレコードの所有者不一致を表す。
	CodeForbidden = 1004
	// CodeInternal は永続化エラーなどの内部エラーを表す。
	CodeInternal = 1005
)

// NewValidationError は必須フィールド欠落エラーを生成する。
func NewValidationError(field string) *APIError {
	return &APIError{
		Code:     CodeValidation,
		Message:  fmt.Sprintf("必須パラメータが指定されていません: %s", field),
		Category: "validation",
	}
}

// NewIdentityUnresolvedError は呼び出し元識別エラーを生成する。
// ストアへのアクセス前に検出されることを前提とする。
func NewIdentityUnresolvedError() *APIError {
	return &APIError{
		Code:     CodeIdentityUnresolved,
		Message:  "呼び出し元のユーザーを特定できませんでした。",
		Category: "auth",
	}
}

// NewDetectionNotFoundError は検出レコード未存在エラーを生成する。
func NewDetectionNotFoundError(detectionID string) *APIError {
	return &APIError{
		Code:     CodeNotFound,
		Message:  fmt.Sprintf("指定された検出レコードが見つかりません: %s", detectionID),
		Category: "ownership",
	}
}

// NewDiaryNotFoundError は日記レコード未存在エラーを生成する。
func NewDiaryNotFoundError(diaryID string) *APIError {
	return &APIError{
		Code:     CodeNotFound,
		Message:  fmt.Sprintf("指定された日記が見つかりません: %s", diaryID),
		Category: "ownership",
	}
}

// NewForbiddenError は所有者不一致エラーを生成する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     CodeForbidden,
		Message:  "このレコードを操作する権限がありません。",
		Category: "ownership",
	}
}

// NewInternalError は内部エラーを生成する。
// 詳細はサーバーログに記録し、呼び出し元には一般的なメッセージと
// 診断用のエラーテキストのみを返す。
func NewInternalError(err error) *APIError {
	return &APIError{
		Code:     CodeInternal,
		Message:  fmt.Sprintf("内部エラーが発生しました: %v", err),
		Category: "system",
	}
}
