// Package ownership はレコード所有権の判定を提供する。
//
// 検出レコードのプロフィール保存と日記の削除は、いずれも
// 「レコード取得 → 所有権判定 → 変更」の順で同じ判定を通る。
// 判定は副作用を持たない純粋な関数で、必ず取得の後・変更の前に行うこと。
package ownership

import "github.com/hitoshi/skintrack/internal/model"

// Decision は所有権判定の結果を表す。
type Decision int

const (
	// Authorized はレコードが存在し、呼び出し元が所有者であることを示す。
	Authorized Decision = iota
	// NotFound はレコードが存在しないことを示す。
	NotFound
	// Forbidden はレコードは存在するが所有者が一致しないことを示す。
	Forbidden
)

// String はDecisionの文字列表現を返す。
func (d Decision) String() string {
	switch d {
	case Authorized:
		return "authorized"
	case NotFound:
		return "not_found"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Authorize は取得済みレコードの所有者openidと呼び出し元openidから
// 操作可否を判定する。foundがfalseの場合はNotFoundを返す。
func Authorize(found bool, ownerOpenID, callerOpenID string) Decision {
	if !found {
		return NotFound
	}
	if ownerOpenID != callerOpenID {
		return Forbidden
	}
	return Authorized
}

// Err は判定結果を対応するAPIErrorに変換する。
// Authorizedの場合はnilを返す。notFoundErrにはレコード種別ごとの
// 未存在エラーを渡す。
func (d Decision) Err(notFoundErr *model.APIError) error {
	switch d {
	case NotFound:
		return notFoundErr
	case Forbidden:
		return model.NewForbiddenError()
	default:
		return nil
	}
}
