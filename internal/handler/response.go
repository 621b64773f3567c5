// Package handler はHTTPハンドラーを提供する。
//
// すべてのAPIレスポンスは共通エンベロープ {code, message, data} で返す。
// code=0が成功、非ゼロはエラーコードを表す。HTTPステータスコードは
// エラー分類に応じて併用する（ゲートウェイ経由クライアントはcodeのみを見る）。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/skintrack/internal/model"
)

// resultEnvelope はAPIレスポンスの統一フォーマット。
type resultEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// writeResult は成功レスポンス（code=0）を書き込む。
func writeResult(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resultEnvelope{
		Code:    model.CodeOK,
		Message: "success",
		Data:    data,
	})
}

// writeAPIErrorResponse は統一エンベロープでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resultEnvelope{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Data:    nil,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, model.NewInternalError(err))
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.CodeValidation:
		return http.StatusBadRequest
	case model.CodeIdentityUnresolved:
		return http.StatusUnauthorized
	case model.CodeNotFound:
		return http.StatusNotFound
	case model.CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
