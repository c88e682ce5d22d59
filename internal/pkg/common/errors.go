package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"message"`           // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap 讓 errors.Is / errors.As 可以穿透
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is 以錯誤代碼比對
func (e *CustomError) Is(target error) bool {
	var t *CustomError
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// Wrap 以相同代碼包裝原始錯誤
func (e *CustomError) Wrap(err error) *CustomError {
	return &CustomError{
		Code:    e.Code,
		Message: e.Message,
		Status:  e.Status,
		Err:     err,
	}
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// ToResponse 轉換為 API 錯誤響應
func ToResponse(err error, debug bool) (int, ErrorResponse) {
	var ce *CustomError
	if !errors.As(err, &ce) {
		ce = ErrInternalError
	}
	resp := ErrorResponse{
		Code:    ce.Code,
		Message: ce.Message,
	}
	if debug && err != nil {
		resp.Details = err.Error()
	}
	return ce.Status, resp
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeRequestTimeout  = "REQUEST_TIMEOUT"   // 408
	ErrCodeConflict        = "CONFLICT"          // 409
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504

	// 業務錯誤
	ErrCodeRecipeNotFound  = "RECIPE_NOT_FOUND"
	ErrCodeMalformedRecipe = "MALFORMED_RECIPE"
	ErrCodeCatalogLoad     = "CATALOG_LOAD_FAILED"
	ErrCodeCorpusLoad      = "CORPUS_LOAD_FAILED"
	ErrCodeCartStore       = "CART_STORE_ERROR"
	ErrCodeCartFull        = "CART_STORE_FULL"
	ErrCodeItemExists      = "ITEM_EXISTS"
	ErrCodeCatalogReadOnly = "CATALOG_READ_ONLY"
	ErrCodeUnknownItem     = "UNKNOWN_ITEM"
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest   = NewError(ErrCodeInvalidRequest, "無效的請求", http.StatusBadRequest, nil)
	ErrNotFound         = NewError(ErrCodeNotFound, "資源不存在", http.StatusNotFound, nil)
	ErrRequestTimeout   = NewError(ErrCodeRequestTimeout, "請求超時", http.StatusRequestTimeout, nil)
	ErrDuplicateRequest = NewError(ErrCodeConflict, "重複的請求", http.StatusConflict, nil)
	ErrTooManyRequests  = NewError(ErrCodeTooManyRequests, "請求過於頻繁", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrInternalError      = NewError(ErrCodeInternalError, "服務器內部錯誤", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "服務暫時不可用", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "網關超時", http.StatusGatewayTimeout, nil)

	// 業務錯誤
	ErrRecipeNotFound  = NewError(ErrCodeRecipeNotFound, "食譜不存在", http.StatusNotFound, nil)
	ErrMalformedRecipe = NewError(ErrCodeMalformedRecipe, "食譜資料格式錯誤", http.StatusUnprocessableEntity, nil)
	ErrCatalogLoad     = NewError(ErrCodeCatalogLoad, "商品目錄載入失敗", http.StatusServiceUnavailable, nil)
	ErrCorpusLoad      = NewError(ErrCodeCorpusLoad, "食譜庫載入失敗", http.StatusServiceUnavailable, nil)
	ErrCartStore       = NewError(ErrCodeCartStore, "購物車儲存失敗", http.StatusServiceUnavailable, nil)
	ErrCartFull        = NewError(ErrCodeCartFull, "購物車儲存空間已滿", http.StatusServiceUnavailable, nil)
	ErrItemExists      = NewError(ErrCodeItemExists, "商品名稱已存在", http.StatusConflict, nil)
	ErrCatalogReadOnly = NewError(ErrCodeCatalogReadOnly, "商品目錄為唯讀", http.StatusConflict, nil)
	ErrUnknownItem     = NewError(ErrCodeUnknownItem, "商品不存在", http.StatusBadRequest, nil)
)
