package dto

// ViewState 列表类响应的显式状态；加载中由前端自己维护，错误走HTTP状态码
type ViewState string

const (
	ViewEmpty ViewState = "empty"
	ViewReady ViewState = "ready"
)

func StateOf(n int) ViewState {
	if n == 0 {
		return ViewEmpty
	}
	return ViewReady
}

// ToggleResponse 开关类操作的结果
type ToggleResponse struct {
	Active          bool `json:"active"`
	ConflictIgnored bool `json:"conflictIgnored"`
}
