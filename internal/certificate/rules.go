package certificate

import (
	"fmt"
	"regexp"
	"strings"
)

// ExtractionRule binds a field to an ordered list of patterns. Each pattern
// has exactly one capture group; the first pattern that matches wins.
type ExtractionRule struct {
	Field    Field    `yaml:"field" json:"field"`
	Patterns []string `yaml:"patterns" json:"patterns"`
}

type compiledRule struct {
	field    Field
	patterns []*regexp.Regexp
}

// RuleSet is a compiled, ordered list of extraction rules.
type RuleSet struct {
	rules []compiledRule
}

// CompileRules compiles rules in order. Every pattern must compile and carry
// exactly one capture group.
func CompileRules(rules []ExtractionRule) (*RuleSet, error) {
	rs := &RuleSet{rules: make([]compiledRule, 0, len(rules))}
	for _, rule := range rules {
		if !rule.Field.Known() {
			return nil, fmt.Errorf("unknown field %q", rule.Field)
		}
		if len(rule.Patterns) == 0 {
			return nil, fmt.Errorf("rule for %s has no patterns", rule.Field)
		}

		cr := compiledRule{field: rule.Field}
		for _, p := range rule.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("rule for %s: invalid pattern %q: %w", rule.Field, p, err)
			}
			if re.NumSubexp() != 1 {
				return nil, fmt.Errorf("rule for %s: pattern %q must have exactly one capture group, has %d",
					rule.Field, p, re.NumSubexp())
			}
			cr.patterns = append(cr.patterns, re)
		}
		rs.rules = append(rs.rules, cr)
	}
	return rs, nil
}

// Fields returns the fields the rule set extracts, in rule order.
func (rs *RuleSet) Fields() []Field {
	fields := make([]Field, len(rs.rules))
	for i, r := range rs.rules {
		fields[i] = r.field
	}
	return fields
}

// Extract applies every rule to text. A field with no matching pattern maps
// to "". Captures are trimmed.
func (rs *RuleSet) Extract(text string) map[Field]string {
	out := make(map[Field]string, len(rs.rules))
	for _, rule := range rs.rules {
		if _, seen := out[rule.field]; seen && out[rule.field] != "" {
			continue
		}
		out[rule.field] = ""
		for _, re := range rule.patterns {
			if m := re.FindStringSubmatch(text); m != nil {
				out[rule.field] = strings.TrimSpace(m[1])
				break
			}
		}
	}
	return out
}

// DefaultRules is the built-in rule list for the marital-status certificate.
// Patterns match against the line-joined raw text, so "$" is the end of the
// whole text.
func DefaultRules() []ExtractionRule {
	return []ExtractionRule{
		{FieldNumber, []string{
			`Số:\s*([\p{L}\p{N}_/\-]+)`,
			`Số\s*:\s*([\p{L}\p{N}_/\-]+)`,
		}},
		{FieldFullName, []string{
			`Họ, chữ đệm, tên:\s*([A-ZÀ-Ỹ\s]+?)(?:\s*Ngày|$)`,
		}},
		{FieldDateOfBirth, []string{
			`Ngày, tháng, năm sinh:\s*(\d+/\d+/\d+)`,
		}},
		{FieldGender, []string{
			`Giới tính:\s*([^\n\r]+?)(?:\s*(?:Dân tộc|$))`,
		}},
		{FieldEthnicity, []string{
			`Dân tộc:\s*([^\n\r]+?)(?:\s*(?:Quốc tịch|$))`,
		}},
		{FieldNationality, []string{
			`Quốc tịch:\s*([^\n\r]+?)(?:\s*(?:Giấy|Nơi|$))`,
		}},
		{FieldResidenceAddress, []string{
			`Nơi cư trú:\s*(.+?)(?:\s*Tình trạng|$)`,
			`Nơi cưu trú:\s*(.+?)(?:\s*Tình trạng|$)`,
		}},
		{FieldIdentityDocument, []string{
			`Giấy tờ tùy thân:\s*(.+?)(?:\s*Nơi|$)`,
		}},
		{FieldMaritalStatus, []string{
			`Tình trạng hôn nhân:\s*(.+?)(?:\s*Giấy|$)`,
		}},
		{FieldIntendedUse, []string{
			`sử dụng để:\s*(.+?)(?:\s*Giấy|$)`,
			`Mục đích sử dụng:\s*(.+?)(?:\s*Giấy|$)`,
		}},
	}
}

var issueDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`ngày\s*(\d+)\s*tháng\s*(\d+)\s*năm\s*(\d+)`),
	regexp.MustCompile(`Ngày, tháng, năm cấp:\s*(\d+)/(\d+)/(\d+)`),
}

// extractIssueDate finds the issuance date and renders it as "D/M/Y" with
// the source digits unchanged.
func extractIssueDate(text string) string {
	for _, re := range issueDatePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1] + "/" + m[2] + "/" + m[3]
		}
	}
	return ""
}
