package certificate

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultDocumentMarker identifies the certificate type, matched
// case-insensitively.
const DefaultDocumentMarker = "GIẤY XÁC NHẬN TÌNH TRẠNG HÔN NHÂN"

// Lexicon holds the word lists used by signer resolution.
type Lexicon struct {
	Blacklist []string `yaml:"blacklist" json:"blacklist"`
	Surnames  []string `yaml:"surnames" json:"surnames"`
}

// DefaultLexicon returns the built-in administrative terms and common
// surnames.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Blacklist: []string{
			"CHỦ TỊCH", "PHÓ CHỦ TỊCH", "KT.", "GIẤY", "XÁC NHẬN",
			"TÌNH TRẠNG", "HÔN NHÂN", "UBND", "ỦY BAN", "NHÂN DÂN",
			"SỞ", "PHÒNG", "BAN", "CỘNG HÒA", "XÃ HỘI", "CHỦ NGHĨA",
			"VIỆT NAM", "ĐỘC LẬP", "TỰ DO", "HẠNH PHÚC", "TỈNH",
			"THÀNH PHỐ", "QUẬN", "HUYỆN", "XÃ", "PHƯỜNG",
		},
		Surnames: []string{
			"Nguyễn", "Trần", "Lê", "Phạm", "Hoàng", "Huỳnh", "Phan", "Vũ",
			"Võ", "Đặng", "Bùi", "Đỗ", "Hồ", "Ngô", "Dương",
		},
	}
}

// Profile is the full configurable rule set for one certificate type.
type Profile struct {
	DocumentMarker string           `yaml:"document_marker" json:"document_marker"`
	Lexicon        Lexicon          `yaml:",inline" json:"lexicon"`
	Rules          []ExtractionRule `yaml:"rules" json:"rules"`
}

// DefaultProfile returns the built-in profile.
func DefaultProfile() Profile {
	return Profile{
		DocumentMarker: DefaultDocumentMarker,
		Lexicon:        DefaultLexicon(),
		Rules:          DefaultRules(),
	}
}

// LoadProfile reads a YAML profile from path and merges it over the
// defaults. An empty path returns the defaults.
func LoadProfile(path string) (Profile, error) {
	if path == "" {
		return DefaultProfile(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read rules file: %w", err)
	}
	return ParseProfile(data)
}

// ParseProfile decodes YAML and merges it over the defaults. A non-empty
// word list replaces the default list. A rule replaces the default rule for
// the same field; rules for fields without a default are appended.
func ParseProfile(data []byte) (Profile, error) {
	var override Profile
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Profile{}, fmt.Errorf("failed to parse rules file: %w", err)
	}

	p := DefaultProfile()
	if override.DocumentMarker != "" {
		p.DocumentMarker = override.DocumentMarker
	}
	if len(override.Lexicon.Blacklist) > 0 {
		p.Lexicon.Blacklist = override.Lexicon.Blacklist
	}
	if len(override.Lexicon.Surnames) > 0 {
		p.Lexicon.Surnames = override.Lexicon.Surnames
	}

	for _, rule := range override.Rules {
		if rule.Field == FieldIssueDate || rule.Field == FieldSigner || rule.Field == FieldRequester {
			return Profile{}, fmt.Errorf("field %s is derived and cannot have a rule", rule.Field)
		}
		replaced := false
		for i := range p.Rules {
			if p.Rules[i].Field == rule.Field {
				p.Rules[i] = rule
				replaced = true
				break
			}
		}
		if !replaced {
			p.Rules = append(p.Rules, rule)
		}
	}

	if _, err := CompileRules(p.Rules); err != nil {
		return Profile{}, err
	}
	return p, nil
}
