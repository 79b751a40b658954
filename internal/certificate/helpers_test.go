package certificate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-docx-filler/internal/certificate/certtest"
	"github.com/a3tai/mcp-docx-filler/internal/source"
)

var certificateLines = certtest.Lines()

func expectedValues() map[Field]string {
	return map[Field]string{
		FieldNumber:           "125/2024/XNTTHN",
		FieldIssueDate:        "15/3/2024",
		FieldFullName:         "NGUYỄN THỊ HOA",
		FieldDateOfBirth:      "02/05/1995",
		FieldGender:           "Nữ",
		FieldEthnicity:        "Kinh",
		FieldNationality:      "Việt Nam",
		FieldResidenceAddress: "Thôn 3, xã An Bình",
		FieldIdentityDocument: "CCCD 001195000123",
		FieldMaritalStatus:    "Chưa đăng ký kết hôn với ai",
		FieldIntendedUse:      "Đăng ký kết hôn",
		FieldSigner:           "Trần Văn Bình - KT. CHỦ TỊCH - PHÓ CHỦ TỊCH",
		FieldRequester:        "NGUYỄN THỊ HOA",
	}
}

func without(lines []string, prefix string) []string {
	return certtest.Without(lines, prefix)
}

func certificateDocx(lines []string) []byte {
	return certtest.Docx(lines)
}

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	validator := source.NewValidator(50*1024*1024, source.Readers())
	p, err := NewParser(DefaultProfile(), validator)
	require.NoError(t, err)
	return p
}

func templateDocx() []byte {
	return certtest.Template()
}
