// Package certtest builds certificate and template documents for tests.
package certtest

import (
	"strings"

	"github.com/a3tai/mcp-docx-filler/internal/docx/docxtest"
)

// Lines returns the body of a typical issued certificate.
func Lines() []string {
	return []string{
		"ỦY BAN NHÂN DÂN XÃ AN BÌNH",
		"CỘNG HÒA XÃ HỘI CHỦ NGHĨA VIỆT NAM",
		"Độc lập - Tự do - Hạnh phúc",
		"Số: 125/2024/XNTTHN",
		"An Bình, ngày 15 tháng 3 năm 2024",
		"GIẤY XÁC NHẬN TÌNH TRẠNG HÔN NHÂN",
		"Họ, chữ đệm, tên: NGUYỄN THỊ HOA",
		"Ngày, tháng, năm sinh: 02/05/1995",
		"Giới tính: Nữ",
		"Dân tộc: Kinh",
		"Quốc tịch: Việt Nam",
		"Giấy tờ tùy thân: CCCD 001195000123",
		"Nơi cư trú: Thôn 3, xã An Bình",
		"Tình trạng hôn nhân: Chưa đăng ký kết hôn với ai",
		"Giấy xác nhận này được sử dụng để: Đăng ký kết hôn",
		"Giấy có giá trị 06 tháng kể từ ngày cấp.",
		"KT. CHỦ TỊCH",
		"PHÓ CHỦ TỊCH",
		"(Đã ký)",
		"Trần Văn Bình",
	}
}

// Without drops the lines starting with prefix.
func Without(lines []string, prefix string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if !strings.HasPrefix(l, prefix) {
			out = append(out, l)
		}
	}
	return out
}

// WithFullName replaces the full-name line.
func WithFullName(lines []string, name string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		if strings.HasPrefix(l, "Họ, chữ đệm, tên:") {
			l = "Họ, chữ đệm, tên: " + name
		}
		out[i] = l
	}
	return out
}

// Docx packages lines as body paragraphs.
func Docx(lines []string) []byte {
	return docxtest.New().Paragraph(lines...).Bytes()
}

// Certificate returns a complete certificate issued to name.
func Certificate(name string) []byte {
	return Docx(WithFullName(Lines(), name))
}

// TemplateRows mirrors the layout of the blank certificate template.
func TemplateRows() [][]string {
	return [][]string{
		{"Họ, chữ đệm, tên, chức vụ người ký Giấy xác nhận: ……………………"},
		{"Số: ………………"},
		{"Ngày, tháng, năm cấp: …/…/…"},
		{"Họ, chữ đệm, tên: ………………………"},
		{"Ngày, tháng, năm sinh: ………………"},
		{"Giới tính: …………….", "Dân tộc: …………….", "Quốc tịch: ……………."},
		{"Giấy tờ tùy thân: ………………………"},
		{"Nơi cưu trú: ………………………"},
		{"Tình trạng hôn nhân: ………………"},
		{"Giấy có giá trị 06 tháng kể từ ngày cấp."},
		{"Mục đích sử dụng: ………………"},
	}
}

// Template returns the blank certificate template.
func Template() []byte {
	return docxtest.New().
		Paragraph("GIẤY XÁC NHẬN TÌNH TRẠNG HÔN NHÂN").
		Table(TemplateRows()).
		Bytes()
}
