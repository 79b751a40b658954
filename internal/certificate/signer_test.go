package certificate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolver_IsPlausibleName(t *testing.T) {
	r := NewResolver(DefaultLexicon())

	tests := []struct {
		input string
		want  bool
	}{
		{"Nguyễn Văn An", true},
		{"Trần Bình", true},
		{"  Lê Thị Thu Hà  ", true},
		{"Nguyễn Thị Minh Khai Hoa", true},
		{"An", false},
		{"Nguyễn", false},
		{"Nguyễn Văn Anh Thị Minh Khai", false},
		{"nguyễn văn an", false},
		{"Nguyễn Văn An.", false},
		{"Nguyễn Văn 2", false},
		{"(Đã ký)", false},
		{"CHỦ TỊCH", false},
		{"Phó Chủ Tịch", false},
		{"Ủy Ban Nhân Dân", false},
		{"Phường Bến Nghé", false},
		{"Nguyễn Văn-An", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, r.IsPlausibleName(tt.input))
			// pure function of the text
			assert.Equal(t, tt.want, r.IsPlausibleName(tt.input))
		})
	}
}

func TestResolver_ContextualPass(t *testing.T) {
	r := NewResolver(DefaultLexicon())

	text := strings.Join([]string{
		"GIẤY XÁC NHẬN TÌNH TRẠNG HÔN NHÂN",
		"Giới tính: Nam",
		"CHỦ TỊCH",
		"(Đã ký)",
		"Nguyễn Văn An",
	}, "\n")

	got := r.Resolve(text)
	assert.Equal(t, Signer{Name: "Nguyễn Văn An", Title: "CHỦ TỊCH", Phase: PhaseContextual}, got)
	assert.Equal(t, "Nguyễn Văn An - CHỦ TỊCH", got.Composite())
}

func TestResolver_ContextualPassUsesLastTitleLine(t *testing.T) {
	r := NewResolver(DefaultLexicon())

	text := strings.Join([]string{
		"CHỦ TỊCH",
		"Lê Văn Cũ",
		"KT. CHỦ TỊCH",
		"PHÓ CHỦ TỊCH",
		"Hồ Thị Lan",
	}, "\n")

	got := r.Resolve(text)
	assert.Equal(t, "Hồ Thị Lan", got.Name)
	assert.Equal(t, "KT. CHỦ TỊCH - PHÓ CHỦ TỊCH", got.Title)
	assert.Equal(t, PhaseContextual, got.Phase)
}

func TestResolver_ContextualWindowIsFiveLines(t *testing.T) {
	r := NewResolver(DefaultLexicon())

	text := strings.Join([]string{
		"PHÓ CHỦ TỊCH",
		"1", "2", "3", "4", "5",
		"Võ Minh Tâm",
	}, "\n")

	// past the window, so only the global pass can find it
	got := r.Resolve(text)
	assert.Equal(t, "Võ Minh Tâm", got.Name)
	assert.Equal(t, "PHÓ CHỦ TỊCH", got.Title)
	assert.Equal(t, PhaseGlobal, got.Phase)
}

func TestResolver_GlobalPassScoresCandidates(t *testing.T) {
	r := NewResolver(DefaultLexicon())

	text := strings.Join([]string{
		"Giấy tờ kèm theo",
		"Người nhận Phạm Thu",
		"Phạm Minh Tuấn",
	}, "\n")

	got := r.Resolve(text)
	assert.Equal(t, Signer{Name: "Phạm Minh Tuấn", Phase: PhaseGlobal}, got)
	assert.Equal(t, "Phạm Minh Tuấn", got.Composite())
}

func TestResolver_GlobalPassKeepsFirstOnTie(t *testing.T) {
	r := NewResolver(DefaultLexicon())

	got := r.Resolve("Lê Văn Hai\nLê Văn Ba")
	assert.Equal(t, "Lê Văn Hai", got.Name)
}

func TestResolver_NothingFound(t *testing.T) {
	r := NewResolver(DefaultLexicon())

	got := r.Resolve("Số: 12\nGiới tính: Nữ")
	assert.Equal(t, "", got.Name)
	assert.Equal(t, PhaseNone, got.Phase)
	assert.Equal(t, "", got.Composite())
}

func TestResolver_Score(t *testing.T) {
	r := NewResolver(DefaultLexicon())

	tests := []struct {
		name      string
		candidate nameCandidate
		lineIndex int
		total     int
		want      int
	}{
		{
			name:      "near_end_three_words_surname",
			candidate: nameCandidate{name: "Nguyễn Văn An", line: "Nguyễn Văn An"},
			lineIndex: 9, total: 10,
			want: 10 + 20 + 15 + 10,
		},
		{
			name:      "middle_of_tail",
			candidate: nameCandidate{name: "Minh Khoa", line: "Minh Khoa"},
			lineIndex: 5, total: 10,
			want: 10 + 10 + 10,
		},
		{
			name:      "title_context",
			candidate: nameCandidate{name: "Minh Khoa", line: "Chủ tịch Minh Khoa"},
			lineIndex: 0, total: 10,
			want: 10 + 15 + 10,
		},
		{
			name:      "short_name",
			candidate: nameCandidate{name: "Lê An", line: "Lê An"},
			lineIndex: 0, total: 10,
			want: 10 + 10 - 5 + 10,
		},
		{
			name:      "long_four_words",
			candidate: nameCandidate{name: "Nguyễn Hoàng Phương Thảo", line: "x"},
			lineIndex: 0, total: 10,
			want: 10 + 5 + 10,
		},
		{
			name:      "over_long_five_words",
			candidate: nameCandidate{name: "Nguyễn Thị Hoàng Phương Thảo", line: "x"},
			lineIndex: 0, total: 10,
			want: 10 - 10 + 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.score(tt.candidate, tt.lineIndex, tt.total))
		})
	}
}

func TestDetectTitle(t *testing.T) {
	assert.Equal(t, "KT. CHỦ TỊCH - PHÓ CHỦ TỊCH", detectTitle("KT. CHỦ TỊCH\nPHÓ CHỦ TỊCH"))
	assert.Equal(t, "PHÓ CHỦ TỊCH", detectTitle("PHÓ CHỦ TỊCH"))
	assert.Equal(t, "CHỦ TỊCH", detectTitle("CHỦ TỊCH"))
	assert.Equal(t, "", detectTitle("no title at all"))
}

func TestSigner_Composite(t *testing.T) {
	tests := []struct {
		name   string
		signer Signer
		want   string
	}{
		{name: "name and title", signer: Signer{Name: "Nguyễn Văn An", Title: "CHỦ TỊCH"}, want: "Nguyễn Văn An - CHỦ TỊCH"},
		{name: "name only", signer: Signer{Name: "Nguyễn Văn An"}, want: "Nguyễn Văn An"},
		{name: "title only", signer: Signer{Title: "PHÓ CHỦ TỊCH"}, want: "PHÓ CHỦ TỊCH"},
		{name: "neither", signer: Signer{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.signer.Composite())
		})
	}
}

func TestResolver_TitleWithoutName(t *testing.T) {
	r := NewResolver(DefaultLexicon())

	got := r.Resolve("PHÓ CHỦ TỊCH\n(Đã ký)")
	assert.Empty(t, got.Name)
	assert.Equal(t, "PHÓ CHỦ TỊCH", got.Title)
	assert.Equal(t, "PHÓ CHỦ TỊCH", got.Composite())
}
