package descriptions

import (
	"strings"
	"testing"
)

func TestGetToolDescription(t *testing.T) {
	for _, name := range GetAllToolNames() {
		desc := GetToolDescription(name)
		if !strings.Contains(desc, "**When to use:**") {
			t.Errorf("Description of %s lacks usage guidance", name)
		}
	}

	if got := GetToolDescription("pdf_read_file"); got != "Tool description not available" {
		t.Errorf("Unexpected description for unknown tool: %s", got)
	}
}

func TestGetAllToolNames(t *testing.T) {
	want := []string{ToolBatch, ToolFillFile, ToolParseFile, ToolServerInfo, ToolValidateFile}
	got := GetAllToolNames()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("GetAllToolNames() = %v, want %v", got, want)
	}
}
