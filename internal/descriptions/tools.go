package descriptions

import "sort"

// Tool names exposed by the MCP server
const (
	ToolValidateFile = "certificate_validate_file"
	ToolParseFile    = "certificate_parse_file"
	ToolFillFile     = "certificate_fill_file"
	ToolBatch        = "certificate_batch"
	ToolServerInfo   = "certificate_server_info"
)

// Comprehensive tool descriptions with practical examples and use cases

const (
	ValidateFileDescription = `Check that an uploaded marital status certificate can be read before extracting it.

**When to use:** Before parsing a file from an unknown source, or when a batch reports FILE_INVALID for a file.

**Why it's useful:** Rejects empty, oversized, mis-typed or corrupted files early, and reports which reader (docx or pdf) will be used.

**Examples:**
• Upload check: "Validate uploads/hoa.docx before filling the template"
• Triage: "Find out why scans/old.pdf was rejected by the batch"

**Common workflows:**
1. Intake: Validate → Parse if valid → Report the message otherwise
2. Batch triage: Batch → Validate files listed under errors → Fix or replace them

**Best practices:** Paths are resolved inside the configured working directory; relative paths are preferred.`

	ParseFileDescription = `Extract the certificate fields from a "GIẤY XÁC NHẬN TÌNH TRẠNG HÔN NHÂN" document.

**When to use:** Need the structured fields (number, issue date, full name, date of birth, gender, ethnicity, nationality, residence, identity document, marital status, intended use, signer) of one certificate.

**Why it's useful:** Reads paragraph and table text, applies the labelled extraction rules, resolves the signer's name and title from the signature block and lists any required field that could not be found.

**Examples:**
• Data entry: "Parse uploads/hoa.docx and show me the holder's date of birth"
• Quality check: "Which fields are missing in uploads/partial.docx?"

**Common workflows:**
1. Review: Parse → Inspect missing fields → Correct the source → Fill
2. Verification: Parse → Compare with the registry → Approve

**Best practices:** A result with error_kind MISSING_FIELDS still carries the partial record; WRONG_DOCUMENT_TYPE means the certificate marker phrase was not found.`

	FillFileDescription = `Parse one certificate and write a filled copy of the confirmation template.

**When to use:** Need a single filled confirmation document for one complete certificate.

**Why it's useful:** Replaces each dotted placeholder of the template with the extracted value, keeps the rest of the template untouched, applies the configured font, right-aligns the issue date and bolds the signer.

**Examples:**
• Single file: "Fill the template for uploads/hoa.docx"
• Custom output: "Fill uploads/hoa.docx into output/hoa_filled.docx using forms/mau.docx"

**Common workflows:**
1. Parse → Review → Fill
2. Fill → Open the output → Print and sign

**Best practices:** Only complete records are filled. The default output name is the folded full name followed by _GiayXacNhan.docx; an existing file is never overwritten.`

	BatchDescription = `Fill the template for several certificates at once and package the results as a zip archive.

**When to use:** Processing a stack of uploads in one go.

**Why it's useful:** Every file is parsed independently; one failure never stops the others. Each file ends either as an archive entry or with a specific reason in the errors list.

**Examples:**
• Daily intake: "Run the batch on uploads/a.docx, uploads/b.docx and uploads/c.pdf"
• Custom template: "Batch the files in uploads/ with forms/mau_2024.docx"

**Common workflows:**
1. Batch → Hand out the archive → Re-run failed files after fixing them
2. Batch → Parse the files listed under errors to see partial records

**Best practices:** The number of files per batch is limited (see certificate_server_info); files beyond the limit are reported, not silently dropped. Repeated names are de-duplicated with _2, _3 suffixes.`

	ServerInfoDescription = `Describe the server configuration and the certificate fields it extracts.

**When to use:** At the start of a session, or when unsure which template, limits or directories are in effect.

**Why it's useful:** Reports the working directory, template path and availability, output directory, file limits, the required fields with their labels and the available tools.

**Examples:**
• Setup check: "Is the certificate template available?"
• Limits: "How many files can one batch take?"

**Best practices:** Call this first; all other tools resolve paths against the working directory it reports.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	ToolValidateFile: ValidateFileDescription,
	ToolParseFile:    ParseFileDescription,
	ToolFillFile:     FillFileDescription,
	ToolBatch:        BatchDescription,
	ToolServerInfo:   ServerInfoDescription,
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the available tool names in sorted order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
