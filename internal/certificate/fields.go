// Package certificate extracts fields from marital-status certificates and
// writes them back into the fixed certificate template.
package certificate

// Field names one extracted value of a certificate.
type Field string

const (
	FieldNumber           Field = "Number"
	FieldIssueDate        Field = "IssueDate"
	FieldFullName         Field = "FullName"
	FieldDateOfBirth      Field = "DateOfBirth"
	FieldGender           Field = "Gender"
	FieldEthnicity        Field = "Ethnicity"
	FieldNationality      Field = "Nationality"
	FieldResidenceAddress Field = "ResidenceAddress"
	FieldIdentityDocument Field = "IdentityDocument"
	FieldMaritalStatus    Field = "MaritalStatus"
	FieldIntendedUse      Field = "IntendedUse"
	FieldSigner           Field = "Signer"
	FieldRequester        Field = "Requester"
)

// RequiredFields must all be non-empty for a record to be filled.
var RequiredFields = []Field{
	FieldNumber,
	FieldIssueDate,
	FieldFullName,
	FieldDateOfBirth,
	FieldGender,
	FieldEthnicity,
	FieldNationality,
	FieldResidenceAddress,
	FieldIdentityDocument,
	FieldMaritalStatus,
	FieldIntendedUse,
	FieldSigner,
}

// AllFields is the full enumerated field set in display order.
var AllFields = append(append([]Field(nil), RequiredFields...), FieldRequester)

var fieldLabels = map[Field]string{
	FieldNumber:           "Số",
	FieldIssueDate:        "Ngày cấp",
	FieldFullName:         "Họ tên",
	FieldDateOfBirth:      "Ngày sinh",
	FieldGender:           "Giới tính",
	FieldEthnicity:        "Dân tộc",
	FieldNationality:      "Quốc tịch",
	FieldResidenceAddress: "Nơi cư trú",
	FieldIdentityDocument: "Giấy tờ tùy thân",
	FieldMaritalStatus:    "Tình trạng hôn nhân",
	FieldIntendedUse:      "Mục đích sử dụng",
	FieldSigner:           "Người ký",
	FieldRequester:        "Người đề nghị",
}

// Label returns the field's caption on the certificate.
func (f Field) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

// Known reports whether f belongs to the enumerated field set.
func (f Field) Known() bool {
	_, ok := fieldLabels[f]
	return ok
}

// Record is the set of values extracted from one certificate. Every field of
// AllFields is present, possibly empty.
type Record struct {
	FileName  string           `json:"file_name,omitempty"`
	FileIndex int              `json:"file_index,omitempty"`
	Values    map[Field]string `json:"values"`
}

func newRecord() *Record {
	values := make(map[Field]string, len(AllFields))
	for _, f := range AllFields {
		values[f] = ""
	}
	return &Record{Values: values}
}

// NewRecord builds a record from values; fields not given are empty.
func NewRecord(values map[Field]string) *Record {
	rec := newRecord()
	for f, v := range values {
		rec.Values[f] = v
	}
	return rec
}

// Get returns the value of f, or "".
func (r *Record) Get(f Field) string {
	if r == nil {
		return ""
	}
	return r.Values[f]
}

// Missing lists the required fields that are empty, in RequiredFields order.
func (r *Record) Missing() []Field {
	var missing []Field
	for _, f := range RequiredFields {
		if r.Get(f) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// Complete reports whether every required field has a value.
func (r *Record) Complete() bool {
	return len(r.Missing()) == 0
}

// WithFile returns a copy of the record tagged with its source file name and
// 1-based position in the batch.
func (r *Record) WithFile(name string, index int) *Record {
	cp := NewRecord(r.Values)
	cp.FileName = name
	cp.FileIndex = index
	return cp
}
