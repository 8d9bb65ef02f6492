package enums

import "fmt"

// DocumentCategory describes the allowed values for the `category` column in documents.
type DocumentCategory string

const (
	DocumentCategoryCertificate     DocumentCategory = "certificate"
	DocumentCategorySelfDisclosure  DocumentCategory = "self_disclosure"
	DocumentCategoryAuditReport     DocumentCategory = "audit_report"
	DocumentCategoryComplianceProof DocumentCategory = "compliance_proof"
	DocumentCategoryContract        DocumentCategory = "contract"
	DocumentCategoryOther           DocumentCategory = "other"
)

var validDocumentCategories = []DocumentCategory{
	DocumentCategoryCertificate,
	DocumentCategorySelfDisclosure,
	DocumentCategoryAuditReport,
	DocumentCategoryComplianceProof,
	DocumentCategoryContract,
	DocumentCategoryOther,
}

// String implements fmt.Stringer.
func (d DocumentCategory) String() string {
	return string(d)
}

// IsValid reports whether the value matches the canonical document category enum.
func (d DocumentCategory) IsValid() bool {
	for _, candidate := range validDocumentCategories {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDocumentCategory converts the raw string to DocumentCategory.
func ParseDocumentCategory(value string) (DocumentCategory, error) {
	for _, candidate := range validDocumentCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid document category %q", value)
}
