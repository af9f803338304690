// Package domain defines the closed set of routing categories for the
// copiloto assistant and the static tables the intent router scores against.
package domain

import "fmt"

type Category int

const (
	CategoryFiscal Category = iota
	CategoryFinancial
	CategoryTMS
	CategoryCRM
	CategoryFleet
	CategoryAccounting
	CategoryStrategic
	CategoryQA
)

var categoryNames = map[Category]string{
	CategoryFiscal:     "fiscal",
	CategoryFinancial:  "financial",
	CategoryTMS:        "tms",
	CategoryCRM:        "crm",
	CategoryFleet:      "fleet",
	CategoryAccounting: "accounting",
	CategoryStrategic:  "strategic",
	CategoryQA:         "qa",
}

var nameToCategory = map[string]Category{
	"fiscal":     CategoryFiscal,
	"financial":  CategoryFinancial,
	"tms":        CategoryTMS,
	"crm":        CategoryCRM,
	"fleet":      CategoryFleet,
	"accounting": CategoryAccounting,
	"strategic":  CategoryStrategic,
	"qa":         CategoryQA,
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", c)
}

func (c Category) IsValid() bool {
	_, ok := categoryNames[c]
	return ok
}

func ParseCategory(s string) (Category, bool) {
	c, ok := nameToCategory[s]
	return c, ok
}

// ValidCategories returns every category in declaration order.
func ValidCategories() []Category {
	return []Category{
		CategoryFiscal,
		CategoryFinancial,
		CategoryTMS,
		CategoryCRM,
		CategoryFleet,
		CategoryAccounting,
		CategoryStrategic,
		CategoryQA,
	}
}

// SourceType identifies the provenance class of a knowledge-base passage.
type SourceType int

const (
	SourceNone SourceType = iota // no filter
	SourceLaw
	SourceManual
	SourceRegulation
	SourceArticle
	SourceOther
)

var sourceTypeNames = map[SourceType]string{
	SourceNone:       "",
	SourceLaw:        "law",
	SourceManual:     "manual",
	SourceRegulation: "regulation",
	SourceArticle:    "article",
	SourceOther:      "other",
}

var nameToSourceType = map[string]SourceType{
	"law":        SourceLaw,
	"manual":     SourceManual,
	"regulation": SourceRegulation,
	"article":    SourceArticle,
	"other":      SourceOther,
}

func (s SourceType) String() string {
	if name, ok := sourceTypeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("source(%d)", s)
}

// ParseSourceType is tolerant: unknown or empty names mean "no filter".
func ParseSourceType(s string) SourceType {
	if t, ok := nameToSourceType[s]; ok {
		return t
	}
	return SourceNone
}
