package query

import "github.com/JonMunkholm/nacebel/internal/nace"

// PublicCode is the API view of a record.
//
// Description is a placeholder kept for clients of the original API; it is
// always present and always empty.
type PublicCode struct {
	Level       int         `json:"level"`
	Code        string      `json:"code"`
	Titles      nace.Titles `json:"titles"`
	Description nace.Titles `json:"description"`
}

// CodeDetail is a PublicCode with the dotted codes of its direct children.
type CodeDetail struct {
	PublicCode
	ChildrenCodes []string `json:"childrenCodes"`
}

// Page is one page of a listing or search.
type Page struct {
	Data       []PublicCode `json:"data"`
	TotalPages int          `json:"totalPages"`
	TotalItems int          `json:"totalItems"`
}

func toPublic(rec *nace.Record) PublicCode {
	return PublicCode{
		Level:  rec.Level,
		Code:   rec.Code,
		Titles: rec.Titles,
	}
}

func toDetail(rec *nace.Record, children []string) CodeDetail {
	if children == nil {
		children = []string{}
	}
	return CodeDetail{PublicCode: toPublic(rec), ChildrenCodes: children}
}
