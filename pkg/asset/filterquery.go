package asset

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// A filter query is a compact text form of a Filter, e.g.
//
//	primary_bu = 'Cross-BU' AND readiness_score >= 3 AND use_cases LIKE '%nlp%'
//
// Conditions are joined with AND only. Each field accepts one operator:
//
//	q, text             LIKE
//	primary_bu          =
//	asset_type          =
//	license_flag        =
//	use_case, use_cases LIKE
//	readiness_score     >=    (alias min_ready)

var filterLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `(?i)\b(?:AND|LIKE)\b`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "String", Pattern: `'(?:[^'\\]|\\.)*'|"(?:[^"\\]|\\.)*"`},
	{Name: "Int", Pattern: `-?\d+`},
	{Name: "Operator", Pattern: `>=|=`},
	{Name: "whitespace", Pattern: `\s+`},
})

type filterExpr struct {
	Conditions []*filterCondition `parser:"@@ ( 'AND':Keyword @@ )*"`
}

type filterCondition struct {
	Field string      `parser:"@Ident"`
	Op    string      `parser:"@( '>=' | '=' | 'LIKE':Keyword )"`
	Value filterValue `parser:"@@"`
}

type filterValue struct {
	Str *string `parser:"  @String"`
	Int *int    `parser:"| @Int"`
}

func (v filterValue) text() string {
	if v.Str != nil {
		return *v.Str
	}
	if v.Int != nil {
		return fmt.Sprint(*v.Int)
	}
	return ""
}

var filterParser = participle.MustBuild[filterExpr](
	participle.Lexer(filterLexer),
	participle.Unquote("String"),
	participle.CaseInsensitive("Keyword"),
	participle.Elide("whitespace"),
)

// ParseFilterQuery compiles a filter query into a Filter. An empty query is
// the zero Filter. Syntax errors, unknown fields, wrong operators and
// repeated fields are reported as *ValidationError.
func ParseFilterQuery(query string) (Filter, error) {
	var f Filter
	if strings.TrimSpace(query) == "" {
		return f, nil
	}

	expr, err := filterParser.ParseString("filterQuery", query)
	if err != nil {
		return Filter{}, invalid(fmt.Sprintf("invalid filterQuery: %v", err))
	}

	seen := make(map[string]bool)
	for _, c := range expr.Conditions {
		field := canonicalFilterField(c.Field)
		if field == "" {
			return Filter{}, invalid(fmt.Sprintf("invalid filterQuery: unknown field %q", c.Field))
		}
		if seen[field] {
			return Filter{}, invalid(fmt.Sprintf("invalid filterQuery: field %q used more than once", c.Field))
		}
		seen[field] = true

		op := strings.ToUpper(c.Op)
		if want := filterFieldOperator[field]; op != want {
			return Filter{}, invalid(fmt.Sprintf("invalid filterQuery: field %q only supports %s", c.Field, want))
		}

		switch field {
		case ParamText:
			f.Text = likePattern(c.Value.text())
		case ParamPrimaryBU:
			f.PrimaryBU = c.Value.text()
		case ParamAssetType:
			f.AssetType = c.Value.text()
		case ParamLicenseFlag:
			f.LicenseFlag = c.Value.text()
		case ParamUseCase:
			f.UseCase = likePattern(c.Value.text())
		case ParamMinReadiness:
			if c.Value.Int == nil {
				return Filter{}, invalid(fmt.Sprintf("invalid filterQuery: field %q needs an integer", c.Field))
			}
			f.MinReadiness = *c.Value.Int
		}
	}
	return f, nil
}

var filterFieldOperator = map[string]string{
	ParamText:         "LIKE",
	ParamPrimaryBU:    "=",
	ParamAssetType:    "=",
	ParamLicenseFlag:  "=",
	ParamUseCase:      "LIKE",
	ParamMinReadiness: ">=",
}

func canonicalFilterField(name string) string {
	switch strings.ToLower(name) {
	case "q", "text":
		return ParamText
	case "primary_bu":
		return ParamPrimaryBU
	case "asset_type":
		return ParamAssetType
	case "license_flag":
		return ParamLicenseFlag
	case "use_case", "use_cases":
		return ParamUseCase
	case "readiness_score", "min_ready":
		return ParamMinReadiness
	default:
		return ""
	}
}

// likePattern drops one leading and one trailing % wildcard; matching is
// always by substring, so any other % is matched literally.
func likePattern(v string) string {
	v = strings.TrimPrefix(v, "%")
	return strings.TrimSuffix(v, "%")
}
