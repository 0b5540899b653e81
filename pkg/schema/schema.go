// Package schema is the validation and transformation core. Raw rows from
// the persistence layer are parsed into typed row structs, validated field
// by field, then refined with whole-object business rules before any
// view-model transformation runs.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/farmstand/backend/pkg/logger"
)

// Mode controls how validation failures propagate. Write paths run Strict
// and surface every violation to the caller; read paths run Lenient and
// pass partial data through with a logged warning so stale rows never
// break a read.
type Mode int

const (
	Strict Mode = iota
	Lenient
)

func (m Mode) String() string {
	if m == Lenient {
		return "lenient"
	}
	return "strict"
}

// Tolerance is the fixed floating-point tolerance for money arithmetic
// refinements (line totals, subtotals, tax sums).
const Tolerance = 0.01

// WithinTolerance reports whether two money amounts agree within Tolerance.
func WithinTolerance(a, b float64) bool {
	return math.Abs(a-b) < Tolerance
}

// Issue describes one violated constraint.
type Issue struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// ValidationError carries every violated field, not just the first.
type ValidationError struct {
	Subject string
	Issues  []Issue
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d validation issue(s)", e.Subject, len(e.Issues))
	for _, issue := range e.Issues {
		fmt.Fprintf(&b, "; %s: %s", issue.Field, issue.Message)
	}
	return b.String()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report paths with json field names so a failure on the third order
	// item reads order_items[2].total_price, matching what callers see on
	// the wire.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return v
}

// RegisterRefinement registers a whole-object rule for the given types.
// Refinements run after per-field validation and report named invariants
// with exact field paths. Domain packages register theirs at init, so all
// schema values are immutable once the process is up.
func RegisterRefinement(fn validator.StructLevelFunc, types ...any) {
	validate.RegisterStructValidation(fn, types...)
}

// Validate checks an already-decoded value against its field tags and any
// registered refinements. In Lenient mode a failure is logged and nil is
// returned so the caller keeps the value.
func Validate(v any, mode Mode) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verr := toValidationError(subjectName(v), err)
	if mode == Lenient {
		logger.Logger.Warn().
			Str("subject", verr.Subject).
			Int("issues", len(verr.Issues)).
			Str("detail", verr.Error()).
			Msg("Validation failed in lenient mode, passing value through")
		return nil
	}
	return verr
}

// Parse decodes a raw row into T and validates it. This is the single
// entry point for turning an unknown persistence-layer object into a
// typed row.
func Parse[T any](raw []byte, mode Mode) (*T, error) {
	var dst T
	if err := json.Unmarshal(raw, &dst); err != nil {
		return nil, &ValidationError{
			Subject: subjectName(dst),
			Issues:  []Issue{{Field: "", Rule: "json", Message: err.Error()}},
		}
	}
	if err := Validate(&dst, mode); err != nil {
		return nil, err
	}
	return &dst, nil
}

// IssuesOf extracts the issue list from an error when it is a
// ValidationError, for envelope diagnostics.
func IssuesOf(err error) []Issue {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Issues
	}
	return nil
}

func toValidationError(subject string, err error) *ValidationError {
	verr := &ValidationError{Subject: subject}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		verr.Issues = append(verr.Issues, Issue{Rule: "invalid", Message: err.Error()})
		return verr
	}

	for _, fe := range fieldErrs {
		verr.Issues = append(verr.Issues, Issue{
			Field:   trimRoot(fe.Namespace()),
			Rule:    fe.Tag(),
			Param:   fe.Param(),
			Message: messageFor(fe),
		})
	}
	return verr
}

func messageFor(fe validator.FieldError) string {
	if fe.Param() != "" {
		return fmt.Sprintf("failed rule %q with param %q", fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("failed rule %q", fe.Tag())
}

// trimRoot drops the root struct segment from a namespace, leaving only
// the field path: "OrderRow.order_items[2].total_price" becomes
// "order_items[2].total_price".
func trimRoot(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func subjectName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "value"
	}
	return t.Name()
}
