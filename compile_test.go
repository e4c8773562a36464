package sepal

import (
	"errors"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

var testShape = RecordShape{
	"a": KindString,
	"b": KindInt,
	"c": KindBool,
	"d": KindDate,
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

// compilePred parses and compiles against testShape or fails the test.
func compilePred(t *testing.T, input string) Predicate {
	t.Helper()
	pred, err := Compile(mustParse(t, input), testShape)
	if err != nil {
		t.Fatalf("Compile(%q) unexpected error: %v", input, err)
	}
	return pred
}

// compileErr parses input and returns the compile error.
func compileErr(t *testing.T, input string) error {
	t.Helper()
	_, err := Compile(mustParse(t, input), testShape)
	if err == nil {
		t.Fatalf("Compile(%q) succeeded, want error", input)
	}
	return err
}

// ---------------------------------------------------------------------------
// Evaluation semantics
// ---------------------------------------------------------------------------

func TestCompile_CompoundExpression(t *testing.T) {
	input := "( d > '2023-01-01' and (( b > 3 or !c ) ) and (c or a == 'hoang'))"
	pred := compilePred(t, input)

	matching := Record{"a": "hoang", "b": 4, "c": false, "d": date(t, "2023-06-01")}
	if !pred(matching) {
		t.Errorf("%q must match %v", input, matching)
	}

	nonMatching := Record{"a": "hoang", "b": 2, "c": false, "d": date(t, "2022-01-01")}
	if pred(nonMatching) {
		t.Errorf("%q must not match %v", input, nonMatching)
	}
}

func TestCompile_Comparisons(t *testing.T) {
	rec := Record{"a": "hoang", "b": 4, "c": false, "d": date(t, "2023-06-01")}

	tests := []struct {
		input string
		want  bool
	}{
		{"a == 'hoang'", true},
		{"a == 'other'", false},
		{"b == 4", true},
		{"b > 3", true},
		{"b < 3", false},
		{"c == false", true},
		{"c == true", false},
		{"!c", true},
		{"d == '2023-06-01'", true},
		{"d > '2023-01-01'", true},
		{"d < '2023-01-01'", false},
		{"'2023-01-01' < d", true},
		{"3 < b", true},
		// Quoted '3' is a string constant, not an integer.
		{"a == '3'", false},
	}
	for _, tt := range tests {
		if got := compilePred(t, tt.input)(rec); got != tt.want {
			t.Errorf("%q on %v = %v, want %v", tt.input, rec, got, tt.want)
		}
	}
}

func TestCompile_LogicalOperators(t *testing.T) {
	rec := Record{"a": "x", "b": 1, "c": true, "d": date(t, "2020-01-01")}

	tests := []struct {
		input string
		want  bool
	}{
		{"c and true", true},
		{"c and false", false},
		{"false or c", true},
		{"false or false", false},
		{"!c or c", true},
		{"! ( c and false )", true},
		{"c and b == 1 or a == 'y'", true},
	}
	for _, tt := range tests {
		if got := compilePred(t, tt.input)(rec); got != tt.want {
			t.Errorf("%q = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// A compiled predicate is total: missing or mistyped record values coerce
// to the field kind's zero value instead of failing.
func TestCompile_PredicateIsTotal(t *testing.T) {
	tests := []struct {
		input string
		rec   Record
		want  bool
	}{
		{"a == ''", Record{}, true},
		{"b < 1", Record{"b": "not an int"}, true},
		{"!c", Record{}, true},
		{"d < '2000-01-01'", Record{}, true},
		{"b == 4", Record{"b": int64(4)}, true},
		{"b == 4", Record{"b": 4.0}, true},
	}
	for _, tt := range tests {
		if got := compilePred(t, tt.input)(tt.rec); got != tt.want {
			t.Errorf("%q on %v = %v, want %v", tt.input, tt.rec, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Compile-time errors
// ---------------------------------------------------------------------------

func TestCompile_UnknownField(t *testing.T) {
	err := compileErr(t, "x == 3")
	var fieldErr *UnknownFieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("error = %v, want UnknownFieldError", err)
	}
	if fieldErr.Name != "x" {
		t.Errorf("UnknownFieldError.Name = %q, want %q", fieldErr.Name, "x")
	}
}

func TestCompile_TypeMismatch(t *testing.T) {
	tests := []struct {
		input string
	}{
		{"b == 'three'"},  // integer vs string equality
		{"a == 3"},        // string vs integer equality
		{"a > 'z'"},       // strings are not ordered
		{"c < true"},      // booleans are not ordered
		{"b > '2023-01-01'"}, // integer vs date ordering
		{"!b"},            // negation needs a boolean
		{"a and c"},       // and needs booleans
		{"c or b"},        // or needs booleans
	}
	for _, tt := range tests {
		err := compileErr(t, tt.input)
		var mismatchErr *TypeMismatchError
		if !errors.As(err, &mismatchErr) {
			t.Errorf("Compile(%q) error = %v, want TypeMismatchError", tt.input, err)
		}
	}
}

func TestCompile_UnsupportedOperator(t *testing.T) {
	// Only hand-built trees can carry an unrecognized operator; the check
	// is structural and happens once at compile time.
	root := &Node{
		Value: "xor",
		Left:  &Node{Value: "c"},
		Right: &Node{Value: "c"},
	}
	_, err := Compile(root, testShape)
	var opErr *UnsupportedOperatorError
	if !errors.As(err, &opErr) {
		t.Fatalf("error = %v, want UnsupportedOperatorError", err)
	}
	if opErr.Symbol != "xor" {
		t.Errorf("UnsupportedOperatorError.Symbol = %q, want %q", opErr.Symbol, "xor")
	}
}

func TestCompile_NotBoolean(t *testing.T) {
	for _, input := range []string{"b", "a", "3", "'text'", "d"} {
		_, err := Compile(mustParse(t, input), testShape)
		if !errors.Is(err, ErrNotBoolean) {
			t.Errorf("Compile(%q) error = %v, want ErrNotBoolean", input, err)
		}
	}

	// A bare boolean field or literal is a valid predicate.
	for _, input := range []string{"c", "true", "false"} {
		if _, err := Compile(mustParse(t, input), testShape); err != nil {
			t.Errorf("Compile(%q) unexpected error: %v", input, err)
		}
	}
}

func TestCompile_NilRoot(t *testing.T) {
	if _, err := Compile(nil, testShape); !errors.Is(err, ErrMalformed) {
		t.Errorf("Compile(nil) error = %v, want ErrMalformed", err)
	}
}

// ---------------------------------------------------------------------------
// Leaf classification
// ---------------------------------------------------------------------------

func TestLeafClassification(t *testing.T) {
	c := compiler{shape: testShape}

	tests := []struct {
		token string
		want  Kind
	}{
		{"'2023-01-01'", KindDate}, // date sniffing runs before string
		{"2023-01-01", KindDate},
		{"'3'", KindString},
		{"'hoang'", KindString},
		{"3", KindInt},
		{"-7", KindInt},
		{"true", KindBool},
		{"false", KindBool},
		{"a", KindString}, // field reference via the shape
		{"b", KindInt},
		{"c", KindBool},
		{"d", KindDate},
	}
	for _, tt := range tests {
		_, kind, err := c.compileLeaf(tt.token)
		if err != nil {
			t.Errorf("compileLeaf(%q) unexpected error: %v", tt.token, err)
			continue
		}
		if kind != tt.want {
			t.Errorf("compileLeaf(%q) kind = %s, want %s", tt.token, kind, tt.want)
		}
	}

	if _, _, err := c.compileLeaf("x"); err == nil {
		t.Error("compileLeaf(\"x\") must fail for a field absent from the shape")
	}
}
