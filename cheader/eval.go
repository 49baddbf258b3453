package cheader

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// exprVar is the variable an expression is wrapped into for parsing.
const exprVar = "__gfxbind_expr"

// unresolvedError reports an identifier with no known value yet.
type unresolvedError struct {
	name string
}

func (e *unresolvedError) Error() string {
	return "unresolved identifier " + e.name
}

// evaluator computes constant expressions. Integers are int64, floating
// point values float64 and string literals string.
type evaluator struct {
	parser *sitter.Parser
	lookup func(name string) (any, bool)
}

func newEvaluator(lookup func(string) (any, bool)) *evaluator {
	return &evaluator{parser: newCParser(), lookup: lookup}
}

func (e *evaluator) close() {
	e.parser.Close()
}

// evalText parses expr as the initializer of a variable and evaluates it.
func (e *evaluator) evalText(ctx context.Context, expr string) (any, error) {
	src := []byte("int " + exprVar + " = (\n" + expr + "\n);\n")
	tree, err := e.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("not an expression: %q", expr)
	}
	decl := root.NamedChild(0)
	if decl == nil || decl.Type() != "declaration" {
		return nil, fmt.Errorf("not an expression: %q", expr)
	}
	initDecl := decl.ChildByFieldName("declarator")
	if initDecl == nil || initDecl.Type() != "init_declarator" {
		return nil, fmt.Errorf("not an expression: %q", expr)
	}
	value := initDecl.ChildByFieldName("value")
	if value == nil {
		return nil, fmt.Errorf("not an expression: %q", expr)
	}
	return e.eval(value, src)
}

func (e *evaluator) eval(n *sitter.Node, src []byte) (any, error) {
	if n == nil {
		return nil, fmt.Errorf("incomplete expression")
	}
	switch n.Type() {
	case "number_literal":
		return parseNumber(n.Content(src))
	case "char_literal":
		return parseChar(n.Content(src))
	case "string_literal":
		return parseString(n.Content(src))
	case "concatenated_string":
		var b strings.Builder
		for i := 0; i < int(n.NamedChildCount()); i++ {
			part := n.NamedChild(i)
			if part.Type() == "comment" {
				continue
			}
			v, err := e.eval(part, src)
			if err != nil {
				return nil, err
			}
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("cannot concatenate %T", v)
			}
			b.WriteString(s)
		}
		return b.String(), nil
	case "true":
		return int64(1), nil
	case "false":
		return int64(0), nil
	case "identifier":
		name := n.Content(src)
		if v, ok := e.lookup(name); ok {
			return v, nil
		}
		return nil, &unresolvedError{name: name}
	case "parenthesized_expression":
		inner := firstExpr(n)
		if inner == nil {
			return nil, fmt.Errorf("empty parentheses")
		}
		return e.eval(inner, src)
	case "cast_expression":
		v, err := e.eval(n.ChildByFieldName("value"), src)
		if err != nil {
			return nil, err
		}
		typ := n.ChildByFieldName("type")
		if typ == nil {
			return nil, fmt.Errorf("cast without type")
		}
		return cast(strings.Join(strings.Fields(typ.Content(src)), " "), v)
	case "unary_expression":
		v, err := e.eval(n.ChildByFieldName("argument"), src)
		if err != nil {
			return nil, err
		}
		return unary(operator(n), v)
	case "binary_expression":
		l, err := e.eval(n.ChildByFieldName("left"), src)
		if err != nil {
			return nil, err
		}
		r, err := e.eval(n.ChildByFieldName("right"), src)
		if err != nil {
			return nil, err
		}
		return binary(operator(n), l, r)
	case "conditional_expression":
		cond, err := e.eval(n.ChildByFieldName("condition"), src)
		if err != nil {
			return nil, err
		}
		if truthy(cond) {
			return e.eval(n.ChildByFieldName("consequence"), src)
		}
		return e.eval(n.ChildByFieldName("alternative"), src)
	}
	return nil, fmt.Errorf("unsupported expression %s", n.Type())
}

func operator(n *sitter.Node) string {
	if op := n.ChildByFieldName("operator"); op != nil {
		return op.Type()
	}
	return ""
}

func firstExpr(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child.Type() != "comment" {
			return child
		}
	}
	return nil
}

func parseNumber(text string) (any, error) {
	t := strings.ToLower(strings.ReplaceAll(text, "'", ""))
	hex := strings.HasPrefix(t, "0x")
	if !hex && strings.ContainsAny(t, ".e") {
		f, err := strconv.ParseFloat(strings.TrimRight(t, "fl"), 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q: %w", text, err)
		}
		return f, nil
	}
	u, err := strconv.ParseUint(strings.TrimRight(t, "ul"), 0, 64)
	if err != nil {
		return nil, fmt.Errorf("bad number %q: %w", text, err)
	}
	return int64(u), nil
}

func parseChar(text string) (any, error) {
	s, _, tail, err := strconv.UnquoteChar(strings.TrimSuffix(strings.TrimPrefix(text, "'"), "'"), '\'')
	if err != nil || tail != "" {
		return nil, fmt.Errorf("bad character literal %s", text)
	}
	return int64(s), nil
}

func parseString(text string) (any, error) {
	s, err := strconv.Unquote(text)
	if err != nil {
		return nil, fmt.Errorf("bad string literal %s: %w", text, err)
	}
	return s, nil
}

func truthy(v any) bool {
	switch x := v.(type) {
	case int64:
		return x != 0
	case float64:
		return x != 0
	case string:
		return true
	}
	return false
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func cast(ctype string, v any) (any, error) {
	switch ctype {
	case "float", "double", "long double":
		switch x := v.(type) {
		case int64:
			return float64(x), nil
		case float64:
			return x, nil
		}
	case "char *", "const char *":
		if s, ok := v.(string); ok {
			return s, nil
		}
	default:
		switch x := v.(type) {
		case int64:
			return x, nil
		case float64:
			return int64(x), nil
		}
	}
	return nil, fmt.Errorf("cannot cast %T to %s", v, ctype)
}

func unary(op string, v any) (any, error) {
	switch x := v.(type) {
	case int64:
		switch op {
		case "-":
			return -x, nil
		case "+":
			return x, nil
		case "~":
			return ^x, nil
		case "!":
			return boolInt(x == 0), nil
		}
	case float64:
		switch op {
		case "-":
			return -x, nil
		case "+":
			return x, nil
		case "!":
			return boolInt(x == 0), nil
		}
	}
	return nil, fmt.Errorf("unsupported unary %s on %T", op, v)
}

func binary(op string, l, r any) (any, error) {
	switch op {
	case "&&":
		return boolInt(truthy(l) && truthy(r)), nil
	case "||":
		return boolInt(truthy(l) || truthy(r)), nil
	}

	li, lok := l.(int64)
	ri, rok := r.(int64)
	if lok && rok {
		return intBinary(op, li, ri)
	}

	lf, lok := toFloat(l)
	rf, rok := toFloat(r)
	if !lok || !rok {
		return nil, fmt.Errorf("unsupported operands %T %s %T", l, op, r)
	}
	switch op {
	case "+":
		return lf + rf, nil
	case "-":
		return lf - rf, nil
	case "*":
		return lf * rf, nil
	case "/":
		return lf / rf, nil
	case "<":
		return boolInt(lf < rf), nil
	case ">":
		return boolInt(lf > rf), nil
	case "<=":
		return boolInt(lf <= rf), nil
	case ">=":
		return boolInt(lf >= rf), nil
	case "==":
		return boolInt(lf == rf), nil
	case "!=":
		return boolInt(lf != rf), nil
	}
	return nil, fmt.Errorf("unsupported float operator %s", op)
}

func intBinary(op string, l, r int64) (any, error) {
	switch op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/", "%":
		if r == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		if op == "/" {
			return l / r, nil
		}
		return l % r, nil
	case "<<":
		if r < 0 || r > 63 {
			return nil, fmt.Errorf("shift count %d out of range", r)
		}
		return l << uint(r), nil
	case ">>":
		if r < 0 || r > 63 {
			return nil, fmt.Errorf("shift count %d out of range", r)
		}
		return l >> uint(r), nil
	case "|":
		return l | r, nil
	case "&":
		return l & r, nil
	case "^":
		return l ^ r, nil
	case "<":
		return boolInt(l < r), nil
	case ">":
		return boolInt(l > r), nil
	case "<=":
		return boolInt(l <= r), nil
	case ">=":
		return boolInt(l >= r), nil
	case "==":
		return boolInt(l == r), nil
	case "!=":
		return boolInt(l != r), nil
	}
	return nil, fmt.Errorf("unsupported operator %s", op)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}
