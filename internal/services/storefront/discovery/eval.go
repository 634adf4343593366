package discovery

import (
	"fmt"
	"strings"

	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

func evaluate(e *expr.Expr, resolve resolver) (bool, error) {
	if e == nil {
		return true, nil
	}
	switch kind := e.ExprKind.(type) {
	case *expr.Expr_CallExpr:
		return evalCall(kind.CallExpr, resolve)
	default:
		return false, fmt.Errorf("unsupported expression type: %T", kind)
	}
}

// checkShape rejects expressions the evaluator cannot run.
func checkShape(e *expr.Expr) error {
	call, ok := e.GetExprKind().(*expr.Expr_CallExpr)
	if !ok {
		return fmt.Errorf("unsupported expression type: %T", e.GetExprKind())
	}
	switch fn := call.CallExpr.GetFunction(); fn {
	case "AND", "OR", "NOT":
		for _, arg := range call.CallExpr.GetArgs() {
			if err := checkShape(arg); err != nil {
				return err
			}
		}
		return nil
	case ":", "=", "!=", "<", "<=", ">", ">=":
		args := call.CallExpr.GetArgs()
		if len(args) != 2 {
			return fmt.Errorf("%s requires 2 arguments", fn)
		}
		if _, err := identName(args[0]); err != nil {
			return err
		}
		_, err := constValue(args[1])
		return err
	default:
		return fmt.Errorf("unsupported function: %s", fn)
	}
}

func evalCall(call *expr.Expr_Call, resolve resolver) (bool, error) {
	switch call.Function {
	case "AND":
		return evalAnd(call.Args, resolve)
	case "OR":
		return evalOr(call.Args, resolve)
	case "NOT":
		if len(call.Args) != 1 {
			return false, fmt.Errorf("NOT requires 1 argument")
		}
		ok, err := evaluate(call.Args[0], resolve)
		return !ok, err
	case ":":
		return evalHas(call.Args, resolve)
	case "=", "!=", "<", "<=", ">", ">=":
		return evalCompare(call.Args, resolve, call.Function)
	default:
		return false, fmt.Errorf("unsupported function: %s", call.Function)
	}
}

func evalAnd(args []*expr.Expr, resolve resolver) (bool, error) {
	if len(args) < 2 {
		return false, fmt.Errorf("AND requires 2 arguments")
	}
	for _, arg := range args {
		ok, err := evaluate(arg, resolve)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func evalOr(args []*expr.Expr, resolve resolver) (bool, error) {
	if len(args) < 2 {
		return false, fmt.Errorf("OR requires 2 arguments")
	}
	for _, arg := range args {
		ok, err := evaluate(arg, resolve)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// evalHas treats `field:value` as a case-insensitive substring test.
func evalHas(args []*expr.Expr, resolve resolver) (bool, error) {
	left, right, err := operands(args, resolve)
	if err != nil {
		return false, err
	}
	l, lok := left.(string)
	r, rok := right.(string)
	if !lok || !rok {
		return false, fmt.Errorf("has operator requires strings")
	}
	return strings.Contains(fold(l), fold(r)), nil
}

func evalCompare(args []*expr.Expr, resolve resolver, op string) (bool, error) {
	left, right, err := operands(args, resolve)
	if err != nil {
		return false, err
	}
	cmp, err := compareValues(left, right)
	if err != nil {
		return false, err
	}
	switch op {
	case "=":
		return cmp == 0, nil
	case "!=":
		return cmp != 0, nil
	case "<":
		return cmp < 0, nil
	case "<=":
		return cmp <= 0, nil
	case ">":
		return cmp > 0, nil
	case ">=":
		return cmp >= 0, nil
	default:
		return false, fmt.Errorf("unsupported operator: %s", op)
	}
}

func operands(args []*expr.Expr, resolve resolver) (any, any, error) {
	if len(args) != 2 {
		return nil, nil, fmt.Errorf("comparison requires 2 arguments")
	}
	field, err := identName(args[0])
	if err != nil {
		return nil, nil, err
	}
	left, ok := resolve(field)
	if !ok {
		return nil, nil, fmt.Errorf("unknown field: %s", field)
	}
	right, err := constValue(args[1])
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func identName(e *expr.Expr) (string, error) {
	ident, ok := e.GetExprKind().(*expr.Expr_IdentExpr)
	if !ok {
		return "", fmt.Errorf("expected field name, got %T", e.GetExprKind())
	}
	return ident.IdentExpr.GetName(), nil
}

func constValue(e *expr.Expr) (any, error) {
	c, ok := e.GetExprKind().(*expr.Expr_ConstExpr)
	if !ok {
		return nil, fmt.Errorf("expected constant, got %T", e.GetExprKind())
	}
	switch kind := c.ConstExpr.GetConstantKind().(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	case *expr.Constant_DoubleValue:
		return kind.DoubleValue, nil
	case *expr.Constant_BoolValue:
		return kind.BoolValue, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", kind)
	}
}

func compareValues(left, right any) (int, error) {
	switch l := left.(type) {
	case string:
		r, ok := right.(string)
		if !ok {
			return 0, fmt.Errorf("type mismatch: string vs %T", right)
		}
		return strings.Compare(l, r), nil
	case int:
		return compareNumbers(float64(l), right)
	case float64:
		return compareNumbers(l, right)
	default:
		return 0, fmt.Errorf("unsupported value type: %T", left)
	}
}

func compareNumbers(left float64, right any) (int, error) {
	var r float64
	switch v := right.(type) {
	case int64:
		r = float64(v)
	case float64:
		r = v
	default:
		return 0, fmt.Errorf("type mismatch: number vs %T", right)
	}
	switch {
	case left < r:
		return -1, nil
	case left > r:
		return 1, nil
	default:
		return 0, nil
	}
}
