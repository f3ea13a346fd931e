package eexpr

import (
	"encoding/json"
)

// Node вершина графа вычислений Earth Engine.
// Заполнено ровно одно из полей: Constant, Function или Array.
type Node struct {
	Constant any
	Function string
	Args     map[string]*Node
	Array    []*Node
}

// Constant создаёт константную вершину
func Constant(v any) *Node {
	return &Node{Constant: v}
}

// Invoke создаёт вызов серверной функции
func Invoke(name string, args map[string]*Node) *Node {
	return &Node{Function: name, Args: args}
}

// MarshalJSON кодирует вершину в формат ValueNode REST API
func (n *Node) MarshalJSON() ([]byte, error) {
	switch {
	case n.Function != "":
		return json.Marshal(map[string]any{
			"functionInvocationValue": map[string]any{
				"functionName": n.Function,
				"arguments":    n.Args,
			},
		})
	case n.Array != nil:
		return json.Marshal(map[string]any{
			"arrayValue": map[string]any{
				"values": n.Array,
			},
		})
	default:
		return json.Marshal(map[string]any{
			"constantValue": n.Constant,
		})
	}
}

// Expression корневой объект выражения (Expression в REST API)
type Expression struct {
	Result string           `json:"result"`
	Values map[string]*Node `json:"values"`
}

// NewExpression оборачивает вершину в выражение с единственным значением
func NewExpression(root *Node) Expression {
	return Expression{
		Result: "0",
		Values: map[string]*Node{"0": root},
	}
}
