package ast

import (
	"sync/atomic"

	"lox/interpreter-go/pkg/token"
)

type NodeType string

const (
	NodeLiteral             NodeType = "Literal"
	NodeVariable            NodeType = "Variable"
	NodeAssign              NodeType = "Assign"
	NodeBinary              NodeType = "Binary"
	NodeLogical             NodeType = "Logical"
	NodeUnary               NodeType = "Unary"
	NodeTernary             NodeType = "Ternary"
	NodeGrouping            NodeType = "Grouping"
	NodeCall                NodeType = "Call"
	NodeGet                 NodeType = "Get"
	NodeSet                 NodeType = "Set"
	NodeSuper               NodeType = "Super"
	NodeThis                NodeType = "This"
	NodeLambda              NodeType = "Lambda"
	NodeExpressionStatement NodeType = "ExpressionStatement"
	NodePrintStatement      NodeType = "PrintStatement"
	NodeVarStatement        NodeType = "VarStatement"
	NodeBlockStatement      NodeType = "BlockStatement"
	NodeIfStatement         NodeType = "IfStatement"
	NodeWhileStatement      NodeType = "WhileStatement"
	NodeBreakStatement      NodeType = "BreakStatement"
	NodeFunctionDeclaration NodeType = "FunctionDeclaration"
	NodeReturnStatement     NodeType = "ReturnStatement"
	NodeClassDeclaration    NodeType = "ClassDeclaration"
)

// NodeID identifies a node for the lifetime of the process. The resolver
// keys its side-table on it instead of on structural equality.
type NodeID uint64

var lastNodeID atomic.Uint64

func nextNodeID() NodeID {
	return NodeID(lastNodeID.Add(1))
}

type Node interface {
	NodeType() NodeType
	ID() NodeID
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	id   NodeID
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind, id: nextNodeID()}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) ID() NodeID         { return n.id }
func (nodeImpl) isNode()              {}

// Marker interfaces keep the variant sets closed.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

//-----------------------------------------------------------------------------
// Expressions
//-----------------------------------------------------------------------------

// Literal holds nil, bool, float64 or string.
type Literal struct {
	nodeImpl
	expressionMarker

	Value any `json:"value"`
}

func NewLiteral(value any) *Literal {
	return &Literal{nodeImpl: newNodeImpl(NodeLiteral), Value: value}
}

type Variable struct {
	nodeImpl
	expressionMarker

	Name token.Token `json:"name"`
}

func NewVariable(name token.Token) *Variable {
	return &Variable{nodeImpl: newNodeImpl(NodeVariable), Name: name}
}

type Assign struct {
	nodeImpl
	expressionMarker

	Name  token.Token `json:"name"`
	Value Expression  `json:"value"`
}

func NewAssign(name token.Token, value Expression) *Assign {
	return &Assign{nodeImpl: newNodeImpl(NodeAssign), Name: name, Value: value}
}

// Binary covers arithmetic, comparison, equality and the comma operator.
type Binary struct {
	nodeImpl
	expressionMarker

	Left     Expression  `json:"left"`
	Operator token.Token `json:"operator"`
	Right    Expression  `json:"right"`
}

func NewBinary(left Expression, operator token.Token, right Expression) *Binary {
	return &Binary{nodeImpl: newNodeImpl(NodeBinary), Left: left, Operator: operator, Right: right}
}

type Logical struct {
	nodeImpl
	expressionMarker

	Left     Expression  `json:"left"`
	Operator token.Token `json:"operator"`
	Right    Expression  `json:"right"`
}

func NewLogical(left Expression, operator token.Token, right Expression) *Logical {
	return &Logical{nodeImpl: newNodeImpl(NodeLogical), Left: left, Operator: operator, Right: right}
}

type Unary struct {
	nodeImpl
	expressionMarker

	Operator token.Token `json:"operator"`
	Right    Expression  `json:"right"`
}

func NewUnary(operator token.Token, right Expression) *Unary {
	return &Unary{nodeImpl: newNodeImpl(NodeUnary), Operator: operator, Right: right}
}

type Ternary struct {
	nodeImpl
	expressionMarker

	Condition Expression  `json:"condition"`
	Question  token.Token `json:"question"`
	Then      Expression  `json:"then"`
	Else      Expression  `json:"else"`
}

func NewTernary(condition Expression, question token.Token, then, otherwise Expression) *Ternary {
	return &Ternary{nodeImpl: newNodeImpl(NodeTernary), Condition: condition, Question: question, Then: then, Else: otherwise}
}

type Grouping struct {
	nodeImpl
	expressionMarker

	Expression Expression `json:"expression"`
}

func NewGrouping(expr Expression) *Grouping {
	return &Grouping{nodeImpl: newNodeImpl(NodeGrouping), Expression: expr}
}

// Call keeps the closing paren token for error locations.
type Call struct {
	nodeImpl
	expressionMarker

	Callee    Expression   `json:"callee"`
	Paren     token.Token  `json:"paren"`
	Arguments []Expression `json:"arguments"`
}

func NewCall(callee Expression, paren token.Token, arguments []Expression) *Call {
	return &Call{nodeImpl: newNodeImpl(NodeCall), Callee: callee, Paren: paren, Arguments: arguments}
}

type Get struct {
	nodeImpl
	expressionMarker

	Object Expression  `json:"object"`
	Name   token.Token `json:"name"`
}

func NewGet(object Expression, name token.Token) *Get {
	return &Get{nodeImpl: newNodeImpl(NodeGet), Object: object, Name: name}
}

type Set struct {
	nodeImpl
	expressionMarker

	Object Expression  `json:"object"`
	Name   token.Token `json:"name"`
	Value  Expression  `json:"value"`
}

func NewSet(object Expression, name token.Token, value Expression) *Set {
	return &Set{nodeImpl: newNodeImpl(NodeSet), Object: object, Name: name, Value: value}
}

type Super struct {
	nodeImpl
	expressionMarker

	Keyword token.Token `json:"keyword"`
	Method  token.Token `json:"method"`
}

func NewSuper(keyword, method token.Token) *Super {
	return &Super{nodeImpl: newNodeImpl(NodeSuper), Keyword: keyword, Method: method}
}

type This struct {
	nodeImpl
	expressionMarker

	Keyword token.Token `json:"keyword"`
}

func NewThis(keyword token.Token) *This {
	return &This{nodeImpl: newNodeImpl(NodeThis), Keyword: keyword}
}

// Lambda is an anonymous function expression: fun (a, b) { ... }.
type Lambda struct {
	nodeImpl
	expressionMarker

	Keyword token.Token   `json:"keyword"`
	Params  []token.Token `json:"params"`
	Body    []Statement   `json:"body"`
}

func NewLambda(keyword token.Token, params []token.Token, body []Statement) *Lambda {
	return &Lambda{nodeImpl: newNodeImpl(NodeLambda), Keyword: keyword, Params: params, Body: body}
}

//-----------------------------------------------------------------------------
// Statements
//-----------------------------------------------------------------------------

type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement), Expression: expr}
}

type PrintStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewPrintStatement(expr Expression) *PrintStatement {
	return &PrintStatement{nodeImpl: newNodeImpl(NodePrintStatement), Expression: expr}
}

// VarStatement's Initializer is nil when omitted.
type VarStatement struct {
	nodeImpl
	statementMarker

	Name        token.Token `json:"name"`
	Initializer Expression  `json:"initializer,omitempty"`
}

func NewVarStatement(name token.Token, initializer Expression) *VarStatement {
	return &VarStatement{nodeImpl: newNodeImpl(NodeVarStatement), Name: name, Initializer: initializer}
}

type BlockStatement struct {
	nodeImpl
	statementMarker

	Statements []Statement `json:"statements"`
}

func NewBlockStatement(statements []Statement) *BlockStatement {
	return &BlockStatement{nodeImpl: newNodeImpl(NodeBlockStatement), Statements: statements}
}

type IfStatement struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Then      Statement  `json:"then"`
	Else      Statement  `json:"else,omitempty"`
}

func NewIfStatement(condition Expression, then, otherwise Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: condition, Then: then, Else: otherwise}
}

type WhileStatement struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Body      Statement  `json:"body"`
}

func NewWhileStatement(condition Expression, body Statement) *WhileStatement {
	return &WhileStatement{nodeImpl: newNodeImpl(NodeWhileStatement), Condition: condition, Body: body}
}

type BreakStatement struct {
	nodeImpl
	statementMarker

	Keyword token.Token `json:"keyword"`
}

func NewBreakStatement(keyword token.Token) *BreakStatement {
	return &BreakStatement{nodeImpl: newNodeImpl(NodeBreakStatement), Keyword: keyword}
}

type FunctionDeclaration struct {
	nodeImpl
	statementMarker

	Name   token.Token   `json:"name"`
	Params []token.Token `json:"params"`
	Body   []Statement   `json:"body"`
}

func NewFunctionDeclaration(name token.Token, params []token.Token, body []Statement) *FunctionDeclaration {
	return &FunctionDeclaration{nodeImpl: newNodeImpl(NodeFunctionDeclaration), Name: name, Params: params, Body: body}
}

// ReturnStatement's Value is nil for a bare return.
type ReturnStatement struct {
	nodeImpl
	statementMarker

	Keyword token.Token `json:"keyword"`
	Value   Expression  `json:"value,omitempty"`
}

func NewReturnStatement(keyword token.Token, value Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Keyword: keyword, Value: value}
}

type ClassDeclaration struct {
	nodeImpl
	statementMarker

	Name          token.Token            `json:"name"`
	Superclass    *Variable              `json:"superclass,omitempty"`
	Methods       []*FunctionDeclaration `json:"methods"`
	StaticMethods []*FunctionDeclaration `json:"staticMethods"`
}

func NewClassDeclaration(name token.Token, superclass *Variable, methods, staticMethods []*FunctionDeclaration) *ClassDeclaration {
	return &ClassDeclaration{
		nodeImpl:      newNodeImpl(NodeClassDeclaration),
		Name:          name,
		Superclass:    superclass,
		Methods:       methods,
		StaticMethods: staticMethods,
	}
}
