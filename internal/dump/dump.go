// Package dump renders a finished Syntax value as deterministic text: one
// line per AST node in arena order, indented by tree depth, plus a mode
// rendering for any type-bearing node. It exists for golden tests that pin
// down the property that parsing the same input twice produces an
// identical tree, generalized from "print source" to "print table
// contents," since there is no source-text round-trip to reproduce here.
package dump

import (
	"bytes"
	"fmt"

	"github.com/bugdea1er/RuC/internal/ast"
	"github.com/bugdea1er/RuC/internal/mode"
	"github.com/bugdea1er/RuC/internal/repr"
	"github.com/bugdea1er/RuC/internal/syntax"
)

// typeBearingOpcodes are the node kinds whose Type field is rendered. Most
// other opcodes leave Type at its Go zero value, which is not itself a
// valid mode handle and must not be decoded; InitializerList nodes do carry
// the aggregate's mode, but it is not printed.
var typeBearingOpcodes = map[ast.Opcode]bool{
	ast.OpVarDecl:       true,
	ast.OpFuncDecl:      true,
	ast.OpParamDecl:     true,
	ast.OpTypedefDecl:   true,
	ast.OpStructDecl:    true,
	ast.OpIdent:         true,
	ast.OpIntLiteral:    true,
	ast.OpFloatLiteral:  true,
	ast.OpCharLiteral:   true,
	ast.OpStringLiteral: true,
	ast.OpBinary:        true,
	ast.OpUnary:         true,
	ast.OpPostfix:       true,
	ast.OpAssign:        true,
	ast.OpCall:          true,
	ast.OpIndex:         true,
	ast.OpMember:        true,
	ast.OpArrow:         true,
	ast.OpCast:          true,
	ast.OpConditional:   true,
	ast.OpComma:         true,
}

var opcodeNames = map[ast.Opcode]string{
	ast.OpProgram:         "Program",
	ast.OpEnd:             "End",
	ast.OpVarDecl:         "VarDecl",
	ast.OpFuncDecl:        "FuncDecl",
	ast.OpParamDecl:       "ParamDecl",
	ast.OpTypedefDecl:     "TypedefDecl",
	ast.OpStructDecl:      "StructDecl",
	ast.OpIdent:           "Ident",
	ast.OpIntLiteral:      "IntLiteral",
	ast.OpFloatLiteral:    "FloatLiteral",
	ast.OpCharLiteral:     "CharLiteral",
	ast.OpStringLiteral:   "StringLiteral",
	ast.OpBinary:          "Binary",
	ast.OpUnary:           "Unary",
	ast.OpPostfix:         "Postfix",
	ast.OpAssign:          "Assign",
	ast.OpCall:            "Call",
	ast.OpIndex:           "Index",
	ast.OpMember:          "Member",
	ast.OpArrow:           "Arrow",
	ast.OpCast:            "Cast",
	ast.OpConditional:     "Conditional",
	ast.OpComma:           "Comma",
	ast.OpInitializerList: "InitializerList",
	ast.OpCompound:        "Compound",
	ast.OpIf:              "If",
	ast.OpWhile:           "While",
	ast.OpDoWhile:         "DoWhile",
	ast.OpFor:             "For",
	ast.OpSwitch:          "Switch",
	ast.OpCase:            "Case",
	ast.OpDefault:         "Default",
	ast.OpBreak:           "Break",
	ast.OpContinue:        "Continue",
	ast.OpReturn:          "Return",
	ast.OpGoto:            "Goto",
	ast.OpLabel:           "Label",
	ast.OpExprStmt:        "ExprStmt",
	ast.OpEmptyStmt:       "EmptyStmt",
}

func opcodeName(op ast.Opcode) string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Opcode(%d)", op)
}

// Tree renders every node of sx.Tree in arena order, one line each, using
// structural children to derive indentation depth rather than a recursive
// walk. A child is not always appended after its parent (an operand comes
// before its Binary node, a FuncDecl before its body), so a first pass
// records each node's parent from the Children lists, skipping a Goto's
// link to its target label, and a node's depth is the length of its parent
// chain.
func Tree(sx *syntax.Syntax) string {
	var buf bytes.Buffer
	parent := make(map[ast.NodeID]ast.NodeID)

	n := sx.Tree.Len()
	for id := ast.NodeID(0); int(id) < n; id++ {
		if node := sx.Tree.Node(id); node.Opcode != ast.OpGoto {
			for _, c := range node.Children {
				parent[c] = id
			}
		}
	}
	for id := ast.NodeID(0); int(id) < n; id++ {
		node := sx.Tree.Node(id)
		depth := 0
		for p, ok := parent[id]; ok && depth < n; p, ok = parent[p] {
			depth++
		}

		fmt.Fprintf(&buf, "%*s%s", depth*2, "", opcodeName(node.Opcode))
		if typeBearingOpcodes[node.Opcode] {
			fmt.Fprintf(&buf, " type=%s", ModeString(sx, node.Type))
		}
		if node.Text != "" {
			fmt.Fprintf(&buf, " text=%q", node.Text)
		}
		if node.IntValue != 0 {
			fmt.Fprintf(&buf, " int=%d", node.IntValue)
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}

// ModeString renders a mode handle as a readable structural description:
// primitive names directly, table records recursively through their
// payload.
func ModeString(sx *syntax.Syntax, m mode.Mode) string {
	if m.IsPrimitive() {
		return primitiveName(m)
	}
	tag, payload := sx.Modes.Get(m)
	switch tag {
	case mode.TagFunction:
		ret, params := mode.Function(payload)
		var ps bytes.Buffer
		for i, p := range params {
			if i > 0 {
				ps.WriteString(", ")
			}
			ps.WriteString(ModeString(sx, p))
		}
		return fmt.Sprintf("(%s) -> %s", ps.String(), ModeString(sx, ret))
	case mode.TagArray:
		return fmt.Sprintf("array(%s)", ModeString(sx, mode.Array(payload)))
	case mode.TagPointer:
		return fmt.Sprintf("*%s", ModeString(sx, mode.Pointer(payload)))
	case mode.TagStruct:
		fields := mode.Struct(payload)
		var fs bytes.Buffer
		for i, f := range fields {
			if i > 0 {
				fs.WriteString(", ")
			}
			fmt.Fprintf(&fs, "%s:%s", sx.Reprs.Spelling(repr.Handle(f.Repr)), ModeString(sx, f.Mode))
		}
		return fmt.Sprintf("struct{%s}", fs.String())
	default:
		return fmt.Sprintf("mode(%d)", m)
	}
}

func primitiveName(m mode.Mode) string {
	switch m {
	case mode.Void:
		return "void"
	case mode.Char:
		return "char"
	case mode.Bool:
		return "bool"
	case mode.Short:
		return "short"
	case mode.Int:
		return "int"
	case mode.Long:
		return "long"
	case mode.Unsigned:
		return "unsigned"
	case mode.Float:
		return "float"
	case mode.Double:
		return "double"
	default:
		return fmt.Sprintf("primitive(%d)", m)
	}
}
