/*
NaiveSystems Analyze - A tool for static code analysis
Copyright (C) 2023  Naive Systems Ltd.

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package ast

import "fmt"

// NodeID addresses a node inside the arena of a Tree.
type NodeID int32

// NoNode marks an absent optional child.
const NoNode NodeID = -1

type Kind int

const (
	TranslationUnit Kind = iota
	FuncDef
	Decl
	TypeDecl
	PtrDecl
	ArrayDecl
	FuncDecl
	ParamList
	Typename
	EllipsisParam
	IdentifierType
	Struct
	Union
	Enum
	EnumeratorList
	Enumerator
	Compound
	If
	For
	While
	DoWhile
	Switch
	Case
	Default
	Return
	Break
	Continue
	Goto
	Label
	EmptyStatement
	DeclList
	ExprList
	InitList
	NamedInitializer
	Call
	UnaryOp
	BinaryOp
	Assignment
	TernaryOp
	Cast
	Identifier
	Constant
	ArrayRef
	StructRef
	CompoundLiteral
	numKinds
)

var kindNames = [numKinds]string{
	TranslationUnit:  "TranslationUnit",
	FuncDef:          "FuncDef",
	Decl:             "Decl",
	TypeDecl:         "TypeDecl",
	PtrDecl:          "PtrDecl",
	ArrayDecl:        "ArrayDecl",
	FuncDecl:         "FuncDecl",
	ParamList:        "ParamList",
	Typename:         "Typename",
	EllipsisParam:    "EllipsisParam",
	IdentifierType:   "IdentifierType",
	Struct:           "Struct",
	Union:            "Union",
	Enum:             "Enum",
	EnumeratorList:   "EnumeratorList",
	Enumerator:       "Enumerator",
	Compound:         "Compound",
	If:               "If",
	For:              "For",
	While:            "While",
	DoWhile:          "DoWhile",
	Switch:           "Switch",
	Case:             "Case",
	Default:          "Default",
	Return:           "Return",
	Break:            "Break",
	Continue:         "Continue",
	Goto:             "Goto",
	Label:            "Label",
	EmptyStatement:   "EmptyStatement",
	DeclList:         "DeclList",
	ExprList:         "ExprList",
	InitList:         "InitList",
	NamedInitializer: "NamedInitializer",
	Call:             "Call",
	UnaryOp:          "UnaryOp",
	BinaryOp:         "BinaryOp",
	Assignment:       "Assignment",
	TernaryOp:        "TernaryOp",
	Cast:             "Cast",
	Identifier:       "Identifier",
	Constant:         "Constant",
	ArrayRef:         "ArrayRef",
	StructRef:        "StructRef",
	CompoundLiteral:  "CompoundLiteral",
}

func (k Kind) String() string {
	if k >= 0 && k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Storage is the set of storage-class specifiers attached to a Decl.
type Storage uint8

const (
	StorageStatic Storage = 1 << iota
	StorageTypedef
	StorageExtern
	StorageOther // auto, register, _Thread_local
)

type ConstKind int

const (
	IntConst ConstKind = iota
	FloatConst
	CharConst
	StringConst
)

func (c ConstKind) String() string {
	switch c {
	case IntConst:
		return "int"
	case FloatConst:
		return "float"
	case CharConst:
		return "char"
	case StringConst:
		return "string"
	}
	return "unknown"
}

// Node is one vertex of the syntax tree. Which fields are meaningful depends
// on Kind:
//
//	Decl, FuncDecl params, Struct/Union/Enum tags, Enumerator, Identifier,
//	Label, Goto, StructRef (member)              -> Name
//	Constant                                     -> Value, ConstKind
//	UnaryOp, BinaryOp, Assignment, StructRef     -> Op
//	Decl                                         -> Storage
//	IdentifierType                               -> Names
//
// Line is 0 when the parser had no position for the node.
type Node struct {
	Kind      Kind
	Line      int
	Children  []NodeID
	Name      string
	Value     string
	Op        string
	Storage   Storage
	Names     []string
	ConstKind ConstKind
}

// Tree owns every node of one translation unit. Children refer to their
// nodes by index; there are no back-pointers.
type Tree struct {
	Nodes    []Node
	Root     NodeID
	Filename string
}

func NewTree(filename string) *Tree {
	t := &Tree{Filename: filename}
	t.Root = t.Add(Node{Kind: TranslationUnit})
	return t
}

// Add appends n to the arena and returns its id.
func (t *Tree) Add(n Node) NodeID {
	t.Nodes = append(t.Nodes, n)
	return NodeID(len(t.Nodes) - 1)
}

func (t *Tree) Node(id NodeID) *Node {
	return &t.Nodes[id]
}

func (t *Tree) Kind(id NodeID) Kind {
	return t.Nodes[id].Kind
}

func (t *Tree) Line(id NodeID) int {
	return t.Nodes[id].Line
}

// AppendChild attaches child to parent, keeping source order. A NoNode child
// is ignored.
func (t *Tree) AppendChild(parent, child NodeID) {
	if child == NoNode {
		return
	}
	t.Nodes[parent].Children = append(t.Nodes[parent].Children, child)
}

func (t *Tree) Children(id NodeID) []NodeID {
	return t.Nodes[id].Children
}

// Child returns the i-th child or NoNode.
func (t *Tree) Child(id NodeID, i int) NodeID {
	c := t.Nodes[id].Children
	if i < 0 || i >= len(c) {
		return NoNode
	}
	return c[i]
}

func (n *Node) IsStatic() bool {
	return n.Storage&StorageStatic != 0
}

func (n *Node) IsTypedef() bool {
	return n.Storage&StorageTypedef != 0
}

// Len is the number of nodes owned by the tree.
func (t *Tree) Len() int {
	return len(t.Nodes)
}
