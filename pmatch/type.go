package pmatch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gnolang/pmatch/pmatch/word"
)

// TokenType defines different types of tokens that can be produced by the lexer.
type TokenType int

const (
	TokenEOF       TokenType = iota // end of input
	TokenWord                       // a word pattern, possibly with wildcards or escapes
	TokenNumber                     // a numeric literal such as 12, -3.5 or "- 50"
	TokenFunc                       // match, match_<options>, not, match_all, match_any
	TokenLParen                     // '('
	TokenRParen                     // ')'
	TokenLBracket                   // '['
	TokenRBracket                   // ']'
	TokenOr                         // '|'
	TokenSpace                      // word delimiter
	TokenProximity                  // '_' proximity delimiter
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenWord:
		return "Word"
	case TokenNumber:
		return "Number"
	case TokenFunc:
		return "Func"
	case TokenLParen:
		return "LParen"
	case TokenRParen:
		return "RParen"
	case TokenLBracket:
		return "LBracket"
	case TokenRBracket:
		return "RBracket"
	case TokenOr:
		return "Or"
	case TokenSpace:
		return "Space"
	case TokenProximity:
		return "Proximity"
	default:
		return "Unknown"
	}
}

// Token represents a single lexical token with type, value, and position.
type Token struct {
	Type     TokenType // type of this token
	Value    string    // the literal text for this token
	Position int       // byte offset in the expression
}

// NodeType identifies the concrete type of a Node.
type NodeType int

const (
	NodeWord NodeType = iota
	NodeNumber
	NodeSequence
	NodeOr
	NodeGroup
	NodeNot
	NodeMatchAll
	NodeMatchAny
	NodeMatch
)

func (t NodeType) String() string {
	switch t {
	case NodeWord:
		return "Word"
	case NodeNumber:
		return "Number"
	case NodeSequence:
		return "Sequence"
	case NodeOr:
		return "Or"
	case NodeGroup:
		return "Group"
	case NodeNot:
		return "Not"
	case NodeMatchAll:
		return "MatchAll"
	case NodeMatchAny:
		return "MatchAny"
	case NodeMatch:
		return "Match"
	default:
		return "Unknown"
	}
}

// Node is an element of a parsed expression. The set of implementations is
// closed; the evaluator switches over all of them.
type Node interface {
	Type() NodeType // returns the node type
	String() string // debugging or printing purpose
	Position() int  // where the node starts in the expression
	node()
}

var (
	_ Node = (*WordNode)(nil)
	_ Node = (*NumberNode)(nil)
	_ Node = (*SequenceNode)(nil)
	_ Node = (*OrNode)(nil)
	_ Node = (*GroupNode)(nil)
	_ Node = (*NotNode)(nil)
	_ Node = (*MatchAllNode)(nil)
	_ Node = (*MatchAnyNode)(nil)
	_ Node = (*MatchNode)(nil)
)

// WordNode is a single word pattern.
type WordNode struct {
	Text    string // normalized pattern text as written
	Pattern word.Pattern
	Options word.Options
	pos     int
}

func (n *WordNode) Type() NodeType { return NodeWord }
func (n *WordNode) Position() int  { return n.pos }
func (n *WordNode) node()          {}
func (n *WordNode) String() string {
	if n.Options.Misspellings == 0 && !n.Options.Contains {
		return fmt.Sprintf("Word(%s)", n.Text)
	}
	return fmt.Sprintf("Word(%s m=%d kinds=%s c=%t)", n.Text, n.Options.Misspellings, n.Options.Kinds, n.Options.Contains)
}

// NumberNode matches a numeric response token.
type NumberNode struct {
	Text      string  // as written, e.g. "- 50"
	Value     float64 // parsed value
	Precision int     // digits after the decimal point
	Integral  bool    // no decimal point in the pattern
	pos       int
}

func (n *NumberNode) Type() NodeType { return NodeNumber }
func (n *NumberNode) Position() int  { return n.pos }
func (n *NumberNode) node()          {}
func (n *NumberNode) String() string {
	return fmt.Sprintf("Number(%s)", strconv.FormatFloat(n.Value, 'f', n.Precision, 64))
}

// SequenceNode requires every child to match. Proximity sequences are
// produced by the '_' delimiter and are always ordered.
type SequenceNode struct {
	Children  []Node
	Proximity bool
	Ordered   bool
	pos       int
}

func (n *SequenceNode) Type() NodeType { return NodeSequence }
func (n *SequenceNode) Position() int  { return n.pos }
func (n *SequenceNode) node()          {}
func (n *SequenceNode) String() string {
	var flags []string
	if n.Ordered {
		flags = append(flags, "ordered")
	}
	if n.Proximity {
		flags = append(flags, "proximity")
	}
	return listString(fmt.Sprintf("Sequence[%s]", strings.Join(flags, ",")), n.Children)
}

// OrNode requires one of its children to match.
type OrNode struct {
	Children []Node
	pos      int
}

func (n *OrNode) Type() NodeType { return NodeOr }
func (n *OrNode) Position() int  { return n.pos }
func (n *OrNode) node()          {}
func (n *OrNode) String() string { return listString("Or", n.Children) }

// GroupNode is a bracketed sub-pattern.
type GroupNode struct {
	Child *SequenceNode
	pos   int
}

func (n *GroupNode) Type() NodeType { return NodeGroup }
func (n *GroupNode) Position() int  { return n.pos }
func (n *GroupNode) node()          {}
func (n *GroupNode) String() string { return listString("Group", []Node{n.Child}) }

// NotNode inverts the result of a whole expression.
type NotNode struct {
	Child Node
	pos   int
}

func (n *NotNode) Type() NodeType { return NodeNot }
func (n *NotNode) Position() int  { return n.pos }
func (n *NotNode) node()          {}
func (n *NotNode) String() string { return listString("Not", []Node{n.Child}) }

// MatchAllNode matches when every child expression matches the whole response.
type MatchAllNode struct {
	Children []Node
	pos      int
}

func (n *MatchAllNode) Type() NodeType { return NodeMatchAll }
func (n *MatchAllNode) Position() int  { return n.pos }
func (n *MatchAllNode) node()          {}
func (n *MatchAllNode) String() string { return listString("MatchAll", n.Children) }

// MatchAnyNode matches when at least one child expression matches the whole response.
type MatchAnyNode struct {
	Children []Node
	pos      int
}

func (n *MatchAnyNode) Type() NodeType { return NodeMatchAny }
func (n *MatchAnyNode) Position() int  { return n.pos }
func (n *MatchAnyNode) node()          {}
func (n *MatchAnyNode) String() string { return listString("MatchAny", n.Children) }

// MatchOptions are the letters after "match_".
type MatchOptions struct {
	Contains        bool      // c
	AllowExtraWords bool      // w
	AnyOrder        bool      // o
	Misspellings    int       // m, m2, m3...
	EditKinds       word.Kind // f, r, t, x after m; all kinds when none given
}

func (o MatchOptions) String() string {
	var sb strings.Builder
	if o.Contains {
		sb.WriteByte('c')
	}
	if o.Misspellings > 0 {
		sb.WriteByte('m')
		if o.Misspellings > 1 {
			sb.WriteString(strconv.Itoa(o.Misspellings))
		}
		if o.EditKinds != word.AnyKind {
			for _, e := range []struct {
				kind   word.Kind
				letter byte
			}{
				{word.Fewer, 'f'},
				{word.Replace, 'r'},
				{word.Transpose, 't'},
				{word.Extra, 'x'},
			} {
				if o.EditKinds&e.kind != 0 {
					sb.WriteByte(e.letter)
				}
			}
		}
	}
	if o.AnyOrder {
		sb.WriteByte('o')
	}
	if o.AllowExtraWords {
		sb.WriteByte('w')
	}
	return sb.String()
}

// MatchNode is a match(...) or match_<options>(...) expression.
type MatchNode struct {
	Options  MatchOptions
	Contents *SequenceNode
	pos      int
}

func (n *MatchNode) Type() NodeType { return NodeMatch }
func (n *MatchNode) Position() int  { return n.pos }
func (n *MatchNode) node()          {}
func (n *MatchNode) String() string {
	name := "match"
	if opts := n.Options.String(); opts != "" {
		name += "_" + opts
	}
	return listString(fmt.Sprintf("Match(%s)", name), []Node{n.Contents})
}

func listString(head string, children []Node) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s(%d children):\n", head, len(children))
	for i, child := range children {
		// apply indentation for children node
		childStr := strings.ReplaceAll(child.String(), "\n", "\n  ")
		fmt.Fprintf(&sb, "  %d: %s\n", i, childStr)
	}
	return strings.TrimRight(sb.String(), "\n")
}
