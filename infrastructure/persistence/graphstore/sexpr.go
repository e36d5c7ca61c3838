package graphstore

import (
	"fmt"
	"strconv"
	"strings"

	"backend2/infrastructure/persistence/statedto"
)

// encodeSnapshot renders dto as a canonical s-expression, the "human-
// readable expression syntax" spec §6 names for the graph store's
// Snapshot node. Every list is tagged with its field name so the decoder
// can rebuild the DTO without positional guessing.
func encodeSnapshot(dto *statedto.State) string {
	var b strings.Builder
	b.WriteString("(state ")
	writeAtom(&b, "id", dto.ID)
	b.WriteByte(' ')
	writeAtom(&b, "bornAt", strconv.FormatInt(dto.BornAt, 10))
	b.WriteString(" (items")
	for _, it := range dto.Items {
		b.WriteString(" (item ")
		writeAtom(&b, "id", it.ID)
		b.WriteByte(' ')
		writeAtom(&b, "type", it.Type)
		b.WriteByte(' ')
		writeAtom(&b, "text", it.Text)
		b.WriteString(" (tags")
		for _, t := range it.Tags {
			b.WriteByte(' ')
			writeString(&b, t)
		}
		b.WriteString(") ")
		writeAtom(&b, "importance", formatFloat(it.Importance))
		b.WriteByte(' ')
		writeAtom(&b, "energy", formatFloat(it.Energy))
		b.WriteByte(' ')
		writeAtom(&b, "ttl", it.TTL)
		b.WriteByte(' ')
		writeAtom(&b, "scope", it.Scope)
		b.WriteByte(' ')
		writeAtom(&b, "createdAt", strconv.FormatInt(it.CreatedAt, 10))
		b.WriteByte(' ')
		writeAtom(&b, "updatedAt", strconv.FormatInt(it.UpdatedAt, 10))
		b.WriteByte(' ')
		writeAtom(&b, "lastAccessedAt", strconv.FormatInt(it.LastAccessedAt, 10))
		b.WriteByte(' ')
		writeAtom(&b, "accessCount", strconv.FormatInt(it.AccessCount, 10))
		b.WriteByte(' ')
		writeAtom(&b, "success", strconv.FormatInt(it.Success, 10))
		b.WriteByte(' ')
		writeAtom(&b, "fail", strconv.FormatInt(it.Fail, 10))
		b.WriteString(")")
	}
	b.WriteString(") (edges")
	for _, e := range dto.Edges {
		b.WriteString(" (edge ")
		writeAtom(&b, "from", e.From)
		b.WriteByte(' ')
		writeAtom(&b, "to", e.To)
		b.WriteByte(' ')
		writeAtom(&b, "relation", e.Relation)
		b.WriteByte(' ')
		writeAtom(&b, "weight", formatFloat(e.Weight))
		b.WriteByte(' ')
		writeAtom(&b, "lastReinforcedAt", strconv.FormatInt(e.LastReinforcedAt, 10))
		b.WriteString(")")
	}
	b.WriteString(") (history")
	for _, h := range dto.History {
		b.WriteString(" (entry ")
		writeAtom(&b, "operation", h.Operation)
		b.WriteByte(' ')
		writeAtom(&b, "detail", h.Detail)
		b.WriteByte(' ')
		writeAtom(&b, "timestamp", strconv.FormatInt(h.Timestamp, 10))
		b.WriteString(")")
	}
	b.WriteString("))")
	return b.String()
}

func writeAtom(b *strings.Builder, name, value string) {
	fmt.Fprintf(b, "(%s ", name)
	writeString(b, value)
	b.WriteByte(')')
}

func writeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// sexprNode is a parsed list node: either a tagged list ((name child...))
// or an atom ("string").
type sexprNode struct {
	atom     bool
	value    string
	tag      string
	children []*sexprNode
}

// decodeSnapshot parses a string produced by encodeSnapshot back into a
// statedto.State.
func decodeSnapshot(src string) (*statedto.State, error) {
	p := &sexprParser{src: src}
	root, err := p.parseNode()
	if err != nil {
		return nil, fmt.Errorf("graphstore: parse snapshot: %w", err)
	}

	dto := &statedto.State{}
	for _, c := range root.children {
		switch c.tag {
		case "id":
			dto.ID = c.children[0].value
		case "bornAt":
			dto.BornAt = mustInt64(c.children[0].value)
		case "items":
			for _, item := range c.children {
				dto.Items = append(dto.Items, decodeItem(item))
			}
		case "edges":
			for _, edge := range c.children {
				dto.Edges = append(dto.Edges, decodeEdge(edge))
			}
		case "history":
			for _, h := range c.children {
				dto.History = append(dto.History, decodeHistory(h))
			}
		}
	}
	return dto, nil
}

func decodeItem(n *sexprNode) statedto.Item {
	var item statedto.Item
	for _, c := range n.children {
		switch c.tag {
		case "id":
			item.ID = c.children[0].value
		case "type":
			item.Type = c.children[0].value
		case "text":
			item.Text = c.children[0].value
		case "tags":
			for _, t := range c.children {
				item.Tags = append(item.Tags, t.value)
			}
		case "importance":
			item.Importance = mustFloat(c.children[0].value)
		case "energy":
			item.Energy = mustFloat(c.children[0].value)
		case "ttl":
			item.TTL = c.children[0].value
		case "scope":
			item.Scope = c.children[0].value
		case "createdAt":
			item.CreatedAt = mustInt64(c.children[0].value)
		case "updatedAt":
			item.UpdatedAt = mustInt64(c.children[0].value)
		case "lastAccessedAt":
			item.LastAccessedAt = mustInt64(c.children[0].value)
		case "accessCount":
			item.AccessCount = mustInt64(c.children[0].value)
		case "success":
			item.Success = mustInt64(c.children[0].value)
		case "fail":
			item.Fail = mustInt64(c.children[0].value)
		}
	}
	return item
}

func decodeEdge(n *sexprNode) statedto.Edge {
	var edge statedto.Edge
	for _, c := range n.children {
		switch c.tag {
		case "from":
			edge.From = c.children[0].value
		case "to":
			edge.To = c.children[0].value
		case "relation":
			edge.Relation = c.children[0].value
		case "weight":
			edge.Weight = mustFloat(c.children[0].value)
		case "lastReinforcedAt":
			edge.LastReinforcedAt = mustInt64(c.children[0].value)
		}
	}
	return edge
}

func decodeHistory(n *sexprNode) statedto.History {
	var h statedto.History
	for _, c := range n.children {
		switch c.tag {
		case "operation":
			h.Operation = c.children[0].value
		case "detail":
			h.Detail = c.children[0].value
		case "timestamp":
			h.Timestamp = mustInt64(c.children[0].value)
		}
	}
	return h
}

func mustInt64(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func mustFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// sexprParser is a minimal recursive-descent parser for the tagged-list
// grammar encodeSnapshot produces: "(" tag " " (node | string)* ")".
type sexprParser struct {
	src string
	pos int
}

func (p *sexprParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *sexprParser) parseNode() (*sexprNode, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, fmt.Errorf("unexpected end of input")
	}
	switch p.src[p.pos] {
	case '(':
		return p.parseList()
	case '"':
		s, err := p.parseString()
		if err != nil {
			return nil, err
		}
		return &sexprNode{atom: true, value: s}, nil
	default:
		return nil, fmt.Errorf("unexpected character %q at %d", p.src[p.pos], p.pos)
	}
}

func (p *sexprParser) parseList() (*sexprNode, error) {
	p.pos++ // consume '('
	p.skipSpace()

	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != ' ' && p.src[p.pos] != ')' {
		p.pos++
	}
	tag := p.src[start:p.pos]

	node := &sexprNode{tag: tag}
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, fmt.Errorf("unterminated list %q", tag)
		}
		if p.src[p.pos] == ')' {
			p.pos++
			return node, nil
		}
		child, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		node.children = append(node.children, child)
	}
}

func (p *sexprParser) parseString() (string, error) {
	p.pos++ // consume opening quote
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '\\' && p.pos+1 < len(p.src) {
			p.pos++
			b.WriteByte(p.src[p.pos])
			p.pos++
			continue
		}
		if c == '"' {
			p.pos++
			return b.String(), nil
		}
		b.WriteByte(c)
		p.pos++
	}
	return "", fmt.Errorf("unterminated string")
}
