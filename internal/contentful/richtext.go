package contentful

import (
	"encoding/json"
	"strings"
)

// Rich text node types
const (
	NodeDocument  = "document"
	NodeParagraph = "paragraph"
	NodeText      = "text"
	NodeHeading1  = "heading-1"
	NodeHeading2  = "heading-2"
	NodeHeading3  = "heading-3"
	NodeHeading4  = "heading-4"
	NodeHeading5  = "heading-5"
	NodeHeading6  = "heading-6"
	NodeUList     = "unordered-list"
	NodeOList     = "ordered-list"
	NodeListItem  = "list-item"
	NodeQuote     = "blockquote"
	NodeHR        = "hr"
	NodeHyperlink = "hyperlink"
)

// Mark is a text decoration
type Mark struct {
	Type string `json:"type"`
}

// Node is one node of a Contentful rich text document
type Node struct {
	NodeType string         `json:"nodeType"`
	Value    string         `json:"value,omitempty"`
	Marks    []Mark         `json:"marks,omitempty"`
	Data     map[string]any `json:"data"`
	Content  []Node         `json:"content,omitempty"`
}

// MarshalJSON always emits marks on text nodes and never on others
func (n Node) MarshalJSON() ([]byte, error) {
	type plain Node
	if n.Data == nil {
		n.Data = map[string]any{}
	}
	if n.NodeType != NodeText {
		n.Marks = nil
		return json.Marshal(plain(n))
	}
	marks := n.Marks
	if marks == nil {
		marks = []Mark{}
	}
	return json.Marshal(struct {
		plain
		Marks []Mark `json:"marks"`
	}{plain: plain(n), Marks: marks})
}

// PlainDocument builds a rich text document with one paragraph per
// blank-line separated block of text.
func PlainDocument(text string) Node {
	doc := Node{NodeType: NodeDocument, Data: map[string]any{}, Content: []Node{}}
	for _, block := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		doc.Content = append(doc.Content, Node{
			NodeType: NodeParagraph,
			Data:     map[string]any{},
			Content: []Node{{
				NodeType: NodeText,
				Value:    block,
				Marks:    []Mark{},
				Data:     map[string]any{},
			}},
		})
	}
	return doc
}
