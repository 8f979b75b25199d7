// Package render turns game review articles into sanitised HTML.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/meur/gamelib/internal/contentful"
	"github.com/meur/gamelib/internal/models"
)

// Renderer renders rich text documents and markdown reviews
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// New creates a Renderer
func New() *Renderer {
	return &Renderer{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: newArticlePolicy(),
	}
}

func newArticlePolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("p", "span", "blockquote")
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return policy
}

// Article renders a game's article. The CMS rich text body wins over a
// markdown review; a game with neither renders empty.
func (r *Renderer) Article(g *models.Game) (string, error) {
	switch {
	case len(g.Article) > 0 && string(g.Article) != "null":
		return r.RichText(g.Article)
	case strings.TrimSpace(g.Review) != "":
		return r.Markdown(g.Review)
	}
	return "", nil
}

// RichText renders a Contentful rich text document
func (r *Renderer) RichText(raw json.RawMessage) (string, error) {
	var doc contentful.Node
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("decode rich text: %w", err)
	}
	var b strings.Builder
	writeNodes(&b, doc.Content)
	return r.policy.Sanitize(b.String()), nil
}

// Markdown renders a markdown review
func (r *Renderer) Markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}

var blockTags = map[string]string{
	contentful.NodeParagraph: "p",
	contentful.NodeHeading1:  "h1",
	contentful.NodeHeading2:  "h2",
	contentful.NodeHeading3:  "h3",
	contentful.NodeHeading4:  "h4",
	contentful.NodeHeading5:  "h5",
	contentful.NodeHeading6:  "h6",
	contentful.NodeUList:     "ul",
	contentful.NodeOList:     "ol",
	contentful.NodeListItem:  "li",
	contentful.NodeQuote:     "blockquote",
}

var markTags = map[string]string{
	"bold":      "b",
	"italic":    "i",
	"underline": "u",
	"code":      "code",
}

func writeNodes(b *strings.Builder, nodes []contentful.Node) {
	for _, n := range nodes {
		writeNode(b, n)
	}
}

func writeNode(b *strings.Builder, n contentful.Node) {
	switch n.NodeType {
	case contentful.NodeText:
		text := strings.ReplaceAll(html.EscapeString(n.Value), "\n", "<br/>")
		for i := len(n.Marks) - 1; i >= 0; i-- {
			if tag, ok := markTags[n.Marks[i].Type]; ok {
				text = "<" + tag + ">" + text + "</" + tag + ">"
			}
		}
		b.WriteString(text)
	case contentful.NodeHR:
		b.WriteString("<hr/>")
	case contentful.NodeHyperlink:
		uri, _ := n.Data["uri"].(string)
		b.WriteString(`<a href="` + html.EscapeString(uri) + `">`)
		writeNodes(b, n.Content)
		b.WriteString("</a>")
	default:
		tag, ok := blockTags[n.NodeType]
		if !ok {
			// embedded entries and assets are not rendered inline
			writeNodes(b, n.Content)
			return
		}
		b.WriteString("<" + tag + ">")
		writeNodes(b, n.Content)
		b.WriteString("</" + tag + ">")
	}
}
