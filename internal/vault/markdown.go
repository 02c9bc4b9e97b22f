package vault

import (
	"net/url"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

const frontMatterDelimiter = "---"

var (
	wikiLinkPattern  = regexp.MustCompile(`\[\[([^\]|#]*)(?:#[^\]|]*)?(?:\|[^\]]*)?\]\]`)
	inlineTagPattern = regexp.MustCompile(`(?:^|\s)#([\p{L}\p{N}_][\p{L}\p{N}_/-]*)`)
	urlSchemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)
)

type frontMatter struct {
	Title   string `yaml:"title"`
	Tags    any    `yaml:"tags"`
	Aliases any    `yaml:"aliases"`
}

// Parser turns raw markdown files into Documents.
type Parser struct {
	md goldmark.Markdown
}

// NewParser creates a markdown parser with GitHub tables enabled.
func NewParser() *Parser {
	return &Parser{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// Parse builds a Document from the raw file content. Malformed front-matter
// is treated as part of the body rather than rejected.
func (p *Parser) Parse(relPath string, raw []byte, modifiedAt time.Time) Document {
	meta, body := splitFrontMatter(string(raw))

	doc := Document{
		Path:       relPath,
		Text:       body,
		ModifiedAt: modifiedAt,
		Aliases:    stringList(meta.Aliases),
	}

	root := p.md.Parser().Parse(text.NewReader([]byte(body)))
	heading, mdLinks := walkMarkdown(root, []byte(body))

	switch {
	case strings.TrimSpace(meta.Title) != "":
		doc.Title = strings.TrimSpace(meta.Title)
	case heading != "":
		doc.Title = heading
	default:
		doc.Title = stem(relPath)
	}

	for _, m := range wikiLinkPattern.FindAllStringSubmatch(body, -1) {
		target := strings.TrimSpace(m[1])
		if target == "" {
			continue
		}
		doc.Links = append(doc.Links, Link{Target: target, Kind: WikiLink})
	}
	for _, dest := range mdLinks {
		doc.Links = append(doc.Links, Link{Target: dest, Kind: MarkdownLink})
	}

	doc.Tags = mergeTags(stringList(meta.Tags), inlineTags(body))
	return doc
}

// splitFrontMatter separates a leading YAML block from the body.
func splitFrontMatter(s string) (frontMatter, string) {
	var meta frontMatter
	if !strings.HasPrefix(s, frontMatterDelimiter) {
		return meta, s
	}
	rest := s[len(frontMatterDelimiter):]
	idx := strings.Index(rest, "\n"+frontMatterDelimiter)
	if idx == -1 {
		return meta, s
	}
	if err := yaml.Unmarshal([]byte(rest[:idx]), &meta); err != nil {
		return frontMatter{}, s
	}
	body := rest[idx+len("\n"+frontMatterDelimiter):]
	body = strings.TrimPrefix(body, "\r")
	body = strings.TrimPrefix(body, "\n")
	return meta, body
}

// walkMarkdown returns the first level-1 heading and every local link destination.
func walkMarkdown(root ast.Node, source []byte) (string, []string) {
	var heading string
	var links []string

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 1 && heading == "" {
				heading = strings.TrimSpace(nodeText(node, source))
			}
		case *ast.Link:
			if dest, ok := localDestination(string(node.Destination)); ok {
				links = append(links, dest)
			}
		}
		return ast.WalkContinue, nil
	})

	return heading, links
}

func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				sb.WriteByte(' ')
			}
			continue
		}
		sb.WriteString(nodeText(c, source))
	}
	return sb.String()
}

// localDestination filters out external URLs and strips fragments and queries.
func localDestination(dest string) (string, bool) {
	dest = strings.TrimSpace(dest)
	if dest == "" || strings.HasPrefix(dest, "#") || urlSchemePattern.MatchString(dest) {
		return "", false
	}
	if i := strings.IndexAny(dest, "#?"); i >= 0 {
		dest = dest[:i]
	}
	if decoded, err := url.PathUnescape(dest); err == nil {
		dest = decoded
	}
	if dest == "" {
		return "", false
	}
	return dest, true
}

func inlineTags(body string) []string {
	var tags []string
	for _, m := range inlineTagPattern.FindAllStringSubmatch(body, -1) {
		tags = append(tags, m[1])
	}
	return tags
}

// mergeTags lowercases, strips a leading '#', and de-duplicates.
func mergeTags(groups ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, group := range groups {
		for _, tag := range group {
			tag = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}

// stringList accepts a YAML list or a comma separated string.
func stringList(v any) []string {
	switch val := v.(type) {
	case string:
		var out []string
		for _, part := range strings.Split(val, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	case []any:
		var out []string
		for _, item := range val {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	default:
		return nil
	}
}

func stem(relPath string) string {
	return strings.TrimSuffix(path.Base(relPath), path.Ext(relPath))
}
