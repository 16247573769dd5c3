package skillsource

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/xxxsen/skillmap/internal/model"
	appErr "github.com/xxxsen/skillmap/internal/pkg/errors"
)

// SkillSet is a list of skill labels plus the optional per-index hints the
// clustering engines accept.
type SkillSet struct {
	Skills []string
	Hints  model.Hints
}

type skillEntry struct {
	Name     string  `json:"name"`
	Weight   float64 `json:"weight"`
	Category string  `json:"category"`
}

// LoadSkills picks a parser by file extension: .json, .md/.markdown, or one
// skill per line for anything else.
func LoadSkills(path string) (*SkillSet, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseSkillsJSON(data)
	case ".md", ".markdown":
		return ParseSkillsMarkdown(data), nil
	default:
		return ParseSkillsText(data), nil
	}
}

// ParseSkillsJSON accepts either ["Go", ...] or [{"name": "Go", "weight": 2}, ...].
func ParseSkillsJSON(data []byte) (*SkillSet, error) {
	var names []string
	if err := json.Unmarshal(data, &names); err == nil {
		return fromNames(names), nil
	}
	var entries []skillEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode skills: %w: %w", appErr.ErrInvalid, err)
	}
	set := &SkillSet{
		Skills: make([]string, 0, len(entries)),
		Hints: model.Hints{
			Weights:    make([]float64, 0, len(entries)),
			Categories: make([]string, 0, len(entries)),
		},
	}
	for i, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("skill %d has no name: %w", i, appErr.ErrInvalid)
		}
		set.Skills = append(set.Skills, name)
		set.Hints.Weights = append(set.Hints.Weights, e.Weight)
		set.Hints.Categories = append(set.Hints.Categories, e.Category)
	}
	return set, nil
}

// ParseSkillsMarkdown takes every list item as a skill. The closest heading
// above an item becomes its category.
func ParseSkillsMarkdown(data []byte) *SkillSet {
	reader := text.NewReader(data)
	doc := goldmark.New().Parser().Parse(reader)
	source := reader.Source()

	set := &SkillSet{Skills: []string{}}
	var categories []string
	heading := ""
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindHeading:
			heading = extractText(n, source)
			return ast.WalkSkipChildren, nil
		case ast.KindListItem:
			first := n.FirstChild()
			if first == nil {
				return ast.WalkContinue, nil
			}
			if label := extractText(first, source); label != "" {
				set.Skills = append(set.Skills, label)
				categories = append(categories, heading)
			}
		}
		return ast.WalkContinue, nil
	})
	for _, c := range categories {
		if c != "" {
			set.Hints.Categories = categories
			break
		}
	}
	return set
}

// ParseSkillsText reads one skill per line. Blank lines and lines starting
// with '#' are skipped.
func ParseSkillsText(data []byte) *SkillSet {
	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return fromNames(names)
}

func fromNames(names []string) *SkillSet {
	set := &SkillSet{Skills: make([]string, 0, len(names))}
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			set.Skills = append(set.Skills, n)
		}
	}
	return set
}

func extractText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && node.Kind() == ast.KindText {
			sb.Write(node.(*ast.Text).Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

func wrapNotFound(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", appErr.ErrNotFound, err)
	}
	return err
}
