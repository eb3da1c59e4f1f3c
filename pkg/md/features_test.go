package md_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/open-cli-collective/mdsite/pkg/md"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{filepath.Join("testdata", "features")},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("feature scenarios failed")
	}
}

// scenarioState holds per-scenario state for step definitions.
type scenarioState struct {
	opts     md.Options
	markdown string

	tree     *md.TreeNode
	html     string
	warnings []md.Diagnostic

	// scope is the last element found at document level; element is the
	// last element found anywhere and is the subject of "that element".
	scope   *md.TreeNode
	element *md.TreeNode

	tempDirs []string
}

func (s *scenarioState) tempDir() (string, error) {
	dir, err := os.MkdirTemp("", "mdsite-features-")
	if err != nil {
		return "", err
	}
	s.tempDirs = append(s.tempDirs, dir)
	return dir, nil
}

func initializeScenario(ctx *godog.ScenarioContext) {
	s := &scenarioState{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		*s = scenarioState{}
		return ctx, nil
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		for _, dir := range s.tempDirs {
			_ = os.RemoveAll(dir)
		}
		return ctx, nil
	})

	ctx.Step(`^the markdown "([^"]*)"$`, func(src string) error {
		s.markdown = strings.ReplaceAll(src, `\n`, "\n")
		return nil
	})
	ctx.Step(`^the markdown:$`, func(doc *godog.DocString) error {
		s.markdown = doc.Content
		return nil
	})
	ctx.Step(`^the video binding is "([^"]*)"$`, func(value string) error {
		binding, err := md.ParseVideoBinding(value)
		if err != nil {
			return err
		}
		s.opts.VideoBinding = binding
		return nil
	})
	ctx.Step(`^a comic manifest at "([^"]*)" with cover "([^"]*)"$`, s.writeManifest)
	ctx.Step(`^comic manifests are read from an empty folder$`, func() error {
		dir, err := s.tempDir()
		if err != nil {
			return err
		}
		s.opts.Manifests = md.FileManifests{Root: dir}
		return nil
	})

	ctx.Step(`^I convert it$`, s.convert)

	ctx.Step(`^no warnings are reported$`, func() error {
		if len(s.warnings) != 0 {
			return fmt.Errorf("expected no warnings, got %v", s.warnings)
		}
		return nil
	})
	ctx.Step(`^(\d+) warnings? (?:is|are) reported$`, func(n int) error {
		if len(s.warnings) != n {
			return fmt.Errorf("expected %d warnings, got %d: %v", n, len(s.warnings), s.warnings)
		}
		return nil
	})

	ctx.Step(`^the document contains an? "(\w+)" element with class "([^"]*)"$`, func(tag, class string) error {
		found := s.tree.Find(tagWithClass(tag, class))
		if found == nil {
			return fmt.Errorf("no <%s class=%q> in document", tag, class)
		}
		s.scope, s.element = found, found
		return nil
	})
	ctx.Step(`^it contains an? "(\w+)" element with class "([^"]*)"$`, func(tag, class string) error {
		return s.findInScope(tag, tagWithClass(tag, class))
	})
	ctx.Step(`^it contains an? "(\w+)" element$`, func(tag string) error {
		return s.findInScope(tag, md.IsTag(tag))
	})
	ctx.Step(`^the document contains no "(\w+)" element$`, func(tag string) error {
		if found := s.tree.Find(md.IsTag(tag)); found != nil {
			return fmt.Errorf("unexpected <%s> in document", tag)
		}
		return nil
	})
	ctx.Step(`^the document contains no element with class "([^"]*)"$`, func(class string) error {
		if found := s.tree.Find(func(n *md.TreeNode) bool { return n.HasClass(class) }); found != nil {
			return fmt.Errorf("unexpected <%s class=%q> in document", found.TagName, found.ClassName())
		}
		return nil
	})
	ctx.Step(`^the first node is a (leaf|container) directive named "([^"]*)"$`, func(shape, name string) error {
		if len(s.tree.Children) == 0 {
			return fmt.Errorf("document is empty")
		}
		first := s.tree.Children[0]
		want := md.TreeLeafDirective
		if shape == "container" {
			want = md.TreeContainerDirective
		}
		if first.Type != want || first.Name != name {
			return fmt.Errorf("expected %s %q, got %s %q", want, name, first.Type, first.Name)
		}
		return nil
	})

	ctx.Step(`^that element has property "([^"]*)" set to "([^"]*)"$`, func(name, value string) error {
		got, ok := s.element.Properties[name]
		if !ok {
			return fmt.Errorf("<%s> has no property %q", s.element.TagName, name)
		}
		if fmt.Sprint(got) != value {
			return fmt.Errorf("<%s> property %q: expected %q, got %q", s.element.TagName, name, value, fmt.Sprint(got))
		}
		return nil
	})
	ctx.Step(`^that element has no property "([^"]*)"$`, func(name string) error {
		if got, ok := s.element.Properties[name]; ok {
			return fmt.Errorf("<%s> has unexpected property %q=%v", s.element.TagName, name, got)
		}
		return nil
	})
	ctx.Step(`^that element has text "([^"]*)"$`, func(text string) error {
		if got := strings.TrimSpace(s.element.Text()); got != text {
			return fmt.Errorf("<%s> text: expected %q, got %q", s.element.TagName, text, got)
		}
		return nil
	})
	ctx.Step(`^that element contains the text "([^"]*)"$`, func(text string) error {
		if got := s.element.Text(); !strings.Contains(got, text) {
			return fmt.Errorf("<%s> text %q does not contain %q", s.element.TagName, got, text)
		}
		return nil
	})
	ctx.Step(`^the html is:$`, func(doc *godog.DocString) error {
		if strings.TrimSpace(s.html) != strings.TrimSpace(doc.Content) {
			return fmt.Errorf("html mismatch:\nexpected:\n%s\ngot:\n%s", doc.Content, s.html)
		}
		return nil
	})

	ctx.Step(`^the URL "([^"]*)" is (valid|invalid)$`, func(raw, verdict string) error {
		if got := md.IsValidURL(raw); got != (verdict == "valid") {
			return fmt.Errorf("IsValidURL(%q) = %v", raw, got)
		}
		return nil
	})
	ctx.Step(`^sanitizing "([^"]*)" gives "([^"]*)"$`, func(raw, want string) error {
		if got := md.SanitizeText(raw); got != want {
			return fmt.Errorf("SanitizeText(%q) = %q, expected %q", raw, got, want)
		}
		return nil
	})
	ctx.Step(`^sanitizing "([^"]*)" twice gives the same result as once$`, func(raw string) error {
		once := md.SanitizeText(raw)
		if twice := md.SanitizeText(once); twice != once {
			return fmt.Errorf("SanitizeText not idempotent for %q: %q then %q", raw, once, twice)
		}
		return nil
	})
}

func (s *scenarioState) writeManifest(src, cover string) error {
	root := ""
	if fm, ok := s.opts.Manifests.(md.FileManifests); ok {
		root = fm.Root
	} else {
		dir, err := s.tempDir()
		if err != nil {
			return err
		}
		root = dir
		s.opts.Manifests = md.FileManifests{Root: root}
	}

	dir := filepath.Join(root, filepath.FromSlash(strings.Trim(src, "/")))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	content := fmt.Sprintf(`{"id":%q,"name":"fixture","cover":%q}`, filepath.Base(dir), cover)
	return os.WriteFile(filepath.Join(dir, md.ManifestFile), []byte(content), 0o644)
}

func (s *scenarioState) convert() error {
	c := md.NewConverter(s.opts)

	tree, warnings, err := c.ToTree([]byte(s.markdown))
	if err != nil {
		return err
	}
	res, err := c.Convert([]byte(s.markdown))
	if err != nil {
		return err
	}
	if len(res.Warnings) != len(warnings) {
		return fmt.Errorf("tree and html conversions disagree: %d vs %d warnings", len(warnings), len(res.Warnings))
	}
	s.tree, s.warnings, s.html = tree, warnings, res.HTML
	return nil
}

func (s *scenarioState) findInScope(tag string, match func(*md.TreeNode) bool) error {
	if s.scope == nil {
		return fmt.Errorf("no element in scope")
	}
	found := s.scope.Find(match)
	if found == nil {
		return fmt.Errorf("no <%s> inside <%s class=%q>", tag, s.scope.TagName, s.scope.ClassName())
	}
	s.element = found
	return nil
}

func tagWithClass(tag, class string) func(*md.TreeNode) bool {
	return func(n *md.TreeNode) bool {
		return n.Type == md.TreeElement && n.TagName == tag && n.ClassName() == class
	}
}
