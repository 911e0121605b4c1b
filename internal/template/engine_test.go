package template_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/storycases/internal/domain"
	tmpl "github.com/fjglira/storycases/internal/template"
)

func ptr(s string) *string { return &s }

var records = []domain.TestCaseRecord{
	{
		ID:             "TC_001",
		Title:          "Login",
		Preconditions:  ptr("Has account"),
		Steps:          []string{"Open page", "Click button"},
		ExpectedResult: "Dashboard shown",
		Priority:       ptr("High"),
		PassCriteria:   ptr("Dashboard visible"),
		ScenarioID:     "TS_001",
		Scenario:       "Login flow",
	},
	{
		ID:             "TC_002",
		Title:          "Logout",
		Steps:          []string{"Click logout"},
		ExpectedResult: "Login page shown",
		ScenarioID:     domain.UngroupedScenarioID,
	},
}

var _ = Describe("TemplateEngine", func() {
	var engine *tmpl.DefaultEngine

	BeforeEach(func() {
		var err error
		engine, err = tmpl.NewEngine("")
		Expect(err).ToNot(HaveOccurred())
	})

	Describe("ListTemplates", func() {
		It("should list the built-in templates in order", func() {
			Expect(engine.ListTemplates()).To(Equal([]string{"clipboard", "markdown", "text"}))
		})
	})

	Describe("Render text", func() {
		It("should produce the plain text export format", func() {
			out, err := engine.Render(tmpl.TextTemplate, "JIRA-101", records)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal("\n" +
				"TEST CASE ID: TC_001\n" +
				"TEST CASE: Login\n" +
				"PRECONDITIONS: Has account\n" +
				"STEPS:\n" +
				"  1. Open page\n" +
				"  2. Click button\n" +
				"EXPECTED RESULT:\n" +
				"  Dashboard shown\n" +
				"PRIORITY: High\n" +
				"-------------------\n" +
				"\n" +
				"TEST CASE ID: TC_002\n" +
				"TEST CASE: Logout\n" +
				"STEPS:\n" +
				"  1. Click logout\n" +
				"EXPECTED RESULT:\n" +
				"  Login page shown\n" +
				"-------------------\n"))
		})

		It("should render nothing for no records", func() {
			out, err := engine.Render(tmpl.TextTemplate, "JIRA-101", nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(BeEmpty())
		})
	})

	Describe("Render markdown", func() {
		It("should group records under scenario headings", func() {
			out, err := engine.Render(tmpl.MarkdownTemplate, "JIRA-101", records)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(HavePrefix("# Test Cases for JIRA-101"))
			Expect(out).To(ContainSubstring("## TS_001: Login flow"))
			Expect(out).To(ContainSubstring("## Ungrouped"))
			Expect(out).To(ContainSubstring("### TC_001: Login"))
			Expect(out).To(ContainSubstring("1. Open page\n2. Click button"))
			Expect(out).To(ContainSubstring("- Pass: Dashboard visible"))
			Expect(out).ToNot(ContainSubstring("- Fail:"))
			Expect(out).To(ContainSubstring("**Priority:** High"))
		})
	})

	Describe("RenderOne", func() {
		It("should render the clipboard format for one record", func() {
			out, err := engine.RenderOne(tmpl.ClipboardTemplate, records[1])
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal("TEST CASE ID: TC_002\nTEST CASE: Logout\nSTEPS:\n1. Click logout\nEXPECTED RESULT:\nLogin page shown\n"))
		})
	})

	It("should fail for an unknown template", func() {
		_, err := engine.Render("pdf", "JIRA-101", records)
		Expect(err).To(MatchError(ContainSubstring(`template "pdf" not found`)))
	})

	Describe("template directory", func() {
		It("should add and override templates", func() {
			dir := GinkgoT().TempDir()
			Expect(os.WriteFile(filepath.Join(dir, "text.tmpl"), []byte("custom {{.StoryID}}"), 0644)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(dir, "ids.tmpl"), []byte("{{range .Records}}{{.ID}};{{end}}"), 0644)).To(Succeed())

			e, err := tmpl.NewEngine(dir)
			Expect(err).ToNot(HaveOccurred())
			Expect(e.ListTemplates()).To(ContainElements("ids", "text", "markdown"))

			out, err := e.Render("text", "JIRA-7", records)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal("custom JIRA-7"))

			out, err = e.Render("ids", "JIRA-7", records)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal("TC_001;TC_002;"))
		})

		It("should fail for a missing directory", func() {
			_, err := tmpl.NewEngine("nonexistent_dir")
			Expect(err).To(HaveOccurred())
		})

		It("should fail for an invalid template", func() {
			dir := GinkgoT().TempDir()
			Expect(os.WriteFile(filepath.Join(dir, "bad.tmpl"), []byte("{{range}"), 0644)).To(Succeed())
			_, err := tmpl.NewEngine(dir)
			Expect(err).To(MatchError(ContainSubstring("failed to parse template")))
		})
	})
})
