package parser_test

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/storycases/internal/domain"
	"github.com/fjglira/storycases/internal/parser"
)

const scenarioOne = "#### **Test Scenario ID: TS_001**\n**Test Scenario:** Login\n\n"

func block(id string, extra ...string) string {
	var b strings.Builder
	b.WriteString("##### **Test Case ID: " + id + "**\n")
	b.WriteString("- **Test Case:** Case " + id + "\n")
	for _, e := range extra {
		b.WriteString(e)
	}
	b.WriteString("- **Test Execution Steps:**\n")
	b.WriteString("  1. Open page\n  2. Click button\n")
	b.WriteString("- **Expected Outcome:** It works\n")
	b.WriteString("- **Pass/Fail Criteria:**\n")
	b.WriteString("  - **Pass:** Works\n\n")
	return b.String()
}

var _ = Describe("Extract", func() {
	Describe("JIRA-101.md", func() {
		var records []domain.TestCaseRecord

		BeforeEach(func() {
			content, err := os.ReadFile(filepath.Join("..", "..", "testdata", "generated", "JIRA-101.md"))
			Expect(err).ToNot(HaveOccurred())
			records = parser.Extract(string(content))
		})

		It("should extract the well-formed test cases in document order", func() {
			var ids []string
			for _, r := range records {
				ids = append(ids, r.ID)
			}
			Expect(ids).To(Equal([]string{"TC_000", "TC_001", "TC_002", "TC_004"}))
		})

		It("should leave a test case before any scenario ungrouped", func() {
			Expect(records[0].ScenarioID).To(Equal(domain.UngroupedScenarioID))
			Expect(records[0].Scenario).To(BeEmpty())
		})

		It("should associate test cases with the nearest preceding scenario", func() {
			Expect(records[1].ScenarioID).To(Equal("TS_001"))
			Expect(records[1].Scenario).To(Equal("OAuth login with Google"))
			Expect(records[2].ScenarioID).To(Equal("TS_001"))
			Expect(records[3].ScenarioID).To(Equal("TS_002"))
			Expect(records[3].Scenario).To(Equal("Session handling"))
		})

		It("should capture every section of a complete block", func() {
			r := records[1]
			Expect(r.Title).To(Equal("Successful login with a valid Google account"))
			Expect(r.Preconditions).To(HaveValue(Equal("User has a Google account")))
			Expect(r.TestData).To(HaveValue(Equal("user@example.com / valid password")))
			Expect(r.Steps).To(Equal([]string{
				"Navigate to the login page",
				`Click "Sign in with Google"`,
				"Enter valid credentials",
			}))
			Expect(r.ExpectedResult).To(Equal("User is redirected to the dashboard"))
			Expect(r.PassCriteria).To(HaveValue(Equal("Dashboard is shown with the user's name")))
			Expect(r.FailCriteria).To(HaveValue(Equal("An error message is shown")))
			Expect(r.Priority).To(HaveValue(Equal("High")))
			Expect(r.References).To(HaveValue(Equal("JIRA-101")))
		})

		It("should leave missing optional sections unset", func() {
			r := records[2]
			Expect(r.Preconditions).To(BeNil())
			Expect(r.TestData).To(BeNil())
			Expect(r.FailCriteria).To(BeNil())
			Expect(r.References).To(BeNil())
			Expect(r.Priority).To(HaveValue(Equal("Medium")))
		})

		It("should accept section labels without a list dash", func() {
			r := records[3]
			Expect(r.Steps).To(HaveLen(3))
			Expect(r.ExpectedResult).To(Equal("User is asked to log in again"))
			Expect(r.FailCriteria).To(HaveValue(Equal("Dashboard is still accessible")))
			Expect(r.References).To(HaveValue(Equal("OWASP ASVS 3.3.1")))
		})

		It("should omit the block without an expected outcome", func() {
			for _, r := range records {
				Expect(r.ID).ToNot(Equal("TC_003"))
				Expect(r.Title).ToNot(ContainSubstring("browser restart"))
			}
		})
	})

	It("should return an empty sequence for empty input", func() {
		Expect(parser.Extract("")).To(BeEmpty())
	})

	It("should return an empty sequence for text without test cases", func() {
		Expect(parser.Extract("no test cases here\n#### heading\n")).To(BeEmpty())
	})

	It("should use the scenario header preceding a single test case", func() {
		records := parser.Extract(scenarioOne + block("TC_001"))
		Expect(records).To(HaveLen(1))
		Expect(records[0].ScenarioID).To(Equal("TS_001"))
		Expect(records[0].Scenario).To(Equal("Login"))
	})

	It("should split numbered steps in order and trim them", func() {
		records := parser.Extract(block("TC_001"))
		Expect(records).To(HaveLen(1))
		Expect(records[0].Steps).To(Equal([]string{"Open page", "Click button"}))
	})

	It("should keep multi-line step text together", func() {
		text := strings.Replace(block("TC_001"), "  1. Open page\n", "  1. Open page\n     and wait for version 2.1 to load\n", 1)
		records := parser.Extract(text)
		Expect(records).To(HaveLen(1))
		Expect(records[0].Steps).To(HaveLen(2))
		Expect(records[0].Steps[0]).To(HavePrefix("Open page"))
		Expect(records[0].Steps[0]).To(HaveSuffix("version 2.1 to load"))
	})

	It("should return no steps when the steps region has no numbered entries", func() {
		text := strings.Replace(block("TC_001"), "  1. Open page\n  2. Click button\n", "  open the page\n", 1)
		records := parser.Extract(text)
		Expect(records).To(HaveLen(1))
		Expect(records[0].Steps).To(BeEmpty())
	})

	It("should distinguish a present but empty section from a missing one", func() {
		records := parser.Extract(block("TC_001", "- **Preconditions:** \n"))
		Expect(records).To(HaveLen(1))
		Expect(records[0].Preconditions).ToNot(BeNil())
		Expect(*records[0].Preconditions).To(BeEmpty())
		Expect(records[0].TestData).To(BeNil())
	})

	It("should emit both records when an id is repeated", func() {
		records := parser.Extract(block("TC_001") + block("TC_001"))
		Expect(records).To(HaveLen(2))
		Expect(records[0].ID).To(Equal("TC_001"))
		Expect(records[1].ID).To(Equal("TC_001"))
	})

	It("should not let a malformed block swallow the next one", func() {
		broken := strings.Replace(block("TC_001"), "- **Expected Outcome:** It works\n", "", 1)
		records := parser.Extract(broken + block("TC_002"))
		Expect(records).To(HaveLen(1))
		Expect(records[0].ID).To(Equal("TC_002"))
		Expect(records[0].Steps).To(Equal([]string{"Open page", "Click button"}))
	})

	It("should skip headers with a different delimiter", func() {
		text := strings.Replace(block("TC_001"), "##### **Test Case ID: TC_001**", "##### **Test Case ID - TC_001**", 1)
		Expect(parser.Extract(text)).To(BeEmpty())
	})

	It("should keep the scenario id when the scenario has no title line", func() {
		text := "#### **Test Scenario ID: TS_009**\n\n" + block("TC_001")
		records := parser.Extract(text)
		Expect(records).To(HaveLen(1))
		Expect(records[0].ScenarioID).To(Equal("TS_009"))
		Expect(records[0].Scenario).To(BeEmpty())
	})

	It("should use the most recent of several scenario headers", func() {
		text := scenarioOne +
			"#### **Test Scenario ID: TS_002**\n**Test Scenario:** Logout\n\n" +
			block("TC_001")
		records := parser.Extract(text)
		Expect(records).To(HaveLen(1))
		Expect(records[0].ScenarioID).To(Equal("TS_002"))
		Expect(records[0].Scenario).To(Equal("Logout"))
	})

	It("should ignore references that are followed by more text on the next line", func() {
		text := strings.TrimSuffix(block("TC_001"), "\n") + "- **References:** RFC 6749\ntrailing note\n"
		records := parser.Extract(text)
		Expect(records).To(HaveLen(1))
		Expect(records[0].References).To(BeNil())
	})

	It("should accept references at the very end of the input", func() {
		text := strings.TrimSuffix(block("TC_001"), "\n") + "- **References:** RFC 6749"
		records := parser.Extract(text)
		Expect(records).To(HaveLen(1))
		Expect(records[0].References).To(HaveValue(Equal("RFC 6749")))
	})

	It("should handle CRLF line endings", func() {
		text := strings.ReplaceAll(scenarioOne+block("TC_001"), "\n", "\r\n")
		records := parser.Extract(text)
		Expect(records).To(HaveLen(1))
		Expect(records[0].Scenario).To(Equal("Login"))
		Expect(records[0].Steps).To(Equal([]string{"Open page", "Click button"}))
	})

	It("should produce identical results when called twice", func() {
		text := scenarioOne + block("TC_001") + block("TC_002", "- **Test Data:** x\n")
		Expect(parser.Extract(text)).To(Equal(parser.Extract(text)))
	})

	It("should be safe for concurrent use", func() {
		text := scenarioOne + block("TC_001") + block("TC_002")
		expected := parser.Extract(text)

		var wg sync.WaitGroup
		results := make([][]domain.TestCaseRecord, 8)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				defer GinkgoRecover()
				results[i] = parser.Extract(text)
			}(i)
		}
		wg.Wait()
		for _, r := range results {
			Expect(r).To(Equal(expected))
		}
	})
})

var _ = Describe("Scenarios", func() {
	It("should list scenarios in document order without duplicates", func() {
		text := scenarioOne +
			"#### **Test Scenario ID: TS_000**\n**Test Scenario:** Signup\n\n" +
			"#### **Test Scenario ID: TS_001**\n**Test Scenario:** Login again\n\n"
		groups := parser.Scenarios(text)
		Expect(groups).To(Equal([]domain.ScenarioGroup{
			{ID: "TS_001", Title: "Login again"},
			{ID: "TS_000", Title: "Signup"},
		}))
	})

	It("should key the scenario table by id", func() {
		table := parser.ScenarioTable(scenarioOne)
		Expect(table).To(HaveKeyWithValue("TS_001", domain.ScenarioGroup{ID: "TS_001", Title: "Login"}))
	})
})
