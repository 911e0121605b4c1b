package parser

import (
	"regexp"
	"sort"
	"strings"

	"github.com/fjglira/storycases/internal/domain"
)

var (
	// Matches a scenario header without its title line; used to locate the
	// scenario governing a test case.
	scenarioHeaderRe = regexp.MustCompile(`#### \*\*Test Scenario ID: (TS_\d+)\*\*`)
	// Matches a scenario header followed by its "**Test Scenario:**" title line.
	scenarioRe = regexp.MustCompile(`#### \*\*Test Scenario ID: (TS_\d+)\*\*\s*\n\*\*Test Scenario:\*\* ([^\n]*)\n`)
	// Matches the start of a test case block. Blocks never extend past the next one.
	testCaseHeaderRe = regexp.MustCompile(`##### \*\*Test Case ID: TC_\d+\*\*`)
	// Matches one whole test case block, anchored at its header.
	testCaseRe = regexp.MustCompile(`\A##### \*\*Test Case ID: (TC_\d+)\*\*\s*\n` +
		`- \*\*Test Case:\*\* (.*?)\n` +
		`(?:- \*\*Preconditions:\*\* (.*?)\n)?` +
		`(?:- \*\*Test Data:\*\* (.*?)\n)?` +
		`- \*\*Test Execution Steps:\*\*\s*\n` +
		`((?s:.*?))(?:- )?\*\*Expected Outcome:\*\*\s*` +
		`((?s:.*?))(?:- )?\*\*Pass/Fail Criteria:\*\*\s*\n` +
		`(?:\s*- \*\*Pass:\*\* (.*?)\n)?` +
		`(?:\s*- \*\*Fail:\*\* (.*?)\n)?` +
		`(?:- \*\*Priority:\*\* (.*?)\n)?` +
		`(?:- \*\*References:\*\* (.*))?`)

	stepMarkerRe = regexp.MustCompile(`\d+\.\s*`)
	stepEndRe    = regexp.MustCompile(`\n\s*(?:\d+\.|\z)`)
)

// Submatch indexes of testCaseRe.
const (
	groupID = iota + 1
	groupTitle
	groupPreconditions
	groupTestData
	groupSteps
	groupExpected
	groupPass
	groupFail
	groupPriority
	groupReferences
)

// Extract recovers the test cases encoded in generator output, in the order
// their headers appear. Blocks that do not match the expected layout are
// skipped. It never fails and is safe for concurrent use.
func Extract(rawText string) []domain.TestCaseRecord {
	text := normalize(rawText)
	records := []domain.TestCaseRecord{}

	headers := testCaseHeaderRe.FindAllStringIndex(text, -1)
	if len(headers) == 0 {
		return records
	}

	titles := scenarioTable(text)
	index := newScenarioIndex(text)

	for i, h := range headers {
		end := len(text)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		block := text[h[0]:end]

		m := testCaseRe.FindStringSubmatchIndex(block)
		if m == nil {
			continue
		}

		rec := domain.TestCaseRecord{
			ID:             capture(block, m, groupID),
			Title:          capture(block, m, groupTitle),
			Steps:          parseSteps(capture(block, m, groupSteps)),
			ExpectedResult: capture(block, m, groupExpected),
			Preconditions:  optional(block, m, groupPreconditions),
			TestData:       optional(block, m, groupTestData),
			PassCriteria:   optional(block, m, groupPass),
			FailCriteria:   optional(block, m, groupFail),
			Priority:       optional(block, m, groupPriority),
		}
		if referencesTerminated(block, m) {
			rec.References = optional(block, m, groupReferences)
		}

		rec.ScenarioID = index.lookup(h[0])
		rec.Scenario = titles[rec.ScenarioID].Title

		records = append(records, rec)
	}

	return records
}

// ScenarioTable returns every scenario that declares a title, keyed by id.
// When an id is declared more than once the last title wins.
func ScenarioTable(rawText string) map[string]domain.ScenarioGroup {
	return scenarioTable(normalize(rawText))
}

// Scenarios returns the declared scenarios in document order, one entry per id.
func Scenarios(rawText string) []domain.ScenarioGroup {
	text := normalize(rawText)
	titles := scenarioTable(text)

	seen := make(map[string]bool)
	var groups []domain.ScenarioGroup
	for _, m := range scenarioHeaderRe.FindAllStringSubmatch(text, -1) {
		id := m[1]
		if seen[id] {
			continue
		}
		seen[id] = true
		groups = append(groups, domain.ScenarioGroup{ID: id, Title: titles[id].Title})
	}
	return groups
}

func scenarioTable(text string) map[string]domain.ScenarioGroup {
	table := make(map[string]domain.ScenarioGroup)
	for _, m := range scenarioRe.FindAllStringSubmatch(text, -1) {
		table[m[1]] = domain.ScenarioGroup{ID: m[1], Title: strings.TrimSpace(m[2])}
	}
	return table
}

type scenarioMark struct {
	end int
	id  string
}

// scenarioIndex holds scenario headers sorted by the offset at which they end.
type scenarioIndex []scenarioMark

func newScenarioIndex(text string) scenarioIndex {
	var idx scenarioIndex
	for _, m := range scenarioHeaderRe.FindAllStringSubmatchIndex(text, -1) {
		idx = append(idx, scenarioMark{end: m[1], id: text[m[2]:m[3]]})
	}
	return idx
}

// lookup returns the id of the last scenario header that ends at or before
// offset, or the ungrouped sentinel.
func (idx scenarioIndex) lookup(offset int) string {
	i := sort.Search(len(idx), func(i int) bool { return idx[i].end > offset })
	if i == 0 {
		return domain.UngroupedScenarioID
	}
	return idx[i-1].id
}

// parseSteps splits a numbered list into step texts. A step runs until the
// next "<n>." marker that starts a line, or the end of the region.
func parseSteps(region string) []string {
	steps := []string{}
	pos := 0
	for pos < len(region) {
		loc := stepMarkerRe.FindStringIndex(region[pos:])
		if loc == nil {
			break
		}
		start := pos + loc[1]
		end := len(region)
		if next := stepEndRe.FindStringIndex(region[start:]); next != nil {
			end = start + next[0]
		}
		steps = append(steps, strings.TrimSpace(region[start:end]))
		pos = end
	}
	return steps
}

// referencesTerminated reports whether the references line is followed by a
// blank line, a heading, a final newline or the end of the block.
func referencesTerminated(block string, m []int) bool {
	if m[2*groupReferences] < 0 {
		return false
	}
	rest := block[m[2*groupReferences+1]:]
	return rest == "" || rest == "\n" ||
		strings.HasPrefix(rest, "\n\n") || strings.HasPrefix(rest, "\n#")
}

func capture(s string, m []int, group int) string {
	if m[2*group] < 0 {
		return ""
	}
	return strings.TrimSpace(s[m[2*group]:m[2*group+1]])
}

func optional(s string, m []int, group int) *string {
	if m[2*group] < 0 {
		return nil
	}
	v := strings.TrimSpace(s[m[2*group]:m[2*group+1]])
	return &v
}

func normalize(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
