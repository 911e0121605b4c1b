package domain

// UngroupedScenarioID is the scenario id given to test cases that appear
// before any scenario header.
const UngroupedScenarioID = "ungrouped"

// ScenarioGroup is a named scenario header found in generated text.
type ScenarioGroup struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// TestCaseRecord is one structured test case recovered from generated text.
// Optional sections are nil when the source block does not contain them.
type TestCaseRecord struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Steps          []string `json:"steps"`
	ExpectedResult string   `json:"expectedResult"`
	Preconditions  *string  `json:"preconditions,omitempty"`
	TestData       *string  `json:"testData,omitempty"`
	Priority       *string  `json:"priority,omitempty"`
	References     *string  `json:"references,omitempty"`
	PassCriteria   *string  `json:"passCriteria,omitempty"`
	FailCriteria   *string  `json:"failCriteria,omitempty"`
	ScenarioID     string   `json:"scenarioId"`
	Scenario       string   `json:"scenario"`
}

// Story is a user story as returned by the tracker backend.
type Story struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	Status      string   `json:"status"`
	Assignee    string   `json:"assignee"`
	DueDate     string   `json:"dueDate"`
	EpicLink    string   `json:"epicLink,omitempty"`
	Tags        []string `json:"tags"`
}

// Generation is the raw output of the test case generator for one story.
type Generation struct {
	StoryID    string
	Content    string
	TokenCount int
}

// Credentials identify a tracker account. They are never persisted.
type Credentials struct {
	Domain string
	Email  string
	Token  string
}

// Complete reports whether every credential field is set.
func (c Credentials) Complete() bool {
	return c.Domain != "" && c.Email != "" && c.Token != ""
}
