package models

// JiraIssue represents a JIRA issue
type JiraIssue struct {
	Fields JiraFields `json:"fields"`
}

// JiraFields represents JIRA issue fields
type JiraFields struct {
	Project     JiraProject   `json:"project"`
	Summary     string        `json:"summary"`
	Description string        `json:"description"`
	IssueType   JiraIssueType `json:"issuetype"`
	Priority    *JiraPriority `json:"priority,omitempty"`
	Labels      []string      `json:"labels,omitempty"`
	Parent      *JiraParent   `json:"parent,omitempty"`
}

// JiraProject represents a JIRA project
type JiraProject struct {
	Key string `json:"key"`
}

// JiraIssueType represents a JIRA issue type
type JiraIssueType struct {
	Name string `json:"name"`
}

// JiraPriority represents a JIRA priority
type JiraPriority struct {
	Name string `json:"name"`
}

// JiraParent represents a JIRA parent issue
type JiraParent struct {
	Key string `json:"key"`
}

// JiraResponse represents a JIRA API response
type JiraResponse struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

// JiraProjectInfo represents JIRA project information
type JiraProjectInfo struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// JiraIssueTypeName maps a task label to the JIRA issue type name
func JiraIssueTypeName(label Label) string {
	switch label {
	case LabelEpic:
		return "Epic"
	case LabelStory:
		return "Story"
	case LabelBug:
		return "Bug"
	default:
		return "Task"
	}
}

// JiraPriorityName maps a task priority to the JIRA priority name
func JiraPriorityName(priority Priority) string {
	switch priority {
	case PriorityHighest:
		return "Highest"
	case PriorityHigh:
		return "High"
	case PriorityLow:
		return "Low"
	case PriorityLowest:
		return "Lowest"
	case PriorityMedium:
		return "Medium"
	default:
		return ""
	}
}
