package braindump

import (
	"fmt"
	"strings"

	"github.com/jryandunlap/brain-dump/internal/models/category"
	"github.com/jryandunlap/brain-dump/internal/models/goals"
)

const promptTemplate = `You are a smart task management AI. The user has dumped their thoughts and you need to extract tasks, categorize them, and prioritize them.

User's Categories:
%s

User's Quarterly Goals:
%s

User's Yearly Goals:
%s

User's Brain Dump:
%s

Extract individual tasks from the brain dump. For each task:
1. Identify the task clearly
2. Assign it to the most appropriate category
3. Determine urgency (high/medium/low) based on deadlines, importance, and alignment with goals
4. Estimate effort (e.g., "5m", "30m", "2h", "1d")
5. Calculate a priority score (0-100) based on:
   - Category priority (higher category priority = higher task priority)
   - Urgency
   - Alignment with quarterly/yearly goals
   - Effort (quick wins get a boost)

Return ONLY a valid JSON object with this structure:
{
  "tasks": [
    {
      "title": "Task description",
      "category": "Category Name",
      "urgency": "high|medium|low",
      "effort": "estimated time",
      "priority": 85
    }
  ]
}

If no tasks are found, return {"tasks": []}.`

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// CategoryLine renders one category as it appears in the prompt.
func CategoryLine(c *category.Category) string {
	return fmt.Sprintf("- %s (Priority #%d): %s. Goals: %s. Time: %s",
		c.Name, c.Priority, deref(c.Description), deref(c.Goals), deref(c.TimeAllocation))
}

// BuildPrompt interpolates the user's context and dump into the extraction instruction.
// Nothing is escaped or truncated.
func BuildPrompt(categories []*category.Category, g *goals.Goals, dumpText string) string {
	lines := make([]string, 0, len(categories))
	for _, c := range categories {
		lines = append(lines, CategoryLine(c))
	}
	return fmt.Sprintf(promptTemplate,
		strings.Join(lines, "\n"),
		g.QuarterText(),
		g.YearText(),
		dumpText,
	)
}
