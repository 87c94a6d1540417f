package agent

import (
	"fmt"
	"strings"
)

const (
	DefaultReasoningTool = "show_reasoning"
	DefaultVerifyTool    = "verify"
)

const systemPromptTemplate = `You are a math reasoning agent solving problems in iterations. You have access to various mathematical tools.

Available tools:
%[1]s

You must respond with EXACTLY ONE line in one of these formats (no additional text):
1. For function calls:
{"function_name": "function_name", "parameters": ["param1", "param2"] }

2. For final answers:
{"function_name": "FINAL_ANSWER", "parameters": [number] }

Examples:
- {"function_name": "add", "parameters": [5, 3] }
- {"function_name": "strings_to_chars_to_int", "parameters": ["INDIA"] }
- {"function_name": "FINAL_ANSWER", "parameters": [42] }
- {"function_name": "%[2]s", "parameters": ["First, I need to identify the multiples of 5 between 1 and 20. These are 5, 10, 15, and 20.", "Next, I need to add these multiples together.", "Finally, I need to find the square root of the sum."] }

Important:
- Run the %[2]s tool only once in the first iteration.
- When a function returns multiple values, you need to process all of them.
- If parameters are strings, they must be enclosed in double quotes.
- If parameters are arrays, they must be enclosed in single square brackets.
- Only give FINAL_ANSWER when you have completed all necessary calculations.
- Do not repeat function calls with the same parameters.
- Do not add parentheses to the function name.
- DO NOT include any explanations or additional text.
- Your entire response should be a JSON object.
- If user asks non-mathematical queries, you must respond with "I'm sorry, I can only help with mathematical queries."
- If user asks to verify the result, you must call the %[3]s tool with the result as the parameter.
- For the %[2]s tool, in the last step of the reasoning, tag the appropriate reasoning type in one word like arithmetic, logic, etc.
`

// SystemPrompt builds the system prompt around a rendered tool catalog.
func SystemPrompt(catalog string) string {
	return SystemPromptFor(catalog, DefaultReasoningTool, DefaultVerifyTool)
}

// SystemPromptFor is SystemPrompt with custom reasoning and verification tool names.
func SystemPromptFor(catalog, reasoningTool, verifyTool string) string {
	return fmt.Sprintf(systemPromptTemplate, catalog, reasoningTool, verifyTool)
}

// NextQuery appends the whole transcript to the previous query. The query
// grows every iteration; nothing is trimmed.
func NextQuery(prev string, transcript []string) string {
	return prev + "\n\n" + strings.Join(transcript, " ") + "  What should I do next?"
}

// ComposePrompt joins the system prompt and the current query.
func ComposePrompt(system, query string) string {
	return system + "\n\nQuery: " + query
}
