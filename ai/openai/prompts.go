package openai

import (
	"fmt"
	"strings"
)

const jsonOnlyPreamble = `Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.`

const sentimentPrompt = `Classify the overall sentiment of the given text and return it as JSON.

` + jsonOnlyPreamble + `

{
  "type": "object",
  "properties": {
    "label": {"type": "string", "enum": ["POSITIVE", "NEGATIVE"]},
    "confidence": {"type": "number", "minimum": 0, "maximum": 1}
  },
  "required": ["label", "confidence"],
  "additionalProperties": false
}

Rules:
- Choose the single label that best describes the text as a whole.
- Confidence is how certain you are of the label, from 0 to 1.

Example:
Input: "I absolutely loved the concert, the band was incredible."
Output:
{"label":"POSITIVE","confidence":0.98}

Example:
Input: "the delivery was late again and nobody answered the phone"
Output:
{"label":"NEGATIVE","confidence":0.93}`

const summaryPromptTemplate = `Summarize the main theme of the given text in a single statement and return it as JSON.

` + jsonOnlyPreamble + `

{
  "type": "object",
  "properties": {
    "summary": {"type": "string"}
  },
  "required": ["summary"],
  "additionalProperties": false
}

Rules:
- The summary must be between %d and %d words long.
- Use only information present in the text. Do not hallucinate.
- Write plain prose; no lists, no quotation of the prompt.`

const topicPromptTemplate = `Score how well the given text fits each candidate topic and return the scores as JSON.

` + jsonOnlyPreamble + `

{
  "type": "object",
  "properties": {
    "scores": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "label": {"type": "string"},
          "score": {"type": "number", "minimum": 0, "maximum": 1}
        },
        "required": ["label", "score"],
        "additionalProperties": false
      }
    }
  },
  "required": ["scores"],
  "additionalProperties": false
}

Rules:
- Candidate topics: %s.
- Return exactly one entry per candidate topic, using the candidate spelling.
- Scores across all topics should sum to 1.

Example:
Input: "The central bank raised interest rates to cool inflation."
Output:
{"scores":[{"label":"Business","score":0.81},{"label":"Politics","score":0.12},{"label":"Technology","score":0.02},{"label":"Science","score":0.02},{"label":"Arts","score":0.01},{"label":"Sports","score":0.0},{"label":"Health","score":0.01},{"label":"Education","score":0.01}]}`

func buildSummaryPrompt(minWords, maxWords int) string {
	return fmt.Sprintf(summaryPromptTemplate, minWords, maxWords)
}

func buildTopicPrompt(labels []string) string {
	return fmt.Sprintf(topicPromptTemplate, strings.Join(labels, ", "))
}
