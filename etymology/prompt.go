package etymology

import "fmt"

// Prompt 表示发送给 LLM 的消息集合。
type Prompt struct {
	System string
	User   string
}

const systemPrompt = `You are a JSON API that provides etymology information. Respond ONLY with valid JSON.

Return etymology data in this exact structure:
{
  "modernMeaning": "current definition of the word",
  "centuryOfOrigin": "century when word originated (e.g., '9th century')",
  "detailedEtymology": "detailed history and origin of the word",
  "funFact": "interesting fact about the word"
}

CRITICAL: Return ONLY the JSON object. No explanations, no markdown, no code blocks, no other text.`

// BuildPrompt 生成查询某个词源的提示词。
func BuildPrompt(term string) Prompt {
	return Prompt{
		System: systemPrompt,
		User:   fmt.Sprintf("Provide etymology for: %s", term),
	}
}
