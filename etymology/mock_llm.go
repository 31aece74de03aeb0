package etymology

import (
	"context"
	"encoding/json"
	"strings"
)

// MockLLM 一个简单的占位实现，便于本地调试，不调用外部模型。
// 回复故意包在代码块里，走一遍真实的清洗流程。
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	term := strings.TrimSpace(strings.TrimPrefix(prompt.User, "Provide etymology for:"))
	body, err := json.Marshal(Record{
		ModernMeaning:     "Offline placeholder meaning of " + term,
		CenturyOfOrigin:   "Unknown",
		DetailedEtymology: "The mock provider does not contact a model.",
		FunFact:           "Configure llm.provider to get real answers.",
	})
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("```json\n")
	sb.Write(body)
	sb.WriteString("\n```\n")
	return sb.String(), nil
}
