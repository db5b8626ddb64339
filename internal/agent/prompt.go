package agent

import (
	"fmt"
	"strings"

	"github.com/sndraw/bookroom-sub000/internal/tool"
)

// toolRetryLimit is advertised to the model as a convention. It is not
// enforced by the loop; the enforced bound is Loop.maxSteps.
const toolRetryLimit = 3

// BuildSystemPrompt assembles the system turn: the tool advertisement, the
// calling conventions and any caller-supplied prompt text.
func BuildSystemPrompt(registry *tool.Registry, custom string) string {
	var b strings.Builder
	b.WriteString("你是一个智能助手，可以根据需要调用工具来回答用户的问题。\n")

	if registry != nil && registry.Len() > 0 {
		b.WriteString("\n可用工具：\n")
		for _, t := range registry.List() {
			fmt.Fprintf(&b, "- %s：%s\n", t.Name(), t.Description())
		}
		b.WriteString("\n调用规则：\n")
		b.WriteString("1. 仅在回答需要外部信息或计算时调用工具。\n")
		fmt.Fprintf(&b, "2. 同一个工具调用失败时，最多重试 %d 次；仍然失败则换用其他工具或直接说明原因。\n", toolRetryLimit)
		b.WriteString("3. 获得足够信息后，直接给出最终回答，不要再调用工具。\n")
	}

	if custom != "" {
		b.WriteString("\n")
		b.WriteString(custom)
		b.WriteString("\n")
	}
	return b.String()
}
