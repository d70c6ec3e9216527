package core

import (
	"context"
	"encoding/json"
	"log"

	"github.com/stocksage/stocksage/internal/errs"
)

// TradingAgent runs one conversation: an assistant turn, a conditional
// dispatch to tool execution when the assistant requested tools, and back to
// the assistant until it answers in plain text. Each request constructs its
// own agent; conversation state is never shared or reused.
type TradingAgent struct {
	chat     ChatModel
	tools    ToolRunner
	maxTurns int

	messages []Message // append-only conversation state
}

func NewTradingAgent(chat ChatModel, tools ToolRunner, maxTurns int) *TradingAgent {
	if maxTurns <= 0 {
		maxTurns = 8
	}
	return &TradingAgent{chat: chat, tools: tools, maxTurns: maxTurns}
}

// Messages returns the conversation state accumulated so far.
func (a *TradingAgent) Messages() []Message { return a.messages }

// Run seeds the conversation with the system instruction and the user's
// question, then loops between assistant turns and tool execution. The loop
// is bounded by the turn cap and by ctx; either limit fails the request.
func (a *TradingAgent) Run(ctx context.Context, question string) (string, error) {
	a.messages = []Message{
		{Role: RoleSystem, Content: TradingSystemPrompt},
		{Role: RoleUser, Content: question},
	}

	for turn := 0; turn < a.maxTurns; turn++ {
		if err := ctx.Err(); err != nil {
			return "", errs.Wrap(err, errs.KindProvider, "conversation cancelled")
		}

		reply, err := a.chat.Complete(ctx, a.messages, a.tools.Definitions())
		if err != nil {
			return "", err
		}
		a.messages = append(a.messages, *reply)

		if len(reply.ToolCalls) == 0 {
			return reply.Content, nil
		}

		// Results are appended in the order the calls were requested.
		for _, call := range reply.ToolCalls {
			log.Printf("Agent requested tool %q", call.Function.Name)
			result, err := a.tools.Call(ctx, call.Function.Name, json.RawMessage(call.Function.Arguments))
			if err != nil {
				return "", errs.Wrap(err, errs.KindProvider, "tool %s failed", call.Function.Name)
			}
			a.messages = append(a.messages, Message{
				Role:       RoleTool,
				Content:    result,
				ToolCallID: call.ID,
				Name:       call.Function.Name,
			})
		}
	}

	return "", errs.New(errs.KindProvider, "conversation exceeded %d turns without a final answer", a.maxTurns)
}
