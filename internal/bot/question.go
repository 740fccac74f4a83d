package bot

import (
	"context"
	"fmt"
	"log"

	"github.com/ziadkadry99/linkbase/internal/rag"
)

// handleQuestion runs the answer flow against the user's index and history.
func (r *Router) handleQuestion(ctx context.Context, mgr *rag.Manager, msg Incoming) []string {
	answer, err := mgr.Answer(ctx, msg.Text)
	if err != nil {
		log.Printf("bot: answering failed for user %s: %v", msg.UserID, err)
		r.saveUserMessage(ctx, msg)
		return []string{fmt.Sprintf("Sorry, I encountered an error: %v", err)}
	}

	r.saveUserMessage(ctx, msg)
	r.saveBotMessage(ctx, msg.UserID, answer, nil)
	return []string{answer}
}
